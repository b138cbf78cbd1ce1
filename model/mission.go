package model

import "time"

// Frame is the coordinate frame of a mission item.
type Frame int

const (
	// FrameGlobalRelativeAlt is latitude/longitude with altitude relative
	// to the home position (MAV_FRAME_GLOBAL_RELATIVE_ALT).
	FrameGlobalRelativeAlt Frame = 3
)

// Command is the MAVLink command issued at a mission item.
type Command int

const (
	CommandNavWaypoint Command = 16 // MAV_CMD_NAV_WAYPOINT
)

// MissionItem is a geodetic waypoint as consumed by the flight controller.
type MissionItem struct {
	Seq          int     `json:"seq" msgpack:"seq"`
	Frame        Frame   `json:"frame" msgpack:"frame"`
	Command      Command `json:"command" msgpack:"command"`
	Current      bool    `json:"current" msgpack:"current"`
	Autocontinue bool    `json:"autocontinue" msgpack:"autocontinue"`
	Latitude     float64 `json:"latitude" msgpack:"lat"`
	Longitude    float64 `json:"longitude" msgpack:"lon"`
	Altitude     float64 `json:"altitude" msgpack:"alt"`
	HoldTime     float64 `json:"hold_time" msgpack:"hold"`
}

// Plan is a generated flight plan for one vehicle.
type Plan struct {
	ID          string        `json:"id" msgpack:"id"`
	VehicleID   string        `json:"vehicle_id" msgpack:"vehicle_id"`
	Pattern     PatternKind   `json:"pattern" msgpack:"pattern"`
	Reference   GeoPoint      `json:"reference" msgpack:"reference"`
	LocalOrigin Point         `json:"local_origin" msgpack:"local_origin"`
	Waypoints   []Waypoint    `json:"waypoints" msgpack:"waypoints"`
	Items       []MissionItem `json:"items" msgpack:"items"`
	CreatedAt   time.Time     `json:"created_at" msgpack:"created_at"`
}
