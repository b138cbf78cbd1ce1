package planner

import (
	"fmt"

	"github.com/signalsfoundry/search-planner/core"
	"github.com/signalsfoundry/search-planner/model"
)

// ToMissionItems converts local waypoints into sequenced geodetic mission
// items. The first item is marked current and every item holds for
// holdTime seconds. Items do not auto-continue: the autopilot waits for
// the ground station to advance each one. Altitude stays relative to home.
func ToMissionItems(localOrigin model.Point, reference model.GeoPoint, waypoints []model.Waypoint, holdTime float64) ([]model.MissionItem, error) {
	items := make([]model.MissionItem, 0, len(waypoints))
	for i, wp := range waypoints {
		geo, err := core.LocalToGeodetic(localOrigin, reference, wp.Position)
		if err != nil {
			return nil, fmt.Errorf("mission item %d: %w", i, err)
		}
		items = append(items, model.MissionItem{
			Seq:          i,
			Frame:        model.FrameGlobalRelativeAlt,
			Command:      model.CommandNavWaypoint,
			Current:      i == 0,
			Autocontinue: false,
			Latitude:     geo.Latitude,
			Longitude:    geo.Longitude,
			Altitude:     wp.Position.Z,
			HoldTime:     holdTime,
		})
	}
	return items, nil
}

// withOrientation attaches a uniform heading to spiral points.
func withOrientation(points []model.Point, q model.Quaternion) []model.Waypoint {
	if q == (model.Quaternion{}) {
		q = core.IdentityQuaternion()
	}
	wps := make([]model.Waypoint, len(points))
	for i, p := range points {
		wps[i] = model.Waypoint{Position: p, Orientation: q}
	}
	return wps
}
