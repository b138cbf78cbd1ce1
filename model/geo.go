package model

// Point is a position in local planar metres about a reference point.
// Z is altitude.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// GeoPoint is a geodetic position in decimal degrees, altitude in metres.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" msgpack:"lat"`
	Longitude float64 `json:"longitude" msgpack:"lon"`
	Altitude  float64 `json:"altitude" msgpack:"alt"`
}

// Quaternion is a unit orientation quaternion.
type Quaternion struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
	W float64 `json:"w" msgpack:"w"`
}

// Waypoint is a commanded local position with a heading. The order of a
// waypoint slice is the flight order.
type Waypoint struct {
	Position    Point      `json:"position" msgpack:"position"`
	Orientation Quaternion `json:"orientation" msgpack:"orientation"`
}

// Boundary is an ordered polygon of geodetic vertices. The closing edge from
// the last vertex back to the first is implicit.
type Boundary []GeoPoint
