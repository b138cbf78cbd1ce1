package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/search-planner/model"
)

// The conversions below use an equirectangular (flat-earth) projection
// tangent at the reference point. Error grows with distance from the
// reference and becomes noticeable past a few kilometres; plans covering a
// larger extent should pick a reference near their centre.

// EarthCircumferenceM is the meridional circumference used by the
// projection, in metres.
const EarthCircumferenceM = 40008000.0

const metresPerDegree = EarthCircumferenceM / 360

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// GeodeticToLocal projects target into the local frame in which the
// reference position sits at localOrigin. The returned Z is the target's
// altitude.
func GeodeticToLocal(localOrigin model.Point, reference, target model.GeoPoint) model.Point {
	return model.Point{
		X: localOrigin.X - (reference.Longitude-target.Longitude)*metresPerDegree*math.Cos(radians(reference.Latitude)),
		Y: localOrigin.Y - (reference.Latitude-target.Latitude)*metresPerDegree,
		Z: target.Altitude,
	}
}

// LocalToGeodetic is the inverse of GeodeticToLocal. It fails at the poles,
// where a longitude offset has no finite value.
func LocalToGeodetic(localOrigin model.Point, reference model.GeoPoint, local model.Point) (model.GeoPoint, error) {
	scale := math.Cos(radians(reference.Latitude))
	if math.Abs(scale) < 1e-12 {
		return model.GeoPoint{}, fmt.Errorf("reference latitude %.6f: %w", reference.Latitude, ErrNumericDegenerate)
	}
	return model.GeoPoint{
		Latitude:  reference.Latitude - (localOrigin.Y-local.Y)/metresPerDegree,
		Longitude: reference.Longitude - (localOrigin.X-local.X)/(metresPerDegree*scale),
		Altitude:  local.Z,
	}, nil
}

// BoundaryToLocal projects every boundary vertex into the local frame,
// preserving vertex order.
func BoundaryToLocal(localOrigin model.Point, reference model.GeoPoint, boundary model.Boundary) []model.Point {
	out := make([]model.Point, 0, len(boundary))
	for _, v := range boundary {
		out = append(out, GeodeticToLocal(localOrigin, reference, v))
	}
	return out
}
