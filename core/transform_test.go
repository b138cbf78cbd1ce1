package core

import (
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/search-planner/model"
)

func TestGeodeticToLocal_ReferenceMapsToOrigin(t *testing.T) {
	origin := model.Point{X: 12, Y: -7}
	ref := model.GeoPoint{Latitude: 45.5, Longitude: -122.6, Altitude: 30}

	got := GeodeticToLocal(origin, ref, ref)
	if got.X != origin.X || got.Y != origin.Y {
		t.Fatalf("reference projected to (%v, %v), want (%v, %v)", got.X, got.Y, origin.X, origin.Y)
	}
	if got.Z != 30 {
		t.Fatalf("Z = %v, want target altitude 30", got.Z)
	}
}

func TestGeodeticToLocal_Scale(t *testing.T) {
	ref := model.GeoPoint{Latitude: 60, Longitude: 10}

	north := GeodeticToLocal(model.Point{}, ref, model.GeoPoint{Latitude: 61, Longitude: 10})
	if math.Abs(north.Y-EarthCircumferenceM/360) > 1e-6 {
		t.Errorf("one degree north = %v m, want %v", north.Y, EarthCircumferenceM/360)
	}

	// At 60° a degree of longitude is half a degree of latitude.
	east := GeodeticToLocal(model.Point{}, ref, model.GeoPoint{Latitude: 60, Longitude: 11})
	if math.Abs(east.X-EarthCircumferenceM/720) > 1e-6 {
		t.Errorf("one degree east = %v m, want %v", east.X, EarthCircumferenceM/720)
	}
}

func TestLocalToGeodetic_RoundTrip(t *testing.T) {
	origin := model.Point{X: 3, Y: 4}
	for _, lat := range []float64{-79.9, -45, -10, 0, 0.5, 33.3, 60, 79.9} {
		ref := model.GeoPoint{Latitude: lat, Longitude: 151.2}
		for _, d := range []struct{ dLat, dLon float64 }{
			{0, 0}, {0.01, 0.01}, {-0.02, 0.005}, {0.003, -0.03},
		} {
			target := model.GeoPoint{Latitude: lat + d.dLat, Longitude: 151.2 + d.dLon, Altitude: 15}
			local := GeodeticToLocal(origin, ref, target)
			back, err := LocalToGeodetic(origin, ref, local)
			if err != nil {
				t.Fatalf("LocalToGeodetic(lat=%v): %v", lat, err)
			}
			if math.Abs(back.Latitude-target.Latitude) > 1e-6 || math.Abs(back.Longitude-target.Longitude) > 1e-6 {
				t.Errorf("round trip at lat %v: got (%v, %v), want (%v, %v)",
					lat, back.Latitude, back.Longitude, target.Latitude, target.Longitude)
			}
			if back.Altitude != 15 {
				t.Errorf("altitude = %v, want 15", back.Altitude)
			}
		}
	}
}

func TestLocalToGeodetic_PoleIsDegenerate(t *testing.T) {
	_, err := LocalToGeodetic(model.Point{}, model.GeoPoint{Latitude: 90}, model.Point{X: 10})
	if !errors.Is(err, ErrNumericDegenerate) {
		t.Fatalf("err = %v, want ErrNumericDegenerate", err)
	}
}

func TestBoundaryToLocal_PreservesOrder(t *testing.T) {
	ref := model.GeoPoint{Latitude: 10, Longitude: 20}
	boundary := model.Boundary{
		{Latitude: 10, Longitude: 20},
		{Latitude: 10.001, Longitude: 20},
		{Latitude: 10.001, Longitude: 20.001},
	}
	got := BoundaryToLocal(model.Point{}, ref, boundary)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].X != 0 || got[0].Y != 0 {
		t.Errorf("first vertex = %+v, want origin", got[0])
	}
	if !(got[1].Y > 0 && got[2].X > 0) {
		t.Errorf("unexpected vertex placement: %+v", got)
	}
}
