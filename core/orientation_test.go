package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/search-planner/model"
)

func TestEulerToQuaternion(t *testing.T) {
	s := math.Sqrt2 / 2
	tests := []struct {
		name             string
		roll, pitch, yaw float64
		want             model.Quaternion
	}{
		{"identity", 0, 0, 0, model.Quaternion{W: 1}},
		{"yaw 90", 0, 0, math.Pi / 2, model.Quaternion{Z: s, W: s}},
		{"roll 90", math.Pi / 2, 0, 0, model.Quaternion{X: s, W: s}},
		{"pitch 90", 0, math.Pi / 2, 0, model.Quaternion{Y: s, W: s}},
		{"yaw 180", 0, 0, math.Pi, model.Quaternion{Z: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EulerToQuaternion(tc.roll, tc.pitch, tc.yaw)
			if math.Abs(got.X-tc.want.X) > 1e-12 || math.Abs(got.Y-tc.want.Y) > 1e-12 ||
				math.Abs(got.Z-tc.want.Z) > 1e-12 || math.Abs(got.W-tc.want.W) > 1e-12 {
				t.Errorf("EulerToQuaternion = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestEulerToQuaternion_UnitNorm(t *testing.T) {
	for _, a := range []float64{-2.5, -0.3, 0.7, 1.9, 3} {
		q := EulerToQuaternion(a, a/2, -a)
		n := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
		if math.Abs(n-1) > 1e-12 {
			t.Errorf("norm² for %v = %v, want 1", a, n)
		}
	}
	if EulerToQuaternion(0, 0, 0) != IdentityQuaternion() {
		t.Errorf("zero angles should give the identity quaternion")
	}
}
