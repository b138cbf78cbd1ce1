package core

import (
	"math"

	"github.com/signalsfoundry/search-planner/model"
)

// IdentityQuaternion is the zero rotation.
func IdentityQuaternion() model.Quaternion {
	return model.Quaternion{W: 1}
}

// EulerToQuaternion converts roll, pitch and yaw (radians, ZYX Tait-Bryan)
// into a unit quaternion.
func EulerToQuaternion(roll, pitch, yaw float64) model.Quaternion {
	sr, cr := math.Sincos(roll / 2)
	sp, cp := math.Sincos(pitch / 2)
	sy, cy := math.Sincos(yaw / 2)

	return model.Quaternion{
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
		W: cr*cp*cy + sr*sp*sy,
	}
}
