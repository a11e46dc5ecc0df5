package stewart

import (
	"go.viam.com/stewart/spatialmath"
)

// NormalizePose raises the raw platform pose by heightOffset and removes the body's own yaw,
// returning the pose in the de-yawed body frame the leg geometry is expressed in.
func NormalizePose(raw spatialmath.Transform, bodyYaw, heightOffset float64) spatialmath.Transform {
	raw.Translation.Z += heightOffset
	return raw.PremultiplyRotation(spatialmath.RotateZ(-bodyYaw))
}
