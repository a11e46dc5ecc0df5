package stewart

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"go.viam.com/stewart/spatialmath"
)

var errMissingCarry = errors.New("head connector solved before the last leg")

// solveHeadConnector returns the head connector's passive joint angles: the rotation from the
// last rod's current orientation to the orientation the head connector must have.
func solveHeadConnector(
	pose spatialmath.Transform,
	headConnector mgl64.Mat3,
	correction mgl64.Mat3,
	carry headCarry,
) (spatialmath.EulerAngles, error) {
	if !carry.ok {
		return spatialmath.EulerAngles{}, errMissingCarry
	}
	desired := pose.Rotation.Mul3(headConnector)
	current := carry.servo.Mul3(carry.alignment).Mul3(correction)
	return spatialmath.NewEulerAnglesFromRotationMatrix(current.Transpose().Mul3(desired)), nil
}
