package stewart

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/stewart/spatialmath"
)

// minRodLength is the servo-to-anchor distance below which a rod has no usable direction.
const minRodLength = 1e-12

// headCarry is what the head-connector solve needs from the last leg.
type headCarry struct {
	// servo is the corrected servo orientation in the world frame.
	servo mgl64.Mat3
	// alignment rotates the rest rod direction onto the actual rod direction.
	alignment mgl64.Mat3
	ok        bool
}

// legParams is one leg's share of a Solver's precomputed geometry.
type legParams struct {
	LegGeometry
	correction mgl64.Mat3
	restDir    r3.Vector
}

// solveLeg returns the passive joint angles of one leg, given its servo angle and the
// normalized platform pose. The carry is only populated when carry is requested.
func solveLeg(
	index int,
	servoAngle float64,
	pose spatialmath.Transform,
	leg *legParams,
	armLength float64,
	carry bool,
) (spatialmath.EulerAngles, headCarry, error) {
	branch := pose.TransformPoint(leg.Branch)

	servoRot := spatialmath.RotateZ(servoAngle)
	tip := leg.WorldFromMotor.TransformPoint(spatialmath.RotateVector(servoRot, r3.Vector{X: armLength}))

	servo := leg.WorldFromMotor.Rotation.Mul3(servoRot).Mul3(leg.correction)

	// servo tip to platform anchor, in the corrected servo frame
	rod := spatialmath.RotateVector(servo.Transpose(), branch.Sub(tip))
	length := rod.Norm()
	if length < minRodLength {
		return spatialmath.EulerAngles{}, headCarry{}, newUnreachableConfigurationError(index)
	}
	if math.IsInf(length, 0) {
		return spatialmath.EulerAngles{}, headCarry{}, newRodOverflowError(index)
	}

	alignment, err := spatialmath.AlignVectors(leg.restDir, rod.Mul(1/length))
	if err != nil {
		return spatialmath.EulerAngles{}, headCarry{}, errors.Wrapf(err, "leg %d", index+1)
	}

	angles := spatialmath.NewEulerAnglesFromRotationMatrix(alignment)
	if !carry {
		return angles, headCarry{}, nil
	}
	return angles, headCarry{servo: servo, alignment: alignment, ok: true}, nil
}
