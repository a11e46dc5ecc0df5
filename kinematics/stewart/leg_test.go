package stewart

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/stewart/spatialmath"
)

func TestNormalizePose(t *testing.T) {
	raw := spatialmath.NewIdentityTransform()
	raw.Translation = r3.Vector{X: 0.01, Y: 0, Z: 0.02}

	pose := NormalizePose(raw, 0, 0.177)
	test.That(t, pose.Translation.Z, test.ShouldAlmostEqual, 0.197)
	test.That(t, pose.Rotation, test.ShouldResemble, raw.Rotation)

	pose = NormalizePose(raw, math.Pi/2, 0.177)
	// the body yaw is removed, so a +x offset ends up along -y
	test.That(t, pose.Translation.X, test.ShouldAlmostEqual, 0)
	test.That(t, pose.Translation.Y, test.ShouldAlmostEqual, -0.01)
	test.That(t, pose.Translation.Z, test.ShouldAlmostEqual, 0.197)
	yaw := spatialmath.NewEulerAnglesFromRotationMatrix(pose.Rotation)
	test.That(t, yaw.Yaw, test.ShouldAlmostEqual, -math.Pi/2)

	// raw is passed by value
	test.That(t, raw.Translation.Z, test.ShouldEqual, 0.02)
}

func TestSolveLegCarry(t *testing.T) {
	s := DefaultSolver()
	pose := NormalizePose(spatialmath.NewIdentityTransform(), 0, s.headZOffset)

	for i := range s.legs {
		angles, carry, err := solveLeg(i, 0.2, pose, &s.legs[i], s.armLength, i == carryLeg)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, angles.IsFinite(), test.ShouldBeTrue)
		if i != carryLeg {
			test.That(t, carry.ok, test.ShouldBeFalse)
			continue
		}
		test.That(t, carry.ok, test.ShouldBeTrue)
		test.That(t, spatialmath.IsRotation(carry.servo, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.IsRotation(carry.alignment, 1e-9), test.ShouldBeTrue)
	}
}

func TestSolveLegPointsRodAtAnchor(t *testing.T) {
	s := DefaultSolver()
	pose := NormalizePose(spatialmath.NewIdentityTransform(), 0.1, s.headZOffset)

	for i := range s.legs {
		leg := &s.legs[i]
		_, carry, err := solveLeg(i, -0.3, pose, leg, s.armLength, true)
		test.That(t, err, test.ShouldBeNil)

		// the aligned rest direction, taken back to the world frame, points from arm tip to anchor
		servoRot := spatialmath.RotateZ(-0.3)
		tip := leg.WorldFromMotor.TransformPoint(spatialmath.RotateVector(servoRot, r3.Vector{X: s.armLength}))
		want := pose.TransformPoint(leg.Branch).Sub(tip).Normalize()
		got := spatialmath.RotateVector(carry.servo.Mul3(carry.alignment), leg.restDir)
		test.That(t, got.X, test.ShouldAlmostEqual, want.X, 1e-9)
		test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, 1e-9)
		test.That(t, got.Z, test.ShouldAlmostEqual, want.Z, 1e-9)
	}
}

func TestSolveHeadConnectorNeedsCarry(t *testing.T) {
	s := DefaultSolver()
	pose := spatialmath.NewIdentityTransform()
	_, err := solveHeadConnector(pose, s.headConnector, s.headCorrection, headCarry{})
	test.That(t, errors.Is(err, errMissingCarry), test.ShouldBeTrue)
}

func TestSolveHeadConnectorIdentity(t *testing.T) {
	s := DefaultSolver()
	pose := spatialmath.NewIdentityTransform()
	connector := spatialmath.EulerAngles{Roll: 0.3, Pitch: -0.2, Yaw: 1.1}.RotationMatrix()
	// when the current rod orientation already matches the target, no rotation is left
	carry := headCarry{
		servo:     connector.Mul3(s.headCorrection.Transpose()),
		alignment: spatialmath.RotateZ(0),
		ok:        true,
	}
	angles, err := solveHeadConnector(pose, connector, s.headCorrection, carry)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, angles.Roll, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, angles.Pitch, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, angles.Yaw, test.ShouldAlmostEqual, 0, 1e-9)
}
