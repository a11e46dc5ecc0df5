// Package stewart computes the passive joint orientations of a six-legged Stewart-platform head
// mount from its actuator angles and platform pose.
//
// The motion controller commands the six servos and the platform pose but never derives the
// ball joints between them. Renderers and telemetry need those too, so Solve fills them in:
// for each leg it finds the rod direction that connects the servo arm tip to the platform
// anchor and expresses it as three Euler angles, then does the same for the head connector.
// Solving is a pure function of its inputs and a fixed Geometry.
package stewart

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/multierr"

	"go.viam.com/stewart/logging"
	"go.viam.com/stewart/spatialmath"
)

// rotationTolerance is how far a calibration rotation may drift from orthonormal before it is
// reported. The head connector is only specified to four decimal places.
const rotationTolerance = 1e-3

// Solver solves passive joint angles for one mechanism. It is immutable after construction and
// safe for concurrent use.
type Solver struct {
	legs           [NumLegs]legParams
	headConnector  mgl64.Mat3
	headCorrection mgl64.Mat3
	headZOffset    float64
	armLength      float64
}

// NewSolver validates g and precomputes everything about it that does not depend on the inputs.
func NewSolver(g Geometry, logger logging.Logger) (*Solver, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		headConnector:  g.HeadConnector.Rotation,
		headCorrection: g.Correction(headConnector).RotationMatrix(),
		headZOffset:    g.HeadZOffset,
		armLength:      g.ArmLength,
	}
	for i := range s.legs {
		leg := g.Leg(i)
		if !spatialmath.IsRotation(leg.WorldFromMotor.Rotation, rotationTolerance) {
			logger.Warnw("motor transform rotation is not orthonormal", "leg", i+1)
		}
		dir := g.RestRodDirection(i)
		if norm := dir.Norm(); math.Abs(norm-1) > rotationTolerance {
			logger.Warnw("rest rod direction is not unit length; normalizing", "leg", i+1, "norm", norm)
		}
		s.legs[i] = legParams{
			LegGeometry: leg,
			correction:  g.Correction(i).RotationMatrix(),
			restDir:     dir.Normalize(),
		}
	}
	if !spatialmath.IsRotation(s.headConnector, rotationTolerance) {
		logger.Warn("head connector rotation is not orthonormal")
	}
	logger.Debugw("stewart solver ready", "legs", NumLegs, "arm_length", g.ArmLength, "head_z_offset", g.HeadZOffset)
	return s, nil
}

// Solve returns the passive joint angles for joints, [body yaw, leg 1, ..., leg 6] in radians,
// and pose, the platform's 4x4 homogeneous transform flattened row-major with translation in
// meters. Extra trailing values are ignored.
//
// On error the returned angles are all zero. The error tells a caller apart from a computed
// zero pose: ErrInsufficientJoints or ErrInsufficientPose for short inputs, ErrNonFiniteInput for
// NaN or infinite values, and ErrUnreachableConfiguration when a leg has no usable rod direction.
func (s *Solver) Solve(joints, pose []float64) (PassiveAngles, error) {
	var out PassiveAngles
	if err := validateInputs(joints, pose); err != nil {
		return out, err
	}

	raw, err := spatialmath.NewTransformFromRowMajor(pose)
	if err != nil {
		return out, err
	}
	platform := NormalizePose(raw, joints[0], s.headZOffset)

	var carry headCarry
	for i := range s.legs {
		angles, c, err := solveLeg(i, joints[i+1], platform, &s.legs[i], s.armLength, i == carryLeg)
		if err != nil {
			return PassiveAngles{}, err
		}
		if c.ok {
			carry = c
		}
		out.setJoint(i, angles)
	}

	head, err := solveHeadConnector(platform, s.headConnector, s.headCorrection, carry)
	if err != nil {
		return PassiveAngles{}, err
	}
	out.setJoint(headConnector, head)
	return out, nil
}

func validateInputs(joints, pose []float64) error {
	var err error
	if len(joints) < NumHeadJoints {
		err = multierr.Append(err, newInsufficientJointsError(len(joints)))
	}
	if len(pose) < spatialmath.TransformLen {
		err = multierr.Append(err, newInsufficientPoseError(len(pose)))
	}
	if err != nil {
		return err
	}
	for i, v := range joints[:NumHeadJoints] {
		if !finite(v) {
			err = multierr.Append(err, newNonFiniteInputError("joints", i, v))
		}
	}
	for i, v := range pose[:spatialmath.TransformLen] {
		if !finite(v) {
			err = multierr.Append(err, newNonFiniteInputError("pose", i, v))
		}
	}
	return err
}

var defaultSolver = func() *Solver {
	s, err := NewSolver(reachyMini, logging.NewNopLogger())
	if err != nil {
		panic(err)
	}
	return s
}()

// DefaultSolver returns the solver for the Reachy Mini geometry.
func DefaultSolver() *Solver {
	return defaultSolver
}

// Solve solves with the Reachy Mini geometry. See (*Solver).Solve.
func Solve(joints, pose []float64) (PassiveAngles, error) {
	return defaultSolver.Solve(joints, pose)
}

// CalculatePassiveJoints always returns NumPassiveAngles values, all zero when the inputs
// cannot be solved. Prefer Solve, whose error distinguishes that case from a zero pose.
func CalculatePassiveJoints(joints, pose []float64) []float64 {
	out, err := Solve(joints, pose)
	if err != nil {
		var zero PassiveAngles
		return zero.Slice()
	}
	return out.Slice()
}
