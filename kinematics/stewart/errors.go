package stewart

import (
	"github.com/pkg/errors"
)

var (
	// ErrInsufficientJoints is returned when fewer than NumHeadJoints joint values are given.
	ErrInsufficientJoints = errors.New("insufficient head joint values")
	// ErrInsufficientPose is returned when fewer than 16 pose values are given.
	ErrInsufficientPose = errors.New("insufficient head pose values")
	// ErrNonFiniteInput is returned when an input value is NaN or infinite.
	ErrNonFiniteInput = errors.New("non-finite input value")
	// ErrUnreachableConfiguration is returned when a leg's rod has no usable direction: its servo
	// arm tip coincides with its platform anchor, or the pose puts the anchor too far away to measure.
	ErrUnreachableConfiguration = errors.New("unreachable configuration")
)

func newInsufficientJointsError(got int) error {
	return errors.Wrapf(ErrInsufficientJoints, "need %d, got %d", NumHeadJoints, got)
}

func newInsufficientPoseError(got int) error {
	return errors.Wrapf(ErrInsufficientPose, "need 16, got %d", got)
}

func newNonFiniteInputError(input string, index int, val float64) error {
	return errors.Wrapf(ErrNonFiniteInput, "%s[%d] is %v", input, index, val)
}

func newUnreachableConfigurationError(leg int) error {
	return errors.Wrapf(ErrUnreachableConfiguration, "leg %d servo arm tip is at its platform anchor", leg+1)
}

func newRodOverflowError(leg int) error {
	return errors.Wrapf(ErrUnreachableConfiguration, "leg %d rod length overflows", leg+1)
}
