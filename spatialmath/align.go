package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

const (
	parallelThreshold = 0.99999
	// below this, the x axis is too close to the flipped vector to define a perpendicular.
	minPerpendicularNorm = 0.001
)

// ErrZeroLengthVector is returned when a direction is requested from a vector with no length.
var ErrZeroLengthVector = errors.New("cannot compute a direction from a zero-length vector")

// AlignVectors returns the smallest rotation taking the direction of from onto the direction of to.
// Both inputs are normalized first. For near-opposite inputs the rotation is a half turn about
// x × from, or y × from when from lies along x; the roll about the flip axis is otherwise arbitrary.
func AlignVectors(from, to r3.Vector) (mgl64.Mat3, error) {
	if from.Norm2() == 0 || to.Norm2() == 0 {
		return mgl64.Ident3(), ErrZeroLengthVector
	}
	from = from.Normalize()
	to = to.Normalize()

	dot := from.Dot(to)
	if dot > parallelThreshold {
		return mgl64.Ident3(), nil
	}
	if dot < -parallelThreshold {
		perp := r3.Vector{X: 1}.Cross(from)
		if perp.Norm() < minPerpendicularNorm {
			perp = r3.Vector{Y: 1}.Cross(from)
		}
		k := Skew(perp.Normalize())
		return mgl64.Ident3().Add(k.Mul3(k).Mul(2)), nil
	}

	// Rodrigues: I + K + K²(1-cosθ)/sin²θ, with K the cross-product matrix of from × to.
	cross := from.Cross(to)
	s := cross.Norm()
	k := Skew(cross)
	return mgl64.Ident3().Add(k).Add(k.Mul3(k).Mul((1 - dot) / (s * s))), nil
}
