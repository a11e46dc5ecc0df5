package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// TransformLen is the number of values in a row-major 4x4 homogeneous transform.
const TransformLen = 16

// Transform is a rigid-body transform: a rotation followed by a translation.
// The zero value is not a valid transform; use NewIdentityTransform.
type Transform struct {
	Rotation    mgl64.Mat3
	Translation r3.Vector
}

// NewIdentityTransform returns the transform that changes nothing.
func NewIdentityTransform() Transform {
	return Transform{Rotation: mgl64.Ident3()}
}

// NewTransformFromRows builds a transform from the top three rows of a homogeneous matrix.
// The bottom row is ignored.
func NewTransformFromRows(rows [4][4]float64) Transform {
	return Transform{
		Rotation: mgl64.Mat3FromRows(
			mgl64.Vec3{rows[0][0], rows[0][1], rows[0][2]},
			mgl64.Vec3{rows[1][0], rows[1][1], rows[1][2]},
			mgl64.Vec3{rows[2][0], rows[2][1], rows[2][2]},
		),
		Translation: r3.Vector{X: rows[0][3], Y: rows[1][3], Z: rows[2][3]},
	}
}

// NewTransformFromRowMajor builds a transform from the first 16 values of a row-major 4x4
// homogeneous matrix.
func NewTransformFromRowMajor(vals []float64) (Transform, error) {
	if len(vals) < TransformLen {
		return Transform{}, errors.Errorf("need %d values for a 4x4 transform, got %d", TransformLen, len(vals))
	}
	var rows [4][4]float64
	for i := range rows {
		copy(rows[i][:], vals[i*4:i*4+4])
	}
	return NewTransformFromRows(rows), nil
}

// TransformPoint maps p from the transform's local frame into its parent frame.
func (t Transform) TransformPoint(p r3.Vector) r3.Vector {
	return RotateVector(t.Rotation, p).Add(t.Translation)
}

// PremultiplyRotation returns r·t, rotating both the orientation and the translation of t.
func (t Transform) PremultiplyRotation(r mgl64.Mat3) Transform {
	return Transform{
		Rotation:    r.Mul3(t.Rotation),
		Translation: RotateVector(r, t.Translation),
	}
}

// RowMajor flattens the transform into a row-major homogeneous matrix.
func (t Transform) RowMajor() [TransformLen]float64 {
	r := t.Rotation
	p := t.Translation
	return [TransformLen]float64{
		r.At(0, 0), r.At(0, 1), r.At(0, 2), p.X,
		r.At(1, 0), r.At(1, 1), r.At(1, 2), p.Y,
		r.At(2, 0), r.At(2, 1), r.At(2, 2), p.Z,
		0, 0, 0, 1,
	}
}
