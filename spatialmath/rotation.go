// Package spatialmath holds the rotation, transform and vector-alignment math used by the solver.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotateZ returns the rotation by theta radians about the z axis.
func RotateZ(theta float64) mgl64.Mat3 {
	return mgl64.Rotate3DZ(theta)
}

// RotateVector applies the rotation r to v.
func RotateVector(r mgl64.Mat3, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: r[0]*v.X + r[3]*v.Y + r[6]*v.Z,
		Y: r[1]*v.X + r[4]*v.Y + r[7]*v.Z,
		Z: r[2]*v.X + r[5]*v.Y + r[8]*v.Z,
	}
}

// Skew returns the cross-product matrix K of v, such that K·w = v × w.
func Skew(v r3.Vector) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v.Z, v.Y},
		mgl64.Vec3{v.Z, 0, -v.X},
		mgl64.Vec3{-v.Y, v.X, 0},
	)
}

// IsRotation reports whether r is orthonormal with determinant +1, within tol.
func IsRotation(r mgl64.Mat3, tol float64) bool {
	// absolute comparison; mgl64's ApproxEqual is relative and fails on identity's zeros
	gram := r.Transpose().Mul3(r)
	ident := mgl64.Ident3()
	for i := range gram {
		if math.Abs(gram[i]-ident[i]) > tol {
			return false
		}
	}
	return math.Abs(r.Det()-1) <= tol
}

// QuaternionFromRotationMatrix converts a rotation matrix to a unit quaternion with a
// non-negative real part.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/matrixToQuaternion/
func QuaternionFromRotationMatrix(r mgl64.Mat3) quat.Number {
	m00, m01, m02 := r.At(0, 0), r.At(0, 1), r.At(0, 2)
	m10, m11, m12 := r.At(1, 0), r.At(1, 1), r.At(1, 2)
	m20, m21, m22 := r.At(2, 0), r.At(2, 1), r.At(2, 2)

	var q quat.Number
	switch tr := m00 + m11 + m22; {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{Real: 0.25 * s, Imag: (m21 - m12) / s, Jmag: (m02 - m20) / s, Kmag: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return quat.Scale(1/quat.Abs(q), q)
}
