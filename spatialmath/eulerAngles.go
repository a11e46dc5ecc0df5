package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
)

// gimbalLockThreshold is the |sin(pitch)| above which the roll and yaw axes are treated as aligned.
const gimbalLockThreshold = 0.99999

// EulerAngles are three rotations in radians about the x (Roll), y (Pitch) and z (Yaw) axes.
// How they compose into a single rotation depends on which constructor or accessor is used.
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// NewEulerAngles creates an EulerAngles struct representing no rotation.
func NewEulerAngles() EulerAngles {
	return EulerAngles{}
}

// RotationMatrix returns Rz(Yaw)·Ry(Pitch)·Rx(Roll): successive rotations about the body's own
// x, then y, then z axes.
func (ea EulerAngles) RotationMatrix() mgl64.Mat3 {
	sx, cx := math.Sincos(ea.Roll)
	sy, cy := math.Sincos(ea.Pitch)
	sz, cz := math.Sincos(ea.Yaw)
	return mgl64.Mat3FromRows(
		mgl64.Vec3{cy * cz, cz*sx*sy - cx*sz, cx*cz*sy + sx*sz},
		mgl64.Vec3{cy * sz, cx*cz + sx*sy*sz, cx*sy*sz - cz*sx},
		mgl64.Vec3{-sy, cy * sx, cx * cy},
	)
}

// IntrinsicRotationMatrix returns Rx(Roll)·Ry(Pitch)·Rz(Yaw). This is the composition that
// NewEulerAnglesFromRotationMatrix decomposes, so the two round-trip away from gimbal lock.
func (ea EulerAngles) IntrinsicRotationMatrix() mgl64.Mat3 {
	return mgl64.Rotate3DX(ea.Roll).Mul3(mgl64.Rotate3DY(ea.Pitch)).Mul3(mgl64.Rotate3DZ(ea.Yaw))
}

// Quaternion returns the orientation of IntrinsicRotationMatrix as a unit quaternion.
func (ea EulerAngles) Quaternion() quat.Number {
	return QuaternionFromRotationMatrix(ea.IntrinsicRotationMatrix())
}

// NewEulerAnglesFromRotationMatrix decomposes R as Rx·Ry·Rz, reading sin(pitch) from R[0][2].
// At gimbal lock (|sin(pitch)| >= 0.99999) the decomposition is not unique: pitch is pinned to
// ±π/2, the combined rotation is reported in Roll and Yaw is always 0.
func NewEulerAnglesFromRotationMatrix(r mgl64.Mat3) EulerAngles {
	sy := r.At(0, 2)
	if math.Abs(sy) < gimbalLockThreshold {
		return EulerAngles{
			Roll:  math.Atan2(-r.At(1, 2), r.At(2, 2)),
			Pitch: math.Asin(sy),
			Yaw:   math.Atan2(-r.At(0, 1), r.At(0, 0)),
		}
	}
	pitch := -math.Pi / 2
	if sy > 0 {
		pitch = math.Pi / 2
	}
	return EulerAngles{
		Roll:  math.Atan2(r.At(2, 1), r.At(1, 1)),
		Pitch: pitch,
		Yaw:   0,
	}
}

// IsFinite reports whether no component is NaN or infinite.
func (ea EulerAngles) IsFinite() bool {
	return isFinite(ea.Roll) && isFinite(ea.Pitch) && isFinite(ea.Yaw)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
