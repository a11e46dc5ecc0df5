package stewart

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/stewart/spatialmath"
)

const (
	// NumLegs is the number of actuated legs.
	NumLegs = 6
	// NumPassiveJoints is the number of ball joints: one per leg plus the head connector.
	NumPassiveJoints = NumLegs + 1
	// NumHeadJoints is the length of a joint vector: body yaw followed by one angle per leg.
	NumHeadJoints = NumLegs + 1
	// headConnector is the index of the head connector among the passive joints.
	headConnector = NumLegs
	// carryLeg is the leg whose orientation feeds the head-connector solve.
	carryLeg = NumLegs - 1
)

// LegGeometry locates one actuated leg.
type LegGeometry struct {
	// Branch is where the leg's rod attaches to the platform, in the platform frame.
	Branch r3.Vector
	// WorldFromMotor maps the motor's frame into the world frame.
	WorldFromMotor spatialmath.Transform
}

// Geometry is the calibration of a mechanism. It is plain data; a Solver keeps its own copy.
type Geometry struct {
	Legs [NumLegs]LegGeometry
	// Corrections orient each passive joint's mechanical frame, composed as in
	// EulerAngles.RotationMatrix.
	Corrections [NumPassiveJoints]spatialmath.EulerAngles
	// RestRodDirections are the rod directions at zero deflection, in each passive joint's frame.
	RestRodDirections [NumLegs]r3.Vector
	// HeadConnector is the head connector's frame in the head frame.
	HeadConnector spatialmath.Transform
	// HeadZOffset is added to the height of every incoming platform pose, in meters.
	HeadZOffset float64
	// ArmLength is the servo arm length from motor axis to rod joint, in meters.
	ArmLength float64
}

// Leg returns the geometry of leg i.
func (g Geometry) Leg(i int) LegGeometry {
	return g.Legs[i]
}

// Correction returns the frame correction of passive joint i.
func (g Geometry) Correction(i int) spatialmath.EulerAngles {
	return g.Corrections[i]
}

// RestRodDirection returns the rest rod direction of leg i.
func (g Geometry) RestRodDirection(i int) r3.Vector {
	return g.RestRodDirections[i]
}

// Validate returns every problem with the geometry that would make solving impossible.
func (g Geometry) Validate() error {
	var err error
	if !finite(g.ArmLength) || g.ArmLength <= 0 {
		err = multierr.Append(err, errors.Errorf("arm length must be positive, got %v", g.ArmLength))
	}
	if !finite(g.HeadZOffset) {
		err = multierr.Append(err, errors.Errorf("head z offset must be finite, got %v", g.HeadZOffset))
	}
	for i, leg := range g.Legs {
		if !finiteVector(leg.Branch) || !finiteTransform(leg.WorldFromMotor) {
			err = multierr.Append(err, errors.Errorf("leg %d has non-finite geometry", i+1))
		}
		dir := g.RestRodDirections[i]
		if !finiteVector(dir) || dir.Norm2() == 0 {
			err = multierr.Append(err, errors.Errorf("leg %d rest rod direction %v has no direction", i+1, dir))
		}
	}
	for i, c := range g.Corrections {
		if !c.IsFinite() {
			err = multierr.Append(err, errors.Errorf("passive joint %d correction is not finite", i+1))
		}
	}
	if !finiteTransform(g.HeadConnector) {
		err = multierr.Append(err, errors.New("head connector transform is not finite"))
	}
	return err
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVector(v r3.Vector) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finiteTransform(t spatialmath.Transform) bool {
	for _, f := range t.Rotation {
		if !finite(f) {
			return false
		}
	}
	return finiteVector(t.Translation)
}

// ReachyMiniGeometry returns the calibration of the Reachy Mini head mount.
func ReachyMiniGeometry() Geometry {
	return reachyMini
}

// world-from-motor transforms are the inverses of the motor-from-world transforms in the
// mechanism's kinematics data.
var reachyMini = Geometry{
	Legs: [NumLegs]LegGeometry{
		{
			Branch: r3.Vector{X: 0.020648178337122566, Y: 0.021763723638894568, Z: 1.0345743467476964e-07},
			WorldFromMotor: spatialmath.NewTransformFromRows([4][4]float64{
				{0.8660247915798899, 0.0000044901959360, -0.5000010603477224, 0.0269905781109381},
				{-0.5000010603626028, 0.0000031810770988, -0.8660247915770969, 0.0267489144601032},
				{-0.0000022980790772, 0.9999999999848599, 0.0000049999943606, 0.0766332540902687},
				{0, 0, 0, 1},
			}),
		},
		{
			Branch: r3.Vector{X: 0.00852381571767217, Y: 0.028763668526131346, Z: 1.183437210727778e-07},
			WorldFromMotor: spatialmath.NewTransformFromRows([4][4]float64{
				{-0.8660211183436273, -0.0000044902196459, -0.5000074225075980, 0.0096699703080478},
				{0.5000074225224782, -0.0000031810634097, -0.8660211183408341, 0.0367490037948058},
				{0.0000022980697230, -0.9999999999848597, 0.0000050000112432, 0.0766333000521544},
				{0, 0, 0, 1},
			}),
		},
		{
			Branch: r3.Vector{X: -0.029172011376922807, Y: 0.0069999429399361995, Z: 4.0290270064691214e-08},
			WorldFromMotor: spatialmath.NewTransformFromRows([4][4]float64{
				{0.0000063267948970, -0.0000010196153098, 0.9999999999794665, -0.0366606982562266},
				{0.9999999999799865, 0.0000000000135060, -0.0000063267948965, 0.0100001160862987},
				{-0.0000000000070551, 0.9999999999994809, 0.0000010196153103, 0.0766334229944826},
				{0, 0, 0, 1},
			}),
		},
		{
			Branch: r3.Vector{X: -0.029172040355214434, Y: -0.0069999960097160766, Z: -3.1608172912367394e-08},
			WorldFromMotor: spatialmath.NewTransformFromRows([4][4]float64{
				{-0.0000036732050704, 0.0000010196153103, 0.9999999999927344, -0.0366607717202358},
				{-0.9999999999932538, -0.0000000000036776, -0.0000036732050700, -0.0099998653384376},
				{-0.0000000000000677, -0.9999999999994809, 0.0000010196153103, 0.0766334229944823},
				{0, 0, 0, 1},
			}),
		},
		{
			Branch: r3.Vector{X: 0.008523809101930114, Y: -0.028763713010385224, Z: -1.4344916837716326e-07},
			WorldFromMotor: spatialmath.NewTransformFromRows([4][4]float64{
				{-0.8660284647694136, 0.0000044901728834, -0.4999946981608615, 0.0096697448698383},
				{-0.4999946981757425, -0.0000031811099295, 0.8660284647666202, -0.0367490491228644},
				{0.0000022980794298, 0.9999999999848597, 0.0000049999943840, 0.0766333000520353},
				{0, 0, 0, 1},
			}),
		},
		{
			Branch: r3.Vector{X: 0.020648186722822436, Y: -0.02176369606185343, Z: -8.957920105689965e-08},
			WorldFromMotor: spatialmath.NewTransformFromRows([4][4]float64{
				{0.8660247915798903, -0.0000044901962204, -0.5000010603477218, 0.0269903370664035},
				{0.5000010603626028, 0.0000031810964559, 0.8660247915770964, -0.0267491384573748},
				{-0.0000022980696448, -0.9999999999848597, 0.0000050000112666, 0.0766332540903862},
				{0, 0, 0, 1},
			}),
		},
	},
	Corrections: [NumPassiveJoints]spatialmath.EulerAngles{
		{Roll: -0.13754, Pitch: -0.0882156, Yaw: 2.10349},
		{Roll: -math.Pi, Pitch: 5.37396e-16, Yaw: -math.Pi},
		{Roll: 0.373569, Pitch: 0.0882156, Yaw: -1.0381},
		{Roll: -0.0860846, Pitch: 0.0882156, Yaw: 1.0381},
		{Roll: 0.123977, Pitch: 0.0882156, Yaw: -1.0381},
		{Roll: 3.0613, Pitch: 0.0882156, Yaw: 1.0381},
		{Roll: math.Pi, Pitch: 2.10388e-17, Yaw: 4.15523e-17},
	},
	RestRodDirections: [NumLegs]r3.Vector{
		{X: 1},
		{X: 0.50606941, Y: -0.85796418, Z: -0.08826792},
		{X: -1},
		{X: -1},
		{X: -1},
		{X: -1},
	},
	HeadConnector: spatialmath.NewTransformFromRows([4][4]float64{
		{0.4822, -0.7068, -0.5177, 0.0206},
		{0.1766, -0.5003, 0.8476, -0.0218},
		{-0.8581, -0.5001, -0.1164, 0},
		{0, 0, 0, 1},
	}),
	HeadZOffset: 0.177,
	ArmLength:   0.04,
}
