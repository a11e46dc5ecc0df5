package stewart

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/stewart/spatialmath"
)

// NumPassiveAngles is the length of a PassiveAngles vector.
const NumPassiveAngles = NumPassiveJoints * 3

// PassiveAngles holds the x, y and z angles, in radians, of each passive joint in order:
// one joint per leg followed by the head connector.
type PassiveAngles [NumPassiveAngles]float64

var jointNames = func() [NumPassiveAngles]string {
	var names [NumPassiveAngles]string
	for i := range names {
		names[i] = fmt.Sprintf("passive_%d_%c", i/3+1, "xyz"[i%3])
	}
	return names
}()

// JointNames returns the passive joint names in output order, e.g. passive_1_x.
func JointNames() []string {
	names := jointNames
	return names[:]
}

func (pa *PassiveAngles) setJoint(i int, ea spatialmath.EulerAngles) {
	pa[i*3] = ea.Roll
	pa[i*3+1] = ea.Pitch
	pa[i*3+2] = ea.Yaw
}

// Joint returns the angles of passive joint i.
func (pa *PassiveAngles) Joint(i int) spatialmath.EulerAngles {
	return spatialmath.EulerAngles{Roll: pa[i*3], Pitch: pa[i*3+1], Yaw: pa[i*3+2]}
}

// Slice returns the angles as a newly allocated slice.
func (pa *PassiveAngles) Slice() []float64 {
	out := make([]float64, NumPassiveAngles)
	copy(out, pa[:])
	return out
}

// Named returns the angles keyed by joint name.
func (pa *PassiveAngles) Named() map[string]float64 {
	named := make(map[string]float64, NumPassiveAngles)
	for i, name := range jointNames {
		named[name] = pa[i]
	}
	return named
}

// Quaternions returns each passive joint's orientation as a unit quaternion.
func (pa *PassiveAngles) Quaternions() [NumPassiveJoints]quat.Number {
	var qs [NumPassiveJoints]quat.Number
	for i := range qs {
		qs[i] = pa.Joint(i).Quaternion()
	}
	return qs
}

// String prints a table of each passive joint with its angles in degrees.
func (pa *PassiveAngles) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Joint", "X", "Y", "Z"})
	for i := 0; i < NumPassiveJoints; i++ {
		name := fmt.Sprintf("leg %d", i+1)
		if i == headConnector {
			name = "head connector"
		}
		ea := pa.Joint(i)
		t.AppendRow(table.Row{
			i + 1,
			name,
			fmt.Sprintf("%.2f", spatialmath.RadToDeg(ea.Roll)),
			fmt.Sprintf("%.2f", spatialmath.RadToDeg(ea.Pitch)),
			fmt.Sprintf("%.2f", spatialmath.RadToDeg(ea.Yaw)),
		})
	}
	return t.Render()
}
