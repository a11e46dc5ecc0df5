package stewart

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"golang.org/x/sync/errgroup"

	"go.viam.com/stewart/logging"
)

const scenarioTolerance = 0.01

var identityPose = []float64{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

var scenarios = []struct {
	name     string
	joints   []float64
	expected []float64
}{
	{
		"identity pose, zero joints",
		[]float64{0, 0, 0, 0, 0, 0, 0},
		[]float64{
			0.0022508907, 0.0362949623, -0.1238610683, -0.0222426253, 0.0013675279, -0.1273488284,
			-0.0036008297, -0.0641988484, -0.1120216899, 0.0018793787, -0.0298951753, 0.1255567074,
			-0.0021551464, -0.0346164750, -0.1243428060, 0.0018360718, 0.0291668900, -0.1257263345,
			0.0018226962, 0.0291985444, -0.1257131448,
		},
	},
	{
		"small body yaw",
		[]float64{0.1, 0, 0, 0, 0, 0, 0},
		[]float64{
			0.0023094851, 0.0309104488, -0.1491418088, -0.0265536010, -0.0035773668, -0.1030629683,
			-0.0044785419, -0.0648270895, -0.1379017245, 0.0017013496, -0.0337621624, 0.1006896894,
			-0.0021646104, -0.0288928516, -0.1495473876, 0.0016750546, 0.0331768126, -0.1008825400,
			0.0920552079, 0.0746590292, -0.0940957704,
		},
	},
	{
		"all legs at 0.5",
		[]float64{0, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
		[]float64{
			0.0201470224, 0.0664757285, -0.5883623150, -0.0050969762, -0.0349257327, 0.2740303711,
			-0.0565607056, -0.1953238381, -0.5621706414, -0.0002505518, -0.0018002749,
			-0.2765717423, -0.0178861002, -0.0589442498, -0.5890751964, -0.0004703285, 0.0033795988,
			0.2765574117, 0.0420138661, 0.0441513789, -0.2210345269,
		},
	},
}

func TestSolveScenarios(t *testing.T) {
	for _, tc := range scenarios {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Solve(tc.joints, identityPose)
			test.That(t, err, test.ShouldBeNil)
			for i, want := range tc.expected {
				test.That(t, out[i], test.ShouldAlmostEqual, want, scenarioTolerance)
			}
			test.That(t, CalculatePassiveJoints(tc.joints, identityPose), test.ShouldResemble, out.Slice())
		})
	}
}

func TestSolveDeterministic(t *testing.T) {
	joints := []float64{0.3, -0.2, 0.1, 0.4, -0.5, 0.25, -0.05}
	first, err := Solve(joints, identityPose)
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 10; i++ {
		again, err := Solve(joints, identityPose)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, again, test.ShouldResemble, first)
	}
}

func TestSolveIgnoresTrailingValues(t *testing.T) {
	joints := []float64{0, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	want, err := Solve(joints, identityPose)
	test.That(t, err, test.ShouldBeNil)

	got, err := Solve(append(append([]float64{}, joints...), 9), append(append([]float64{}, identityPose...), 9, 9))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, want)
}

func TestSolveInsufficientInput(t *testing.T) {
	zeros := make([]float64, NumPassiveAngles)

	t.Run("short joints", func(t *testing.T) {
		out, err := Solve(make([]float64, 6), identityPose)
		test.That(t, errors.Is(err, ErrInsufficientJoints), test.ShouldBeTrue)
		test.That(t, errors.Is(err, ErrInsufficientPose), test.ShouldBeFalse)
		test.That(t, out, test.ShouldResemble, PassiveAngles{})
		test.That(t, CalculatePassiveJoints(make([]float64, 6), identityPose), test.ShouldResemble, zeros)
	})

	t.Run("short pose", func(t *testing.T) {
		out, err := Solve(make([]float64, 7), identityPose[:15])
		test.That(t, errors.Is(err, ErrInsufficientPose), test.ShouldBeTrue)
		test.That(t, out, test.ShouldResemble, PassiveAngles{})
		test.That(t, CalculatePassiveJoints(make([]float64, 7), identityPose[:15]), test.ShouldResemble, zeros)
	})

	t.Run("both short", func(t *testing.T) {
		out, err := Solve(nil, nil)
		test.That(t, errors.Is(err, ErrInsufficientJoints), test.ShouldBeTrue)
		test.That(t, errors.Is(err, ErrInsufficientPose), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "need 7, got 0")
		test.That(t, out, test.ShouldResemble, PassiveAngles{})
		test.That(t, CalculatePassiveJoints(nil, nil), test.ShouldResemble, zeros)
	})
}

func TestSolveNonFiniteInput(t *testing.T) {
	joints := []float64{0, 0, math.NaN(), 0, 0, 0, 0}
	_, err := Solve(joints, identityPose)
	test.That(t, errors.Is(err, ErrNonFiniteInput), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joints[2]")

	pose := append([]float64{}, identityPose...)
	pose[11] = math.Inf(1)
	_, err = Solve(make([]float64, 7), pose)
	test.That(t, errors.Is(err, ErrNonFiniteInput), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "pose[11]")
}

func TestSolveUnreachableConfiguration(t *testing.T) {
	g := ReachyMiniGeometry()
	// put leg 3's platform anchor exactly on its servo arm tip at zero servo angle
	leg := g.Leg(2)
	tip := leg.WorldFromMotor.TransformPoint(r3.Vector{X: g.ArmLength})
	tip.Z -= g.HeadZOffset
	g.Legs[2].Branch = tip

	s, err := NewSolver(g, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	out, err := s.Solve(make([]float64, NumHeadJoints), identityPose)
	test.That(t, errors.Is(err, ErrUnreachableConfiguration), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "leg 3")
	test.That(t, out, test.ShouldResemble, PassiveAngles{})

	// moving the servo away makes it solvable again
	_, err = s.Solve([]float64{0, 0, 0, 0.3, 0, 0, 0}, identityPose)
	test.That(t, err, test.ShouldBeNil)
}

func TestSolveFarPose(t *testing.T) {
	// finite, but the rod length squared overflows
	pose := append([]float64(nil), identityPose...)
	pose[3] = 1e200

	out, err := Solve(make([]float64, NumHeadJoints), pose)
	test.That(t, errors.Is(err, ErrUnreachableConfiguration), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "leg 1 rod length overflows")
	test.That(t, out, test.ShouldResemble, PassiveAngles{})
	test.That(t, CalculatePassiveJoints(make([]float64, NumHeadJoints), pose), test.ShouldResemble,
		make([]float64, NumPassiveAngles))
}

func TestSolveConcurrent(t *testing.T) {
	want := make([]PassiveAngles, len(scenarios))
	for i, tc := range scenarios {
		out, err := Solve(tc.joints, identityPose)
		test.That(t, err, test.ShouldBeNil)
		want[i] = out
	}

	var group errgroup.Group
	for worker := 0; worker < 8; worker++ {
		worker := worker
		group.Go(func() error {
			for n := 0; n < 100; n++ {
				i := (worker + n) % len(scenarios)
				out, err := DefaultSolver().Solve(scenarios[i].joints, identityPose)
				if err != nil {
					return err
				}
				if out != want[i] {
					return errors.Errorf("worker %d: scenario %d diverged", worker, i)
				}
			}
			return nil
		})
	}
	test.That(t, group.Wait(), test.ShouldBeNil)
}

func TestSolveDoesNotAllocate(t *testing.T) {
	joints := scenarios[2].joints
	allocs := testing.AllocsPerRun(100, func() {
		if _, err := Solve(joints, identityPose); err != nil {
			t.Fatal(err)
		}
	})
	test.That(t, allocs, test.ShouldEqual, 0.)
}

func BenchmarkSolve(b *testing.B) {
	joints := scenarios[2].joints
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Solve(joints, identityPose); err != nil {
			b.Fatal(err)
		}
	}
}
