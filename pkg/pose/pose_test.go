package pose

import (
	"math"
	"testing"

	"armctl/pkg/command"
)

func near(a, b Point) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestForward_DefaultSnapshot(t *testing.T) {
	// All joints stopped, wrist centered at 90: first two segments lie
	// along X, the wrist segment points straight up.
	s := Forward(command.Default())

	want := Skeleton{
		{0, 0, 0},
		{L1, 0, 0},
		{L1 + L2, 0, 0},
		{L1 + L2, 0, L3},
	}
	for i := range want {
		if !near(s[i], want[i]) {
			t.Errorf("joint %d = %+v, want %+v", i, s[i], want[i])
		}
	}
}

func TestForward_FullBaseRotation(t *testing.T) {
	// Full forward base drive rotates the whole arm 90 degrees into Y.
	snap := command.Default()
	snap.Base = command.AxisCommand{Dir: 1, Magnitude: command.MagnitudeMax}

	s := Forward(snap)
	if !near(s[1], Point{0, L1, 0}) {
		t.Errorf("shoulder joint = %+v, want {0 %v 0}", s[1], L1)
	}
	if !near(s[2], Point{0, L1 + L2, 0}) {
		t.Errorf("elbow joint = %+v, want {0 %v 0}", s[2], L1+L2)
	}
}

func TestForward_FullShoulderLift(t *testing.T) {
	// Full forward shoulder drive raises the first segment straight up.
	snap := command.Default()
	snap.Shoulder = command.AxisCommand{Dir: 1, Magnitude: command.MagnitudeMax}

	s := Forward(snap)
	if !near(s[1], Point{0, 0, L1}) {
		t.Errorf("shoulder joint = %+v, want {0 0 %v}", s[1], L1)
	}
	// Elbow is stopped, so the second segment continues at the shoulder
	// angle: still straight up.
	if !near(s[2], Point{0, 0, L1 + L2}) {
		t.Errorf("elbow joint = %+v, want {0 0 %v}", s[2], L1+L2)
	}
}

func TestForward_BackwardDriveDeflectsNegative(t *testing.T) {
	snap := command.Default()
	snap.Shoulder = command.AxisCommand{Dir: 0, Magnitude: command.MagnitudeMax}

	s := Forward(snap)
	if !near(s[1], Point{0, 0, -L1}) {
		t.Errorf("shoulder joint = %+v, want {0 0 %v}", s[1], -L1)
	}
}

func TestForward_WristZeroPointsAlongArm(t *testing.T) {
	snap := command.Default()
	snap.Wrist = 0

	s := Forward(snap)
	if !near(s.Tip(), Point{L1 + L2 + L3, 0, 0}) {
		t.Errorf("tip = %+v, want {%v 0 0}", s.Tip(), L1+L2+L3)
	}
}

func TestForward_HalfDriveIsProportional(t *testing.T) {
	// Half magnitude should give roughly half the deflection angle; check
	// via the Z component of the shoulder joint.
	snap := command.Default()
	snap.Shoulder = command.AxisCommand{Dir: 1, Magnitude: command.MagnitudeMax / 2}

	s := Forward(snap)
	wantZ := L1 * math.Sin(math.Pi/4*float64(command.MagnitudeMax/2)*2/float64(command.MagnitudeMax))
	if math.Abs(s[1].Z-wantZ) > 1e-6 {
		t.Errorf("shoulder Z = %v, want %v", s[1].Z, wantZ)
	}
}
