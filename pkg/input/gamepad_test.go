package input

import (
	"testing"
	"time"

	"github.com/0xcafed00d/joystick"

	"armctl/pkg/command"
)

// pad builds a device sample from pressed button indices and axis values.
func pad(buttons []int, axes map[int]int) joystick.State {
	var s joystick.State
	for _, b := range buttons {
		s.Buttons |= 1 << uint(b)
	}
	s.AxisData = make([]int, 8)
	for i, v := range axes {
		s.AxisData[i] = v
	}
	return s
}

func newTestPoller() (*Poller, *State) {
	state := NewState()
	p := NewPoller(state, PollerConfig{StepInterval: 50 * time.Millisecond})
	return p, state
}

func TestPoller_ButtonEdgeTrigger(t *testing.T) {
	p, state := newTestPoller()
	now := time.Now()

	// First sample establishes the previous vector, no edges yet.
	p.apply(pad([]int{btnCycleBase}, nil), now)
	if got := state.View().Base; got != command.AxisStop {
		t.Errorf("base after priming sample = %v, want stop", got)
	}

	// Release, then press: exactly one cycle.
	p.apply(pad(nil, nil), now)
	p.apply(pad([]int{btnCycleBase}, nil), now)
	if got := state.View().Base; got != command.AxisForward {
		t.Errorf("base after press edge = %v, want forward", got)
	}

	// Held across polls: no further cycling.
	p.apply(pad([]int{btnCycleBase}, nil), now)
	p.apply(pad([]int{btnCycleBase}, nil), now)
	if got := state.View().Base; got != command.AxisForward {
		t.Errorf("base after holding = %v, want forward", got)
	}

	// Release and press again: one more cycle.
	p.apply(pad(nil, nil), now)
	p.apply(pad([]int{btnCycleBase}, nil), now)
	if got := state.View().Base; got != command.AxisBackward {
		t.Errorf("base after second press = %v, want backward", got)
	}
}

func TestPoller_DPadEdgesCycleEffectors(t *testing.T) {
	p, state := newTestPoller()
	now := time.Now()

	p.apply(pad(nil, nil), now)
	p.apply(pad(nil, map[int]int{axisDPadX: -32767}), now)
	if got := state.View().Gripper; got != command.EffectorClose {
		t.Errorf("gripper after d-pad left = %v, want close", got)
	}

	// Held left: no repeat.
	p.apply(pad(nil, map[int]int{axisDPadX: -32767}), now)
	if got := state.View().Gripper; got != command.EffectorClose {
		t.Errorf("gripper while holding left = %v, want close", got)
	}

	// Center, then right: roller cycles once.
	p.apply(pad(nil, nil), now)
	p.apply(pad(nil, map[int]int{axisDPadX: 32767}), now)
	if got := state.View().Roller; got != command.EffectorClose {
		t.Errorf("roller after d-pad right = %v, want close", got)
	}
}

func TestPoller_ResetButton(t *testing.T) {
	p, state := newTestPoller()
	now := time.Now()

	state.SetMagnitude(700)
	state.SetWrist(10)

	p.apply(pad(nil, nil), now)
	p.apply(pad([]int{btnReset}, nil), now)

	if got := state.Snapshot(); got != command.Default() {
		t.Errorf("snapshot after reset button = %+v, want defaults", got)
	}
}

func TestPoller_HeldTriggerIsRateLimited(t *testing.T) {
	p, state := newTestPoller()
	t0 := time.Now()
	rt := map[int]int{axisMagnitudeUp: 20000}

	p.apply(pad(nil, rt), t0) // priming
	p.apply(pad(nil, rt), t0.Add(60*time.Millisecond))
	if got := state.View().Magnitude; got != command.MagnitudeStep {
		t.Fatalf("magnitude after first step = %d, want %d", got, command.MagnitudeStep)
	}

	// Inside the 50ms window: no further step.
	p.apply(pad(nil, rt), t0.Add(70*time.Millisecond))
	if got := state.View().Magnitude; got != command.MagnitudeStep {
		t.Errorf("magnitude inside rate window = %d, want %d", got, command.MagnitudeStep)
	}

	// Past the window: one more step.
	p.apply(pad(nil, rt), t0.Add(120*time.Millisecond))
	if got := state.View().Magnitude; got != 2*command.MagnitudeStep {
		t.Errorf("magnitude after window = %d, want %d", got, 2*command.MagnitudeStep)
	}
}

func TestPoller_HeldBumpersStepWrist(t *testing.T) {
	p, state := newTestPoller()
	t0 := time.Now()

	p.apply(pad(nil, nil), t0)
	p.apply(pad([]int{btnWristUp}, nil), t0.Add(60*time.Millisecond))
	if got := state.View().Wrist; got != 90+command.WristStep {
		t.Errorf("wrist after bumper step = %d, want %d", got, 90+command.WristStep)
	}

	p.apply(pad([]int{btnWristDown}, nil), t0.Add(120*time.Millisecond))
	if got := state.View().Wrist; got != 90 {
		t.Errorf("wrist after opposite bumper = %d, want 90", got)
	}
}

func TestPoller_RestingTriggersDoNothing(t *testing.T) {
	p, state := newTestPoller()
	t0 := time.Now()

	// Xbox triggers rest at the negative end of the axis range.
	rest := map[int]int{axisMagnitudeDown: -32767, axisMagnitudeUp: -32767}
	p.apply(pad(nil, rest), t0)
	p.apply(pad(nil, rest), t0.Add(100*time.Millisecond))

	if got := state.View().Magnitude; got != 0 {
		t.Errorf("magnitude with resting triggers = %d, want 0", got)
	}
}
