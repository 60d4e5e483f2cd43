// Package input aggregates operator intent from the manual controls and the
// gamepad into one shared state that the dispatcher samples every tick.
package input

import (
	"sync"

	"armctl/pkg/command"
)

// Axis identifies a powered joint.
type Axis int

const (
	Base Axis = iota
	Shoulder
	Elbow
)

func (a Axis) String() string {
	switch a {
	case Shoulder:
		return "shoulder"
	case Elbow:
		return "elbow"
	default:
		return "base"
	}
}

// Effector identifies an end effector.
type Effector int

const (
	Gripper Effector = iota
	Roller
)

func (e Effector) String() string {
	if e == Roller {
		return "roller"
	}
	return "gripper"
}

// Controls is a plain copy of the raw control values, for display. A reset
// shows up here immediately so the UI reflects the restored defaults.
type Controls struct {
	Base      command.AxisState
	Shoulder  command.AxisState
	Elbow     command.AxisState
	Magnitude int
	Wrist     int
	Gripper   command.EffectorMode
	Roller    command.EffectorMode
}

// State holds the current operator intent. The manual controls and the
// gamepad poller both mutate it through the setters; the dispatcher reads a
// derived snapshot. All setters clamp, so a snapshot built from State is
// always well formed.
type State struct {
	mu sync.RWMutex
	c  Controls
}

// NewState returns operator state at the documented defaults: all axes
// stopped, zero magnitude, wrist centered, effectors stopped.
func NewState() *State {
	return &State{c: Controls{Wrist: command.WristCenter}}
}

// SetAxis sets one joint's direction state.
func (s *State) SetAxis(axis Axis, state command.AxisState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.axis(axis) = state
}

// CycleAxis advances one joint through Stop -> Forward -> Backward -> Stop.
func (s *State) CycleAxis(axis Axis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.axis(axis)
	*p = p.Next()
}

// SetMagnitude sets the shared drive magnitude, clamped to [0, 1023].
func (s *State) SetMagnitude(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Magnitude = command.ClampMagnitude(v)
}

// AdjustMagnitude shifts the shared drive magnitude by delta, clamped.
func (s *State) AdjustMagnitude(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Magnitude = command.ClampMagnitude(s.c.Magnitude + delta)
}

// SetWrist sets the wrist servo target, clamped to [0, 180].
func (s *State) SetWrist(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Wrist = command.ClampWrist(v)
}

// AdjustWrist shifts the wrist servo target by delta, clamped.
func (s *State) AdjustWrist(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Wrist = command.ClampWrist(s.c.Wrist + delta)
}

// SetEffector sets one end effector's mode. Modes are mutually exclusive per
// effector by construction: the field holds exactly one mode.
func (s *State) SetEffector(which Effector, m command.EffectorMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.effector(which) = m
}

// CycleEffector advances one effector through Stop -> Close -> Open -> Stop.
func (s *State) CycleEffector(which Effector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.effector(which)
	*p = p.Next()
}

// Reset restores every control to its default in one atomic step.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = Controls{Wrist: command.WristCenter}
}

// Snapshot derives the canonical command snapshot from the current controls.
// Pure read: calling it any number of times without intervening mutation
// yields equal snapshots.
func (s *State) Snapshot() command.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return command.Snapshot{
		Gripper:  s.c.Gripper,
		Roller:   s.c.Roller,
		Wrist:    s.c.Wrist,
		Elbow:    command.DeriveAxis(s.c.Elbow, s.c.Magnitude),
		Shoulder: command.DeriveAxis(s.c.Shoulder, s.c.Magnitude),
		Base:     command.DeriveAxis(s.c.Base, s.c.Magnitude),
	}
}

// View returns a copy of the raw control values for display.
func (s *State) View() Controls {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c
}

// axis and effector return field pointers; callers hold the lock.
func (s *State) axis(a Axis) *command.AxisState {
	switch a {
	case Shoulder:
		return &s.c.Shoulder
	case Elbow:
		return &s.c.Elbow
	default:
		return &s.c.Base
	}
}

func (s *State) effector(e Effector) *command.EffectorMode {
	if e == Roller {
		return &s.c.Roller
	}
	return &s.c.Gripper
}
