// Package command defines the canonical arm command model: the operator's
// intent for every joint and effector, and the snapshot that goes over
// the wire.
package command

// Value bounds and step sizes for the drive controls.
const (
	MagnitudeMax  = 1023
	MagnitudeStep = 10

	WristMax    = 180
	WristCenter = 90
	WristStep   = 1
)

// AxisState is the commanded direction for one powered joint.
type AxisState int

const (
	AxisStop AxisState = iota
	AxisForward
	AxisBackward
)

// Next cycles Stop -> Forward -> Backward -> Stop.
func (s AxisState) Next() AxisState {
	switch s {
	case AxisStop:
		return AxisForward
	case AxisForward:
		return AxisBackward
	default:
		return AxisStop
	}
}

func (s AxisState) String() string {
	switch s {
	case AxisForward:
		return "forward"
	case AxisBackward:
		return "backward"
	default:
		return "stop"
	}
}

// EffectorMode is the commanded mode for one end effector. The wire values
// are fixed: 0 stop, 1 close, 2 open.
type EffectorMode int

const (
	EffectorStop EffectorMode = iota
	EffectorClose
	EffectorOpen
)

// Next cycles Stop -> Close -> Open -> Stop.
func (m EffectorMode) Next() EffectorMode {
	switch m {
	case EffectorStop:
		return EffectorClose
	case EffectorClose:
		return EffectorOpen
	default:
		return EffectorStop
	}
}

func (m EffectorMode) String() string {
	switch m {
	case EffectorClose:
		return "close"
	case EffectorOpen:
		return "open"
	default:
		return "stop"
	}
}

// AxisCommand is the wire form of one joint command: a direction bit and a
// drive magnitude.
type AxisCommand struct {
	Dir       int
	Magnitude int
}

// DeriveAxis converts a joint's direction state plus the shared drive
// magnitude into its wire command. A stopped axis always carries zero
// magnitude, whatever the shared value is.
func DeriveAxis(state AxisState, magnitude int) AxisCommand {
	switch state {
	case AxisForward:
		return AxisCommand{Dir: 1, Magnitude: magnitude}
	case AxisBackward:
		return AxisCommand{Dir: 0, Magnitude: magnitude}
	default:
		return AxisCommand{}
	}
}

// ClampMagnitude bounds a drive magnitude to [0, MagnitudeMax].
func ClampMagnitude(v int) int {
	if v < 0 {
		return 0
	}
	if v > MagnitudeMax {
		return MagnitudeMax
	}
	return v
}

// ClampWrist bounds a wrist angle to [0, WristMax].
func ClampWrist(v int) int {
	if v < 0 {
		return 0
	}
	if v > WristMax {
		return WristMax
	}
	return v
}
