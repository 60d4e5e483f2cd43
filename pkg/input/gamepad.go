package input

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/0xcafed00d/joystick"

	"armctl/pkg/command"
)

// Xbox-style layout as seen through the Linux joystick interface.
const (
	btnCycleBase     = 0 // A
	btnCycleShoulder = 1 // B
	btnCycleElbow    = 2 // X
	btnReset         = 3 // Y
	btnWristDown     = 4 // LB
	btnWristUp       = 5 // RB

	axisMagnitudeDown = 2 // LT
	axisMagnitudeUp   = 5 // RT
	axisDPadX         = 6

	// Triggers rest at the negative end of their range; past zero counts
	// as pulled.
	triggerThreshold = 0

	// D-pad X reads -32767 / 0 / +32767; half range separates a press
	// from center.
	dpadThreshold = 16384
)

// PollerConfig configures the gamepad poller.
type PollerConfig struct {
	DeviceID      int
	PollInterval  time.Duration // device read cadence
	StepInterval  time.Duration // floor between held-control steps
	ProbeInterval time.Duration // device rediscovery cadence when absent
}

// Poller reads the gamepad on its own tick and translates it into mutations
// of the shared operator state. Buttons and D-pad are edge triggered against
// the previous poll's full state; held triggers and bumpers step the shared
// magnitude and wrist at a rate-limited pace so they stay human controllable.
//
// A missing gamepad is not an error: the poller keeps serving nothing and
// re-probes the device periodically.
type Poller struct {
	state *State
	cfg   PollerConfig

	js      joystick.Joystick
	present atomic.Bool

	prev     joystick.State
	havePrev bool
	lastStep time.Time

	logCh chan string
}

// NewPoller creates a poller over the given operator state. Zero config
// fields get defaults: device 0, 100ms poll, 50ms step floor, 2s probe.
func NewPoller(state *State, cfg PollerConfig) *Poller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.StepInterval <= 0 {
		cfg.StepInterval = 50 * time.Millisecond
	}
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = 2 * time.Second
	}
	return &Poller{
		state: state,
		cfg:   cfg,
		logCh: make(chan string, 10),
	}
}

// Present reports whether a gamepad is currently attached.
func (p *Poller) Present() bool {
	return p.present.Load()
}

// Logs returns a channel that receives log messages.
func (p *Poller) Logs() <-chan string {
	return p.logCh
}

// Run polls the device until ctx is cancelled. It never returns an error
// other than ctx.Err(): device trouble is logged and retried.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	probeEvery := int(p.cfg.ProbeInterval / p.cfg.PollInterval)
	if probeEvery < 1 {
		probeEvery = 1
	}

	p.open()
	sinceProbe := 0

	for {
		select {
		case <-ctx.Done():
			p.close()
			return ctx.Err()
		case <-ticker.C:
			if p.js == nil {
				sinceProbe++
				if sinceProbe >= probeEvery {
					sinceProbe = 0
					p.open()
				}
				continue
			}
			sample, err := p.js.Read()
			if err != nil {
				p.log("gamepad read failed: %v", err)
				p.close()
				continue
			}
			p.apply(sample, time.Now())
		}
	}
}

func (p *Poller) open() {
	js, err := joystick.Open(p.cfg.DeviceID)
	if err != nil {
		return // absent, probe again later
	}
	p.js = js
	p.havePrev = false
	p.present.Store(true)
	p.log("gamepad attached: %s (%d axes, %d buttons)", js.Name(), js.AxisCount(), js.ButtonCount())
}

func (p *Poller) close() {
	if p.js != nil {
		p.js.Close()
		p.js = nil
	}
	if p.present.Swap(false) {
		p.log("gamepad detached")
	}
}

// apply folds one device sample into the operator state. Split from the run
// loop so it can be exercised without hardware.
func (p *Poller) apply(cur joystick.State, now time.Time) {
	prev, havePrev := p.prev, p.havePrev
	p.prev, p.havePrev = cur, true
	if !havePrev {
		// Edges need a previous vector; a sample held since before
		// attach must not fire.
		return
	}

	// Edge triggered: pressed this poll, not held.
	pressed := cur.Buttons &^ prev.Buttons
	if pressed&(1<<btnCycleBase) != 0 {
		p.state.CycleAxis(Base)
	}
	if pressed&(1<<btnCycleShoulder) != 0 {
		p.state.CycleAxis(Shoulder)
	}
	if pressed&(1<<btnCycleElbow) != 0 {
		p.state.CycleAxis(Elbow)
	}
	if pressed&(1<<btnReset) != 0 {
		p.state.Reset()
		p.log("controls reset")
	}

	// D-pad left/right edges cycle the effectors.
	prevX, curX := axisValue(prev, axisDPadX), axisValue(cur, axisDPadX)
	if curX <= -dpadThreshold && prevX > -dpadThreshold {
		p.state.CycleEffector(Gripper)
	}
	if curX >= dpadThreshold && prevX < dpadThreshold {
		p.state.CycleEffector(Roller)
	}

	// Level triggered, rate limited: held bumpers and triggers.
	if now.Sub(p.lastStep) < p.cfg.StepInterval {
		return
	}
	stepped := false
	if cur.Buttons&(1<<btnWristDown) != 0 {
		p.state.AdjustWrist(-command.WristStep)
		stepped = true
	}
	if cur.Buttons&(1<<btnWristUp) != 0 {
		p.state.AdjustWrist(command.WristStep)
		stepped = true
	}
	if axisValue(cur, axisMagnitudeDown) > triggerThreshold {
		p.state.AdjustMagnitude(-command.MagnitudeStep)
		stepped = true
	}
	if axisValue(cur, axisMagnitudeUp) > triggerThreshold {
		p.state.AdjustMagnitude(command.MagnitudeStep)
		stepped = true
	}
	if stepped {
		p.lastStep = now
	}
}

func axisValue(s joystick.State, i int) int {
	if i < len(s.AxisData) {
		return s.AxisData[i]
	}
	return 0
}

func (p *Poller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case p.logCh <- msg:
	default:
		// Drop if channel full
	}
}
