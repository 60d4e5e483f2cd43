// Package teleop runs the driver tick: it samples operator intent, gates on
// change, and dispatches distinct command snapshots to the link and the pose
// preview.
package teleop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"armctl/pkg/command"
	"armctl/pkg/input"
	"armctl/pkg/link"
	"armctl/pkg/pose"
)

// Sender is the outbound side the dispatcher hands snapshots to. Send must
// fail fast while the link is down; the dispatcher never blocks the tick on
// the network.
type Sender interface {
	Send(command.Snapshot) bool
	State() link.ConnState
}

// State is one tick's observable output, consumed by the UI.
type State struct {
	Snapshot  command.Snapshot
	Skeleton  pose.Skeleton
	Changed   bool // snapshot differs from the previous dispatch
	Sent      bool // the link accepted the transmission
	Link      link.ConnState
	Gamepad   bool
	Timestamp time.Time
}

// Controller manages the dispatch loop.
type Controller struct {
	inputs  *input.State
	sender  Sender
	gamepad func() bool
	tick    time.Duration

	mu      sync.Mutex
	running bool

	last     *command.Snapshot
	skeleton pose.Skeleton

	stateCh chan State
	logCh   chan string
}

// Config holds configuration for the controller.
type Config struct {
	Inputs  *input.State
	Sender  Sender
	Gamepad func() bool   // gamepad presence probe, may be nil
	Tick    time.Duration // driver tick period, default 50ms
}

// NewController creates a dispatch controller.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Inputs == nil {
		return nil, fmt.Errorf("inputs required")
	}
	if cfg.Sender == nil {
		return nil, fmt.Errorf("sender required")
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 50 * time.Millisecond
	}
	if cfg.Gamepad == nil {
		cfg.Gamepad = func() bool { return false }
	}

	return &Controller{
		inputs:  cfg.Inputs,
		sender:  cfg.Sender,
		gamepad: cfg.Gamepad,
		tick:    cfg.Tick,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Tick returns the driver tick period.
func (c *Controller) Tick() time.Duration {
	return c.tick
}

// Start begins the dispatch loop and blocks until ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("dispatch started, tick %s", c.tick)

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			c.log("dispatch stopped")
			return ctx.Err()
		case <-ticker.C:
			c.step()
		}
	}
}

// step builds one snapshot and dispatches it if it differs from the last
// dispatched one. Exactly one send per distinct snapshot, in the order the
// snapshots become distinct. The baseline advances whether or not the link
// accepted the send: state is fully re-derived next tick, so a drop while
// disconnected is resupplied by the first change (or reconnect) after it.
func (c *Controller) step() {
	snap := c.inputs.Snapshot()
	changed := c.last == nil || *c.last != snap

	sent := false
	if changed {
		sent = c.sender.Send(snap)
		if !sent {
			c.log("command dropped, link %s", c.sender.State())
		}
		c.skeleton = pose.Forward(snap)
		baseline := snap
		c.last = &baseline
	}

	c.sendState(State{
		Snapshot:  snap,
		Skeleton:  c.skeleton,
		Changed:   changed,
		Sent:      sent,
		Link:      c.sender.State(),
		Gamepad:   c.gamepad(),
		Timestamp: time.Now(),
	})
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}
