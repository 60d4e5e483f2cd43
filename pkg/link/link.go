// Package link maintains the outbound connection to the remote arm
// controller. It owns the whole connection lifecycle: dial, handshake, send,
// failure detection, and a reconnect loop that retries forever. Connection
// trouble never escapes as an error; it surfaces as a state change plus log
// lines.
package link

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"

	"armctl/pkg/command"
)

// ConnState is the link's connection state.
type ConnState int32

const (
	Disconnected ConnState = iota
	Connecting
	Connected
	Closed
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	default:
		return "disconnected"
	}
}

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 2 * time.Second

	// DefaultReconnectDelay spaces connection attempts. The remote end is
	// long-lived local infrastructure, so a fixed delay retried forever
	// is enough; no backoff escalation.
	DefaultReconnectDelay = 5 * time.Second
)

// Config configures a link client.
type Config struct {
	Endpoint       string        // websocket URL of the remote controller
	ReconnectDelay time.Duration // spacing between connection attempts
	Hello          string        // identification message sent on connect
	Goodbye        string        // notice sent on graceful shutdown
}

// Client is the reconnecting websocket client. Create with New, drive with
// Run in its own goroutine, and push commands with Send from any goroutine.
type Client struct {
	cfg Config

	state atomic.Int32

	mu   sync.Mutex // guards conn and serializes writes
	conn *websocket.Conn

	logCh chan string
}

// New creates a client for the given endpoint. Zero config fields get
// defaults.
func New(cfg Config) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.Hello == "" {
		cfg.Hello = "armctl connected"
	}
	if cfg.Goodbye == "" {
		cfg.Goodbye = "armctl disconnecting"
	}
	return &Client{
		cfg:   cfg,
		logCh: make(chan string, 10),
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	return ConnState(c.state.Load())
}

// Logs returns a channel that receives log messages.
func (c *Client) Logs() <-chan string {
	return c.logCh
}

// Send transmits a command snapshot if the link is connected. It never
// queues and never blocks on reconnection: while disconnected it is a no-op
// returning false, relying on the caller's next tick to resupply current
// state once the link is back. Returns true only when the write succeeded.
func (c *Client) Send(snap command.Snapshot) bool {
	if c.State() != Connected {
		return false
	}

	data, err := json.Marshal(snap)
	if err != nil {
		// Snapshots are well formed by construction; this cannot happen
		// short of a programming error.
		panic(fmt.Sprintf("command snapshot not serializable: %v", err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		c.log("send failed: %v", err)
		c.state.Store(int32(Disconnected))
		return false
	}
	return true
}

// Run drives the connection until ctx is cancelled: dial, handshake, read
// until failure, back off, retry, forever. On cancellation it sends a
// best-effort goodbye, closes the socket and returns ctx.Err() with the
// state left at Closed.
func (c *Client) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			c.state.Store(int32(Closed))
			return ctx.Err()
		}

		c.state.Store(int32(Connecting))
		c.log("connecting to %s", c.cfg.Endpoint)

		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.state.Store(int32(Closed))
				return ctx.Err()
			}
			c.log("connection failed: %v", err)
			c.state.Store(int32(Disconnected))
			if !sleep(ctx, c.cfg.ReconnectDelay) {
				c.state.Store(int32(Closed))
				return ctx.Err()
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.state.Store(int32(Connected))
		c.log("connected to %s", c.cfg.Endpoint)

		// The read loop runs detached from ctx so that cancellation can
		// deliver the goodbye on a still-healthy socket before closing.
		readDone := make(chan struct{})
		go func() {
			c.readLoop(conn)
			close(readDone)
		}()

		select {
		case <-ctx.Done():
			c.shutdown(conn)
			<-readDone
			c.state.Store(int32(Closed))
			return ctx.Err()
		case <-readDone:
		}

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close(websocket.StatusInternalError, "link reset")
		c.state.Store(int32(Disconnected))
		c.log("disconnected, retrying in %s", c.cfg.ReconnectDelay)

		if !sleep(ctx, c.cfg.ReconnectDelay) {
			c.state.Store(int32(Closed))
			return ctx.Err()
		}
	}
}

// dial connects and performs the handshake: one identification message
// before any command is accepted. A handshake failure counts as a failed
// connection attempt.
func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, c.cfg.Endpoint, nil)
	if err != nil {
		return nil, err
	}

	writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
	defer cancelWrite()
	if err := conn.Write(writeCtx, websocket.MessageText, []byte(c.cfg.Hello)); err != nil {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return nil, fmt.Errorf("handshake: %w", err)
	}
	return conn, nil
}

// readLoop consumes inbound messages until the connection dies. Inbound
// traffic is observability only: it is decoded opportunistically and logged,
// never fed into arm state.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			return
		}
		c.logInbound(data)
	}
}

func (c *Client) logInbound(data []byte) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			c.log("discarding malformed message: %v", err)
			return
		}
		c.log("remote: %v", v)
		return
	}
	c.log("remote: %s", data)
}

// shutdown sends the goodbye notice and closes the socket. The process is
// exiting, so every failure here is swallowed.
func (c *Client) shutdown(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = nil

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, []byte(c.cfg.Goodbye))
	_ = conn.Close(websocket.StatusNormalClosure, "shutting down")
	c.log("link closed")
}

// sleep waits for d or until ctx is cancelled; reports whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Client) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}
