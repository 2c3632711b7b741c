package sidebar

import (
	"context"
	"sync"
)

// ConnState is the state of the endpoint's link to the relay.
type ConnState int

const (
	Disconnected ConnState = iota
	Connected
)

func (s ConnState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Connection tracks disconnected <-> connected transitions.
// AwaitConnected resolves once per connection and re-arms on disconnect.
type Connection struct {
	ready chan struct{}
	state ConnState
	mu    sync.Mutex
}

// NewConnection returns a connection in the Disconnected state.
func NewConnection() *Connection {
	return &Connection{ready: make(chan struct{})}
}

// State returns the current state.
func (c *Connection) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected moves to Connected and releases waiters.
// It reports false if the connection was already connected.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Connected {
		return false
	}
	c.state = Connected
	close(c.ready)
	return true
}

// Disconnected moves to Disconnected so later waiters block again.
// It reports false if the connection was already disconnected.
func (c *Connection) Disconnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Disconnected {
		return false
	}
	c.state = Disconnected
	c.ready = make(chan struct{})
	return true
}

// AwaitConnected blocks until the connection is connected or ctx is done.
func (c *Connection) AwaitConnected(ctx context.Context) error {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
