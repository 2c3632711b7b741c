package sidebar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/iudanet/sidenotes/pkg/api"
)

// RelayPath is the websocket endpoint served by the daemon.
const RelayPath = "/api/v1/relay"

// DefaultReconnectDelay is the pause between dial attempts.
const DefaultReconnectDelay = 2 * time.Second

// MaxEventSize bounds a single relay event; loaded carries every note.
const MaxEventSize = 1 << 20

// ErrNotConnected indicates that the websocket went away before a send.
var ErrNotConnected = errors.New("not connected to relay")

// Client connects a Machine to the relay over a websocket.
type Client struct {
	machine        *Machine
	conn           *Connection
	ws             *websocket.Conn
	logger         *slog.Logger
	httpClient     *http.Client
	observers      map[int]func(api.Event)
	serverURL      string
	token          string
	reconnectDelay time.Duration
	nextObserver   int
	mu             sync.Mutex
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the bearer token sent on dial.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithReconnectDelay overrides DefaultReconnectDelay.
func WithReconnectDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.reconnectDelay = d
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets the HTTP client used for the websocket handshake.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the daemon at serverURL (http or ws scheme).
func NewClient(serverURL string, machine *Machine, opts ...ClientOption) *Client {
	c := &Client{
		machine:        machine,
		conn:           NewConnection(),
		logger:         slog.New(slog.DiscardHandler),
		observers:      make(map[int]func(api.Event)),
		serverURL:      serverURL,
		reconnectDelay: DefaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Machine returns the state machine fed by this client.
func (c *Client) Machine() *Machine {
	return c.machine
}

// Connection returns the connection state machine.
func (c *Client) Connection() *Connection {
	return c.conn
}

// Observe registers fn for every event after it has been applied.
func (c *Client) Observe(fn func(api.Event)) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// Run dials the relay and keeps reconnecting until ctx is done.
// A load command is sent on every connect.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("Relay connection lost, reconnecting", "error", err, "delay", c.reconnectDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
		}
	}
}

// session handles one websocket connection from dial to drop.
func (c *Client) session(ctx context.Context) error {
	endpoint, err := c.relayURL()
	if err != nil {
		return err
	}

	opts := &websocket.DialOptions{HTTPClient: c.httpClient}
	if c.token != "" {
		opts.HTTPHeader = http.Header{"Authorization": []string{"Bearer " + c.token}}
	}

	ws, _, err := websocket.Dial(ctx, endpoint, opts)
	if err != nil {
		return fmt.Errorf("failed to dial relay: %w", err)
	}
	defer ws.Close(websocket.StatusNormalClosure, "")
	ws.SetReadLimit(MaxEventSize)

	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()

	c.conn.Connected()
	c.logger.Info("Connected to relay", "url", endpoint)

	if err := wsjson.Write(ctx, ws, api.Command{Action: api.ActionLoad, Origin: c.machine.Origin()}); err != nil {
		c.drop()
		return fmt.Errorf("failed to request notes: %w", err)
	}

	for {
		var ev api.Event
		if err := wsjson.Read(ctx, ws, &ev); err != nil {
			c.drop()
			return fmt.Errorf("failed to read event: %w", err)
		}
		c.dispatch(ev)
	}
}

// drop переводит соединение в disconnected и сообщает об этом машине
func (c *Client) drop() {
	c.mu.Lock()
	c.ws = nil
	c.mu.Unlock()

	if c.conn.Disconnected() {
		c.dispatch(api.Event{Action: api.EventDisconnected})
	}
}

func (c *Client) dispatch(ev api.Event) {
	c.machine.Apply(ev)

	c.mu.Lock()
	observers := make([]func(api.Event), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
}

// Send waits for a connection and writes cmd.
func (c *Client) Send(ctx context.Context, cmd api.Command) error {
	if err := c.conn.AwaitConnected(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	ws := c.ws
	c.mu.Unlock()
	if ws == nil {
		return ErrNotConnected
	}

	if cmd.Origin == "" {
		cmd.Origin = c.machine.Origin()
	}
	if err := wsjson.Write(ctx, ws, cmd); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

func (c *Client) relayURL() (string, error) {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}

	u.Path = RelayPath
	q := u.Query()
	q.Set("endpoint", c.machine.Origin())
	u.RawQuery = q.Encode()
	return u.String(), nil
}
