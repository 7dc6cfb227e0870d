// Package transport maintains the persistent websocket channel to the
// controller. It owns exactly one live connection at a time and delivers
// lifecycle and domain events on a single ordered channel; frames failing
// schema validation are dropped at this boundary and logged, never delivered.
package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

const eventBuffer = 64

// Client is the websocket event channel to the controller. Connect may be
// called repeatedly; each call tears down the previous connection first.
// There is no automatic reconnection: the client only reports lifecycle
// signals and the user decides when to redial.
type Client struct {
	logger logging.Logger
	events chan protocol.Event

	mu         sync.Mutex
	conn       *websocket.Conn
	readerDone chan struct{}
	quit       chan struct{}
}

// New creates a disconnected client.
func New(logger logging.Logger) *Client {
	if logger == nil {
		logger = &logging.NullLogger{}
	}
	return &Client{
		logger: logger,
		events: make(chan protocol.Event, eventBuffer),
	}
}

// Events returns the ordered event channel. All connections feed the same
// channel; it is never closed.
func (c *Client) Events() <-chan protocol.Event {
	return c.events
}

// Connected reports whether a connection is currently live.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect dials the websocket endpoint, tearing down any previous connection
// first so at most one channel is ever live. On success an Opened event is
// delivered before any frame from the new connection.
func (c *Client) Connect(ctx context.Context, endpoint string) error {
	c.teardown()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("transport: dial %s: %s: %w", endpoint, resp.Status, err)
		}
		return fmt.Errorf("transport: dial %s: %w", endpoint, err)
	}

	done := make(chan struct{})
	quit := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.readerDone = done
	c.quit = quit
	c.mu.Unlock()

	c.logger.Infof("transport: connected to %s", endpoint)
	c.deliver(protocol.OpenedEvent(), quit)
	go c.readLoop(conn, done, quit)
	return nil
}

// Close tears down the live connection, if any. The reader delivers the
// Closed event on its way out.
func (c *Client) Close() error {
	c.teardown()
	return nil
}

func (c *Client) teardown() {
	c.mu.Lock()
	conn, done, quit := c.conn, c.readerDone, c.quit
	c.conn, c.readerDone, c.quit = nil, nil, nil
	c.mu.Unlock()

	if conn == nil {
		return
	}
	if quit != nil {
		close(quit)
	}
	_ = conn.Close()
	if done != nil {
		<-done
	}
}

// readLoop pumps frames off one connection until it dies, decoding and
// validating each at the boundary.
func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}, quit chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.forget(conn)
			c.logger.Infof("transport: connection closed: %v", err)
			reason := closeReason(err)
			c.deliver(protocol.ClosedEvent(reason), quit)
			return
		}

		ev, decodeErr := protocol.DecodeFrame(data)
		if decodeErr != nil {
			c.logger.Warnf("transport: dropping frame: %v", decodeErr)
			continue
		}
		if !c.deliver(ev, quit) {
			return
		}
	}
}

// deliver sends an event preserving arrival order, giving up only when the
// connection is being torn down and the consumer is gone. Reports whether
// the event was delivered.
func (c *Client) deliver(ev protocol.Event, quit <-chan struct{}) bool {
	select {
	case c.events <- ev:
		return true
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-quit:
		return false
	}
}

// forget clears the connection pointer if it is still the live one, so
// Connected() flips as soon as the read loop sees the failure.
func (c *Client) forget(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
}

func closeReason(err error) string {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return "controller closed the connection"
	}
	return err.Error()
}

// Endpoint derives the websocket URL for a controller address. HTTP schemes
// map to their websocket counterparts and the conventional /ws path is
// appended when the address has none.
func Endpoint(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("transport: parse endpoint %q: %w", raw, err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("transport: unsupported scheme %q", u.Scheme)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}
