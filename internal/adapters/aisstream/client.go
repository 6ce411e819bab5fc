// Package aisstream maintains the primary vessel feed: a websocket
// subscription filtered to a bounding box, normalized into the registry.
package aisstream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/telemetry"
)

// Connection lifecycle states.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateClosing
)

const (
	backoffBase  = 5 * time.Second
	backoffCap   = 60 * time.Second
	maxAttempts  = 10
	readDeadline = 60 * time.Second
	dialTimeout  = 10 * time.Second
)

// EventFunc receives lifecycle transitions for the audit trail.
type EventFunc func(eventType, detail string)

// Client owns one upstream websocket subscription. Connect is idempotent;
// after a read failure the client reschedules itself with exponential
// backoff until the attempt budget runs out, at which point it goes
// terminal and stays down until the process restarts.
type Client struct {
	url        string
	apiKey     string
	bbox       domain.BoundingBox
	normalizer *Normalizer
	onEvent    EventFunc

	dialer websocket.Dialer

	mu       sync.Mutex
	ctx      context.Context
	conn     *websocket.Conn
	state    State
	attempts int
	gaveUp   bool
	retry    *time.Timer
}

func NewClient(url, apiKey string, bbox domain.BoundingBox, n *Normalizer, onEvent EventFunc) *Client {
	if onEvent == nil {
		onEvent = func(string, string) {}
	}
	return &Client{
		url:        url,
		apiKey:     apiKey,
		bbox:       bbox,
		normalizer: n,
		onEvent:    onEvent,
		dialer:     websocket.Dialer{HandshakeTimeout: dialTimeout},
	}
}

// Connected reports whether the subscription is live (at least one frame
// received on the current connection).
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateSubscribed
}

// GaveUp reports the terminal state after the reconnect budget is spent.
func (c *Client) GaveUp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gaveUp
}

// Connect dials the stream and writes the subscription frame. A no-op when
// a connection attempt is already in flight, a subscription is live, the
// client is shutting down, or the client has gone terminal.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateSubscribed || c.state == StateClosing || c.gaveUp {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.ctx = ctx
	c.mu.Unlock()

	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		slog.Warn("stream dial failed", "url", c.url, "error", err)
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.scheduleReconnect()
		return err
	}

	sub := subscribeRequest{
		APIKey: c.apiKey,
		BoundingBoxes: [][][2]float64{{
			{c.bbox.MinLat, c.bbox.MinLon},
			{c.bbox.MaxLat, c.bbox.MaxLon},
		}},
		FilterMessageTypes: []string{msgTypePosition, msgTypeStatic},
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		slog.Warn("subscription write failed", "error", err)
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.scheduleReconnect()
		return err
	}

	c.mu.Lock()
	if c.state == StateClosing {
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	// The open succeeded: dial and subscription write both went through,
	// so the backoff ladder starts over on the next failure.
	c.attempts = 0
	c.mu.Unlock()

	slog.Info("stream connected", "url", c.url)
	c.onEvent(domain.EventConnected, c.url)

	go c.readLoop(conn)
	return nil
}

// readLoop consumes frames until the connection dies. The stream is chatty
// enough in a bounded region that a 60s silence means the link is gone.
func (c *Client) readLoop(conn *websocket.Conn) {
	subscribed := false
	for {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.handleReadFailure(conn, err)
			return
		}
		if !subscribed {
			subscribed = true
			c.mu.Lock()
			// First frame confirms the subscription was accepted.
			if c.state == StateConnecting {
				c.state = StateSubscribed
			}
			c.mu.Unlock()
			c.onEvent(domain.EventSubscribed, "")
		}
		c.normalizer.Handle(raw)
	}
}

func (c *Client) handleReadFailure(conn *websocket.Conn, err error) {
	conn.Close()

	c.mu.Lock()
	closing := c.state == StateClosing
	if !closing {
		c.state = StateDisconnected
	}
	c.conn = nil
	c.mu.Unlock()

	if closing {
		return
	}

	slog.Warn("stream read failed", "error", err)
	c.onEvent(domain.EventDisconnected, err.Error())
	c.scheduleReconnect()
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.state == StateClosing || c.gaveUp {
		c.mu.Unlock()
		return
	}
	c.attempts++
	if c.attempts > maxAttempts {
		c.gaveUp = true
		c.mu.Unlock()
		slog.Error("stream reconnect budget exhausted, giving up", "attempts", maxAttempts)
		c.onEvent(domain.EventGaveUp, "reconnect attempts exhausted")
		return
	}
	delay := backoffDelay(c.attempts)
	ctx := c.ctx
	c.retry = time.AfterFunc(delay, func() {
		telemetry.StreamReconnects.Inc()
		c.Connect(ctx)
	})
	attempt := c.attempts
	c.mu.Unlock()

	slog.Info("stream reconnect scheduled", "attempt", attempt, "delay", delay)
}

// backoffDelay returns the wait before the given attempt: 5s doubling to a
// 60s ceiling.
func backoffDelay(attempt int) time.Duration {
	d := backoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= backoffCap {
			return backoffCap
		}
	}
	return d
}

// Disconnect tears the connection down and cancels any pending reconnect.
// The client cannot be reused afterwards.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.state = StateClosing
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}
}
