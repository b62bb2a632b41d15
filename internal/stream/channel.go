// Package stream implements the real-time side of the transport client: one
// reconnecting websocket subscription per active plan.
package stream

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const defaultReconnectDelay = 5 * time.Second

// Conn is the subset of the websocket connection the channel needs.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens websocket connections. Tests inject fakes.
type Dialer interface {
	Dial(url string) (Conn, error)
}

type wsDialer struct{}

func (wsDialer) Dial(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	return conn, err
}

// Config holds the static inputs of the channel.
type Config struct {
	// BaseURL is the ws(s) scheme endpoint root, e.g. ws://localhost:8000.
	BaseURL string
	// ReconnectDelay is the fixed delay before a reconnect attempt.
	ReconnectDelay time.Duration
}

// Channel maintains a live subscription to one plan's event stream. On socket
// error or closure it schedules exactly one reconnect attempt after a fixed
// delay, indefinitely, until Disconnect or Dispose clears the target.
type Channel struct {
	base   string
	delay  time.Duration
	dialer Dialer

	// newTimer is replaced in tests to fake the reconnect clock.
	newTimer func(d time.Duration, fn func()) *time.Timer

	mu       sync.Mutex
	conn     Conn
	planID   string
	timer    *time.Timer
	gen      int
	disposed bool
	messages chan Message
}

// NewChannel creates a channel. No connection is opened until Connect.
func NewChannel(cfg Config) *Channel {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	return &Channel{
		base:     cfg.BaseURL,
		delay:    cfg.ReconnectDelay,
		dialer:   wsDialer{},
		newTimer: time.AfterFunc,
		messages: make(chan Message, 64),
	}
}

// Messages exposes the decoded inbound frames. The channel is closed by
// Dispose.
func (c *Channel) Messages() <-chan Message {
	return c.messages
}

// Connect targets planID, tearing down any prior subscription state. Dialing
// happens in the background; failures feed the reconnect loop.
func (c *Channel) Connect(planID string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.teardownLocked()
	c.planID = planID
	gen := c.gen
	c.mu.Unlock()

	go c.dial(gen)
}

// Disconnect cancels any pending reconnect, closes the socket and clears the
// current target. No further reconnect attempts occur until Connect.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

// Send writes a text frame if connected; otherwise it silently does nothing.
func (c *Channel) Send(text string) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		log.Debug().Err(err).Msg("stream: send failed")
	}
}

// Dispose marks the channel permanently inert and releases the message
// stream. Idempotent; Connect becomes a no-op afterwards.
func (c *Channel) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.teardownLocked()
	c.disposed = true
	close(c.messages)
}

// teardownLocked stops the pending timer, closes the socket, clears the
// target and invalidates every in-flight callback of the old generation.
func (c *Channel) teardownLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.planID = ""
	c.gen++
}

func (c *Channel) dial(gen int) {
	c.mu.Lock()
	if c.disposed || gen != c.gen || c.planID == "" {
		c.mu.Unlock()
		return
	}
	url := fmt.Sprintf("%s/api/ws/alerts/%s", c.base, c.planID)
	planID := c.planID
	c.mu.Unlock()

	conn, err := c.dialer.Dial(url)

	c.mu.Lock()
	if c.disposed || gen != c.gen {
		c.mu.Unlock()
		if err == nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("plan_id", planID).Msg("stream: dial failed, scheduling reconnect")
		c.scheduleReconnectLocked(gen)
		c.mu.Unlock()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	log.Info().Str("plan_id", planID).Msg("stream: connected")
	go c.readLoop(conn, gen)
}

func (c *Channel) readLoop(conn Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.dropped(gen, err)
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Msg("stream: dropping malformed frame")
			continue
		}
		c.deliver(msg, gen)
	}
}

func (c *Channel) deliver(msg Message, gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || gen != c.gen {
		return
	}
	select {
	case c.messages <- msg:
	default:
		log.Warn().Str("type", msg.Type).Msg("stream: consumer is behind, dropping message")
	}
}

// dropped handles socket error or closure. While a target is still set, it
// schedules one reconnect attempt, replacing any previously scheduled one.
func (c *Channel) dropped(gen int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || gen != c.gen || c.planID == "" {
		return
	}
	log.Warn().Err(err).Str("plan_id", c.planID).Msg("stream: connection lost")
	c.conn = nil
	c.scheduleReconnectLocked(gen)
}

func (c *Channel) scheduleReconnectLocked(gen int) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.newTimer(c.delay, func() {
		c.mu.Lock()
		if c.disposed || gen != c.gen || c.planID == "" {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.mu.Unlock()
		c.dial(gen)
	})
}
