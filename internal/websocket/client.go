package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 512

	// sendBufferSize is the number of queued events before a client counts as too slow
	sendBufferSize = 256
)

// Session is the authenticated identity behind a connection
type Session struct {
	UserID    uuid.UUID
	ExpiresAt time.Time // zero means the connection never expires
}

// Client is one user's event stream connection
type Client struct {
	id      string
	session Session
	conn    *websocket.Conn
	hub     *Hub
	send    chan []byte
	logger  zerolog.Logger

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection for the given session
func NewClient(conn *websocket.Conn, session Session, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:      id,
		session: session,
		conn:    conn,
		hub:     hub,
		send:    make(chan []byte, sendBufferSize),
		logger: log.With().
			Str("client_id", id).
			Stringer("user_id", session.UserID).
			Logger(),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// UserID returns the user the connection was authenticated as
func (c *Client) UserID() uuid.UUID {
	return c.session.UserID
}

// Send queues an encoded event. A full buffer drops the client.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close closes the connection; safe to call more than once
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump drains the connection so pongs and close frames are processed.
// It must run in its own goroutine and unregisters the client on exit.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

// WritePump forwards queued events, keeps the connection alive with pings and
// closes it with a policy violation once the session token expires.
// It must run in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	var expired <-chan time.Time
	if !c.session.ExpiresAt.IsZero() {
		timer := time.NewTimer(time.Until(c.session.ExpiresAt))
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-expired:
			c.logger.Debug().Msg("WebSocket session expired")
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session expired"))
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}
