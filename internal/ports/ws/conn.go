// Package ws is the websocket transport: it upgrades HTTP connections
// into ports.UserLink values and routes in-match client messages onto
// the match surface.
package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"magnifico/internal/ports"
)

const sendBuffer = 64

// Conn adapts one websocket connection to ports.UserLink. Outbound
// messages go through a buffered channel drained by a single write
// pump; a full buffer drops the connection rather than blocking the
// match core.
type Conn struct {
	ws  *websocket.Conn
	log *zap.Logger

	send    chan ports.Action
	closeMu sync.Mutex
	closed  bool

	handlerMu sync.Mutex
	handler   ports.MessageHandler

	onClose func()
}

func newConn(ws *websocket.Conn, log *zap.Logger) *Conn {
	return &Conn{
		ws:   ws,
		log:  log,
		send: make(chan ports.Action, sendBuffer),
	}
}

// SendMessage enqueues an outbound action; it never blocks. Messages
// sent after the connection died are dropped.
func (c *Conn) SendMessage(a ports.Action) {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return
	}
	select {
	case c.send <- a:
		c.closeMu.Unlock()
		return
	default:
	}
	c.closeMu.Unlock()

	c.log.Warn("send buffer full, dropping connection")
	c.Close()
}

// SetOnMessage installs the inbound message handler.
func (c *Conn) SetOnMessage(h ports.MessageHandler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.handler = h
}

// SetOnClose installs a hook run once when the connection dies.
func (c *Conn) SetOnClose(fn func()) {
	c.onClose = fn
}

// Close tears the connection down. Safe to call more than once.
func (c *Conn) Close() error {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return nil
	}
	c.closed = true
	close(c.send)
	c.closeMu.Unlock()

	err := c.ws.Close()
	if c.onClose != nil {
		c.onClose()
	}
	return err
}

// run drives the read and write pumps until the connection dies.
func (c *Conn) run() {
	go c.writePump()
	c.readPump()
}

func (c *Conn) writePump() {
	for a := range c.send {
		if err := c.ws.WriteJSON(a); err != nil {
			c.log.Debug("write failed", zap.Error(err))
			c.Close()
			return
		}
	}
}

func (c *Conn) readPump() {
	defer c.Close()
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("read failed", zap.Error(err))
			}
			return
		}

		c.handlerMu.Lock()
		h := c.handler
		c.handlerMu.Unlock()
		if h != nil {
			h(c, raw)
		}
	}
}
