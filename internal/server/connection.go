package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Maximum time one command may wait for the session lock and store
	commandTimeout = 10 * time.Second
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one WebSocket client. A connection plays at most one session
// at a time, chosen with new_game or attach.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	service   *Service
	clock     quartz.Clock
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu        sync.RWMutex
	sessionID string
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, service *Service, clock quartz.Clock, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 64),
		service: service,
		clock:   clock,
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection. The write pump sends a close frame as it
// exits.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
	})
	return nil
}

// Session returns the session this connection is bound to, if any.
func (c *Connection) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

func (c *Connection) bind(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}

// SendMessage queues msg for the write pump.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection", "session", c.Session())
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		if c.ctx.Err() != nil {
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				_ = c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "session", c.Session())

	ctx, cancel := context.WithTimeout(c.ctx, commandTimeout)
	defer cancel()

	switch msg.Type {
	case MessageTypeNewGame:
		var data NewGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse new game data")
			return
		}
		id, view, err := c.service.Create(ctx, data.Name)
		if err != nil {
			c.sendFailure(msg, err)
			return
		}
		c.bind(id)
		c.sendState(msg, id, view)

	case MessageTypeAttach:
		var data AttachData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse attach data")
			return
		}
		view, err := c.service.Get(ctx, data.SessionID)
		if err != nil {
			c.sendFailure(msg, err)
			return
		}
		c.bind(data.SessionID)
		c.sendState(msg, data.SessionID, view)

	case MessageTypeLeave:
		id, ok := c.requireSession(msg)
		if !ok {
			return
		}
		view, err := c.service.StartOver(ctx, id)
		if err != nil {
			c.sendFailure(msg, err)
			return
		}
		c.bind("")
		c.sendState(msg, id, view)

	case MessageTypeNewHand, MessageTypeBet, MessageTypeHit, MessageTypeStay, MessageTypeDealerHit:
		id, ok := c.requireSession(msg)
		if !ok {
			return
		}
		cmd := game.Command{Kind: commandFor[msg.Type]}
		if msg.Type == MessageTypeBet {
			var data BetData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError(msg, "invalid_message", "Failed to parse bet data")
				return
			}
			cmd.Amount = data.Amount
		}
		view, err := c.service.Apply(ctx, id, cmd)
		if err != nil {
			c.sendFailure(msg, err)
			return
		}
		c.sendState(msg, id, view)

	default:
		c.sendError(msg, "unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) requireSession(msg *Message) (string, bool) {
	id := c.Session()
	if id == "" {
		c.sendError(msg, "no_session", "Send new_game or attach first")
		return "", false
	}
	return id, true
}

func (c *Connection) sendState(req *Message, id string, view game.View) {
	c.reply(req, MessageTypeState, StateData{SessionID: id, View: view})
}

func (c *Connection) sendFailure(req *Message, err error) {
	_, code := errorStatus(err)
	msg := err.Error()
	if code == "internal_error" {
		msg = "Internal error"
	}
	c.sendError(req, code, msg)
}

func (c *Connection) sendError(req *Message, code, message string) {
	c.reply(req, MessageTypeError, ErrorData{Code: code, Message: message})
}

func (c *Connection) reply(req *Message, mt MessageType, data any) {
	msg, err := NewMessage(mt, data, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", mt, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg) // Ignore send errors, the connection is closing
}
