package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/petitchef/petit-chef/game/service"
	"github.com/petitchef/petit-chef/telemetry"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	sendBufferSize = 256
)

// Client-initiated event names.
const (
	eventServiceStart = "service:start"
	eventServiceStop  = "service:stop"
	eventOrderServe   = "order:serve"
	eventOrderReject  = "order:reject"
)

// envelope is the wire format in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// orderRequest is the payload of order:serve and order:reject.
type orderRequest struct {
	OrderID  string `json:"order_id"`
	RecipeID string `json:"recipe_id,omitempty"`
}

// Client is one authenticated WebSocket connection. It implements
// session.EventSink so the engine can push events straight to the socket.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	playerID string

	// mu guards send and closed. Engine goroutines (expiry timers, in-flight
	// resolutions) may still push after the connection is unregistered; a
	// closed client drops those events instead of panicking on a closed
	// channel.
	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// Push queues a server-to-client event. A push to a disconnected client is
// dropped; a client that cannot keep up has its connection dropped rather
// than blocking the engine.
func (c *Client) Push(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		telemetry.Errorf("gateway: marshal %s: %v", event, err)
		return
	}
	msg, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		telemetry.Errorf("gateway: marshal envelope: %v", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	select {
	case c.send <- msg:
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		c.hub.unregister(c)
	}
}

// closeSend marks the client closed and closes the send channel so writePump
// exits. Idempotent; safe against concurrent Push calls.
func (c *Client) closeSend() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// readPump reads client events and dispatches them to the engine, one at a
// time, so a player's actions are resolved in the order they were sent.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				telemetry.Warnf("gateway: read error for %s: %v", c.playerID, err)
			}
			return
		}
		c.dispatch(raw)
	}
}

func (c *Client) dispatch(raw []byte) {
	var msg envelope
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.Push(service.EventServiceError, service.ErrorPayload{Message: "Malformed message"})
		return
	}

	ctx := context.Background()

	switch msg.Event {
	case eventServiceStart:
		c.hub.svc.StartService(ctx, c.playerID, c)

	case eventServiceStop:
		c.hub.svc.StopService(ctx, c.playerID, c)

	case eventOrderServe:
		var req orderRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.OrderID == "" {
			c.Push(service.EventServiceError, service.ErrorPayload{Message: "order_id is required"})
			return
		}
		c.hub.svc.ServeOrder(ctx, c.playerID, req.OrderID, req.RecipeID, c)

	case eventOrderReject:
		var req orderRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.OrderID == "" {
			c.Push(service.EventServiceError, service.ErrorPayload{Message: "order_id is required"})
			return
		}
		c.hub.svc.RejectOrder(ctx, c.playerID, req.OrderID, c)

	default:
		c.Push(service.EventServiceError, service.ErrorPayload{Message: "Unknown event: " + msg.Event})
	}
}

// writePump pumps queued events to the WebSocket connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
