package ws

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
)

type Connection struct {
	ws     *websocket.Conn
	send   chan []byte
	userID string
	connID string
	server *Server
}

// trySend queues a frame without blocking; slow clients drop events.
func (c *Connection) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

type clientEvent struct {
	Event string          `json:"event"`
	Room  string          `json:"room,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func (c *Connection) readPump() {
	defer func() {
		c.server.dropConnection(c)
		_ = c.ws.Close()
	}()
	c.ws.SetReadLimit(32 * 1024)
	_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var ev clientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			// ignore invalid JSON from client, don't disconnect
			continue
		}
		c.server.handleClientEvent(c, &ev)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				_ = c.ws.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
