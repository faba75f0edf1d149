package notify

import (
	"encoding/json"
	"time"

	"campus-portal/internal/models"
	"campus-portal/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Client is one live connection to the notification channel.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

func NewClient(hub *Hub, conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		id:   uuid.NewString(),
	}
}

// ID is the server-local connection id, used only for diagnostics.
func (c *Client) ID() string {
	return c.id
}

// ReadPump consumes inbound frames. The only meaningful client->server
// event is "join"; anything else is logged and dropped.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error on %s: %v", c.id, err)
			}
			break
		}

		var event struct {
			Event   string          `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			logger.Debug("Connection %s sent malformed frame: %v", c.id, err)
			continue
		}

		switch event.Event {
		case models.EventJoin:
			var join models.JoinPayload
			if err := json.Unmarshal(event.Payload, &join); err != nil {
				logger.Debug("Connection %s sent malformed join: %v", c.id, err)
				continue
			}
			if !join.UserType.Valid() {
				logger.Debug("Connection %s sent join with unknown role %q", c.id, join.UserType)
				continue
			}
			c.hub.Join(c, join.UserType, join.UserID)
		default:
			logger.Debug("Connection %s sent unknown event %q", c.id, event.Event)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("Write error on %s: %v", c.id, err)
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
