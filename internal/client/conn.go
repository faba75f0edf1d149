package client

import (
	"context"
	"encoding/json"
	"time"

	"campus-portal/internal/models"
	"campus-portal/pkg/logger"

	"github.com/gorilla/websocket"
)

// Config wires a notification listener.
type Config struct {
	// URL is the ws:// endpoint of the notification channel.
	URL string
	// Creds is consulted on every connect, including reconnects; the room
	// join must be re-sent each time because the server keeps no membership
	// across connections.
	Creds CredentialStore
	Store *Store
	// ReconnectWait is the pause between dial attempts.
	ReconnectWait time.Duration
}

// Listen connects to the notification channel and feeds inbound
// notifications into the store until ctx is cancelled. Connection drops
// are retried forever; a failed credential decode degrades to an anonymous
// connection that still receives global broadcasts.
func Listen(ctx context.Context, cfg Config) error {
	wait := cfg.ReconnectWait
	if wait <= 0 {
		wait = 3 * time.Second
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
		if err != nil {
			logger.Error("Dial %s failed: %v", cfg.URL, err)
			if !sleep(ctx, wait) {
				return ctx.Err()
			}
			continue
		}

		joinRooms(conn, cfg.Creds)
		readLoop(ctx, conn, cfg.Store)
		conn.Close()

		logger.Info("Disconnected from %s, reconnecting", cfg.URL)
		if !sleep(ctx, wait) {
			return ctx.Err()
		}
	}
}

// joinRooms decodes the stored credential and sends one join request. No
// acknowledgment is awaited; the connection is usable immediately.
func joinRooms(conn *websocket.Conn, creds CredentialStore) {
	identity, err := DecodeIdentity(creds)
	if err != nil {
		// Logged inside the decoder for malformed tokens; an absent token
		// just means an anonymous connection.
		return
	}

	event := models.SocketEvent{
		Event:   models.EventJoin,
		Payload: models.JoinPayload{UserID: identity.ID, UserType: identity.Role},
	}
	if err := conn.WriteJSON(event); err != nil {
		logger.Error("Join request failed: %v", err)
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, store *Store) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event struct {
			Event   string          `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			logger.Debug("Malformed frame: %v", err)
			continue
		}
		if event.Event != models.EventNotification {
			continue
		}

		var n models.Notification
		if err := json.Unmarshal(event.Payload, &n); err != nil {
			logger.Debug("Malformed notification payload: %v", err)
			continue
		}
		store.Add(n)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
