package handlers

import (
	"net/http"

	"campus-portal/internal/notify"
	"campus-portal/pkg/logger"

	"github.com/gorilla/websocket"
)

type WebSocketHandlers struct {
	hub        *notify.Hub
	sendBuffer int
	upgrader   websocket.Upgrader
}

func NewWebSocketHandlers(hub *notify.Hub, sendBuffer int) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub:        hub,
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

// HandleWebSocket accepts a notification-channel connection. Connections
// are accepted without a token: an anonymous connection still receives
// global broadcasts, and room membership comes later from the client's
// join event.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := notify.NewClient(h.hub, conn, h.sendBuffer)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
