package notify

import (
	"encoding/json"
	"fmt"

	"campus-portal/internal/models"
	"campus-portal/pkg/logger"
)

// RoomKey is the identity-room name for one logical user. A user with
// several open tabs or devices has several connections in the same room.
func RoomKey(role models.Role, id int) string {
	return fmt.Sprintf("%s-%d", role, id)
}

// TypeRoomKey is the room name addressed by a broadcast-to-role dispatch.
// Connections are added to it at join time, alongside their identity room.
func TypeRoomKey(role models.Role) string {
	return string(role)
}

type joinRequest struct {
	client *Client
	rooms  []string
}

type dispatch struct {
	rooms []string
	all   bool
	data  []byte
}

// Hub owns the room table. All membership mutations and dispatches are
// serialized through its run loop; nothing outside this type ever sees
// the raw map.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	join     chan joinRequest
	dispatch chan dispatch
	shutdown chan struct{}

	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		join:       make(chan joinRequest),
		dispatch:   make(chan dispatch),
		shutdown:   make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.shutdown:
			for client := range h.clients {
				close(client.send)
			}
			return

		case client := <-h.Register:
			h.clients[client] = struct{}{}
			logger.Debug("Connection %s registered", client.id)

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				close(client.send)
				logger.Debug("Connection %s unregistered", client.id)
			}

		case req := <-h.join:
			if _, ok := h.clients[req.client]; !ok {
				continue
			}
			for _, room := range req.rooms {
				members, ok := h.rooms[room]
				if !ok {
					members = make(map[*Client]struct{})
					h.rooms[room] = members
				}
				// Re-joining is a no-op; the connection stays a member.
				members[req.client] = struct{}{}
			}
			logger.Info("Connection %s joined rooms %v", req.client.id, req.rooms)

		case d := <-h.dispatch:
			h.deliver(d)
		}
	}
}

// deliver emits one dispatch to its resolved recipients. A connection
// reachable through more than one targeted room still receives a single
// copy.
func (h *Hub) deliver(d dispatch) {
	if d.all {
		for client := range h.clients {
			h.emit(client, d.data)
		}
		return
	}

	seen := make(map[*Client]struct{})
	for _, room := range d.rooms {
		for client := range h.rooms[room] {
			if _, dup := seen[client]; dup {
				continue
			}
			seen[client] = struct{}{}
			h.emit(client, d.data)
		}
	}
}

func (h *Hub) emit(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		// Slow consumer. Drop the connection rather than block the hub.
		h.remove(client)
		close(client.send)
		logger.Warn("Connection %s dropped: send buffer full", client.id)
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	for room, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Join associates a connection with the identity room for (role, id) and
// with the role's type room. Fire-and-forget: there is no acknowledgment
// and joining twice changes nothing.
func (h *Hub) Join(client *Client, role models.Role, id int) {
	select {
	case h.join <- joinRequest{client: client, rooms: []string{RoomKey(role, id), TypeRoomKey(role)}}:
	case <-h.shutdown:
	}
}

// NotifyUser emits n once to the identity room of every id in ids. Users
// not connected at dispatch time are silently skipped.
func (h *Hub) NotifyUser(role models.Role, ids []int, n models.Notification) {
	rooms := make([]string, 0, len(ids))
	for _, id := range ids {
		rooms = append(rooms, RoomKey(role, id))
	}
	h.send(dispatch{rooms: dedupe(rooms), data: encode(n)})
}

// NotifyUserType emits n to every connection in the role's type room.
func (h *Hub) NotifyUserType(role models.Role, n models.Notification) {
	h.send(dispatch{rooms: []string{TypeRoomKey(role)}, data: encode(n)})
}

// NotifyAll emits n to every connected client, including connections
// that never joined a room.
func (h *Hub) NotifyAll(n models.Notification) {
	h.send(dispatch{all: true, data: encode(n)})
}

func (h *Hub) send(d dispatch) {
	if d.data == nil {
		return
	}
	select {
	case h.dispatch <- d:
	case <-h.shutdown:
	}
}

// Shutdown stops the run loop and closes every client's outbound queue.
func (h *Hub) Shutdown() {
	close(h.shutdown)
}

func dedupe(rooms []string) []string {
	seen := make(map[string]struct{}, len(rooms))
	out := rooms[:0]
	for _, r := range rooms {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func encode(n models.Notification) []byte {
	data, err := json.Marshal(models.SocketEvent{Event: models.EventNotification, Payload: n})
	if err != nil {
		logger.Error("Error marshaling notification: %v", err)
		return nil
	}
	return data
}
