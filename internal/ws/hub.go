package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event is the envelope every pushed payload travels in.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Hub routes events to live connections by user id and by named room.
// Delivery is fire-and-forget: a slow or closed connection drops the event.
type Hub struct {
	mu     sync.RWMutex
	byUser map[string]map[*Connection]struct{}
	rooms  map[string]map[*Connection]struct{}
	log    *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		byUser: make(map[string]map[*Connection]struct{}),
		rooms:  make(map[string]map[*Connection]struct{}),
		log:    log,
	}
}

func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.byUser[c.userID]; !ok {
		h.byUser[c.userID] = make(map[*Connection]struct{})
	}
	h.byUser[c.userID][c] = struct{}{}
}

func (h *Hub) Unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.byUser[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byUser, c.userID)
		}
	}
	for room, set := range h.rooms {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Join subscribes a connection to an arbitrary named room.
func (h *Hub) Join(c *Connection, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Connection]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

// EmitToUsers pushes an event to every live connection of the given users.
// At-most-once: there is no acknowledgment and no retry.
func (h *Hub) EmitToUsers(userIDs []string, event string, payload interface{}) {
	data, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		h.log.Errorw("marshal push event", "event", event, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, uid := range userIDs {
		for c := range h.byUser[uid] {
			c.trySend(data)
		}
	}
}

// EmitToRoom pushes an event to every connection subscribed to a room.
func (h *Hub) EmitToRoom(room, event string, payload interface{}) {
	data, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		h.log.Errorw("marshal push event", "event", event, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		c.trySend(data)
	}
}

// BroadcastAll pushes an event to every live connection.
func (h *Hub) BroadcastAll(event string, payload interface{}) {
	data, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		h.log.Errorw("marshal push event", "event", event, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.byUser {
		for c := range set {
			c.trySend(data)
		}
	}
}
