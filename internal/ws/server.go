package ws

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/presence"
)

// LastSeenStore persists last-seen timestamps when a connection closes.
type LastSeenStore interface {
	SetLastSeen(ctx context.Context, userID string, t time.Time) error
}

// Server ties websocket connections to the presence registry and the hub.
type Server struct {
	Hub      *Hub
	presence *presence.Registry
	lastSeen LastSeenStore
	log      *zap.SugaredLogger
}

func NewServer(hub *Hub, reg *presence.Registry, lastSeen LastSeenStore, log *zap.SugaredLogger) *Server {
	return &Server{Hub: hub, presence: reg, lastSeen: lastSeen, log: log}
}

// HandleWS is the websocket.Handler used with websocket.New(). The user id
// is resolved by the auth middleware before the upgrade.
func (s *Server) HandleWS(wsConn *websocket.Conn) {
	userID, _ := wsConn.Locals("user_id").(string)
	if userID == "" {
		_ = wsConn.Close()
		return
	}

	conn := &Connection{
		ws:     wsConn,
		send:   make(chan []byte, 256),
		userID: userID,
		connID: uuid.NewString(),
		server: s,
	}

	s.presence.Connect(userID, conn.connID)
	s.Hub.Register(conn)
	s.Hub.BroadcastAll("onlineUsers", s.presence.Snapshot())

	go conn.writePump()
	conn.readPump()
}

func (s *Server) handleClientEvent(c *Connection, ev *clientEvent) {
	s.presence.Touch(c.userID)
	switch ev.Event {
	case "join":
		if ev.Room != "" {
			s.Hub.Join(c, ev.Room)
		}
	case "typing":
		if ev.Room != "" {
			s.Hub.EmitToRoom(ev.Room, "typing", map[string]interface{}{
				"user_id": c.userID,
				"room":    ev.Room,
			})
		}
	default:
		// unknown client events are ignored
	}
}

func (s *Server) dropConnection(c *Connection) {
	s.Hub.Unregister(c)
	// A reconnect replaces the registry entry, so a close from the older
	// connection must not mark the user offline.
	if !s.presence.Disconnect(c.userID, c.connID) {
		return
	}
	if s.lastSeen != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.lastSeen.SetLastSeen(ctx, c.userID, time.Now().UTC()); err != nil {
			s.log.Warnw("persist last seen", "user_id", c.userID, "err", err)
		}
	}
	s.Hub.BroadcastAll("onlineUsers", s.presence.Snapshot())
}
