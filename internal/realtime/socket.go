package realtime

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TokenValidator checks a bearer token at handshake time.
type TokenValidator interface {
	ValidateToken(raw string) (userID uuid.UUID, role string, err error)
}

// Authorizer decides whether a connected user may subscribe to a trip.
type Authorizer interface {
	CanSubscribe(userID uuid.UUID, role string, tripID uuid.UUID, shareToken string) error
}

type clientMessage struct {
	Action     string    `json:"action"` // subscribe | unsubscribe
	TripID     uuid.UUID `json:"trip_id"`
	ShareToken string    `json:"share_token,omitempty"`
}

type serverNotice struct {
	Kind    string    `json:"kind"` // subscribed | unsubscribed | error
	TripID  uuid.UUID `json:"trip_id,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Upgrade authenticates the handshake and gates the websocket upgrade.
// The token comes from the Authorization header or a token query param
// (browsers cannot set headers on websocket connects).
func Upgrade(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		raw := c.Query("token")
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			raw = strings.TrimPrefix(auth, "Bearer ")
		}
		if raw == "" {
			return httperr.Respond(c, httperr.Unauthenticated("missing bearer token"))
		}

		userID, role, err := validator.ValidateToken(raw)
		if err != nil {
			return httperr.Respond(c, httperr.Unauthenticated("invalid or expired token"))
		}

		c.Locals("rt_user_id", userID)
		c.Locals("rt_role", role)
		return c.Next()
	}
}

// socketConn serializes writes; events and notices come from different
// goroutines and the underlying connection allows one writer at a time.
type socketConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *socketConn) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// Handler runs one websocket session: a writer goroutine drains the
// subscriber queue while the read loop processes subscribe/unsubscribe.
func Handler(hub *Hub, authz Authorizer) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("rt_user_id").(uuid.UUID)
		role, _ := conn.Locals("rt_role").(string)

		sub := NewSubscriber()
		sc := &socketConn{conn: conn}
		defer hub.Drop(sub)

		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for evt := range sub.Events() {
				if err := sc.writeJSON(evt); err != nil {
					return
				}
			}
		}()

		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}

			switch msg.Action {
			case "subscribe":
				if msg.TripID == uuid.Nil {
					sc.writeJSON(serverNotice{Kind: "error", Message: "trip_id is required"})
					continue
				}
				if err := authz.CanSubscribe(userID, role, msg.TripID, msg.ShareToken); err != nil {
					sc.writeJSON(serverNotice{Kind: "error", TripID: msg.TripID, Message: "not allowed to subscribe to this trip"})
					continue
				}
				hub.Subscribe(msg.TripID, sub)
				sc.writeJSON(serverNotice{Kind: "subscribed", TripID: msg.TripID})
			case "unsubscribe":
				hub.Unsubscribe(msg.TripID, sub)
				sc.writeJSON(serverNotice{Kind: "unsubscribed", TripID: msg.TripID})
			default:
				sc.writeJSON(serverNotice{Kind: "error", Message: "unknown action"})
			}
		}

		hub.Drop(sub)
		<-writerDone
		slog.Debug("websocket session closed", "user_id", userID)
	})
}
