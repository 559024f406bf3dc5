package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

// Event names pushed to connected back-office clients.
const (
	EventDocumentCreated    = "document.created"
	EventDocumentUpdated    = "document.updated"
	EventDocumentDeleted    = "document.deleted"
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
)

// Event is the wire payload for a realtime notification. Label carries the
// human-facing detail (a document reference, a transaction kind) and may be
// empty.
type Event struct {
	Name  string `json:"event"`
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// session is one authenticated websocket connection.
type session struct {
	hub  *Hub
	conn *websocket.Conn
	out  chan []byte
}

// Hub fans events out to every connected session.
type Hub struct {
	sessions map[*session]bool
	events   chan Event
	join     chan *session
	leave    chan *session
	mu       sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[*session]bool),
		events:   make(chan Event),
		join:     make(chan *session),
		leave:    make(chan *session),
	}
}

// Publish queues an event for delivery to every connected session. Safe to
// call from any goroutine; blocks until Run picks the event up.
func (h *Hub) Publish(ev Event) {
	h.events <- ev
}

// Run dispatches joins, leaves and published events. Call it once, in its
// own goroutine, before accepting connections.
func (h *Hub) Run() {
	for {
		select {
		case s := <-h.join:
			h.mu.Lock()
			h.sessions[s] = true
			h.mu.Unlock()
		case s := <-h.leave:
			h.mu.Lock()
			if _, ok := h.sessions[s]; ok {
				delete(h.sessions, s)
				close(s.out)
			}
			h.mu.Unlock()
		case ev := <-h.events:
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Printf("websocket: dropping unmarshalable event %q: %v", ev.Name, err)
				continue
			}
			h.mu.Lock()
			for s := range h.sessions {
				select {
				case s.out <- payload:
				default:
					// Slow consumer: cut it loose rather than stall the hub.
					delete(h.sessions, s)
					close(s.out)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (s *session) writeLoop() {
	defer func() {
		_ = s.conn.Close()
	}()
	for payload := range s.out {
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (s *session) readLoop() {
	defer func() {
		s.hub.leave <- s
		_ = s.conn.Close()
	}()
	for {
		// Clients never send anything meaningful; reading just detects
		// the close.
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket: read error: %v", err)
			}
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer in front of us.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// authorize validates the token query param. Browsers cannot set headers on
// websocket upgrades, hence the query param.
func authorize(c *gin.Context, secret []byte) (int, bool) {
	raw := c.Query("token")
	if raw == "" {
		return http.StatusUnauthorized, false
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return http.StatusUnauthorized, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return http.StatusUnauthorized, false
	}
	role, _ := claims["role"].(string)
	if role != "admin" && role != "manager" && role != "staff" {
		return http.StatusForbidden, false
	}
	return http.StatusOK, true
}

// ServeWs authenticates the peer and upgrades the request to a websocket
// session attached to hub.
func ServeWs(hub *Hub, c *gin.Context, secret []byte) {
	if status, ok := authorize(c, secret); !ok {
		log.Printf("websocket: connection rejected (%d)", status)
		c.AbortWithStatus(status)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket: upgrade failed:", err)
		return
	}
	s := &session{hub: hub, conn: conn, out: make(chan []byte, 256)}
	hub.join <- s

	go s.writeLoop()
	go s.readLoop()
}
