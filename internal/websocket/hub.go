package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"posbackend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const EventTaxConfigChanged = "tax_config_changed"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is pushed to every terminal of a business. POS clients refetch their
// tax catalog when they receive tax_config_changed.
type Event struct {
	Type       string    `json:"type"`
	BusinessID uuid.UUID `json:"business_id"`
	Entity     string    `json:"entity"` // tax_rate, tax_exemption
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"` // created, updated, deleted
	At         time.Time `json:"at"`
}

type envelope struct {
	businessID uuid.UUID
	payload    []byte
}

// Client represents a single connected WebSocket client
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	businessID uuid.UUID
}

// Hub maintains the set of active clients and fans events out to the clients
// of the matching business.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex // guards clients for ClientCount
	log        *zap.SugaredLogger
}

// NewHub initializes a new WS Hub instance
func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		broadcast:  make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run starts the dispatch loop. It returns when ctx is done, closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debugw("websocket client connected", "business_id", client.businessID)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Debugw("websocket client disconnected", "business_id", client.businessID)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.businessID != msg.businessID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// NotifyTaxConfigChanged queues a tax_config_changed event. It never blocks;
// when the queue is full the event is dropped and clients catch up on the
// next cache expiry.
func (h *Hub) NotifyTaxConfigChanged(businessID uuid.UUID, entity, entityID, action string) {
	payload, err := json.Marshal(Event{
		Type:       EventTaxConfigChanged,
		BusinessID: businessID,
		Entity:     entity,
		EntityID:   entityID,
		Action:     action,
		At:         time.Now().UTC(),
	})
	if err != nil {
		h.log.Errorw("failed to encode websocket event", "error", err)
		return
	}

	select {
	case h.broadcast <- envelope{businessID: businessID, payload: payload}:
	default:
		h.log.Warnw("websocket broadcast queue full, dropping event", "business_id", businessID, "entity", entity)
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump keeps the connection alive and detects disconnects
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warnw("websocket read failed", "error", err)
			}
			return
		}
	}
}

// ServeWs authenticates the token query parameter and subscribes the peer to
// its business's events.
func ServeWs(hub *Hub, c *gin.Context, secret []byte) {
	tokenString := c.Query("token")
	if tokenString == "" {
		hub.log.Debug("websocket connection rejected: missing token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := middleware.ParseToken(tokenString, secret)
	if err != nil {
		hub.log.Debugw("websocket connection rejected: invalid token", "error", err)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	businessClaim, _ := claims["business_id"].(string)
	businessID, err := uuid.Parse(businessClaim)
	if err != nil {
		hub.log.Debugw("websocket connection rejected: missing business", "error", err)
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), businessID: businessID}
	select {
	case hub.register <- client:
	case <-hub.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
