package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go-inventory-tracker/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one open feed connection, subscribed to a single owner's events.
type Client struct {
	OwnerID uuid.UUID
	Conn    Conn
}

// Event is the JSON frame sent to clients.
type Event struct {
	Type   string    `json:"type"`
	Action string    `json:"action"`
	Data   any       `json:"data"`
	SentAt time.Time `json:"sent_at"`
}

type message struct {
	ownerID uuid.UUID
	payload []byte
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	log        *logger.Logger
	mutex      sync.Mutex
}

func NewHub(buffer int, logg *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = 256
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, buffer),
		done:       make(chan struct{}),
		log:        logg,
	}
}

// Run delivers events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				_ = client.Conn.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Debug(h.log.WithField(ctx, "owner_id", client.OwnerID.String()), "ws client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				_ = client.Conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if client.OwnerID != msg.ownerID {
					continue
				}
				if err := client.Conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					_ = client.Conn.Close()
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds client to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for ownerID's clients without blocking. Events are
// dropped when the buffer is full.
func (h *Hub) Publish(ownerID uuid.UUID, action string, data any) {
	payload, err := json.Marshal(Event{Type: "stock_update", Action: action, Data: data, SentAt: time.Now().UTC()})
	if err != nil {
		h.log.Error(context.Background(), "encoding ws event", err)
		return
	}

	select {
	case h.broadcast <- message{ownerID: ownerID, payload: payload}:
	default:
		ctx := h.log.WithFields(context.Background(), map[string]any{"owner_id": ownerID.String(), "action": action})
		h.log.Warn(ctx, "ws broadcast buffer full, event dropped")
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
