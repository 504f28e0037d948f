package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one broadcast message to websocket subscribers.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventHub fans events out to connected websocket clients. A slow client is
// dropped rather than allowed to block the others.
type EventHub struct {
	upgrader websocket.Upgrader

	clients    map[*websocket.Conn]chan Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan Event
	done       chan struct{}

	mu sync.RWMutex
}

// NewEventHub creates an event hub.
func NewEventHub() *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:    make(map[*websocket.Conn]chan Event),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Close is called.
func (h *EventHub) Run() {
	for {
		select {
		case conn := <-h.register:
			ch := make(chan Event, 16)
			h.mu.Lock()
			h.clients[conn] = ch
			h.mu.Unlock()
			go h.writeLoop(conn, ch)

		case conn := <-h.unregister:
			h.drop(conn)

		case event := <-h.events:
			h.mu.RLock()
			for conn, ch := range h.clients {
				select {
				case ch <- event:
				default:
					go h.drop(conn)
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for conn, ch := range h.clients {
				close(ch)
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Publish queues an event for all subscribers. Drops the event if the hub's
// buffer is full.
func (h *EventHub) Publish(eventType string, data interface{}) {
	select {
	case h.events <- Event{Type: eventType, Data: data, Timestamp: time.Now()}:
	default:
		slog.Warn("event hub buffer full, dropping event", "type", eventType)
	}
}

// Close shuts the hub down and disconnects all clients.
func (h *EventHub) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// HandleWebSocket upgrades the request and subscribes the client.
func (h *EventHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.register <- conn

	// Reader discards client frames; it exists to notice disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister <- conn
				return
			}
		}
	}()
}

func (h *EventHub) writeLoop(conn *websocket.Conn, ch chan Event) {
	for event := range ch {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			h.unregister <- conn
			return
		}
	}
}

func (h *EventHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
		conn.Close()
	}
}
