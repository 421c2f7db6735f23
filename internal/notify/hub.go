// Package notify pushes ingestion-log completion events to connected
// operators over WebSocket, generalized from the teacher's
// modules/shared/infrastructure/websocket/hub.go client-registry pattern.
package notify

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type EventType string

const (
	EventIngestionCompleted EventType = "ingestion_completed"
	EventCorrelationSwept   EventType = "correlation_swept"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Event
}

// Hub maintains the set of connected operators and fans out ingestion and
// correlation events to all of them.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan Event
	register   chan *client
	unregister chan *client
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan Event),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run drives the hub's event loop; call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c] = true
			h.mutex.Unlock()
			log.Printf("📡 notify client connected: %s", c.id)

		case c := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			log.Printf("📡 notify client disconnected: %s", c.id)

		case evt := <-h.broadcast:
			h.mutex.RLock()
			for c := range h.clients {
				select {
				case c.send <- evt:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) publish(evt Event) {
	select {
	case h.broadcast <- evt:
	default:
		log.Println("⚠️ notify broadcast channel full, dropping event")
	}
}

// PublishIngestionCompleted pushes an ingestion run summary to every
// connected operator (spec §9's "ingestion-log completion" trigger).
func (h *Hub) PublishIngestionCompleted(summary interface{}) {
	h.publish(Event{Type: EventIngestionCompleted, Data: summary, Timestamp: time.Now()})
}

// PublishCorrelationSwept pushes a periodic correlation sweep's summary.
func (h *Hub) PublishCorrelationSwept(applicationID string, newRelationships int) {
	h.publish(Event{
		Type: EventCorrelationSwept,
		Data: map[string]interface{}{
			"application_id":   applicationID,
			"new_relationships": newRelationships,
		},
		Timestamp: time.Now(),
	})
}

// HandleWebSocket upgrades the connection and registers the caller as a feed
// subscriber. Auth is enforced upstream by the JWT middleware.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ notify: upgrade failed: %v", err)
		return
	}

	id := c.GetString("user_id")
	if id == "" {
		id = "anonymous-" + time.Now().Format("20060102150405.000000000")
	}

	cl := &client{id: id, conn: conn, send: make(chan Event, 64)}
	h.register <- cl

	go cl.writePump()
	go cl.readPump(h)
}

func (c *client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(evt); err != nil {
				log.Printf("❌ notify: write failed for %s: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
