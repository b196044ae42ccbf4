// Package ws fans realtime inventory events out to connected websocket clients.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

const broadcastBuffer = 256

// Message is the frame every client receives.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is the part of a websocket connection the hub writes to.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Peer is a client the hub also reads from.
type Peer interface {
	Client
	ReadMessage() (messageType int, p []byte, err error)
}

type Hub struct {
	Clients    map[Client]bool
	Register   chan Client
	Unregister chan Client
	Broadcast  chan []byte
	mutex      sync.Mutex

	// closed when Run returns
	done chan struct{}

	log logrus.FieldLogger
	now func() time.Time
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		Clients:    make(map[Client]bool),
		Register:   make(chan Client),
		Unregister: make(chan Client),
		Broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log,
		now:        time.Now,
	}
}

// Run serves the register, unregister and broadcast channels until ctx is done,
// then closes every remaining client. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				_ = conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			total := len(h.Clients)
			h.mutex.Unlock()
			h.log.WithField("clients", total).Debug("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				_ = conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.WithError(err).Debug("dropping websocket client")
					_ = conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues an event for every connected client. It never blocks: when
// the queue is full the event is dropped and logged.
func (h *Hub) Publish(event string, payload interface{}) {
	message, err := json.Marshal(Message{Type: event, Data: payload, Timestamp: h.now().UTC()})
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("failed to encode websocket event")
		return
	}
	select {
	case h.Broadcast <- message:
	default:
		h.log.WithField("event", event).Warn("websocket broadcast queue full, event dropped")
	}
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Serve registers conn and keeps reading until the peer goes away.
func (h *Hub) Serve(conn *websocket.Conn) {
	h.serve(conn)
}

func (h *Hub) serve(peer Peer) {
	select {
	case h.Register <- peer:
	case <-h.done:
		_ = peer.Close()
		return
	}
	defer func() {
		select {
		case h.Unregister <- peer:
		case <-h.done:
		}
	}()

	for {
		if _, _, err := peer.ReadMessage(); err != nil {
			return
		}
	}
}
