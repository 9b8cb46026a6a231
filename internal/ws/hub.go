package ws

import (
	"context"
	"encoding/json"
	"sync"

	"feedmill-production/internal/service"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const broadcastBuffer = 256

// Hub fans batch events out to connected dashboards. It implements
// service.Notifier.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	mutex      sync.Mutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, broadcastBuffer),
		logger:     logger,
	}
}

// Publish queues an event for broadcast. When the queue is full the event
// is dropped rather than stalling the caller.
func (h *Hub) Publish(event service.BatchEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal batch event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("batch event dropped, broadcast queue full",
			zap.String("type", string(event.Type)),
			zap.String("batch_number", event.BatchNumber))
	}
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.logger.Debug("ws client connected")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Handler registers the connection and blocks reading until the client goes away.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		h.register <- c
		defer func() { h.unregister <- c }()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}
}
