package api

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/banshee-data/openlaunch/internal/monitoring"
	"github.com/banshee-data/openlaunch/internal/shot"
)

// event is the envelope pushed to websocket subscribers.
type event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans shot and reading events out to websocket clients. Slow clients
// never block the producers: broadcasts are enqueued non-blocking and the
// hub drops events when its queue is full.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	events     chan event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

// NewHub creates an idle hub; call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		events:     make(chan event, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			monitoring.Debugf("api: websocket client connected (%d total)", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Close()
			}
			h.mu.Unlock()

		case e := <-h.events:
			payload, err := json.Marshal(e)
			if err != nil {
				monitoring.Logf("api: failed to encode %s event: %v", e.Type, err)
				continue
			}
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
					monitoring.Debugf("api: dropping websocket client: %v", err)
					c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastShot pushes a completed shot to all clients.
func (h *Hub) BroadcastShot(s *shot.Shot) {
	h.broadcast(event{Type: "shot", Data: s})
}

// BroadcastReading pushes a raw reading to all clients.
func (h *Hub) BroadcastReading(r shot.SpeedReading) {
	h.broadcast(event{Type: "reading", Data: r})
}

func (h *Hub) broadcast(e event) {
	h.mu.Lock()
	idle := len(h.clients) == 0
	h.mu.Unlock()
	if idle {
		return
	}
	select {
	case h.events <- e:
	default:
		// Queue full; the live stream is advisory, never back-pressure.
	}
}
