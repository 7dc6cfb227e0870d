// Package sim implements a simulated NovaMotion controller: a websocket hub
// pushing the event stream a real controller would, a telemetry engine that
// runs continuous motion cycles, and a staged calibration sequence. It exists
// so the dashboard can be developed and demonstrated without hardware.
package sim

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Red1Kir/NovaMotion-Core/internal/logging"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

// Broadcaster fans an event out to every connected dashboard.
type Broadcaster interface {
	BroadcastEvent(t protocol.EventType, payload any)
}

// Hub manages websocket connections and fans broadcast frames out to all of
// them. Register, unregister, and broadcast all go through channels; the Run
// loop is the only goroutine touching the client map.
type Hub struct {
	log        logging.Logger
	clients    map[*websocket.Conn]struct{}
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	upgrader   websocket.Upgrader
	count      atomic.Int32
}

// NewHub allocates a hub with buffered channels. Call Run in a goroutine to
// start the event loop. The upgrader accepts any origin: the daemon serves
// local development, not the open internet.
func NewHub(log logging.Logger) *Hub {
	if log == nil {
		log = &logging.NullLogger{}
	}
	return &Hub{
		log:        log,
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn, 16),
		unregister: make(chan *websocket.Conn, 16),
		broadcast:  make(chan []byte, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ClientCount reports the number of connected dashboards.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Run processes registrations, unregistrations, broadcasts, and keepalive
// pings in a single select loop. It closes all clients when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ping := time.NewTicker(20 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				_ = c.Close()
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int32(len(h.clients)))
			h.log.Infof("sim: dashboard connected (%d total)", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				h.count.Store(int32(len(h.clients)))
				h.log.Infof("sim: dashboard disconnected (%d total)", len(h.clients))
			}
			_ = c.Close()

		case msg := <-h.broadcast:
			for c := range h.clients {
				_ = c.SetWriteDeadline(time.Now().Add(3 * time.Second))
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					delete(h.clients, c)
					h.count.Store(int32(len(h.clients)))
					_ = c.Close()
				}
			}

		case <-ping.C:
			for c := range h.clients {
				_ = c.SetWriteDeadline(time.Now().Add(2 * time.Second))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					delete(h.clients, c)
					h.count.Store(int32(len(h.clients)))
					_ = c.Close()
				}
			}
		}
	}
}

// Handler returns an http.Handler that upgrades incoming requests to
// websocket connections and registers them with the hub.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
			return
		}
		h.register <- conn

		// Dashboards never send frames; the read loop exists to notice the
		// peer going away and to answer pings.
		go func() {
			defer func() { h.unregister <- conn }()
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			conn.SetPongHandler(func(string) error {
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
				return nil
			})

			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}

// BroadcastEvent encodes a wire frame for the given type and payload and
// queues it for delivery to all connected dashboards. If the broadcast
// channel is full the frame is dropped rather than blocking the caller.
func (h *Hub) BroadcastEvent(t protocol.EventType, payload any) {
	frame, err := protocol.NewFrame(t, payload)
	if err != nil {
		h.log.Errorf("sim: encode %s frame: %v", t, err)
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		h.log.Warnf("sim: broadcast queue full, dropping %s frame", t)
	}
}
