package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Subscriber yields the advisory reload payloads emitted on each publish.
type Subscriber func(ctx context.Context) <-chan string

// Hub fans freshly published picks out to connected in-app views over
// websocket. Purely advisory: clients that miss a message still see the
// current pick through the regular read path.
type Hub struct {
	upgrader  websocket.Upgrader
	subscribe Subscriber
	logger    *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub(subscribe Subscriber, logger *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subscribe: subscribe,
		logger:    logger,
		clients:   map[*websocket.Conn]struct{}{},
	}
}

// Run consumes the reload channel and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for payload := range h.subscribe(ctx) {
		h.broadcast(payload)
	}
}

func (h *Hub) broadcast(payload string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			h.logger.Debug("Dropping websocket client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Read loop exists only to observe the close.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
