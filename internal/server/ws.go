package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ProgressHandler broadcasts pipeline stage events to WebSocket clients.
// It implements pipeline.Observer; subscribe it to a Runner.
type ProgressHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	log     zerolog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler() *ProgressHandler {
	return &ProgressHandler{
		clients: make(map[*websocket.Conn]bool),
		log:     logging.NewLogger("ws"),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Notify implements pipeline.Observer by sending the event to every
// connected client.
func (h *ProgressHandler) Notify(e pipeline.Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug().Err(err).Msg("websocket write failed")
		}
	}
}
