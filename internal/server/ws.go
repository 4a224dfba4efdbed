// Package server provides the HTTP dashboard server for the Grinshot smile shutter.
package server

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/anika/grinshot/internal/smile"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler broadcasts real-time smile classification results via WebSocket.
// Results are pushed into the hub by the analysis pipeline, so connected
// clients see exactly the frames the pipeline analyzed.
type LiveHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveHandler creates a new LiveHandler with no connected clients.
func NewLiveHandler() *LiveHandler {
	return &LiveHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
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

// liveMessage is the wire form of one analyzed frame's result.
type liveMessage struct {
	Result    smile.Result `json:"result"`
	Timestamp int64        `json:"timestamp"`
}

// Publish sends a classification result to all connected clients. It is safe
// to call from the pipeline worker goroutine. The full lock covers the
// connection writes; gorilla/websocket forbids concurrent writers on one
// connection.
func (h *LiveHandler) Publish(res smile.Result) {
	// Degenerate geometry yields a non-finite ratio, which JSON cannot
	// carry; the wire form reports 0 instead.
	if math.IsNaN(res.MouthWidthRatio) || math.IsInf(res.MouthWidthRatio, 0) {
		res.MouthWidthRatio = 0
	}

	msg, err := json.Marshal(liveMessage{Result: res, Timestamp: time.Now().UnixMilli()})
	if err != nil {
		log.Printf("failed to encode live result: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *LiveHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
