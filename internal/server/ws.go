package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/airmouse/internal/app"
	"github.com/gorilla/websocket"
)

const (
	broadcastInterval = 66 * time.Millisecond // ~15 FPS
	writeWait         = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ResultSource provides the latest pipeline result.
type ResultSource interface {
	Latest() app.Result
}

// LandmarksHandler broadcasts pipeline results via WebSocket.
type LandmarksHandler struct {
	source  ResultSource
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLandmarksHandler creates a new LandmarksHandler and starts its
// broadcaster. Call Close to stop it.
func NewLandmarksHandler(source ResultSource) *LandmarksHandler {
	h := &LandmarksHandler{
		source:  source,
		clients: make(map[*websocket.Conn]bool),
		stop:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

// Close stops the broadcaster and closes every client connection.
func (h *LandmarksHandler) Close() {
	h.stopOnce.Do(func() {
		close(h.stop)

		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			conn.Close()
		}
	})
}

// Clients returns the number of connected clients.
func (h *LandmarksHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends each new result to all connected clients.
func (h *LandmarksHandler) broadcast() {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}

		if h.Clients() == 0 {
			continue
		}

		res := h.source.Latest()
		if res.Sequence == last {
			continue
		}
		last = res.Sequence

		msg, err := json.Marshal(res)
		if err != nil {
			log.Printf("Error encoding result: %v", err)
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				// the reader loop sees the closed connection and unregisters it
				conn.Close()
			}
		}
		h.mu.RUnlock()
	}
}
