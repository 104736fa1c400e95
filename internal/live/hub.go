package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans run updates out to connected picker devices. Each pick mutation
// broadcasts the affected run's ID; clients re-fetch the snapshot over HTTP,
// keeping the socket protocol to a single tiny message shape.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan RunUpdate
	upgrader   websocket.Upgrader
}

// RunUpdate tells clients a run changed and what kind of change it was.
type RunUpdate struct {
	RunID  int       `json:"run_id"`
	Kind   string    `json:"kind"` // "picks", "status"
	Status string    `json:"status,omitempty"`
	At     time.Time `json:"at"`
}

func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan RunUpdate, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
	go h.run()
	return h
}

// HandleWS upgrades the connection and registers the client. The read loop
// only watches for close; clients never send.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Live] Upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Notify queues a run update for broadcast. Never blocks; if the queue is
// full the update is dropped and clients catch up on their next fetch.
func (h *Hub) Notify(update RunUpdate) {
	if h == nil {
		return
	}
	update.At = time.Now()
	select {
	case h.broadcast <- update:
	default:
	}
}

func (h *Hub) run() {
	for update := range h.broadcast {
		data, err := json.Marshal(update)
		if err != nil {
			continue
		}

		h.clientsMux.Lock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.clientsMux.Unlock()
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.clientsMux.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.clientsMux.Unlock()
}
