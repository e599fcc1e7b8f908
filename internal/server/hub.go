package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"imgsel/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

// Event is a progress notification pushed to websocket subscribers.
type Event struct {
	Type      string `json:"type"`
	Operation string `json:"operation,omitempty"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
}

const (
	EventScanProgress  = "scan_progress"
	EventScanDone      = "scan_done"
	EventBatchProgress = "batch_progress"
	EventBatchDone     = "batch_done"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans progress events out to every connected websocket.
// Slow subscribers drop events rather than stall a scan or batch.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  logging.Logger
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), logger: logger}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warnf("encode event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Verbosef("dropping %s event for slow subscriber", event.Type)
		}
	}
}

// ServeWS upgrades the request and streams events until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	done := make(chan struct{})
	go h.writeLoop(c, done)

	// Reads only detect the close; subscribers never send anything meaningful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(done)
	conn.Close()
}

func (h *Hub) writeLoop(c *client, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Verbosef("websocket write: %v", err)
				return
			}
		}
	}
}
