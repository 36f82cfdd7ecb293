package server

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"MarketLens/internal/dashboard"
	"MarketLens/internal/logging"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin:       sameOrigin,
	EnableCompression: true,
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from the page this server served.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

const (
	pingInterval = 45 * time.Second
	readTimeout  = 90 * time.Second
)

// StatusMessage is pushed to every connected page.
type StatusMessage struct {
	Type   string            `json:"type"`
	Text   string            `json:"text"`
	Status *dashboard.Status `json:"status,omitempty"`
}

func statusMessage(text string, st dashboard.Status) StatusMessage {
	return StatusMessage{Type: "status", Text: text, Status: &st}
}

type client struct {
	conn *websocket.Conn
	out  chan any
	done chan struct{}
}

// Hub fans status messages out to websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues v for every client. Slow clients drop messages.
func (h *Hub) Broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.out <- v:
		default:
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.conn.Close()
	}
}

// ServeWS upgrades the request and serves the client until it disconnects.
// greeting is the first message sent.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, greeting any) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.For("hub").Debugf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	cl := &client{conn: conn, out: make(chan any, 64), done: make(chan struct{})}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		close(cl.done)
	}()

	// writer
	go func() {
		ping := time.NewTicker(pingInterval)
		defer ping.Stop()
		for {
			select {
			case v := <-cl.out:
				if err := conn.WriteJSON(v); err != nil {
					return
				}
			case <-ping.C:
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			case <-cl.done:
				return
			}
		}
	}()

	cl.out <- greeting

	// reader; the page sends nothing but pongs
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
