package live

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bastion-ui/bastion/pkg/resource"
)

// Event is the wire form of a resource transition.
type Event struct {
	Key        string    `json:"key"`
	Generation uint64    `json:"generation"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// Hub broadcasts resource state transitions to connected websocket
// clients. Wire it to a resource with:
//
//	r.OnTransition(hub.Publish)
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default().With("component", "live")
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered
// until the client goes away. Inbound messages are discarded; the stream
// is one-way.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("live client connected", "remote", conn.RemoteAddr().String())

	defer func() {
		h.remove(conn)
		h.logger.Debug("live client disconnected", "remote", conn.RemoteAddr().String())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish converts a transition to an Event and broadcasts it. The
// signature matches Resource.OnTransition.
func (h *Hub) Publish(tr resource.Transition) {
	ev := Event{
		Key:        tr.Key,
		Generation: tr.Generation,
		From:       tr.From.String(),
		To:         tr.To.String(),
		At:         time.Now(),
	}
	if tr.Err != nil {
		ev.Error = tr.Err.Error()
	}
	h.Broadcast(ev)
}

// Broadcast sends the event to every connected client. Clients whose
// write fails are dropped. Writes are serialized under the hub lock;
// websocket connections do not allow concurrent writers.
func (h *Hub) Broadcast(ev Event) {
	var failed []*websocket.Conn

	h.mu.Lock()
	for conn := range h.conns {
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Warn("dropping live client", "error", err)
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		delete(h.conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range failed {
		conn.Close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}
