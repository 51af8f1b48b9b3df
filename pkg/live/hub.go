package live

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/vbind/pkg/protocol"
)

// writeWait bounds a single frame write to one client.
const writeWait = 10 * time.Second

// ExecFunc runs fn serialized with scheduler flushes and waits for it.
// scheduler.Loop.Do has this signature.
type ExecFunc func(ctx context.Context, fn func()) error

func inline(_ context.Context, fn func()) error {
	fn()
	return nil
}

// HubOptions configures a Hub.
type HubOptions struct {
	// Logger receives connect, disconnect and write-failure events.
	Logger *slog.Logger

	// Snapshot builds the frame sent to each client when it connects.
	Snapshot func() *protocol.Frame

	// Exec serializes a client joining with broadcasts, so no flush falls
	// between its snapshot and its first patches frame. Default: inline.
	Exec ExecFunc

	// CheckOrigin is passed to the websocket upgrader. Default: requests
	// without an Origin header or with one matching the Host header.
	CheckOrigin func(r *http.Request) bool

	// Metrics, when set, receives client and frame counts.
	Metrics *Metrics
}

// SameOrigin reports whether r carries no Origin header or one whose host
// matches r.Host.
func SameOrigin(r *http.Request) bool {
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

// Hub manages websocket clients and fans frames out to them.
type Hub struct {
	logger   *slog.Logger
	snapshot func() *protocol.Frame
	exec     ExecFunc
	metrics  *Metrics
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // Serializes writes; gorilla allows one concurrent writer
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

// NewHub creates a hub.
func NewHub(opts HubOptions) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "live")
	}
	exec := opts.Exec
	if exec == nil {
		exec = inline
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = SameOrigin
	}
	return &Hub{
		logger:   logger,
		snapshot: opts.Snapshot,
		exec:     exec,
		metrics:  opts.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		clients: make(map[string]*client),
	}
}

// ServeHTTP upgrades the request and keeps the connection until the client
// goes away. Clients only receive; anything they send is discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		h.metrics.recordError("upgrade")
		return
	}
	c := &client{id: uuid.NewString(), conn: conn}

	var joinErr error
	err = h.exec(r.Context(), func() {
		if h.snapshot != nil {
			f := h.snapshot()
			data := f.Encode()
			if joinErr = c.write(data); joinErr != nil {
				return
			}
			h.metrics.recordFrame(f.Type, len(data))
		}
		h.mu.Lock()
		h.clients[c.id] = c
		h.metrics.setClients(len(h.clients))
		h.mu.Unlock()
	})
	if err == nil {
		err = joinErr
	}
	if err != nil {
		h.logger.Warn("live client join failed", "client", c.id, "error", err)
		h.metrics.recordError("join")
		conn.Close()
		return
	}
	h.metrics.recordConnect()
	h.logger.Info("live client connected", "client", c.id, "remote", r.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	if h.drop(c) {
		h.logger.Info("live client disconnected", "client", c.id)
	}
}

// drop unregisters and closes c. It reports whether c was still registered.
func (h *Hub) drop(c *client) bool {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.metrics.setClients(len(h.clients))
	h.mu.Unlock()
	c.conn.Close()
	return ok
}

// Broadcast sends f to every connected client. Clients whose write fails
// are dropped.
func (h *Hub) Broadcast(f *protocol.Frame) {
	data := f.Encode()

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Warn("live write failed", "client", c.id, "frame", f.Type, "error", err)
			h.metrics.recordError("write")
			h.drop(c)
			continue
		}
		h.metrics.recordFrame(f.Type, len(data))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
	h.metrics.setClients(0)
}
