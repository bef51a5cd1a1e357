// SPDX-License-Identifier: EPL-2.0

package preview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ik5/hapsync/internal/logger"
)

const writeWait = 5 * time.Second

// Message kinds.
const (
	KindFull     = "haptic_full"
	KindPrecise  = "haptic_precise"
	KindClassify = "classification"
)

// Message is what clients receive.
type Message struct {
	Kind    string          `json:"kind"`
	File    string          `json:"file"`
	Payload json.RawMessage `json:"payload"`
}

// Hub tracks connected clients and broadcasts to all of them. The zero value
// is not usable; call NewHub.
type Hub struct {
	upgrader websocket.Upgrader
	log      *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool

	// a websocket connection allows one concurrent writer
	writeMu sync.Mutex
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the client until it goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	h.log.Info("preview client connected", zap.String("remote", conn.RemoteAddr().String()))

	// Reading is only needed to notice the close.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	if ok {
		_ = conn.Close()
		h.log.Info("preview client gone", zap.String("remote", conn.RemoteAddr().String()))
	}
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// Broadcast sends v, wrapped in a Message, to every client. Clients that
// fail to receive are disconnected. It returns the number of deliveries.
func (h *Hub) Broadcast(kind, file string, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encoding %s payload: %w", kind, err)
	}
	data, err := json.Marshal(Message{Kind: kind, File: file, Payload: payload})
	if err != nil {
		return 0, fmt.Errorf("encoding message: %w", err)
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	sent := 0
	for _, c := range conns {
		if err := h.send(c, data); err != nil {
			h.log.Warn("dropping preview client", zap.Error(err))
			h.drop(c)
			continue
		}
		sent++
	}

	return sent, nil
}

func (h *Hub) send(c *websocket.Conn, data []byte) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.WriteMessage(websocket.TextMessage, data)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := h.clients
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for c := range conns {
		h.writeMu.Lock()
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		h.writeMu.Unlock()
		_ = c.Close()
	}
}
