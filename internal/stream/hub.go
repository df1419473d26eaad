// Package stream pushes refreshed market catalogs to websocket clients.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/internal/market"
)

const (
	writeTimeout = 10 * time.Second
	readLimit    = 512
)

// Hub fans one catalog payload out to every connected client. It
// implements the refresh cycle's catalog sink; clients only receive,
// their inbound frames are drained and discarded.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logrus.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Handle upgrades the request and keeps the connection registered until
// the peer goes away.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("Websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Infof("Websocket client connected, %d active", count)

	conn.SetReadLimit(readLimit)
	go h.drain(conn)
}

// drain consumes inbound frames until the connection errors, then
// unregisters it.
func (h *Hub) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(conn)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
}

// PublishCatalog broadcasts the priced catalog to all clients. A client
// that cannot be written to is dropped.
func (h *Hub) PublishCatalog(entries []market.Entry) {
	payload, err := json.Marshal(entries)
	if err != nil {
		h.logger.Errorf("Failed to marshal catalog for broadcast: %v", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warnf("Dropping slow websocket client: %v", err)
			h.remove(conn)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
