// Package websocket pushes stats refreshes to connected dashboards so
// they do not have to poll.
package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cyberport/seatrack/internal/core/ports"
)

const broadcastInterval = 15 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is an open read-only surface; cross-origin reads leak
	// nothing that GET /api/stats does not already serve.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// WSManager tracks connected dashboard clients and pushes the aggregated
// stats on a fixed cadence.
type WSManager struct {
	Fleet   ports.FleetService
	clients map[string]*websocket.Conn
	mu      sync.Mutex
}

func NewWSManager(fleet ports.FleetService) *WSManager {
	return &WSManager{
		Fleet:   fleet,
		clients: make(map[string]*websocket.Conn),
	}
}

// Start launches the broadcast loop.
func (m *WSManager) Start(ctx context.Context) {
	go m.broadcastLoop(ctx)
}

// HandleWebSocket upgrades the connection and registers the client.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.clients[id] = conn
	m.mu.Unlock()

	slog.Debug("dashboard client connected", "client", id)

	// Send a snapshot immediately so a fresh dashboard is not blank until
	// the next tick.
	m.send(id, conn)

	go func() {
		defer func() {
			conn.Close()
			m.mu.Lock()
			delete(m.clients, id)
			m.mu.Unlock()
			slog.Debug("dashboard client disconnected", "client", id)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ClientCount returns the number of connected dashboards.
func (m *WSManager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

func (m *WSManager) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.broadcast()
		}
	}
}

func (m *WSManager) broadcast() {
	m.mu.Lock()
	conns := make(map[string]*websocket.Conn, len(m.clients))
	for id, c := range m.clients {
		conns[id] = c
	}
	m.mu.Unlock()

	for id, conn := range conns {
		m.send(id, conn)
	}
}

func (m *WSManager) send(id string, conn *websocket.Conn) {
	msg := WSMessage{Type: "stats", Payload: m.Fleet.GetAggregatedStats()}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		slog.Debug("dashboard push failed, dropping client", "client", id, "error", err)
		conn.Close()
		m.mu.Lock()
		delete(m.clients, id)
		m.mu.Unlock()
	}
}
