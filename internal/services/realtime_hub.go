package services

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const realtimeWriteTimeout = 10 * time.Second

type WSClient struct {
	UserID string
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// Write sends one frame. gorilla connections allow a single writer at a time.
func (client *WSClient) Write(messageType int, data []byte) error {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()
	_ = client.Conn.SetWriteDeadline(time.Now().Add(realtimeWriteTimeout))
	return client.Conn.WriteMessage(messageType, data)
}

type RealtimeEvent struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[*WSClient]struct{})}
}

func (hub *RealtimeHub) Register(client *WSClient) {
	hub.mu.Lock()
	hub.clients[client] = struct{}{}
	hub.mu.Unlock()
}

func (hub *RealtimeHub) Unregister(client *WSClient) {
	hub.mu.Lock()
	_, ok := hub.clients[client]
	delete(hub.clients, client)
	hub.mu.Unlock()
	if ok {
		_ = client.Conn.Close()
	}
}

func (hub *RealtimeHub) ClientCount() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients)
}

// Broadcast pushes event to every connected client. Clients that fail the
// write are dropped.
func (hub *RealtimeHub) Broadcast(event RealtimeEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		slog.Error("encoding realtime event", "kind", event.Kind, "error", err)
		return
	}

	hub.mu.RLock()
	clients := make([]*WSClient, 0, len(hub.clients))
	for client := range hub.clients {
		clients = append(clients, client)
	}
	hub.mu.RUnlock()

	for _, client := range clients {
		if err := client.Write(websocket.TextMessage, message); err != nil {
			slog.Debug("dropping realtime client", "user", client.UserID, "error", err)
			hub.Unregister(client)
		}
	}
}
