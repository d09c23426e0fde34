package handlers

import (
	"net/http"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/middleware"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
	"github.com/gorilla/websocket"
)

const realtimePingInterval = 25 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type RealtimeHandler struct {
	hub *services.RealtimeHub
}

func NewRealtimeHandler(hub *services.RealtimeHub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Notifications upgrades the request and keeps the client subscribed until
// the connection drops.
func (handler *RealtimeHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &services.WSClient{UserID: middleware.GetSession(r.Context()).User.ID, Conn: conn}
	handler.hub.Register(client)

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(realtimePingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.Write(websocket.PingMessage, nil); err != nil {
					handler.hub.Unregister(client)
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			handler.hub.Unregister(client)
			return
		}
	}
}
