package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ecosort/internal/logger"
	ws "ecosort/internal/service/websocket"
)

const viewerReadTimeout = 60 * time.Second

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ViewWebsocketHandler registers a viewer in the hub so it receives state
// and camera frame events.
func ViewWebsocketHandler(hub *ws.Hub, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(viewerReadTimeout))
		connection.SetPongHandler(func(string) error {
			connection.SetReadDeadline(time.Now().Add(viewerReadTimeout))
			return nil
		})

		id := hub.Register(connection)
		defer hub.Unregister(id)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Viewer %s disconnected normally", id)
				} else {
					logger.Warning("Viewer %s disconnected: %v", id, err)
				}
				return
			}
			// Any message from the viewer counts as a keepalive.
			connection.SetReadDeadline(time.Now().Add(viewerReadTimeout))
		}
	}
}
