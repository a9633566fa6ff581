// Package websocket fans state changes and camera frames out to browser
// viewers.
package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ecosort/internal/logger"
	"ecosort/internal/state"
)

// Event types sent to viewers.
const (
	EventState = "state"
	EventFrame = "frame"
)

// Event is one message pushed to every viewer.
type Event struct {
	Type           string `json:"type"`
	View           string `json:"view,omitempty"`
	HistoryVersion int    `json:"historyVersion,omitempty"`
	Alerts         int    `json:"alerts,omitempty"`
	Image          string `json:"image,omitempty"` // Base64 JPEG for frame events
}

type client struct {
	id   string
	conn *websocket.Conn
}

// Hub keeps the connected viewers. All writes happen on the Run goroutine.
type Hub struct {
	clients    map[string]*websocket.Conn
	broadcast  chan []byte
	register   chan client
	unregister chan string
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger
}

// NewHub creates a hub; call Run to start delivering messages.
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*websocket.Conn),
		broadcast:  make(chan []byte, 64),
		register:   make(chan client),
		unregister: make(chan string),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run delivers messages until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for id, conn := range h.clients {
				conn.Close()
				delete(h.clients, id)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c.id] = c.conn
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("👀 Viewer %s connected. Total: %d", c.id, total)

		case id := <-h.unregister:
			h.mutex.Lock()
			if conn, ok := h.clients[id]; ok {
				delete(h.clients, id)
				conn.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("👋 Viewer %s disconnected. Total: %d", id, total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for id, conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending message to %s: %v", id, err)
					delete(h.clients, id)
					conn.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a viewer and returns its ID. After Run has stopped the
// connection is closed immediately.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()
	select {
	case h.register <- client{id: id, conn: conn}:
	case <-h.done:
		conn.Close()
	}
	return id
}

// Unregister removes and closes a viewer.
func (h *Hub) Unregister(id string) {
	select {
	case h.unregister <- id:
	case <-h.done:
	}
}

// Broadcast queues a message for every viewer. When the queue is full the
// message is dropped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warning("⚠️  Broadcast queue full - dropping message")
	}
}

// BroadcastState tells viewers the state changed.
func (h *Hub) BroadcastState(snap state.Snapshot) {
	h.send(Event{
		Type:           EventState,
		View:           snap.View.String(),
		HistoryVersion: snap.HistoryVersion,
		Alerts:         len(snap.Alerts),
	})
}

// BroadcastFrame pushes one live camera frame.
func (h *Hub) BroadcastFrame(jpeg []byte) {
	h.send(Event{
		Type:  EventFrame,
		Image: base64.StdEncoding.EncodeToString(jpeg),
	})
}

func (h *Hub) send(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode %s event: %v", event.Type, err)
		return
	}
	h.Broadcast(message)
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
