package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Board event types pushed to connected clients.
const (
	EventTaskClaimed      = "task.claimed"
	EventTaskTransitioned = "task.transitioned"
	EventTasksIngested    = "tasks.ingested"
)

// BoardEvent is the JSON payload broadcast to the workflow board whenever a
// queue changes, so open boards refresh without polling.
type BoardEvent struct {
	Type           string    `json:"type"`
	ProjectID      string    `json:"projectId,omitempty"`
	AssignmentID   string    `json:"assignmentId,omitempty"`
	AssignmentName string    `json:"assignmentName,omitempty"`
	TaskID         string    `json:"taskId,omitempty"`
	IDDemanda      string    `json:"idDemanda,omitempty"`
	UserName       string    `json:"userName,omitempty"`
	Count          int       `json:"count,omitempty"`
	At             time.Time `json:"at"`
}

// Hub manages all board WebSocket connections.
type Hub struct {
	clients map[*Client]bool

	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run dispatches registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer; drop it rather than block the board.
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishBoardEvent serializes and broadcasts a board event. Events are
// best-effort: a full broadcast queue drops the event instead of stalling
// the request that produced it.
func (h *Hub) PublishBoardEvent(event BoardEvent) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case h.Broadcast <- payload:
	default:
	}
}

// ClientCount reports the number of connected clients (used by tests).
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
