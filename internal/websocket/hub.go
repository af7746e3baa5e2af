package workoutws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	websocket "github.com/gofiber/contrib/websocket"
)

// Hub fans workout events out to the acting user's sockets and to every
// connected coach and admin.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.WorkoutEvent
	done       chan struct{}
}

type socket interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Client struct {
	hub    *Hub
	conn   socket
	userID string
	role   string
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

type setCompleter interface {
	CompleteSet(ctx context.Context, userID int64, input services.CompleteSetInput) (*models.WorkoutHistory, error)
}

type Message struct {
	Type      string               `json:"type"`
	Event     *models.WorkoutEvent `json:"event,omitempty"`
	Error     string               `json:"error,omitempty"`
	Timestamp string               `json:"timestamp"`
}

type incomingMessage struct {
	Type              string   `json:"type"`
	RoutineExerciseID int64    `json:"routine_exercise_id"`
	SetNumber         int      `json:"set_number"`
	Weight            *float64 `json:"weight"`
	Reps              *int     `json:"reps"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.WorkoutEvent, 64),
		done:       make(chan struct{}),
	}
}

func NewClient(hub *Hub, conn socket, userID, role string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		role:   role,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				delete(h.clients, client)
				client.closeSend()
				_ = client.conn.Close()
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// Register adds client to the fan-out. A client that arrives after shutdown is
// closed straight away so its WritePump returns.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.closeSend()
		_ = client.conn.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.closeSend()
	}
}

// Publish never blocks the caller; events are dropped when the queue is full.
func (h *Hub) Publish(event models.WorkoutEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("workout hub queue full, dropping %s event for user %d", event.Type, event.UserID)
	}
}

func (h *Hub) deliver(event models.WorkoutEvent) {
	payload, err := json.Marshal(Message{
		Type:      event.Type,
		Event:     &event,
		Timestamp: formatTimestamp(event.OccurredAt),
	})
	if err != nil {
		log.Printf("workout hub encode event: %v", err)
		return
	}

	owner := strconv.FormatInt(event.UserID, 10)
	for client := range h.clients {
		if client.userID != owner && !models.IsStaff(client.role) {
			continue
		}
		if !client.enqueue(payload) {
			delete(h.clients, client)
			client.closeSend()
		}
	}
}

// enqueue reports false when the client is gone or its buffer is full.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump accepts complete_set messages from the socket. The resulting event
// reaches this client through the hub like any other.
func (c *Client) ReadPump(service setCompleter) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	actorID, err := strconv.ParseInt(c.userID, 10, 64)
	if err != nil {
		writeError(c, "invalid user")
		return
	}

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming incomingMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			writeError(c, "invalid message payload")
			continue
		}
		if incoming.Type != "complete_set" {
			writeError(c, "unsupported message type")
			continue
		}

		_, err = service.CompleteSet(context.Background(), actorID, services.CompleteSetInput{
			RoutineExerciseID: incoming.RoutineExerciseID,
			SetNumber:         incoming.SetNumber,
			Weight:            incoming.Weight,
			Reps:              incoming.Reps,
		})
		if err != nil {
			writeError(c, completeSetErrorMessage(err))
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func completeSetErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return "invalid set"
	case errors.Is(err, services.ErrForbidden):
		return "routine is not assigned to you"
	case errors.Is(err, services.ErrNotFound):
		return "set not found"
	case errors.Is(err, services.ErrAlreadyCompleted):
		return "set already completed today"
	default:
		return "failed to complete set"
	}
}

func writeError(client *Client, message string) {
	payload, err := json.Marshal(Message{
		Type:      "error",
		Error:     message,
		Timestamp: formatTimestamp(time.Now()),
	})
	if err != nil {
		return
	}
	client.enqueue(payload)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
