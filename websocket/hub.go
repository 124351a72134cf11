package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type EventType string

const (
	// EventStatus announces an analysis status transition.
	EventStatus EventType = "status"
	// EventProgress announces another review was classified.
	EventProgress EventType = "progress"
)

// Event is one message on the analysis progress feed.
type Event struct {
	Type       EventType `json:"type"`
	AnalysisID uint      `json:"analysis_id"`
	Status     string    `json:"status,omitempty"`
	Error      string    `json:"error,omitempty"`
	Processed  int       `json:"processed,omitempty"`
	Total      int       `json:"total,omitempty"`
}

type publication struct {
	analysisID uint
	payload    []byte
}

// Hub fans analysis progress events out to subscribed clients. A
// client subscribed to analysis id 0 receives every event.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	publish    chan publication
	mu         sync.RWMutex
}

type Client struct {
	Hub            *Hub
	Conn           *websocket.Conn
	Send           chan []byte
	SubscriptionID string
	UserID         string
	AnalysisID     uint // 0 subscribes to all analyses
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan publication, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Progress client registered", "subscription_id", client.SubscriptionID, "user_id", client.UserID, "analysis_id", client.AnalysisID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			slog.Info("Progress client unregistered", "subscription_id", client.SubscriptionID, "user_id", client.UserID, "analysis_id", client.AnalysisID)

		case pub := <-h.publish:
			h.mu.RLock()
			for client := range h.clients {
				if client.AnalysisID != 0 && client.AnalysisID != pub.analysisID {
					continue
				}
				select {
				case client.Send <- pub.payload:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish queues an event for every client watching the analysis.
// Safe to call from any goroutine; never blocks the caller.
func (h *Hub) Publish(analysisID uint, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal progress event", "error", err)
		return
	}

	select {
	case h.publish <- publication{analysisID: analysisID, payload: payload}:
	default:
		slog.Warn("Progress feed backlogged, dropping event", "analysis_id", analysisID, "type", event.Type)
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, userID string, analysisID uint) *Client {
	client := &Client{
		Hub:            h,
		Conn:           conn,
		Send:           make(chan []byte, 256),
		SubscriptionID: uuid.New().String(),
		UserID:         userID,
		AnalysisID:     analysisID,
	}

	h.register <- client
	return client
}

// ReadPump drains the connection. The feed is one-way; inbound frames
// only matter for keepalive and close detection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
