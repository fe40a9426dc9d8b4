/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time link to the presentation layer.

    It maintains a registry of all connected clients and manages the
    broadcast channel. The Hub is also a game.Observer: every plan commit,
    phase change and resolved impact is wrapped in a Message envelope and
    pushed to every socket. Clients only listen; commands go through the
    REST handlers.

    Architecture:
    - Hub: The singleton manager, run as a goroutine.
    - Client: Represents one browser connection.
    - ServeWs: The HTTP handler that upgrades a standard GET request to a WebSocket.
*/

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Clegas3/Sector-Command/internal/game"
)

// Event types carried in Message.Type.
const (
	EventActionPlanned  = "action_planned"
	EventPhaseChanged   = "phase_changed"
	EventImpactResolved = "impact_resolved"
)

const broadcastBuffer = 256

// Message defines the standard JSON envelope for all real-time communication.
// Every message sent over the socket will follow this structure.
type Message struct {
	Type    string      `json:"type"`    // Event Type (e.g., "phase_changed")
	Payload interface{} `json:"payload"` // The actual data
	Sender  string      `json:"sender"`  // ID of the origin (System or User)
}

// PhasePayload is the body of a phase_changed message.
type PhasePayload struct {
	Phase game.Phase `json:"phase"`
	Turn  int        `json:"turn"`
}

// Client represents a single connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered channel for outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	// Outbound messages. Buffered so engine callbacks never wait on sockets.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub instance. Run it in a goroutine: `go hub.Run()`.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run is the main event loop for the Hub.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Println("WS: New Connection Registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client hung or disconnected.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish wraps payload in a system Message and queues it for broadcast.
// When the queue is full the message is dropped; the controller must never
// block on a slow socket.
func (h *Hub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: eventType, Payload: payload, Sender: "system"})
	if err != nil {
		log.Printf("WS: marshal %s: %v", eventType, err)
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		log.Printf("WS: broadcast queue full, dropped %s", eventType)
	}
}

func (h *Hub) OnActionPlanned(plan game.ActionPlan) { h.Publish(EventActionPlanned, plan) }

func (h *Hub) OnTurnPhaseChanged(phase game.Phase, turn int) {
	h.Publish(EventPhaseChanged, PhasePayload{Phase: phase, Turn: turn})
}

func (h *Hub) OnImpactResolved(impact game.Impact) { h.Publish(EventImpactResolved, impact) }

// upgrader configures the WebSocket handshake.
// CheckOrigin returns true to allow connections from any host (CORS permissive for development).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs handles the HTTP request that initiates a WebSocket connection.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS Upgrade Error:", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, broadcastBuffer)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so close frames are seen. Inbound messages
// are logged and otherwise ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS Error: %v", err)
			}
			break
		}
		log.Printf("WS: ignoring client message: %s", string(message))
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()

	// Exits when c.send is closed.
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
}
