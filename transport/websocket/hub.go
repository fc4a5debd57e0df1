package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/partylab/guessroom/game/controller"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound frames buffered per connection before it is considered slow.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Client represents one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// id is the connection's ephemeral identity, assigned at upgrade and
	// used as the player id inside the game.
	id string

	// rooms this connection is in; guarded by hub.mu.
	rooms map[string]bool

	closeOnce sync.Once
}

// ConnID returns the connection's identifier.
func (c *Client) ConnID() string { return c.id }

// Hub tracks room membership and fans events out to connections. It
// implements controller.Broadcaster.
type Hub struct {
	rooms map[string]map[*Client]bool
	ctrl  *controller.Controller
	mu    sync.Mutex
}

// NewHub creates a hub with no controller attached; call SetController
// before serving connections.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

// SetController wires the hub to the game controller it dispatches commands
// to. Separate from NewHub because the controller broadcasts through the
// hub, so the hub must exist first.
func (h *Hub) SetController(ctrl *controller.Controller) {
	h.ctrl = ctrl
}

// ServeWS upgrades an HTTP request to a WebSocket connection and starts its
// pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		id:    uuid.NewString(),
		rooms: make(map[string]bool),
	}

	client.enqueue(marshalFrame(Welcome{Type: "welcome", ConnectionID: client.id}))

	go client.writePump()
	go client.readPump()
}

// Broadcast sends an event frame to every connection in the room. Called by
// the controller inside the session's critical section; it only enqueues.
func (h *Hub) Broadcast(sessionID, event string, payload any) {
	data := marshalFrame(Event{Type: "event", Event: event, Data: payload})
	if data == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[sessionID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer: close its pipe, its pumps will clean up.
			h.dropLocked(client)
		}
	}
}

// RoomSize returns the number of connections currently in the room.
func (h *Hub) RoomSize(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[sessionID])
}

// joinRoom adds the client to the room's delivery set.
func (h *Hub) joinRoom(c *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[sessionID] == nil {
		h.rooms[sessionID] = make(map[*Client]bool)
	}
	h.rooms[sessionID][c] = true
	c.rooms[sessionID] = true
}

// leaveRoom removes the client from the room's delivery set.
func (h *Hub) leaveRoom(c *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomLocked(c, sessionID)
}

// dropClient removes the client from every room and closes its send
// channel. Safe to call more than once.
func (h *Hub) dropClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *Client) {
	for sessionID := range c.rooms {
		h.removeFromRoomLocked(c, sessionID)
	}
	c.closeOnce.Do(func() { close(c.send) })
}

func (h *Hub) removeFromRoomLocked(c *Client, sessionID string) {
	if clients, ok := h.rooms[sessionID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, sessionID)
		}
	}
	delete(c.rooms, sessionID)
}

// enqueue queues a frame for the connection, dropping it if the connection
// cannot keep up.
func (c *Client) enqueue(data []byte) {
	if data == nil {
		return
	}
	select {
	case c.send <- data:
	default:
		c.hub.dropClient(c)
	}
}

// readPump pumps commands from the connection into the controller. On exit
// the connection is treated as disconnected: dropped from all rooms and
// implicitly left from the game.
func (c *Client) readPump() {
	defer func() {
		c.hub.dropClient(c)
		c.conn.Close()
		if c.hub.ctrl != nil {
			c.hub.ctrl.Disconnect(c.id)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		c.hub.dispatch(c, cmd)
	}
}

// writePump pumps queued frames to the connection and keeps it alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func marshalFrame(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal frame: %v", err)
		return nil
	}
	return data
}
