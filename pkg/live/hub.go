package live

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/internal/event_bus"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// Update tells clients to reload the given month.
type Update struct {
	Type  string `json:"type"`
	Month string `json:"month"`
}

// Hub pushes an Update to every connected websocket client whenever the bookings of a month change.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

// client owns one connection; only its writer goroutine writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates the hub and subscribes it to the booking events. An empty origins list allows any origin.
func NewHub(eventBus *event_bus.EventBus, origins []string) *Hub {
	hub := &Hub{
		clients: make(map[*client]struct{}),
	}
	hub.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(origins) == 0 || slices.Contains(origins, origin)
		},
	}

	onBookingChanged := func(e event_bus.EventT[event_bus.BookingChanged]) error {
		hub.Broadcast(Update{Type: "update", Month: e.Data.Month})
		return nil
	}
	event_bus.SubscribeTyped[event_bus.BookingChanged](eventBus, event_bus.SlotBooked, onBookingChanged)
	event_bus.SubscribeTyped[event_bus.BookingChanged](eventBus, event_bus.SlotUndone, onBookingChanged)
	event_bus.SubscribeTyped[event_bus.MonthClearedEvent](eventBus, event_bus.MonthCleared,
		func(e event_bus.EventT[event_bus.MonthClearedEvent]) error {
			hub.Broadcast(Update{Type: "update", Month: e.Data.Month})
			return nil
		})
	return hub
}

// ServeWS upgrades the request and keeps the client registered until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Debugf("websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Debugf("live client connected, %d total", h.ClientCount())

	go c.writeLoop()

	for {
		// Incoming messages are ignored, reading only detects the disconnect
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Debugf("dropping live client: %v", err)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "disconnected"),
		time.Now().Add(writeWait))
}

// Broadcast queues the update for every client without waiting on the network.
// A client whose queue is full is disconnected.
func (h *Hub) Broadcast(update Update) {
	message, err := json.Marshal(update)
	if err != nil {
		log.Errorf("failed to encode live update: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			log.Debugf("dropping live client with %d pending updates", len(c.send))
			h.dropLocked(c)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.dropLocked(c)
	}
}

// dropLocked unregisters c and lets its writer close the connection. h.mu must be held.
func (h *Hub) dropLocked(c *client) {
	delete(h.clients, c)
	close(c.send)
}
