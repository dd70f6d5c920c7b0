package kds

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// Event types
const (
	EventOrderCreated    = "order_created"
	EventOrderUpdate     = "order_update"
	EventPaymentVerified = "payment_verified"
	EventQueueSnapshot   = "queue_snapshot"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderUpdate is an order as one role should see it: its badge and the
// buttons that role may press.
type OrderUpdate struct {
	Order    models.Order       `json:"order"`
	Previous string             `json:"previous_status,omitempty"`
	Label    lifecycle.Label    `json:"status_label"`
	Actions  []lifecycle.Action `json:"actions"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub holds the connected kitchen and staff screens.
type Hub struct {
	clients map[Conn]lifecycle.Role
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]lifecycle.Role)}
}

func (h *Hub) Register(conn Conn, role lifecycle.Role) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// OrderChanged pushes an order to every screen that cares about it. Kitchen
// screens only hear about orders entering or leaving the kitchen queue.
func (h *Hub) OrderChanged(_ context.Context, order models.Order, previous string) {
	event := EventOrderUpdate
	switch {
	case previous == "":
		event = EventOrderCreated
	case previous == order.Status:
		event = EventPaymentVerified
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	payloads := make(map[lifecycle.Role][]byte)
	for conn, role := range h.clients {
		if role == lifecycle.RoleKitchen && !kitchenRelevant(order.Status, previous) {
			continue
		}
		data, ok := payloads[role]
		if !ok {
			msg := Message{Event: event, Data: OrderUpdate{
				Order:    order,
				Previous: previous,
				Label:    order.StatusLabel(),
				Actions:  lifecycle.NextActions(order.Lifecycle(), role),
			}}
			var err error
			if data, err = json.Marshal(msg); err != nil {
				utils.ErrorLogger.Printf("Error marshaling message: %v", err)
				return
			}
			payloads[role] = data
		}
		h.send(conn, data)
	}
}

// BroadcastQueue sends a queue snapshot to the screens of one role.
func (h *Hub) BroadcastQueue(role lifecycle.Role, snapshot interface{}) {
	data, err := json.Marshal(Message{Event: EventQueueSnapshot, Data: snapshot})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn, r := range h.clients {
		if r == role {
			h.send(conn, data)
		}
	}
}

// send drops a client whose write fails. Callers hold the mutex.
func (h *Hub) send(conn Conn, data []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		utils.ErrorLogger.Printf("Error sending message to client: %v", err)
		delete(h.clients, conn)
		conn.Close()
	}
}

func kitchenRelevant(status, previous string) bool {
	for _, s := range lifecycle.KitchenStatuses {
		if lifecycle.Normalize(status) == s || lifecycle.Normalize(previous) == s {
			return true
		}
	}
	return false
}
