package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// Event types
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderCancelled     = "order_cancelled"
	EventStockAdjusted      = "stock_adjusted"
	EventStockLow           = "stock_low"
	EventStockDepleted      = "stock_depleted"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans order and stock events out to every connected dashboard client.
// One hub is constructed at startup and handed to the controllers and
// services that publish into it. A nil hub drops every event, which keeps
// services usable in tests without a socket in sight.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> role
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Register adds a connection under its role.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = role
}

// Unregister drops the connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) OrderCreated(order models.Order) {
	h.broadcast(Message{Event: EventOrderCreated, Data: order})
}

func (h *Hub) OrderStatusChanged(order models.Order) {
	h.broadcast(Message{Event: EventOrderStatusChanged, Data: order})
}

func (h *Hub) OrderCancelled(order models.Order) {
	h.broadcast(Message{Event: EventOrderCancelled, Data: order})
}

// StockAdjusted publishes one committed stock change.
func (h *Hub) StockAdjusted(data interface{}) {
	h.broadcast(Message{Event: EventStockAdjusted, Data: data})
}

// StockLow fires when a mutation leaves an item at or under its threshold.
func (h *Hub) StockLow(menu models.Menu) {
	h.broadcast(Message{Event: EventStockLow, Data: menu})
}

// StockDepleted fires when a mutation leaves an item at zero.
func (h *Hub) StockDepleted(menu models.Menu) {
	h.broadcast(Message{Event: EventStockDepleted, Data: menu})
}

func (h *Hub) broadcast(msg Message) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("marshal %s event: %v", msg.Event, err)
		return
	}

	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("drop %s client: %v", role, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
