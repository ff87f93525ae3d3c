package kds

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event types -> satu event per transisi state yang sudah commit
const (
	EventTableSeated     = "table_seated"
	EventTableReleased   = "table_released"
	EventTableBlocked    = "table_blocked"
	EventTableUpdate     = "table_update"
	EventOrderCreated    = "order_created"
	EventOrderCancelled  = "order_cancelled"
	EventItemAdded       = "item_added"
	EventItemRemoved     = "item_removed"
	EventChitUpdate      = "chit_update"
	EventChitReady       = "chit_ready"
	EventChitRun         = "chit_run"
	EventOrderClosed     = "order_closed"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscriber -> callback in-process; dipanggil best-effort setelah commit
type Subscriber func(Message)

// FloorHub menampung client WebSocket (floor, chef, manager) dan
// subscriber lokal (test, consumer embedded).
type FloorHub struct {
	clients     map[*websocket.Conn]string // conn -> role
	subscribers map[string]Subscriber      // id -> callback
	mutex       sync.Mutex
}

var floorHub = FloorHub{
	clients:     make(map[*websocket.Conn]string),
	subscribers: make(map[string]Subscriber),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	conn.Close()
}

// Subscribe mendaftarkan callback in-process, mengembalikan id untuk Unsubscribe.
func Subscribe(fn Subscriber) string {
	id := uuid.NewString()
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.subscribers[id] = fn
	return id
}

func Unsubscribe(id string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.subscribers, id)
}

// Broadcast -> siarkan satu event ke semua client dan subscriber
func Broadcast(event string, data interface{}) {
	broadcast(Message{Event: event, Data: data})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	floorHub.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(floorHub.clients))
	for conn := range floorHub.clients {
		conns = append(conns, conn)
	}
	subs := make([]Subscriber, 0, len(floorHub.subscribers))
	for _, fn := range floorHub.subscribers {
		subs = append(subs, fn)
	}
	floorHub.mutex.Unlock()

	// Pengiriman best-effort; kegagalan kirim tidak mempengaruhi state inti
	if len(conns) > 0 {
		data, err := json.Marshal(msg)
		if err != nil {
			return
		}
		for _, conn := range conns {
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}
	}

	for _, fn := range subs {
		fn(msg)
	}
}
