package websockets

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const broadcastBuffer = 64

// writeWait bounds each write so a stalled client is dropped instead of
// holding up the other clients.
var writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan Event, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run starts the WebSocket manager
func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if _, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
			}
			manager.mu.Unlock()

		case event := <-manager.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				log.Printf("[WS]: unable to encode %s event: %v", event.Topic, err)
				continue
			}
			manager.deliver(event.Topic, message)

		case <-manager.done:
			manager.mu.Lock()
			for conn := range manager.clients {
				conn.Close()
				delete(manager.clients, conn)
			}
			manager.mu.Unlock()
			return
		}
	}
}

// deliver writes message to every client following topic. Writes happen
// outside the lock; clients whose write fails are closed and removed.
func (manager *WebSocketManager) deliver(topic string, message []byte) {
	manager.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(manager.clients))
	for conn, client := range manager.clients {
		if client.wants(topic) {
			targets = append(targets, conn)
		}
	}
	manager.mu.Unlock()

	var failed []*websocket.Conn
	for _, conn := range targets {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("[WS]: dropping client after failed write: %v", err)
			failed = append(failed, conn)
		}
	}
	if len(failed) == 0 {
		return
	}

	manager.mu.Lock()
	for _, conn := range failed {
		if _, exists := manager.clients[conn]; exists {
			delete(manager.clients, conn)
			conn.Close()
		}
	}
	manager.mu.Unlock()
}

// Stop ends Run and closes every connection.
func (manager *WebSocketManager) Stop() {
	close(manager.done)
}

// Publish queues an update for every client following topic. It never
// blocks the caller; when the queue is full the update is dropped.
func (manager *WebSocketManager) Publish(topic string, data any) {
	select {
	case manager.broadcast <- Event{Type: MsgTypeUpdate, Topic: topic, Data: data}:
	default:
		log.Printf("[WS]: broadcast queue full, dropping %s update", topic)
	}
}

// ClientCount returns the number of registered connections.
func (manager *WebSocketManager) ClientCount() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.clients)
}

// HandleConnections upgrades HTTP requests to WebSocket connections
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	client := &Client{Conn: conn}
	select {
	case manager.register <- client:
	case <-manager.done:
		conn.Close()
		return
	}

	defer func() {
		select {
		case manager.unregister <- conn:
		case <-manager.done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Println("Invalid JSON:", err)
			continue
		}

		manager.mu.Lock()
		switch message.Type {
		case MsgTypeSubscribe:
			if client.Topics == nil {
				client.Topics = make(map[string]bool)
			}
			for _, topic := range message.Topics {
				client.Topics[topic] = true
			}
		case MsgTypeUnsubscribe:
			for _, topic := range message.Topics {
				delete(client.Topics, topic)
			}
		}
		manager.mu.Unlock()
	}
}
