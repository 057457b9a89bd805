package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypeUpdate      = "update"
)

// Client represents a connected planner screen
type Client struct {
	Conn   *websocket.Conn
	Topics map[string]bool
}

// wants reports whether the client follows topic. A client that never
// subscribed follows everything.
func (c *Client) wants(topic string) bool {
	return len(c.Topics) == 0 || c.Topics[topic]
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
}

// Event is pushed to clients when a persisted list changes.
type Event struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// Message struct for incoming WebSocket messages
type Message struct {
	Type   string   `json:"type"`
	Topics []string `json:"topics"`
}
