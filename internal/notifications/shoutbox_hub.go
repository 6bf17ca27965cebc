package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"forumhub/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// ShoutboxHub manages websocket connections for the live shoutbox. It is
// channel-centric: every client subscribes to exactly one named channel
// (general, marketplace) and receives the messages posted to it.
type ShoutboxHub struct {
	mu sync.RWMutex

	// channel name -> set of clients
	channels map[string]map[*Client]struct{}

	metrics *observability.WebSocketChannelMetrics
}

// Name returns a human-readable identifier for this hub.
func (h *ShoutboxHub) Name() string { return "shoutbox hub" }

// ShoutEvent is an event broadcast to a shoutbox channel.
type ShoutEvent struct {
	Type     string      `json:"type"` // "shout", "shout_deleted", "user_banned"
	Channel  string      `json:"channel"`
	UserID   uint        `json:"user_id,omitempty"`
	Username string      `json:"username,omitempty"`
	Payload  interface{} `json:"payload"`
}

// NewShoutboxHub creates a new ShoutboxHub instance.
func NewShoutboxHub() *ShoutboxHub {
	return &ShoutboxHub{
		channels: make(map[string]map[*Client]struct{}),
		metrics:  observability.NewWebSocketChannelMetrics(),
	}
}

// Register subscribes a user's websocket connection to a channel.
func (h *ShoutboxHub) Register(channel string, userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()

	clients, ok := h.channels[channel]
	if !ok {
		clients = make(map[*Client]struct{})
		h.channels[channel] = clients
	}
	if len(clients) >= maxTotalConns {
		h.mu.Unlock()
		return nil, fmt.Errorf("channel connection limit reached")
	}

	client := NewClient(h, conn, userID)
	clients[client] = struct{}{}
	h.mu.Unlock()

	h.metrics.IncrementChannel(channel)
	h.metrics.RecordWebSocketEvent("shoutbox_connect")
	return client, nil
}

// UnregisterClient removes a connection from whichever channel holds it.
func (h *ShoutboxHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	var removedFrom string
	for channel, clients := range h.channels {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			removedFrom = channel
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
			break
		}
	}
	h.mu.Unlock()

	if removedFrom != "" {
		h.metrics.DecrementChannel(removedFrom)
		h.metrics.RecordWebSocketEvent("shoutbox_disconnect")
	}
}

// Move re-homes an existing client to a different channel. The client keeps
// its connection and send buffer; only the subscription changes.
func (h *ShoutboxHub) Move(client *Client, channel string) error {
	h.mu.Lock()

	var from string
	for name, clients := range h.channels {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			from = name
			if len(clients) == 0 {
				delete(h.channels, name)
			}
			break
		}
	}

	clients, ok := h.channels[channel]
	if !ok {
		clients = make(map[*Client]struct{})
		h.channels[channel] = clients
	}
	if len(clients) >= maxTotalConns {
		// Put the client back where it came from
		if from != "" {
			if orig, ok := h.channels[from]; ok {
				orig[client] = struct{}{}
			} else {
				h.channels[from] = map[*Client]struct{}{client: {}}
			}
		}
		h.mu.Unlock()
		return fmt.Errorf("channel connection limit reached")
	}
	clients[client] = struct{}{}
	h.mu.Unlock()

	if from != "" {
		h.metrics.DecrementChannel(from)
	}
	h.metrics.IncrementChannel(channel)
	h.metrics.RecordWebSocketEvent("shoutbox_switch_channel")
	return nil
}

// Broadcast sends an event to every client subscribed to the channel.
func (h *ShoutboxHub) Broadcast(channel string, event ShoutEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.channels[channel]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ShoutboxHub: failed to marshal event: %v", err)
		return
	}

	for client := range clients {
		client.TrySend(data)
	}
	h.metrics.RecordMessage(channel, event.Type)
}

// ChannelCount returns the number of clients subscribed to a channel.
func (h *ShoutboxHub) ChannelCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// StartWiring connects the ShoutboxHub to Redis pub/sub for shout events.
func (h *ShoutboxHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartShoutboxSubscriber(ctx, func(channel, payload string) {
		name, ok := strings.CutPrefix(channel, "shoutbox:chan:")
		if !ok || name == "" {
			log.Printf("ShoutboxHub: invalid channel format: %s", channel)
			return
		}

		var event ShoutEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Printf("ShoutboxHub: failed to parse event from channel %s: %v", channel, err)
			return
		}
		if event.Type == "" {
			event.Type = "shout"
		}
		event.Channel = name

		h.Broadcast(name, event)
	})
}

// Shutdown gracefully closes every websocket connection.
func (h *ShoutboxHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for channel, clients := range h.channels {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message on channel %s: %v", channel, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket on channel %s: %v", channel, err)
			}
		}
	}
	h.channels = make(map[string]map[*Client]struct{})

	return nil
}
