package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// ChatHub manages websocket connections for direct-message conversations.
// Unlike Hub (which is user-centric), ChatHub is conversation-centric: a
// connected user joins the conversations they are viewing and receives
// message, typing, and read events for them.
type ChatHub struct {
	mu sync.RWMutex

	// conversationID -> set of userIDs viewing it
	conversations map[uint]map[uint]struct{}

	// userID -> set of conversationIDs they're viewing
	userActiveConvs map[uint]map[uint]struct{}

	// userID -> set of active Clients (multi-device support)
	userConns map[uint]map[*Client]struct{}

	presence *ConnectionManager
}

// Name returns a human-readable identifier for this hub.
func (h *ChatHub) Name() string { return "chat hub" }

// ChatEvent is an event broadcast to a conversation or to all chat clients.
type ChatEvent struct {
	Type           string      `json:"type"` // "message", "typing", "read", "user_status", "connected_users"
	ConversationID uint        `json:"conversation_id,omitempty"`
	UserID         uint        `json:"user_id,omitempty"`
	Username       string      `json:"username,omitempty"`
	Payload        interface{} `json:"payload"`
}

// NewChatHub creates a new ChatHub instance.
func NewChatHub() *ChatHub {
	return &ChatHub{
		conversations:   make(map[uint]map[uint]struct{}),
		userActiveConvs: make(map[uint]map[uint]struct{}),
		userConns:       make(map[uint]map[*Client]struct{}),
		presence:        NewConnectionManager(nil, ConnectionManagerConfig{}),
	}
}

// Register registers a user's websocket connection. Returns the Client or an
// error if limits are exceeded.
func (h *ChatHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*Client]struct{})
	}
	if len(h.userConns[userID]) >= maxConnsPerUser {
		h.mu.Unlock()
		return nil, fmt.Errorf("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	h.userConns[userID][client] = struct{}{}

	onlineIDs := make([]uint, 0, len(h.userConns))
	for id := range h.userConns {
		if id != userID {
			onlineIDs = append(onlineIDs, id)
		}
	}
	h.mu.Unlock()

	h.presence.Register(context.Background(), userID)

	// Initial snapshot of who else is online
	if len(onlineIDs) > 0 {
		snapshot := ChatEvent{
			Type:    "connected_users",
			Payload: map[string]interface{}{"user_ids": onlineIDs},
		}
		if data, err := json.Marshal(snapshot); err == nil {
			client.TrySend(data)
		}
	}

	h.BroadcastUserStatus(userID, "online")
	return client, nil
}

// UnregisterClient removes a connection and, when it was the user's last one,
// cleans up their conversation subscriptions and announces them offline.
func (h *ChatHub) UnregisterClient(client *Client) {
	h.mu.Lock()

	clients, ok := h.userConns[client.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	if len(clients) > 0 {
		h.mu.Unlock()
		h.presence.Unregister(context.Background(), client.UserID)
		return
	}
	delete(h.userConns, client.UserID)

	if convs, ok := h.userActiveConvs[client.UserID]; ok {
		for convID := range convs {
			if users, ok := h.conversations[convID]; ok {
				delete(users, client.UserID)
				if len(users) == 0 {
					delete(h.conversations, convID)
				}
			}
		}
		delete(h.userActiveConvs, client.UserID)
	}

	h.mu.Unlock()

	h.presence.Unregister(context.Background(), client.UserID)
	h.BroadcastUserStatus(client.UserID, "offline")
}

// IsUserOnline reports whether the user has at least one active chat client.
func (h *ChatHub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients, ok := h.userConns[userID]
	return ok && len(clients) > 0
}

// JoinConversation subscribes a connected user to a conversation's events.
func (h *ChatHub) JoinConversation(userID, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.userConns[userID]; !ok {
		log.Printf("ChatHub: user %d not connected, cannot join conversation %d", userID, conversationID)
		return
	}

	if h.conversations[conversationID] == nil {
		h.conversations[conversationID] = make(map[uint]struct{})
	}
	h.conversations[conversationID][userID] = struct{}{}

	if h.userActiveConvs[userID] == nil {
		h.userActiveConvs[userID] = make(map[uint]struct{})
	}
	h.userActiveConvs[userID][conversationID] = struct{}{}
}

// LeaveConversation unsubscribes a user from a conversation.
func (h *ChatHub) LeaveConversation(userID, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if users, ok := h.conversations[conversationID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(h.conversations, conversationID)
		}
	}
	if convs, ok := h.userActiveConvs[userID]; ok {
		delete(convs, conversationID)
	}
}

// BroadcastToConversation sends an event to every client of every user
// currently viewing the conversation.
func (h *ChatHub) BroadcastToConversation(conversationID uint, event ChatEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users, ok := h.conversations[conversationID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ChatHub: failed to marshal event: %v", err)
		return
	}

	for userID := range users {
		if clients, ok := h.userConns[userID]; ok {
			for client := range clients {
				client.TrySend(data)
			}
		}
	}
}

// BroadcastUserStatus sends an online/offline event to all other connected users.
func (h *ChatHub) BroadcastUserStatus(userID uint, status string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event := ChatEvent{
		Type:    "user_status",
		UserID:  userID,
		Payload: map[string]interface{}{"status": status, "user_id": userID},
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ChatHub: failed to marshal status event: %v", err)
		return
	}

	for id, clients := range h.userConns {
		if id == userID {
			continue
		}
		for client := range clients {
			client.TrySend(data)
		}
	}
}

// GetActiveUsers returns the userIDs currently viewing a conversation.
func (h *ChatHub) GetActiveUsers(conversationID uint) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users, ok := h.conversations[conversationID]
	if !ok {
		return []uint{}
	}
	result := make([]uint, 0, len(users))
	for userID := range users {
		result = append(result, userID)
	}
	return result
}

// IsUserActive reports whether a user is currently viewing a conversation.
func (h *ChatHub) IsUserActive(userID, conversationID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	convs, ok := h.userActiveConvs[userID]
	if !ok {
		return false
	}
	_, active := convs[conversationID]
	return active
}

// StartWiring connects the ChatHub to Redis pub/sub for conversation events.
func (h *ChatHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartChatSubscriber(ctx, func(channel, payload string) {
		var conversationID uint
		var eventType string

		if _, err := fmt.Sscanf(channel, "dm:conv:%d", &conversationID); err == nil {
			eventType = "message"
		} else if _, err := fmt.Sscanf(channel, "typing:conv:%d", &conversationID); err == nil {
			eventType = "typing"
		} else {
			log.Printf("ChatHub: invalid channel format: %s", channel)
			return
		}

		var event ChatEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Printf("ChatHub: failed to parse event from channel %s: %v", channel, err)
			return
		}
		if event.Type == "" {
			event.Type = eventType
		}
		event.ConversationID = conversationID

		h.BroadcastToConversation(conversationID, event)
	})
}

// Shutdown gracefully closes every websocket connection.
func (h *ChatHub) Shutdown(_ context.Context) error {
	h.presence.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.userConns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage,
				[]byte(`{"type":"server_shutdown","message":"Server is shutting down"}`)); err != nil {
				log.Printf("failed to write shutdown message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}

	h.conversations = make(map[uint]map[uint]struct{})
	h.userActiveConvs = make(map[uint]map[uint]struct{})
	h.userConns = make(map[uint]map[*Client]struct{})

	return nil
}
