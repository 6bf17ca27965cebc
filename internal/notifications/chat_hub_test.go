package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatTestClient(userID uint) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan []byte, 10),
	}
}

func registerChatClient(hub *ChatHub, client *Client) {
	hub.mu.Lock()
	if hub.userConns[client.UserID] == nil {
		hub.userConns[client.UserID] = make(map[*Client]struct{})
	}
	hub.userConns[client.UserID][client] = struct{}{}
	client.Hub = hub
	hub.mu.Unlock()
}

func TestChatHub_JoinLeaveConversation(t *testing.T) {
	hub := NewChatHub()
	hub.presence.SetOfflineGracePeriod(20 * time.Millisecond)

	client := newChatTestClient(1)
	registerChatClient(hub, client)

	hub.JoinConversation(1, 101)
	assert.True(t, hub.IsUserActive(1, 101))
	assert.Equal(t, []uint{1}, hub.GetActiveUsers(101))

	hub.LeaveConversation(1, 101)
	assert.False(t, hub.IsUserActive(1, 101))
	assert.Empty(t, hub.GetActiveUsers(101))

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_BroadcastToConversation(t *testing.T) {
	hub := NewChatHub()
	hub.presence.SetOfflineGracePeriod(20 * time.Millisecond)

	alice := newChatTestClient(1)
	bob := newChatTestClient(2)
	outsider := newChatTestClient(3)
	registerChatClient(hub, alice)
	registerChatClient(hub, bob)
	registerChatClient(hub, outsider)

	hub.JoinConversation(1, 101)
	hub.JoinConversation(2, 101)

	hub.BroadcastToConversation(101, ChatEvent{
		Type:    "message",
		UserID:  1,
		Payload: map[string]interface{}{"content": "hello"},
	})

	require.Len(t, alice.Send, 1)
	require.Len(t, bob.Send, 1)
	assert.Empty(t, outsider.Send)

	var event ChatEvent
	require.NoError(t, json.Unmarshal(<-bob.Send, &event))
	assert.Equal(t, "message", event.Type)
	assert.Equal(t, uint(1), event.UserID)

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_UnregisterCleansUpConversations(t *testing.T) {
	hub := NewChatHub()
	hub.presence.SetOfflineGracePeriod(20 * time.Millisecond)

	client := newChatTestClient(1)
	registerChatClient(hub, client)
	hub.JoinConversation(1, 101)

	hub.UnregisterClient(client)

	assert.False(t, hub.IsUserOnline(1))
	assert.False(t, hub.IsUserActive(1, 101))
	assert.Empty(t, hub.GetActiveUsers(101))

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_SecondDeviceKeepsUserOnline(t *testing.T) {
	hub := NewChatHub()
	hub.presence.SetOfflineGracePeriod(20 * time.Millisecond)

	phone := newChatTestClient(1)
	laptop := newChatTestClient(1)
	registerChatClient(hub, phone)
	registerChatClient(hub, laptop)

	hub.JoinConversation(1, 101)
	hub.UnregisterClient(phone)

	assert.True(t, hub.IsUserOnline(1))
	assert.True(t, hub.IsUserActive(1, 101))

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_StartWiringForwardsRedisEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewChatHub()
	hub.presence.SetOfflineGracePeriod(20 * time.Millisecond)

	client := newChatTestClient(1)
	registerChatClient(hub, client)
	hub.JoinConversation(1, 42)

	notifier := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	payload, err := json.Marshal(ChatEvent{Type: "message", UserID: 2, Payload: map[string]interface{}{"content": "hi"}})
	require.NoError(t, err)
	require.NoError(t, notifier.PublishConversationMessage(context.Background(), 42, string(payload)))

	assert.Eventually(t, func() bool {
		return len(client.Send) == 1
	}, time.Second, 10*time.Millisecond)

	var event ChatEvent
	require.NoError(t, json.Unmarshal(<-client.Send, &event))
	assert.Equal(t, uint(42), event.ConversationID)

	_ = hub.Shutdown(context.Background())
}
