// Package notifications provides real-time event delivery over websockets,
// fanned out across instances through Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes realtime events into Redis channels and runs the
// subscribers that feed the hubs.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends a notification payload to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, "notifications:broadcast", payload).Err()
}

// PublishConversationMessage publishes a direct message event to a
// conversation channel.
func (n *Notifier) PublishConversationMessage(ctx context.Context, conversationID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, ConversationChannel(conversationID), payload).Err()
}

// PublishTypingIndicator publishes a typing indicator to a conversation.
func (n *Notifier) PublishTypingIndicator(
	ctx context.Context, conversationID, userID uint, username string, isTyping bool,
) error {
	if n.rdb == nil {
		return nil
	}
	channel := fmt.Sprintf("typing:conv:%d", conversationID)
	payload := map[string]interface{}{
		"user_id":       userID,
		"username":      username,
		"is_typing":     isTyping,
		"expires_in_ms": 5000,
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, channel, string(payloadJSON)).Err()
}

// PublishShout publishes a shoutbox message event to a channel.
func (n *Notifier) PublishShout(ctx context.Context, channel, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, ShoutboxChannel(channel), payload).Err()
}

// StartPatternSubscriber subscribes to per-user notification channels plus
// the broadcast channel and calls onMessage for each incoming message.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	return n.subscribe(ctx, "pattern", onMessage, "notifications:user:*", "notifications:broadcast")
}

// StartChatSubscriber subscribes to direct-message conversation channels.
// Subscribes to: dm:conv:*, typing:conv:*
func (n *Notifier) StartChatSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	return n.subscribe(ctx, "chat", onMessage, "dm:conv:*", "typing:conv:*")
}

// StartShoutboxSubscriber subscribes to shoutbox channel events.
func (n *Notifier) StartShoutboxSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	return n.subscribe(ctx, "shoutbox", onMessage, "shoutbox:chan:*")
}

func (n *Notifier) subscribe(
	ctx context.Context, name string, onMessage func(channel, payload string), patterns ...string,
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, patterns...)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in %s subscriber: %v\n%s", name, r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}

// ConversationChannel derives the Redis channel name for a conversation.
func ConversationChannel(conversationID uint) string {
	return "dm:conv:" + strconv.FormatUint(uint64(conversationID), 10)
}

// ShoutboxChannel derives the Redis channel name for a shoutbox channel.
func ShoutboxChannel(channel string) string {
	return "shoutbox:chan:" + channel
}
