package server

import (
	"context"
	"encoding/json"
	"log"

	"forumhub/internal/models"
	"forumhub/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// Event type constants prevent typos in event names.
const (
	EventThreadReply         = "thread_reply"
	EventAnnouncementCreated = "announcement_created"
	EventMessageReceived     = "message_received"
	EventShoutPosted         = "shout_posted"
	EventShoutboxUserBanned  = "shoutbox_user_banned"
)

func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
}

func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
	}
}

// notifyThreadReply tells the thread author someone replied. Replying to
// your own thread stays silent.
func (s *Server) notifyThreadReply(c *fiber.Ctx, threadID uint, post *models.Post) {
	thread, err := s.threadRepo.GetByID(c.Context(), threadID, 0)
	if err != nil || thread == nil || thread.AuthorID == post.AuthorID {
		return
	}
	s.publishUserEvent(thread.AuthorID, EventThreadReply, map[string]interface{}{
		"thread_id":    thread.ID,
		"thread_slug":  thread.Slug,
		"thread_title": thread.Title,
		"post_id":      post.ID,
		"author":       userSummary(post.Author),
	})
}

// publishConversationMessage fans a new direct message out to the
// conversation's Redis channel and to the recipient's notification hub.
func (s *Server) publishConversationMessage(msg *models.DirectMessage, recipientID uint) {
	if s.notifier != nil {
		event := notifications.ChatEvent{
			Type:           "message",
			ConversationID: msg.ConversationID,
			UserID:         msg.SenderID,
			Payload:        msg,
		}
		if eventJSON, err := json.Marshal(event); err == nil {
			if perr := s.notifier.PublishConversationMessage(
				context.Background(), msg.ConversationID, string(eventJSON)); perr != nil {
				log.Printf("failed to publish conversation message: %v", perr)
			}
		}
	}

	if recipientID != 0 {
		s.publishUserEvent(recipientID, EventMessageReceived, map[string]interface{}{
			"conversation_id": msg.ConversationID,
			"message_id":      msg.ID,
			"sender_id":       msg.SenderID,
		})
	}
}

// publishShout fans a shoutbox message out to its channel subscribers.
func (s *Server) publishShout(msg *models.ShoutboxMessage) {
	if s.notifier == nil {
		return
	}
	event := notifications.ShoutEvent{
		Type:     "shout",
		Channel:  msg.Channel,
		UserID:   msg.UserID,
		Username: msg.User.Username,
		Payload:  msg,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal shout event: %v", err)
		return
	}
	if perr := s.notifier.PublishShout(context.Background(), msg.Channel, string(eventJSON)); perr != nil {
		log.Printf("failed to publish shout: %v", perr)
	}
}

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"avatar_url":   user.AvatarURL,
	}
}
