// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"forumhub/internal/middleware"
	"forumhub/internal/models"
	"forumhub/internal/notifications"
	"forumhub/internal/observability"
	"forumhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const wsTicketTTL = 30 * time.Second

var (
	chatWSLog     = observability.NewWSLogger("chat")
	shoutboxWSLog = observability.NewWSLogger("shoutbox")
)

// IssueWSTicket handles POST /api/ws/ticket. Tickets are single-use and
// short-lived; browsers cannot set Authorization headers on WebSocket
// upgrades, so the ticket rides in the query string instead.
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("ticket store unavailable")))
	}

	userID := currentUserID(c)
	ticket := uuid.New().String()
	key := fmt.Sprintf("ws_ticket:%s", ticket)

	if err := s.redis.Set(c.Context(), key, fmt.Sprintf("%d", userID), wsTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// WebsocketHandler returns a websocket handler that registers connections with
// the notification Hub. Authentication is handled by route middleware and
// userID is read from connection locals.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		userID, ok := wsUserID(conn)
		if !ok || s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket Notifications: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		defer s.hub.UnregisterClient(client)

		// Unread badge snapshot on connect
		if count, cerr := s.chatService.UnreadCount(context.Background(), userID); cerr == nil {
			snapshot, _ := json.Marshal(map[string]interface{}{
				"type":    "unread_snapshot",
				"payload": map[string]interface{}{"unread": count},
			})
			client.TrySend(snapshot)
		}

		go client.WritePump()
		client.ReadPump()
	})
}

// WebSocketChatHandler handles WebSocket connections for direct messages.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx := observability.WithCorrelationID(context.Background(), observability.GenerateCorrelationID())

		userID, ok := wsUserID(conn)
		if !ok || s.chatHub == nil {
			_ = conn.Close()
			return
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || user == nil {
			log.Printf("WebSocket DM: Failed to load user %d: %v", userID, err)
			_ = conn.Close()
			return
		}
		username := user.Username

		client, err := s.chatHub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket DM: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		chatWSLog.LogConnect(ctx, userID, "dm")
		defer chatWSLog.LogDisconnect(ctx, userID, "dm", "connection closed")

		client.IncomingHandler = func(cl *notifications.Client, message []byte) {
			var incoming struct {
				Type           string `json:"type"`
				ConversationID uint   `json:"conversation_id"`
				IsTyping       bool   `json:"is_typing"`
				Content        string `json:"content"`
			}
			if err := json.Unmarshal(message, &incoming); err != nil {
				log.Printf("WebSocket DM: Invalid message format from user %d", userID)
				return
			}

			switch incoming.Type {
			case "join":
				if !s.isParticipant(ctx, incoming.ConversationID, userID) {
					return
				}
				s.chatHub.JoinConversation(userID, incoming.ConversationID)
				response, _ := json.Marshal(notifications.ChatEvent{
					Type:           "joined",
					ConversationID: incoming.ConversationID,
					Payload:        map[string]interface{}{"conversation_id": incoming.ConversationID},
				})
				cl.TrySend(response)

			case "leave":
				s.chatHub.LeaveConversation(userID, incoming.ConversationID)

			case "typing":
				if s.notifier == nil || !s.isParticipant(ctx, incoming.ConversationID, userID) {
					return
				}
				// Rate limit typing indicators to keep spam off the channel
				id := fmt.Sprintf("user:%d", userID)
				allowed, _ := middleware.CheckRateLimit(ctx, s.redis, "typing", id, 10, 10*time.Second)
				if !allowed {
					return
				}
				if perr := s.notifier.PublishTypingIndicator(
					ctx, incoming.ConversationID, userID, username, incoming.IsTyping); perr != nil {
					log.Printf("publish typing indicator error: %v", perr)
				}

			case "message":
				// Alternative to the HTTP endpoint, same limits
				id := fmt.Sprintf("user:%d", userID)
				allowed, _ := middleware.CheckRateLimit(ctx, s.redis, "send_dm", id, 15, time.Minute)
				if !allowed {
					response, _ := json.Marshal(notifications.ChatEvent{
						Type:    "error",
						Payload: map[string]string{"message": "Rate limit exceeded. Please wait a moment."},
					})
					cl.TrySend(response)
					return
				}

				msg, serr := s.chatService.SendMessage(ctx, service.SendMessageInput{
					UserID:         userID,
					ConversationID: incoming.ConversationID,
					Content:        incoming.Content,
				})
				if serr != nil {
					chatWSLog.LogError(ctx, userID, "dm", serr, "message")
					response, _ := json.Marshal(notifications.ChatEvent{
						Type:    "error",
						Payload: map[string]string{"message": serr.Error()},
					})
					cl.TrySend(response)
					return
				}
				s.publishConversationMessage(msg, s.conversationRecipient(ctx, incoming.ConversationID, userID))

			case "read":
				if merr := s.chatService.MarkRead(ctx, userID, incoming.ConversationID); merr != nil {
					return
				}
				if s.notifier != nil {
					readEvent, _ := json.Marshal(notifications.ChatEvent{
						Type:           "read",
						ConversationID: incoming.ConversationID,
						UserID:         userID,
						Username:       username,
						Payload: map[string]interface{}{
							"conversation_id": incoming.ConversationID,
							"user_id":         userID,
						},
					})
					if perr := s.notifier.PublishConversationMessage(
						ctx, incoming.ConversationID, string(readEvent)); perr != nil {
						log.Printf("publish read receipt error: %v", perr)
					}
				}
			}
		}

		welcome, _ := json.Marshal(notifications.ChatEvent{
			Type:    "connected",
			Payload: map[string]interface{}{"user_id": userID, "username": username},
		})
		client.TrySend(welcome)

		go client.WritePump()
		client.ReadPump()
	})
}

// WebSocketShoutboxHandler handles WebSocket connections for the live
// shoutbox. Clients join one channel at a time; switching channels
// re-registers the connection.
func (s *Server) WebSocketShoutboxHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx := observability.WithCorrelationID(context.Background(), observability.GenerateCorrelationID())

		userID, ok := wsUserID(conn)
		if !ok || s.shoutboxHub == nil {
			_ = conn.Close()
			return
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || user == nil {
			_ = conn.Close()
			return
		}
		username := user.Username

		channel := conn.Query("channel", models.ShoutboxChannelGeneral)
		if !models.ValidShoutboxChannel(channel) {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unknown channel"}`))
			_ = conn.Close()
			return
		}

		client, err := s.shoutboxHub.Register(channel, userID, conn)
		if err != nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		shoutboxWSLog.LogConnect(ctx, userID, channel)
		defer func() { shoutboxWSLog.LogDisconnect(ctx, userID, channel, "connection closed") }()

		client.IncomingHandler = func(cl *notifications.Client, message []byte) {
			var incoming struct {
				Type    string `json:"type"`
				Channel string `json:"channel"`
				Content string `json:"content"`
			}
			if err := json.Unmarshal(message, &incoming); err != nil {
				return
			}

			switch incoming.Type {
			case "switch_channel":
				if !models.ValidShoutboxChannel(incoming.Channel) || incoming.Channel == channel {
					return
				}
				if merr := s.shoutboxHub.Move(cl, incoming.Channel); merr != nil {
					response, _ := json.Marshal(notifications.ShoutEvent{
						Type:    "error",
						Channel: incoming.Channel,
						Payload: map[string]string{"message": merr.Error()},
					})
					cl.TrySend(response)
					return
				}
				channel = incoming.Channel
				ack, _ := json.Marshal(notifications.ShoutEvent{
					Type:    "channel_switched",
					Channel: channel,
				})
				cl.TrySend(ack)

			case "shout":
				id := fmt.Sprintf("user:%d", userID)
				allowed, _ := middleware.CheckRateLimit(ctx, s.redis, "shoutbox", id, 20, time.Minute)
				if !allowed {
					return
				}

				target := incoming.Channel
				if target == "" {
					target = channel
				}
				msg, serr := s.shoutboxService.PostMessage(ctx, service.PostMessageInput{
					UserID:  userID,
					Channel: target,
					Content: incoming.Content,
				})
				if serr != nil {
					shoutboxWSLog.LogError(ctx, userID, target, serr, "shout")
					response, _ := json.Marshal(notifications.ShoutEvent{
						Type:    "error",
						Channel: target,
						Payload: map[string]string{"message": serr.Error()},
					})
					cl.TrySend(response)
					return
				}
				if msg.User.ID == 0 {
					msg.User = *user
				}
				s.publishShout(msg)
			}
		}

		welcome, _ := json.Marshal(notifications.ShoutEvent{
			Type:     "connected",
			Channel:  channel,
			UserID:   userID,
			Username: username,
		})
		client.TrySend(welcome)

		go client.WritePump()
		client.ReadPump()
	})
}

// wsUserID extracts the authenticated userID from connection locals.
func wsUserID(conn *websocket.Conn) (uint, bool) {
	userIDVal := conn.Locals("userID")
	if userIDVal == nil {
		return 0, false
	}
	userID, ok := userIDVal.(uint)
	return userID, ok
}

// isParticipant checks conversation membership for WebSocket actions.
func (s *Server) isParticipant(ctx context.Context, convID, userID uint) bool {
	ok, err := s.chatRepo.IsParticipant(ctx, convID, userID)
	return err == nil && ok
}
