package database

import "forumhub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Thread{},
		&models.Post{},
		&models.Reaction{},
		&models.ShoutboxMessage{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.DirectMessage{},
		&models.Advertisement{},
	}
}
