package models

import (
	"time"

	"github.com/google/uuid"
)

// Reaction is one user's emoji reaction to one message. Uniqueness per
// (user, message) is intentionally not enforced.
type Reaction struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	MessageID string    `bson:"message_id" json:"message_id"`
	Reaction  string    `bson:"reaction" json:"reaction"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func NewReaction(userID, messageID, reaction string) *Reaction {
	return &Reaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		MessageID: messageID,
		Reaction:  reaction,
		CreatedAt: time.Now().UTC(),
	}
}
