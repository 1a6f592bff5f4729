package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is an N:N messaging context with role-based membership. There is
// exactly one admin at all times; moderators are always participants.
type Group struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	AvatarRef    string    `bson:"avatar_ref,omitempty" json:"avatar_ref,omitempty"`
	AdminID      string    `bson:"admin_id" json:"admin_id"`
	Moderators   []string  `bson:"moderators" json:"moderators"`
	Participants []string  `bson:"participants" json:"participants"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// NewGroup builds a group with the creator as sole participant, moderator
// and admin.
func NewGroup(adminID, name, description, avatarRef string) *Group {
	now := time.Now().UTC()
	return &Group{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		AvatarRef:    avatarRef,
		AdminID:      adminID,
		Moderators:   []string{adminID},
		Participants: []string{adminID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsParticipant reports whether userID currently belongs to the group.
func (g *Group) IsParticipant(userID string) bool {
	return contains(g.Participants, userID)
}

// IsModerator reports whether userID currently holds the moderator role.
func (g *Group) IsModerator(userID string) bool {
	return contains(g.Moderators, userID)
}

// ReceiversFor snapshots the recipient set for a message sent by senderID:
// every current participant except the sender.
func (g *Group) ReceiversFor(senderID string) []string {
	receivers := make([]string, 0, len(g.Participants))
	for _, p := range g.Participants {
		if p != senderID {
			receivers = append(receivers, p)
		}
	}
	return receivers
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
