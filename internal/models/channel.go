package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Channel is the single 1:1 messaging context between two users.
type Channel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Users     []string           `bson:"users" json:"users"`
	PairKey   string             `bson:"pair_key" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewChannel builds the channel record for a user pair. Members are stored
// sorted so (A,B) and (B,A) produce the same record and pair key.
func NewChannel(userA, userB string) *Channel {
	now := time.Now().UTC()
	users := NormalizePair(userA, userB)
	return &Channel{
		Users:     users,
		PairKey:   strings.Join(users, ":"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizePair returns the two user ids in sorted order.
func NormalizePair(userA, userB string) []string {
	users := []string{userA, userB}
	sort.Strings(users)
	return users
}

// HasMember reports whether userID is one of the two channel members.
func (c *Channel) HasMember(userID string) bool {
	for _, u := range c.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// Peer returns the other member of the channel.
func (c *Channel) Peer(userID string) string {
	for _, u := range c.Users {
		if u != userID {
			return u
		}
	}
	return userID
}
