package models

import "time"

// UserProfile is the minimal profile shape used to enrich message payloads.
type UserProfile struct {
	ID        string `bson:"_id" json:"id"`
	Username  string `bson:"username" json:"username"`
	FullName  string `bson:"full_name,omitempty" json:"full_name,omitempty"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
}

// PresenceInfo annotates a user with their live connection state.
type PresenceInfo struct {
	IsOnline   bool       `json:"is_online"`
	LastActive *time.Time `json:"last_active,omitempty"`
}
