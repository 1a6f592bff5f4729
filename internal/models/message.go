package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message inside a channel. Deleted messages keep the
// record with cleared content until the hard-delete step removes them.
type Message struct {
	ID                 string     `bson:"_id" json:"id"`
	ChannelID          string     `bson:"channel_id" json:"channel_id"`
	SenderID           string     `bson:"sender_id" json:"sender_id"`
	ReceiverID         string     `bson:"receiver_id" json:"receiver_id"`
	Body               string     `bson:"body" json:"body"`
	ImageRef           string     `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	IsExclusive        bool       `bson:"is_exclusive" json:"is_exclusive"`
	Price              *int64     `bson:"price,omitempty" json:"price,omitempty"`
	Edited             bool       `bson:"edited" json:"edited"`
	Deleted            bool       `bson:"deleted" json:"deleted"`
	Delivered          bool       `bson:"delivered" json:"delivered"`
	Seen               bool       `bson:"seen" json:"seen"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	EditedAt           *time.Time `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	DeletedAt          *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	RepliedToMessageID string     `bson:"replied_to_message_id,omitempty" json:"replied_to_message_id,omitempty"`
	PurchasedBy        []string   `bson:"purchased_by" json:"purchased_by"`
	AssetIDs           []string   `bson:"asset_ids,omitempty" json:"asset_ids,omitempty"`
	Version            int64      `bson:"version" json:"-"`
}

// NewMessage is the single constructor for direct messages. The sender is
// always part of purchased_by so they can view their own exclusive content.
func NewMessage(channelID, senderID, receiverID, body, imageRef string, isExclusive bool, price *int64) *Message {
	return &Message{
		ID:          uuid.NewString(),
		ChannelID:   channelID,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Body:        body,
		ImageRef:    imageRef,
		IsExclusive: isExclusive,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
		PurchasedBy: []string{senderID},
		Version:     1,
	}
}

// PurchasedByUser reports whether userID already holds a purchase entry on
// the message itself.
func (m *Message) PurchasedByUser(userID string) bool {
	for _, u := range m.PurchasedBy {
		if u == userID {
			return true
		}
	}
	return false
}
