package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupMessage is a message fanned out to a group. ReceiversID is fixed at
// send time and never updated when membership changes afterwards.
type GroupMessage struct {
	ID                 string     `bson:"_id" json:"id"`
	GroupID            string     `bson:"group_id" json:"group_id"`
	SenderID           string     `bson:"sender_id" json:"sender_id"`
	ReceiversID        []string   `bson:"receivers_id" json:"receivers_id"`
	Body               string     `bson:"body" json:"body"`
	ImageRef           string     `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	IsExclusive        bool       `bson:"is_exclusive" json:"is_exclusive"`
	Price              *int64     `bson:"price,omitempty" json:"price,omitempty"`
	Edited             bool       `bson:"edited" json:"edited"`
	Deleted            bool       `bson:"deleted" json:"deleted"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	EditedAt           *time.Time `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	DeletedAt          *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	RepliedToMessageID string     `bson:"replied_to_message_id,omitempty" json:"replied_to_message_id,omitempty"`
	PurchasedBy        []string   `bson:"purchased_by" json:"purchased_by"`
	Version            int64      `bson:"version" json:"-"`
}

// NewGroupMessage is the single constructor for group messages. receivers
// must already be the participants-minus-sender snapshot.
func NewGroupMessage(groupID, senderID string, receivers []string, body, imageRef string, isExclusive bool, price *int64) *GroupMessage {
	return &GroupMessage{
		ID:          uuid.NewString(),
		GroupID:     groupID,
		SenderID:    senderID,
		ReceiversID: receivers,
		Body:        body,
		ImageRef:    imageRef,
		IsExclusive: isExclusive,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
		PurchasedBy: []string{senderID},
		Version:     1,
	}
}
