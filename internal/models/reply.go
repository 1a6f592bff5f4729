package models

import (
	"time"

	"github.com/google/uuid"
)

// Reply is the append-only record linking a reply message back to the
// message it answers. The reply content itself is stored as a regular
// message; this record carries the thread linkage.
type Reply struct {
	ID             string    `bson:"_id" json:"id"`
	ReplierID      string    `bson:"replier_id" json:"replier_id"`
	MessageID      string    `bson:"message_id" json:"message_id"`
	ReplyMessageID string    `bson:"reply_message_id" json:"reply_message_id"`
	ReceiverID     string    `bson:"receiver_id" json:"receiver_id"`
	Body           string    `bson:"body" json:"body"`
	ImageRef       string    `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	RepliedAt      time.Time `bson:"replied_at" json:"replied_at"`
}

func NewReply(replierID, messageID, replyMessageID, receiverID, body, imageRef string) *Reply {
	return &Reply{
		ID:             uuid.NewString(),
		ReplierID:      replierID,
		MessageID:      messageID,
		ReplyMessageID: replyMessageID,
		ReceiverID:     receiverID,
		Body:           body,
		ImageRef:       imageRef,
		RepliedAt:      time.Now().UTC(),
	}
}

// GroupReply is the group-chat variant of Reply, addressed to the receiver
// snapshot of the reply message.
type GroupReply struct {
	ID             string    `bson:"_id" json:"id"`
	ReplierID      string    `bson:"replier_id" json:"replier_id"`
	GroupID        string    `bson:"group_id" json:"group_id"`
	MessageID      string    `bson:"message_id" json:"message_id"`
	ReplyMessageID string    `bson:"reply_message_id" json:"reply_message_id"`
	ReceiversID    []string  `bson:"receivers_id" json:"receivers_id"`
	Body           string    `bson:"body" json:"body"`
	ImageRef       string    `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	RepliedAt      time.Time `bson:"replied_at" json:"replied_at"`
}

func NewGroupReply(replierID, groupID, messageID, replyMessageID string, receivers []string, body, imageRef string) *GroupReply {
	return &GroupReply{
		ID:             uuid.NewString(),
		ReplierID:      replierID,
		GroupID:        groupID,
		MessageID:      messageID,
		ReplyMessageID: replyMessageID,
		ReceiversID:    receivers,
		Body:           body,
		ImageRef:       imageRef,
		RepliedAt:      time.Now().UTC(),
	}
}
