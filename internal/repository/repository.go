package repository

import (
	"context"
	"errors"
	"time"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

var ErrNotFound = errors.New("not found")

// ChannelRepository is the directory of 1:1 channels.
type ChannelRepository interface {
	GetOrCreate(ctx context.Context, userA, userB string) (*models.Channel, error)
	GetByID(ctx context.Context, id string) (*models.Channel, error)
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]*models.Channel, error)
	Touch(ctx context.Context, id string) error
}

// MessageRepository stores direct messages. Edit and MarkDeleted are
// conditioned on the version read by the caller; a false return means the
// record changed underneath.
type MessageRepository interface {
	Insert(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	List(ctx context.Context, channelID string, limit int64, before time.Time) ([]*models.Message, error)
	Edit(ctx context.Context, id string, version int64, body string, editedAt time.Time) (bool, error)
	MarkDeleted(ctx context.Context, id string, version int64, deletedAt time.Time) (bool, error)
	HardDelete(ctx context.Context, id string) error
	MarkDeletedOwned(ctx context.Context, senderID string, ids []string, deletedAt time.Time) ([]*models.Message, error)
	HardDeleteOwned(ctx context.Context, senderID string, ids []string) error
	SetRepliedTo(ctx context.Context, id, replyMessageID string) error
	MarkSeen(ctx context.Context, id, receiverID string) (*models.Message, error)
}

// GroupRepository persists groups. All role mutations are single
// conditional updates keyed by group id plus the authorizing role field;
// a false return means the guard did not match.
type GroupRepository interface {
	Insert(ctx context.Context, g *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	Delete(ctx context.Context, groupID, adminID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Group, error)
	AddParticipant(ctx context.Context, groupID, actorID, memberID string) (bool, error)
	AddModerator(ctx context.Context, groupID, adminID, memberID string) (bool, error)
	TransferAdmin(ctx context.Context, groupID, currentAdminID, newAdminID string) (bool, error)
	RemoveModerator(ctx context.Context, groupID, adminID, moderatorID string) (bool, error)
	RemoveParticipants(ctx context.Context, groupID, adminID string, memberIDs []string) (bool, error)
	RemoveSelf(ctx context.Context, groupID, userID string) (bool, error)
}

// GroupMessageView is a group message enriched by the listing aggregation.
type GroupMessageView struct {
	models.GroupMessage `bson:",inline"`
	ReplyContext        *models.GroupMessage           `bson:"reply_context,omitempty" json:"reply_context,omitempty"`
	LatestReaction      *models.Reaction               `bson:"latest_reaction,omitempty" json:"latest_reaction,omitempty"`
	IsReacted           bool                           `bson:"is_reacted" json:"is_reacted"`
	Sender              models.PresenceInfo            `bson:"-" json:"sender_presence"`
	Receivers           map[string]models.PresenceInfo `bson:"-" json:"receivers_presence,omitempty"`
}

// GroupMessageRepository stores group messages and their read-side views.
type GroupMessageRepository interface {
	Insert(ctx context.Context, m *models.GroupMessage) error
	GetByID(ctx context.Context, id string) (*models.GroupMessage, error)
	Edit(ctx context.Context, id string, version int64, body string, editedAt time.Time) (bool, error)
	MarkDeleted(ctx context.Context, id string, version int64, deletedAt time.Time) (bool, error)
	HardDelete(ctx context.Context, id string) error
	SetRepliedTo(ctx context.Context, id, replyMessageID string) error
	ListEnriched(ctx context.Context, groupID string, limit, offset int64) ([]*GroupMessageView, error)
	Media(ctx context.Context, groupID, viewerID string) ([]*models.GroupMessage, error)
}

// ReplyRepository stores the append-only thread linkage records.
type ReplyRepository interface {
	InsertReply(ctx context.Context, r *models.Reply) error
	InsertGroupReply(ctx context.Context, r *models.GroupReply) error
}

// ReactionRepository stores reaction rows for one message family (direct or
// group); the service holds one instance per family.
type ReactionRepository interface {
	Insert(ctx context.Context, r *models.Reaction) error
	GetByID(ctx context.Context, id string) (*models.Reaction, error)
	Delete(ctx context.Context, id string) error
	Latest(ctx context.Context, messageID string) (*models.Reaction, error)
	DeleteForMessage(ctx context.Context, messageID string) error
}

// PurchaseRepository is the purchase oracle: it answers whether a purchase
// record exists for a content id and user.
type PurchaseRepository interface {
	HasPurchased(ctx context.Context, contentID, userID string) (bool, error)
}

// AssetRepository stores media asset records (object keys live in S3).
type AssetRepository interface {
	Insert(ctx context.Context, a *models.Asset) error
	GetByIDs(ctx context.Context, ids []string) ([]*models.Asset, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository resolves minimal profiles for payload enrichment.
type UserRepository interface {
	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)
}
