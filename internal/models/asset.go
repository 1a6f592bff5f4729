package models

import (
	"time"

	"github.com/google/uuid"
)

// Asset is an uploaded media object. The media pipeline stores two object
// keys per asset: the original and a blurred preview. Which key a viewer
// gets resolved into a URL depends on the containing message's exclusivity
// and the viewer's purchase state.
type Asset struct {
	ID          string    `bson:"_id" json:"id"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	OriginalKey string    `bson:"original_key" json:"-"`
	BlurredKey  string    `bson:"blurred_key" json:"-"`
	ContentType string    `bson:"content_type" json:"content_type"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

func NewAsset(ownerID, originalKey, blurredKey, contentType string) *Asset {
	return &Asset{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		OriginalKey: originalKey,
		BlurredKey:  blurredKey,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
}

// AssetView is the per-viewer resolved form of an asset.
type AssetView struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Blurred bool   `json:"blurred"`
}

// Purchase records that a user bought access to a piece of content.
type Purchase struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	ContentID string    `bson:"content_id" json:"content_id"`
	Amount    int64     `bson:"amount" json:"amount"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func NewPurchase(userID, contentID string, amount int64) *Purchase {
	return &Purchase{
		ID:        uuid.NewString(),
		UserID:    userID,
		ContentID: contentID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}
