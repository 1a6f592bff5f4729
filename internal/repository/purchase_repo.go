package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPurchaseRepository reads purchase records written by the payments
// pipeline. This subsystem only ever asks whether one exists.
type MongoPurchaseRepository struct {
	coll *mongo.Collection
}

func NewMongoPurchaseRepository(db *mongo.Database) *MongoPurchaseRepository {
	coll := db.Collection(CollPurchases)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "content_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetName("content_user_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MongoPurchaseRepository{coll: coll}
}

func (r *MongoPurchaseRepository) HasPurchased(ctx context.Context, contentID, userID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"content_id": contentID, "user_id": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
