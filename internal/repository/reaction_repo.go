package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

// MongoReactionRepository stores reaction rows for one message family; the
// direct and group engines each get their own instance over a separate
// collection. No uniqueness index on (user_id, message_id): duplicate
// reactions by the same user are permitted.
type MongoReactionRepository struct {
	coll *mongo.Collection
}

func NewMongoReactionRepository(db *mongo.Database, collection string) *MongoReactionRepository {
	coll := db.Collection(collection)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "message_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("message_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MongoReactionRepository{coll: coll}
}

func (r *MongoReactionRepository) Insert(ctx context.Context, reaction *models.Reaction) error {
	_, err := r.coll.InsertOne(ctx, reaction)
	return err
}

func (r *MongoReactionRepository) GetByID(ctx context.Context, id string) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&reaction); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *MongoReactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Latest returns the most recent reaction on a message, or ErrNotFound.
func (r *MongoReactionRepository) Latest(ctx context.Context, messageID string) (*models.Reaction, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var reaction models.Reaction
	if err := r.coll.FindOne(ctx, bson.M{"message_id": messageID}, opts).Decode(&reaction); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reaction, nil
}

// DeleteForMessage removes every reaction on a message, used when the
// message itself is hard-deleted.
func (r *MongoReactionRepository) DeleteForMessage(ctx context.Context, messageID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"message_id": messageID})
	return err
}
