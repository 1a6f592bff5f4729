package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

type MongoChannelRepository struct {
	coll *mongo.Collection
}

// NewMongoChannelRepository ensures the unique index on the normalized
// member pair that makes concurrent get-or-create safe.
func NewMongoChannelRepository(db *mongo.Database) *MongoChannelRepository {
	coll := db.Collection(CollChannels)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("pair_key_uniq"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MongoChannelRepository{coll: coll}
}

// GetOrCreate resolves the channel for an unordered user pair, creating it
// on first use. A duplicate-key failure means the peer created it
// concurrently, so the existing record is fetched instead.
func (r *MongoChannelRepository) GetOrCreate(ctx context.Context, userA, userB string) (*models.Channel, error) {
	pairKey := strings.Join(models.NormalizePair(userA, userB), ":")

	var existing models.Channel
	err := r.coll.FindOne(ctx, bson.M{"pair_key": pairKey}).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	ch := models.NewChannel(userA, userB)
	res, err := r.coll.InsertOne(ctx, ch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if err := r.coll.FindOne(ctx, bson.M{"pair_key": pairKey}).Decode(&existing); err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	ch.ID = res.InsertedID.(primitive.ObjectID)
	return ch, nil
}

func (r *MongoChannelRepository) GetByID(ctx context.Context, id string) (*models.Channel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var ch models.Channel
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ch); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}

// Delete removes the channel record only; its messages are left orphaned.
func (r *MongoChannelRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoChannelRepository) ListForUser(ctx context.Context, userID string) ([]*models.Channel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"users": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Channel{}
	for cur.Next(ctx) {
		var ch models.Channel
		if err := cur.Decode(&ch); err != nil {
			return nil, err
		}
		out = append(out, &ch)
	}
	return out, cur.Err()
}

// Touch bumps updated_at so channel listings sort by recent activity.
func (r *MongoChannelRepository) Touch(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}})
	return err
}
