package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

type MongoMessageRepository struct {
	coll *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	coll := db.Collection(CollMessages)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "channel_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("channel_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MongoMessageRepository{coll: coll}
}

func (r *MongoMessageRepository) Insert(ctx context.Context, m *models.Message) error {
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *MongoMessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var m models.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MongoMessageRepository) List(ctx context.Context, channelID string, limit int64, before time.Time) ([]*models.Message, error) {
	filter := bson.M{"channel_id": channelID}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Message{}
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}

// Edit applies the new body only if the version still matches the one the
// caller read. Returns false when a concurrent write won.
func (r *MongoMessageRepository) Edit(ctx context.Context, id string, version int64, body string, editedAt time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "version": version},
		bson.M{
			"$set": bson.M{"body": body, "edited": true, "edited_at": editedAt},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkDeleted clears content and flags the record deleted, keeping the row
// for the audit window before the hard delete.
func (r *MongoMessageRepository) MarkDeleted(ctx context.Context, id string, version int64, deletedAt time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "version": version},
		bson.M{
			"$set": bson.M{"body": "", "image_ref": "", "deleted": true, "deleted_at": deletedAt},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoMessageRepository) HardDelete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// MarkDeletedOwned flags every listed message owned by senderID as deleted
// and returns the matched records in their pre-update form.
func (r *MongoMessageRepository) MarkDeletedOwned(ctx context.Context, senderID string, ids []string, deletedAt time.Time) ([]*models.Message, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}, "sender_id": senderID}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	matched := []*models.Message{}
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		matched = append(matched, &m)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return matched, nil
	}

	_, err = r.coll.UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{"body": "", "image_ref": "", "deleted": true, "deleted_at": deletedAt},
		"$inc": bson.M{"version": 1},
	})
	return matched, err
}

func (r *MongoMessageRepository) HardDeleteOwned(ctx context.Context, senderID string, ids []string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "sender_id": senderID})
	return err
}

// SetRepliedTo back-links a message to the reply message that answers it.
func (r *MongoMessageRepository) SetRepliedTo(ctx context.Context, id, replyMessageID string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"replied_to_message_id": replyMessageID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSeen flips seen/delivered for the receiver and returns the updated
// record.
func (r *MongoMessageRepository) MarkSeen(ctx context.Context, id, receiverID string) (*models.Message, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Message
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "receiver_id": receiverID},
		bson.M{"$set": bson.M{"seen": true, "delivered": true}},
		opts).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
