package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

type MongoGroupMessageRepository struct {
	coll          *mongo.Collection
	reactionsColl string
}

func NewMongoGroupMessageRepository(db *mongo.Database) *MongoGroupMessageRepository {
	coll := db.Collection(CollGroupMessages)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("group_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MongoGroupMessageRepository{coll: coll, reactionsColl: CollGroupReactions}
}

func (r *MongoGroupMessageRepository) Insert(ctx context.Context, m *models.GroupMessage) error {
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *MongoGroupMessageRepository) GetByID(ctx context.Context, id string) (*models.GroupMessage, error) {
	var m models.GroupMessage
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MongoGroupMessageRepository) Edit(ctx context.Context, id string, version int64, body string, editedAt time.Time) (bool, error) {
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

func (r *MongoGroupMessageRepository) MarkDeleted(ctx context.Context, id string, version int64, deletedAt time.Time) (bool, error) {
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

func (r *MongoGroupMessageRepository) HardDelete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoGroupMessageRepository) SetRepliedTo(ctx context.Context, id, replyMessageID string) error {
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

// ListEnriched returns the group's messages newest-first, each joined with
// its reply context, its latest reaction and an is_reacted flag, in a
// single aggregation read. Presence annotation happens in the service.
func (r *MongoGroupMessageRepository) ListEnriched(ctx context.Context, groupID string, limit, offset int64) ([]*GroupMessageView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"group_id": groupID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: offset}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from": r.reactionsColl,
			"let":  bson.M{"mid": "$_id"},
			"pipeline": mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": bson.A{"$message_id", "$$mid"}}}}},
				{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
				{{Key: "$limit", Value: 1}},
			},
			"as": "latest_reaction",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         CollGroupMessages,
			"localField":   "replied_to_message_id",
			"foreignField": "_id",
			"as":           "reply_context",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"is_reacted":      bson.M{"$gt": bson.A{bson.M{"$size": "$latest_reaction"}, 0}},
			"latest_reaction": bson.M{"$arrayElemAt": bson.A{"$latest_reaction", 0}},
			"reply_context":   bson.M{"$arrayElemAt": bson.A{"$reply_context", 0}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*GroupMessageView{}
	for cur.Next(ctx) {
		var v GroupMessageView
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

// Media returns messages addressed to the viewer that carry an image.
func (r *MongoGroupMessageRepository) Media(ctx context.Context, groupID, viewerID string) ([]*models.GroupMessage, error) {
	filter := bson.M{
		"group_id":     groupID,
		"receivers_id": viewerID,
		"image_ref":    bson.M{"$nin": bson.A{"", nil}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.GroupMessage{}
	for cur.Next(ctx) {
		var m models.GroupMessage
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}
