package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

type MongoGroupRepository struct {
	coll *mongo.Collection
}

func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	coll := db.Collection(CollGroups)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "participants", Value: 1}},
		Options: options.Index().SetName("participants_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MongoGroupRepository{coll: coll}
}

func (r *MongoGroupRepository) Insert(ctx context.Context, g *models.Group) error {
	_, err := r.coll.InsertOne(ctx, g)
	return err
}

func (r *MongoGroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var g models.Group
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Delete removes the group only when adminID holds the admin role; group
// messages are left orphaned.
func (r *MongoGroupRepository) Delete(ctx context.Context, groupID, adminID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": groupID, "admin_id": adminID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoGroupRepository) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Group{}
	for cur.Next(ctx) {
		var g models.Group
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, cur.Err()
}

// AddParticipant adds memberID when the actor is a participant and the
// member is not. The guard filter makes the read-modify-write one
// conditional update.
func (r *MongoGroupRepository) AddParticipant(ctx context.Context, groupID, actorID, memberID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":          groupID,
			"participants": bson.M{"$eq": actorID, "$ne": memberID},
		},
		bson.M{
			"$addToSet": bson.M{"participants": memberID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// AddModerator promotes a participant, only when adminID is the admin and
// the member is not already a moderator.
func (r *MongoGroupRepository) AddModerator(ctx context.Context, groupID, adminID, memberID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":          groupID,
			"admin_id":     adminID,
			"participants": memberID,
			"moderators":   bson.M{"$ne": memberID},
		},
		bson.M{
			"$addToSet": bson.M{"moderators": memberID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// TransferAdmin hands the admin role to a current moderator. The previous
// admin keeps moderator and participant status.
func (r *MongoGroupRepository) TransferAdmin(ctx context.Context, groupID, currentAdminID, newAdminID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":        groupID,
			"admin_id":   currentAdminID,
			"moderators": newAdminID,
		},
		bson.M{
			"$set":      bson.M{"admin_id": newAdminID, "updated_at": time.Now().UTC()},
			"$addToSet": bson.M{"moderators": currentAdminID},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// RemoveModerator demotes to plain participant; participant status is kept.
func (r *MongoGroupRepository) RemoveModerator(ctx context.Context, groupID, adminID, moderatorID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":        groupID,
			"admin_id":   adminID,
			"moderators": moderatorID,
		},
		bson.M{
			"$pull": bson.M{"moderators": moderatorID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// RemoveParticipants kicks members out of participants and moderators in
// one update. The admin cannot be kicked: the role guard keeps the filter
// from matching a group where a listed id is the admin itself.
func (r *MongoGroupRepository) RemoveParticipants(ctx context.Context, groupID, adminID string, memberIDs []string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":      groupID,
			"admin_id": bson.M{"$eq": adminID, "$nin": memberIDs},
		},
		bson.M{
			"$pull": bson.M{
				"participants": bson.M{"$in": memberIDs},
				"moderators":   bson.M{"$in": memberIDs},
			},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// RemoveSelf handles leave: the guard rejects the current admin so a group
// is never left without one.
func (r *MongoGroupRepository) RemoveSelf(ctx context.Context, groupID, userID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":          groupID,
			"admin_id":     bson.M{"$ne": userID},
			"participants": userID,
		},
		bson.M{
			"$pull": bson.M{"participants": userID, "moderators": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
