package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

type MongoReplyRepository struct {
	replies      *mongo.Collection
	groupReplies *mongo.Collection
}

func NewMongoReplyRepository(db *mongo.Database) *MongoReplyRepository {
	return &MongoReplyRepository{
		replies:      db.Collection(CollReplies),
		groupReplies: db.Collection(CollGroupReplies),
	}
}

func (r *MongoReplyRepository) InsertReply(ctx context.Context, reply *models.Reply) error {
	_, err := r.replies.InsertOne(ctx, reply)
	return err
}

func (r *MongoReplyRepository) InsertGroupReply(ctx context.Context, reply *models.GroupReply) error {
	_, err := r.groupReplies.InsertOne(ctx, reply)
	return err
}
