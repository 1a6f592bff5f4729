package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/config"
)

const (
	CollChannels       = "channels"
	CollMessages       = "messages"
	CollGroups         = "groups"
	CollGroupMessages  = "group_messages"
	CollReplies        = "replies"
	CollGroupReplies   = "group_replies"
	CollReactions      = "reactions"
	CollGroupReactions = "group_reactions"
	CollPurchases      = "purchases"
	CollAssets         = "assets"
	CollUsers          = "users"
)

func NewMongoClient(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}
