package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/models"
)

type MongoAssetRepository struct {
	coll *mongo.Collection
}

func NewMongoAssetRepository(db *mongo.Database) *MongoAssetRepository {
	return &MongoAssetRepository{coll: db.Collection(CollAssets)}
}

func (r *MongoAssetRepository) Insert(ctx context.Context, a *models.Asset) error {
	_, err := r.coll.InsertOne(ctx, a)
	return err
}

func (r *MongoAssetRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Asset, error) {
	if len(ids) == 0 {
		return []*models.Asset{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Asset{}
	for cur.Next(ctx) {
		var a models.Asset
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}

func (r *MongoAssetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
