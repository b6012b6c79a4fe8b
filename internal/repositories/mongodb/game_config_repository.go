package mongodb

import (
	"context"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameConfigRepository implements the repositories.GameConfigRepository interface
type GameConfigRepository struct {
	collection *mongo.Collection
}

// NewGameConfigRepository creates a new GameConfigRepository
func NewGameConfigRepository(db *mongo.Database) repositories.GameConfigRepository {
	return &GameConfigRepository{
		collection: db.Collection("game_configs"),
	}
}

// Create creates a new game config (inactive until activated)
func (r *GameConfigRepository) Create(ctx context.Context, config *models.GameConfig) error {
	config.CreatedAt = time.Now()
	config.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, config)
	if err != nil {
		return err
	}
	config.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a game config by ID
func (r *GameConfigRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.GameConfig, error) {
	var config models.GameConfig
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// FindActive finds the single active game config
func (r *GameConfigRepository) FindActive(ctx context.Context) (*models.GameConfig, error) {
	var config models.GameConfig
	err := r.collection.FindOne(ctx, bson.M{"isActive": true}).Decode(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// FindAll finds all game configs, newest first
func (r *GameConfigRepository) FindAll(ctx context.Context) ([]*models.GameConfig, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []*models.GameConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// Activate flags the given config active after clearing the flag
// everywhere else, so at most one config is ever active.
func (r *GameConfigRepository) Activate(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"isActive": true, "_id": bson.M{"$ne": id}},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": true, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
