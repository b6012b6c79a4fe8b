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
	"golang.org/x/exp/slog"
)

// CommissionRepository implements the repositories.CommissionRepository interface
type CommissionRepository struct {
	collection *mongo.Collection
}

// NewCommissionRepository creates a new CommissionRepository. The unique
// (drawId, agentId, type) index is what makes Create safe to race: the
// loser of a concurrent insert gets a duplicate-key error instead of a
// second row.
func NewCommissionRepository(db *mongo.Database) repositories.CommissionRepository {
	collection := db.Collection("commissions")
	_, err := collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{
			{Key: "drawId", Value: 1},
			{Key: "agentId", Value: 1},
			{Key: "type", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		slog.Error("Failed to ensure commission uniqueness index", "error", err)
	}
	return &CommissionRepository{
		collection: collection,
	}
}

// Create creates a new commission. Returns ErrDuplicateKey when a row for
// the same (draw, agent, type) already exists.
func (r *CommissionRepository) Create(ctx context.Context, commission *models.Commission) error {
	commission.CreatedAt = time.Now()
	commission.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, commission)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicateKey
		}
		return err
	}
	commission.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// CreateMany creates multiple commissions in one write
func (r *CommissionRepository) CreateMany(ctx context.Context, commissions []*models.Commission) error {
	if len(commissions) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(commissions))
	now := time.Now()
	for _, c := range commissions {
		c.CreatedAt = now
		c.UpdatedAt = now
		docs = append(docs, c)
	}
	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicateKey
		}
		return err
	}
	for i, id := range res.InsertedIDs {
		commissions[i].ID = id.(primitive.ObjectID)
	}
	return nil
}

// FindByDrawID finds all commissions created for a draw
func (r *CommissionRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Commission, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"drawId": drawID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var commissions []*models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return nil, err
	}
	return commissions, nil
}

// FindByAgentID finds an agent's commissions with pagination
func (r *CommissionRepository) FindByAgentID(ctx context.Context, agentID primitive.ObjectID, page, limit int) ([]*models.Commission, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"agentId": agentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var commissions []*models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return nil, err
	}
	return commissions, nil
}

// ExistsForDrawAndType reports whether a commission of the given type
// already exists for the agent on the draw
func (r *CommissionRepository) ExistsForDrawAndType(ctx context.Context, drawID, agentID primitive.ObjectID, commType models.CommissionType) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"drawId":  drawID,
		"agentId": agentID,
		"type":    commType,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
