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

// AgentRepository implements the repositories.AgentRepository interface
type AgentRepository struct {
	collection *mongo.Collection
}

// NewAgentRepository creates a new AgentRepository
func NewAgentRepository(db *mongo.Database) repositories.AgentRepository {
	return &AgentRepository{
		collection: db.Collection("agents"),
	}
}

// Create creates a new agent
func (r *AgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	agent.CreatedAt = time.Now()
	agent.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, agent)
	if err != nil {
		return err
	}
	agent.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds an agent by ID
func (r *AgentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Agent, error) {
	var agent models.Agent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&agent)
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindActiveByRole finds all active agents holding a role
func (r *AgentRepository) FindActiveByRole(ctx context.Context, role models.AgentRole) ([]*models.Agent, error) {
	filter := bson.M{
		"role":   role,
		"status": models.AgentStatusActive,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var agents []*models.Agent
	if err := cursor.All(ctx, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// FindAll finds agents with pagination
func (r *AgentRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Agent, error) {
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
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var agents []*models.Agent
	if err := cursor.All(ctx, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// Update updates an agent
func (r *AgentRepository) Update(ctx context.Context, agent *models.Agent) error {
	agent.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": agent.ID}, agent)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
