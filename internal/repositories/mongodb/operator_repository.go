package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OperatorRepository implements the repositories.OperatorRepository interface
type OperatorRepository struct {
	collection *mongo.Collection
}

// NewOperatorRepository creates a new OperatorRepository
func NewOperatorRepository(db *mongo.Database) repositories.OperatorRepository {
	return &OperatorRepository{
		collection: db.Collection("operators"),
	}
}

// Create creates a new operator
func (r *OperatorRepository) Create(ctx context.Context, operator *models.Operator) error {
	operator.Email = strings.ToLower(operator.Email)
	operator.CreatedAt = time.Now()
	operator.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, operator)
	if err != nil {
		return err
	}
	operator.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail finds an operator by email
func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var operator models.Operator
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&operator)
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

// FindByID finds an operator by ID
func (r *OperatorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Operator, error) {
	var operator models.Operator
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&operator)
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

// Update updates an operator
func (r *OperatorRepository) Update(ctx context.Context, operator *models.Operator) error {
	operator.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": operator.ID}, operator)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
