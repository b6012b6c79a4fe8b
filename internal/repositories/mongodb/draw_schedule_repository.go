package mongodb

import (
	"context"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DrawScheduleRepository implements the repositories.DrawScheduleRepository interface
type DrawScheduleRepository struct {
	collection *mongo.Collection
}

// NewDrawScheduleRepository creates a new DrawScheduleRepository
func NewDrawScheduleRepository(db *mongo.Database) repositories.DrawScheduleRepository {
	return &DrawScheduleRepository{
		collection: db.Collection("draw_schedules"),
	}
}

// Create creates a new draw schedule
func (r *DrawScheduleRepository) Create(ctx context.Context, schedule *models.DrawSchedule) error {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		return err
	}
	schedule.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a draw schedule by ID
func (r *DrawScheduleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawSchedule, error) {
	var schedule models.DrawSchedule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindActive finds all active draw schedules
func (r *DrawScheduleRepository) FindActive(ctx context.Context) ([]*models.DrawSchedule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []*models.DrawSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Update updates a draw schedule
func (r *DrawScheduleRepository) Update(ctx context.Context, schedule *models.DrawSchedule) error {
	schedule.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": schedule.ID}, schedule)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
