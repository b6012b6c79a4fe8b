package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DrawRepository implements the repositories.DrawRepository interface
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) repositories.DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// Create creates a new draw
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	draw.CreatedAt = time.Now()
	draw.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, draw)
	if err != nil {
		return err
	}
	draw.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a draw by ID
func (r *DrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindByDateAndType finds the draw of one slot on one calendar day
func (r *DrawRepository) FindByDateAndType(ctx context.Context, date time.Time, drawType models.DrawType) (*models.Draw, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)
	filter := bson.M{
		"drawType": drawType,
		"drawDate": bson.M{
			"$gte": startOfDay,
			"$lt":  endOfDay,
		},
	}
	var draw models.Draw
	err := r.collection.FindOne(ctx, filter).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindByStatus finds draws by status
func (r *DrawRepository) FindByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// FindByDateRange finds draws within a date range
func (r *DrawRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Draw, error) {
	filter := bson.M{}
	dateFilter := bson.M{}
	if !start.IsZero() {
		dateFilter["$gte"] = start
	}
	if !end.IsZero() {
		dateFilter["$lt"] = end
	}
	if len(dateFilter) > 0 {
		filter["drawDate"] = dateFilter
	}
	opts := options.Find().SetSort(bson.M{"drawDate": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// FindSettledByDateRange finds settled draws within a date range, used by
// the reporting read model
func (r *DrawRepository) FindSettledByDateRange(ctx context.Context, start, end time.Time) ([]*models.Draw, error) {
	filter := bson.M{
		"status": models.DrawStatusSettled,
		"drawDate": bson.M{
			"$gte": start,
			"$lt":  end,
		},
	}
	opts := options.Find().SetSort(bson.M{"drawDate": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// FindAll finds draws with pagination
func (r *DrawRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Draw, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"scheduledAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// TransitionStatus performs a compare-and-set status transition. The
// filter includes the expected current status, so only one of several
// concurrent callers can win the transition.
func (r *DrawRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.DrawStatus, update repositories.DrawUpdate) (*models.Draw, error) {
	set := bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}
	if update.OpenedAt != nil {
		set["openedAt"] = *update.OpenedAt
	}
	if update.ClosedAt != nil {
		set["closedAt"] = *update.ClosedAt
	}
	if update.DrawnAt != nil {
		set["drawnAt"] = *update.DrawnAt
	}
	if update.SettledAt != nil {
		set["settledAt"] = *update.SettledAt
	}
	if update.Number1 != nil {
		set["number1"] = *update.Number1
	}
	if update.Number2 != nil {
		set["number2"] = *update.Number2
	}
	if update.CombinationKey != "" {
		set["combinationKey"] = update.CombinationKey
	}
	if update.BoladorID != nil {
		set["boladorId"] = *update.BoladorID
	}
	if update.TotalBets != nil {
		set["totalBets"] = *update.TotalBets
	}
	if update.TotalStake != nil {
		set["totalStake"] = *update.TotalStake
	}
	if update.TotalPayout != nil {
		set["totalPayout"] = *update.TotalPayout
	}
	if update.GrossProfit != nil {
		set["grossProfit"] = *update.GrossProfit
	}

	filter := bson.M{"_id": id, "status": from}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var draw models.Draw
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&draw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish a missing draw from a lost status race
			if _, findErr := r.FindByID(ctx, id); findErr == nil {
				return nil, repositories.ErrPreconditionFailed
			}
			return nil, mongo.ErrNoDocuments
		}
		return nil, err
	}
	return &draw, nil
}
