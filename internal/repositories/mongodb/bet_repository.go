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

// BetRepository implements the repositories.BetRepository interface
type BetRepository struct {
	collection *mongo.Collection
}

// NewBetRepository creates a new BetRepository
func NewBetRepository(db *mongo.Database) repositories.BetRepository {
	return &BetRepository{
		collection: db.Collection("bets"),
	}
}

// Create creates a new bet
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	bet.CreatedAt = time.Now()
	bet.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, bet)
	if err != nil {
		return err
	}
	bet.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a bet by ID
func (r *BetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bet, error) {
	var bet models.Bet
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bet)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// FindByDrawID finds all bets placed on a draw
func (r *BetRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Bet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"drawId": drawID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bets []*models.Bet
	if err := cursor.All(ctx, &bets); err != nil {
		return nil, err
	}
	return bets, nil
}

// FindByBettorID finds a bettor's bets with pagination
func (r *BetRepository) FindByBettorID(ctx context.Context, bettorID primitive.ObjectID, page, limit int) ([]*models.Bet, error) {
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
	cursor, err := r.collection.Find(ctx, bson.M{"bettorId": bettorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bets []*models.Bet
	if err := cursor.All(ctx, &bets); err != nil {
		return nil, err
	}
	return bets, nil
}

// CountByDrawID counts the bets placed on a draw
func (r *BetRepository) CountByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"drawId": drawID})
}

// MarkWon resolves a single pending bet as WON. The status filter makes
// the write idempotent: a bet already in a terminal status is left alone
// and the caller gets ErrPreconditionFailed.
func (r *BetRepository) MarkWon(ctx context.Context, id primitive.ObjectID, payoutAmount float64, settledAt time.Time) error {
	filter := bson.M{"_id": id, "status": models.BetStatusPending}
	update := bson.M{"$set": bson.M{
		"status":       models.BetStatusWon,
		"isWinner":     true,
		"payoutAmount": payoutAmount,
		"settledAt":    settledAt,
		"updatedAt":    time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, findErr := r.FindByID(ctx, id); findErr == nil {
			return repositories.ErrPreconditionFailed
		}
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkLostBulk resolves every pending bet of the draw whose combination
// key differs from the winning one as LOST, in a single write.
func (r *BetRepository) MarkLostBulk(ctx context.Context, drawID primitive.ObjectID, winningKey string, settledAt time.Time) (int64, error) {
	filter := bson.M{
		"drawId":         drawID,
		"status":         models.BetStatusPending,
		"combinationKey": bson.M{"$ne": winningKey},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.BetStatusLost,
		"isWinner":  false,
		"settledAt": settledAt,
		"updatedAt": time.Now(),
	}}
	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return res.ModifiedCount, nil
}
