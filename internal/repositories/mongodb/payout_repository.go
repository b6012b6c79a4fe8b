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
	"golang.org/x/exp/slog"
)

// PayoutRepository implements the repositories.PayoutRepository interface
type PayoutRepository struct {
	collection *mongo.Collection
}

// NewPayoutRepository creates a new PayoutRepository. The unique betId
// index enforces the one-payout-per-bet invariant at the storage layer.
func NewPayoutRepository(db *mongo.Database) repositories.PayoutRepository {
	collection := db.Collection("payouts")
	_, err := collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "betId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		slog.Error("Failed to ensure payout uniqueness index", "error", err)
	}
	return &PayoutRepository{
		collection: collection,
	}
}

// Create creates a new payout. Returns ErrDuplicateKey when the bet
// already has one.
func (r *PayoutRepository) Create(ctx context.Context, payout *models.Payout) error {
	payout.CreatedAt = time.Now()
	payout.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, payout)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicateKey
		}
		return err
	}
	payout.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a payout by ID
func (r *PayoutRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payout, error) {
	var payout models.Payout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payout)
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// FindByDrawID finds all payouts created for a draw
func (r *PayoutRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Payout, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"drawId": drawID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payouts []*models.Payout
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, err
	}
	return payouts, nil
}

// FindByBetID finds the payout created for a bet, if any
func (r *PayoutRepository) FindByBetID(ctx context.Context, betID primitive.ObjectID) (*models.Payout, error) {
	var payout models.Payout
	err := r.collection.FindOne(ctx, bson.M{"betId": betID}).Decode(&payout)
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// TransitionStatus performs a compare-and-set disbursement transition
func (r *PayoutRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.PayoutStatus, at time.Time) (*models.Payout, error) {
	set := bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}
	switch to {
	case models.PayoutStatusPaid:
		set["paidAt"] = at
	case models.PayoutStatusClaimed:
		set["claimedAt"] = at
	}

	filter := bson.M{"_id": id, "status": from}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var payout models.Payout
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&payout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, findErr := r.FindByID(ctx, id); findErr == nil {
				return nil, repositories.ErrPreconditionFailed
			}
			return nil, mongo.ErrNoDocuments
		}
		return nil, err
	}
	return &payout, nil
}
