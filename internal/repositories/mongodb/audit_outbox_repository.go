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

// AuditOutboxRepository implements the repositories.AuditOutboxRepository interface
type AuditOutboxRepository struct {
	collection *mongo.Collection
}

// NewAuditOutboxRepository creates a new AuditOutboxRepository
func NewAuditOutboxRepository(db *mongo.Database) repositories.AuditOutboxRepository {
	return &AuditOutboxRepository{
		collection: db.Collection("audit_outbox"),
	}
}

// Enqueue queues one pending audit record
func (r *AuditOutboxRepository) Enqueue(ctx context.Context, entry *models.AuditOutbox) error {
	entry.Status = models.AuditOutboxStatusPending
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	res, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindPending returns pending records in creation order, oldest first.
// Creation order matters: the chain writer links entries in the order
// the operations were queued.
func (r *AuditOutboxRepository) FindPending(ctx context.Context, limit int) ([]*models.AuditOutbox, error) {
	if limit < 1 {
		limit = 100
	}
	filter := bson.M{"status": models.AuditOutboxStatusPending}
	opts := options.Find().SetSort(bson.M{"createdAt": 1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditOutbox
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkApplied marks a queued record as written to the chain
func (r *AuditOutboxRepository) MarkApplied(ctx context.Context, id primitive.ObjectID) error {
	return r.setStatus(ctx, id, models.AuditOutboxStatusApplied)
}

// MarkFailed marks a queued record as permanently failed
func (r *AuditOutboxRepository) MarkFailed(ctx context.Context, id primitive.ObjectID) error {
	return r.setStatus(ctx, id, models.AuditOutboxStatusFailed)
}

// IncrementRetry bumps a record's retry counter
func (r *AuditOutboxRepository) IncrementRetry(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"retryCount": 1}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	return err
}

func (r *AuditOutboxRepository) setStatus(ctx context.Context, id primitive.ObjectID, status models.AuditOutboxStatus) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
