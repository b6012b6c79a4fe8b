package mongodb

import (
	"context"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditLogRepository implements the repositories.AuditLogRepository interface
type AuditLogRepository struct {
	collection *mongo.Collection
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *mongo.Database) repositories.AuditLogRepository {
	return &AuditLogRepository{
		collection: db.Collection("audit_logs"),
	}
}

// Insert appends one chain entry. CreatedAt is set by the caller because
// the stored value must equal the value that was hashed.
func (r *AuditLogRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	res, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindLatestHashed finds the most recently created entry with a non-empty hash
func (r *AuditLogRepository) FindLatestHashed(ctx context.Context) (*models.AuditLog, error) {
	filter := bson.M{"hash": bson.M{"$nin": bson.A{"", nil}}}
	opts := options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}, {Key: "createdAt", Value: -1}})
	var entry models.AuditLog
	err := r.collection.FindOne(ctx, filter, opts).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindAllOrdered returns every hashed entry in ascending creation order,
// as the verification walk expects
func (r *AuditLogRepository) FindAllOrdered(ctx context.Context) ([]*models.AuditLog, error) {
	filter := bson.M{"hash": bson.M{"$nin": bson.A{"", nil}}}
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByResource finds the audit trail of one resource, oldest first
func (r *AuditLogRepository) FindByResource(ctx context.Context, resource, resourceID string) ([]*models.AuditLog, error) {
	filter := bson.M{"resource": resource, "resourceId": resourceID}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
