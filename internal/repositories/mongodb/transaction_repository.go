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

// TransactionRepository implements the repositories.TransactionRepository interface
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) repositories.TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("transactions"),
	}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, tx)
	if err != nil {
		return err
	}
	tx.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a transaction by ID
func (r *TransactionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// FindByWalletID finds a wallet's transactions with pagination, newest first
func (r *TransactionRepository) FindByWalletID(ctx context.Context, walletID primitive.ObjectID, page, limit int) ([]*models.Transaction, error) {
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
	cursor, err := r.collection.Find(ctx, bson.M{"walletId": walletID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// FindLatestByWalletID finds a wallet's most recent transaction
func (r *TransactionRepository) FindLatestByWalletID(ctx context.Context, walletID primitive.ObjectID) (*models.Transaction, error) {
	opts := options.FindOne().SetSort(bson.M{"createdAt": -1})
	var tx models.Transaction
	err := r.collection.FindOne(ctx, bson.M{"walletId": walletID}, opts).Decode(&tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
