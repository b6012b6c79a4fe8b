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

// WalletRepository implements the repositories.WalletRepository interface
type WalletRepository struct {
	db           *mongo.Database
	collection   *mongo.Collection
	transactions *mongo.Collection
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *mongo.Database) repositories.WalletRepository {
	return &WalletRepository{
		db:           db,
		collection:   db.Collection("wallets"),
		transactions: db.Collection("transactions"),
	}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	wallet.CreatedAt = time.Now()
	wallet.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, wallet)
	if err != nil {
		return err
	}
	wallet.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a wallet by ID
func (r *WalletRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// FindByUserID finds a wallet by its owner
func (r *WalletRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// ApplyBalanceChange writes the wallet's new balance and appends the
// paired transaction row inside one mongo transaction. The wallet write
// is version-guarded, so a concurrent change to the same wallet aborts
// with ErrPreconditionFailed instead of overwriting it.
func (r *WalletRepository) ApplyBalanceChange(ctx context.Context, walletID primitive.ObjectID, delta float64, tx *models.Transaction) (*models.Wallet, *models.Transaction, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, nil, err
	}
	defer session.EndSession(ctx)

	var updated *models.Wallet
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var wallet models.Wallet
		if err := r.collection.FindOne(sc, bson.M{"_id": walletID}).Decode(&wallet); err != nil {
			return nil, err
		}

		newBalance := wallet.Balance + delta
		res, err := r.collection.UpdateOne(sc,
			bson.M{"_id": walletID, "version": wallet.Version},
			bson.M{
				"$set": bson.M{"balance": newBalance, "updatedAt": time.Now()},
				"$inc": bson.M{"version": 1},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, repositories.ErrPreconditionFailed
		}

		tx.WalletID = wallet.ID
		tx.UserID = wallet.UserID
		tx.Amount = delta
		tx.BalanceBefore = wallet.Balance
		tx.BalanceAfter = newBalance
		tx.Currency = wallet.Currency
		tx.Status = models.TransactionStatusCompleted
		tx.CreatedAt = time.Now()
		insert, err := r.transactions.InsertOne(sc, tx)
		if err != nil {
			return nil, err
		}
		tx.ID = insert.InsertedID.(primitive.ObjectID)

		wallet.Balance = newBalance
		wallet.Version++
		updated = &wallet
		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, tx, nil
}
