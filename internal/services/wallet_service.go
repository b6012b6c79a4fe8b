package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WalletServiceImpl implements WalletService
var _ WalletService = (*WalletServiceImpl)(nil)

// maxBalanceRetries bounds optimistic-lock retries on a contended wallet
const maxBalanceRetries = 3

// WalletServiceImpl provides the ledger primitive: every balance mutation
// is paired with exactly one transaction row carrying the balance captured
// before and after, written in the same atomic unit.
type WalletServiceImpl struct {
	walletRepo      repositories.WalletRepository
	transactionRepo repositories.TransactionRepository
	audit           AuditService
	notifier        NotificationSink
}

// NewWalletService creates a new WalletServiceImpl
func NewWalletService(
	walletRepo repositories.WalletRepository,
	transactionRepo repositories.TransactionRepository,
	audit AuditService,
	notifier NotificationSink,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		audit:           audit,
		notifier:        notifier,
	}
}

// ApplyBalanceChange mutates a wallet's balance by delta (negative for
// debits) and appends the paired transaction row atomically. Sufficient
// balance for debits is the caller's concern; this primitive only refuses
// a debit that would leave the wallet negative.
func (s *WalletServiceImpl) ApplyBalanceChange(ctx context.Context, walletID primitive.ObjectID, delta float64, txType models.TransactionType, reference, description string) (*models.Wallet, *models.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		wallet, err := s.walletRepo.FindByID(ctx, walletID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil, ErrNotFound
			}
			return nil, nil, err
		}
		if delta < 0 && wallet.Balance+delta < 0 {
			return nil, nil, ErrInsufficientFunds
		}

		tx := &models.Transaction{
			Type:        txType,
			Reference:   reference,
			Description: description,
		}
		updated, created, err := s.walletRepo.ApplyBalanceChange(ctx, walletID, delta, tx)
		if errors.Is(err, repositories.ErrPreconditionFailed) {
			// Another writer touched the wallet between read and write
			lastErr = err
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to apply balance change: %w", err)
		}

		s.audit.Record(ctx, "BALANCE_CHANGED", "wallet", walletID.Hex(), "",
			map[string]interface{}{"balance": created.BalanceBefore},
			map[string]interface{}{"balance": created.BalanceAfter, "transactionId": created.ID.Hex()})
		return updated, created, nil
	}
	slog.Error("Balance change exhausted retries", "walletId", walletID.Hex(), "delta", delta)
	return nil, nil, fmt.Errorf("wallet %s too contended: %w", walletID.Hex(), lastErr)
}

// Deposit credits a wallet
func (s *WalletServiceImpl) Deposit(ctx context.Context, walletID primitive.ObjectID, amount float64, reference string) (*models.Wallet, *models.Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	wallet, tx, err := s.ApplyBalanceChange(ctx, walletID, amount, models.TransactionTypeDeposit, reference, "Deposit")
	if err != nil {
		return nil, nil, err
	}
	s.notifier.Notify(ctx, wallet.UserID, models.NotificationTypeWalletCredited,
		"Deposit received",
		fmt.Sprintf("Your wallet was credited %.2f", amount),
		map[string]interface{}{"transactionId": tx.ID.Hex(), "amount": amount})
	return wallet, tx, nil
}

// Withdraw debits a wallet; insufficient balance is rejected before the
// ledger primitive runs
func (s *WalletServiceImpl) Withdraw(ctx context.Context, walletID primitive.ObjectID, amount float64, reference string) (*models.Wallet, *models.Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	wallet, tx, err := s.ApplyBalanceChange(ctx, walletID, -amount, models.TransactionTypeWithdrawal, reference, "Withdrawal")
	if err != nil {
		return nil, nil, err
	}
	s.notifier.Notify(ctx, wallet.UserID, models.NotificationTypeWalletDebited,
		"Withdrawal processed",
		fmt.Sprintf("Your wallet was debited %.2f", amount),
		map[string]interface{}{"transactionId": tx.ID.Hex(), "amount": amount})
	return wallet, tx, nil
}

// GetWallet retrieves a wallet by ID
func (s *WalletServiceImpl) GetWallet(ctx context.Context, id primitive.ObjectID) (*models.Wallet, error) {
	wallet, err := s.walletRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wallet, nil
}

// GetWalletByUserID retrieves a wallet by its owner
func (s *WalletServiceImpl) GetWalletByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	wallet, err := s.walletRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wallet, nil
}

// GetTransactions retrieves a wallet's transactions with pagination
func (s *WalletServiceImpl) GetTransactions(ctx context.Context, walletID primitive.ObjectID, page, limit int) ([]*models.Transaction, error) {
	return s.transactionRepo.FindByWalletID(ctx, walletID, page, limit)
}
