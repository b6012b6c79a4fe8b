package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure PayoutServiceImpl implements PayoutService
var _ PayoutService = (*PayoutServiceImpl)(nil)

// PayoutServiceImpl drives payout disbursement. Settlement only creates
// PENDING payout rows; the money moves here, when a pagador marks the
// payout paid, through the same ledger primitive everything else uses.
type PayoutServiceImpl struct {
	payoutRepo repositories.PayoutRepository
	walletRepo repositories.WalletRepository
	wallets    WalletService
	audit      AuditService
}

// NewPayoutService creates a new PayoutServiceImpl
func NewPayoutService(
	payoutRepo repositories.PayoutRepository,
	walletRepo repositories.WalletRepository,
	wallets WalletService,
	audit AuditService,
) *PayoutServiceImpl {
	return &PayoutServiceImpl{
		payoutRepo: payoutRepo,
		walletRepo: walletRepo,
		wallets:    wallets,
		audit:      audit,
	}
}

// MarkPaid transitions PENDING -> PAID and credits the bettor's wallet.
// The status compare-and-set runs first, so two concurrent disbursers
// cannot both credit; the loser gets a precondition error.
func (s *PayoutServiceImpl) MarkPaid(ctx context.Context, id primitive.ObjectID) (*models.Payout, error) {
	now := time.Now()
	payout, err := s.payoutRepo.TransitionStatus(ctx, id, models.PayoutStatusPending, models.PayoutStatusPaid, now)
	if err != nil {
		return nil, mapPayoutErr(err)
	}

	wallet, err := s.walletRepo.FindByUserID(ctx, payout.BettorID)
	if err != nil {
		// The payout is PAID but the credit could not land; surfaced for
		// manual correction rather than silently reverted.
		slog.Error("Payout paid but bettor wallet lookup failed",
			"payoutId", payout.ID.Hex(), "bettorId", payout.BettorID.Hex(), "error", err)
		return payout, fmt.Errorf("payout marked paid but wallet credit failed: %w", err)
	}
	if _, _, err := s.wallets.ApplyBalanceChange(ctx, wallet.ID, payout.Amount, models.TransactionTypePayout, payout.ID.Hex(),
		fmt.Sprintf("Winnings for draw %s", payout.DrawID.Hex())); err != nil {
		slog.Error("Payout paid but wallet credit failed",
			"payoutId", payout.ID.Hex(), "walletId", wallet.ID.Hex(), "error", err)
		return payout, fmt.Errorf("payout marked paid but wallet credit failed: %w", err)
	}

	s.audit.Record(ctx, "PAYOUT_PAID", "payout", payout.ID.Hex(), "", nil, payout)
	return payout, nil
}

// MarkClaimed transitions PAID -> CLAIMED once the bettor collects
func (s *PayoutServiceImpl) MarkClaimed(ctx context.Context, id primitive.ObjectID) (*models.Payout, error) {
	payout, err := s.payoutRepo.TransitionStatus(ctx, id, models.PayoutStatusPaid, models.PayoutStatusClaimed, time.Now())
	if err != nil {
		return nil, mapPayoutErr(err)
	}
	s.audit.Record(ctx, "PAYOUT_CLAIMED", "payout", payout.ID.Hex(), "", nil, payout)
	return payout, nil
}

// GetPayoutsByDrawID lists payouts created for a draw
func (s *PayoutServiceImpl) GetPayoutsByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Payout, error) {
	return s.payoutRepo.FindByDrawID(ctx, drawID)
}

func mapPayoutErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPreconditionFailed):
		return ErrInvalidPayout
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	default:
		return err
	}
}
