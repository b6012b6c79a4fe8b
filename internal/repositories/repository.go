package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrPreconditionFailed is returned by conditional updates when the stored
// document no longer matches the expected pre-state. Services translate it
// into their own precondition errors.
var ErrPreconditionFailed = errors.New("precondition failed: document state changed")

// ErrDuplicateKey is returned by inserts that violate a uniqueness
// constraint. Callers racing on the same logical row treat it as "the
// other writer won": the row exists, this insert changed nothing.
var ErrDuplicateKey = errors.New("duplicate key: document already exists")

// DrawUpdate carries the fields a conditional status transition sets
// alongside the new status.
type DrawUpdate struct {
	OpenedAt       *time.Time
	ClosedAt       *time.Time
	DrawnAt        *time.Time
	SettledAt      *time.Time
	Number1        *int
	Number2        *int
	CombinationKey string
	BoladorID      *primitive.ObjectID
	TotalBets      *int
	TotalStake     *float64
	TotalPayout    *float64
	GrossProfit    *float64
}

// DrawRepository defines the interface for draw data operations
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	FindByDateAndType(ctx context.Context, date time.Time, drawType models.DrawType) (*models.Draw, error)
	FindByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Draw, error)
	FindSettledByDateRange(ctx context.Context, start, end time.Time) ([]*models.Draw, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Draw, error)
	// TransitionStatus performs a compare-and-set status change: the update
	// applies only if the draw's current status equals from. Returns the
	// updated draw, or ErrPreconditionFailed when the draw exists but its
	// status no longer matches.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.DrawStatus, update DrawUpdate) (*models.Draw, error)
}

// DrawScheduleRepository defines the interface for draw schedule operations
type DrawScheduleRepository interface {
	Create(ctx context.Context, schedule *models.DrawSchedule) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawSchedule, error)
	FindActive(ctx context.Context) ([]*models.DrawSchedule, error)
	Update(ctx context.Context, schedule *models.DrawSchedule) error
}

// BetRepository defines the interface for bet data operations
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bet, error)
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Bet, error)
	FindByBettorID(ctx context.Context, bettorID primitive.ObjectID, page, limit int) ([]*models.Bet, error)
	CountByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error)
	// MarkWon resolves a single PENDING bet as WON with its payout amount.
	// Returns ErrPreconditionFailed if the bet is already resolved.
	MarkWon(ctx context.Context, id primitive.ObjectID, payoutAmount float64, settledAt time.Time) error
	// MarkLostBulk resolves every PENDING bet of the draw outside the
	// winning combination as LOST in one write. Returns the number of bets
	// updated.
	MarkLostBulk(ctx context.Context, drawID primitive.ObjectID, winningKey string, settledAt time.Time) (int64, error)
}

// PayoutRepository defines the interface for payout data operations
type PayoutRepository interface {
	// Create inserts the payout row for a winning bet. At most one payout
	// may exist per bet; a second insert returns ErrDuplicateKey.
	Create(ctx context.Context, payout *models.Payout) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payout, error)
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Payout, error)
	FindByBetID(ctx context.Context, betID primitive.ObjectID) (*models.Payout, error)
	// TransitionStatus performs a compare-and-set disbursement transition.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.PayoutStatus, at time.Time) (*models.Payout, error)
}

// CommissionRepository defines the interface for commission data operations
type CommissionRepository interface {
	// Create inserts one commission row. At most one row may exist per
	// (draw, agent, type); a second insert returns ErrDuplicateKey, which
	// is how concurrent settlement runs decide who credits the agent.
	Create(ctx context.Context, commission *models.Commission) error
	CreateMany(ctx context.Context, commissions []*models.Commission) error
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Commission, error)
	FindByAgentID(ctx context.Context, agentID primitive.ObjectID, page, limit int) ([]*models.Commission, error)
	ExistsForDrawAndType(ctx context.Context, drawID, agentID primitive.ObjectID, commType models.CommissionType) (bool, error)
}

// GameConfigRepository defines the interface for game configuration operations
type GameConfigRepository interface {
	Create(ctx context.Context, config *models.GameConfig) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.GameConfig, error)
	// FindActive returns the single active config, or mongo.ErrNoDocuments
	// when none is flagged active.
	FindActive(ctx context.Context) (*models.GameConfig, error)
	FindAll(ctx context.Context) ([]*models.GameConfig, error)
	// Activate flags the given config active and clears the flag on every
	// other config in the same operation.
	Activate(ctx context.Context, id primitive.ObjectID) error
}

// WalletRepository defines the interface for wallet data operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Wallet, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)
	// ApplyBalanceChange atomically writes the wallet's new balance and
	// appends the paired transaction row; both writes succeed or neither
	// does. The transaction's balanceBefore/balanceAfter are filled in from
	// the balance read inside the same atomic unit.
	ApplyBalanceChange(ctx context.Context, walletID primitive.ObjectID, delta float64, tx *models.Transaction) (*models.Wallet, *models.Transaction, error)
}

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	FindByWalletID(ctx context.Context, walletID primitive.ObjectID, page, limit int) ([]*models.Transaction, error)
	FindLatestByWalletID(ctx context.Context, walletID primitive.ObjectID) (*models.Transaction, error)
}

// AgentRepository defines the interface for agent data operations
type AgentRepository interface {
	Create(ctx context.Context, agent *models.Agent) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Agent, error)
	FindActiveByRole(ctx context.Context, role models.AgentRole) ([]*models.Agent, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Agent, error)
	Update(ctx context.Context, agent *models.Agent) error
}

// AuditLogRepository defines the interface for audit chain storage
type AuditLogRepository interface {
	// Insert appends one chain entry. Entries are never updated or deleted.
	Insert(ctx context.Context, entry *models.AuditLog) error
	// FindLatestHashed returns the most recently created entry carrying a
	// non-empty hash, or mongo.ErrNoDocuments for an empty chain.
	FindLatestHashed(ctx context.Context) (*models.AuditLog, error)
	// FindAllOrdered returns every hashed entry in ascending creation order.
	FindAllOrdered(ctx context.Context) ([]*models.AuditLog, error)
	FindByResource(ctx context.Context, resource, resourceID string) ([]*models.AuditLog, error)
}

// AuditOutboxRepository defines the interface for the audit outbox queue
type AuditOutboxRepository interface {
	Enqueue(ctx context.Context, entry *models.AuditOutbox) error
	FindPending(ctx context.Context, limit int) ([]*models.AuditOutbox, error)
	MarkApplied(ctx context.Context, id primitive.ObjectID) error
	MarkFailed(ctx context.Context, id primitive.ObjectID) error
	IncrementRetry(ctx context.Context, id primitive.ObjectID) error
}

// NotificationRepository defines the interface for notification storage
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// OperatorRepository defines the interface for operator account operations
type OperatorRepository interface {
	Create(ctx context.Context, operator *models.Operator) error
	FindByEmail(ctx context.Context, email string) (*models.Operator, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Operator, error)
	Update(ctx context.Context, operator *models.Operator) error
}
