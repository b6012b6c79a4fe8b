package services

import (
	"context"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationSink delivers a message to one user. Delivery is
// fire-and-forget: implementations log failures and never return an error
// that would abort the calling operation.
type NotificationSink interface {
	Notify(ctx context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, body string, metadata map[string]interface{})
}

// BroadcastSink fans a draw-level event out to all subscribers. No
// acknowledgment is expected.
type BroadcastSink interface {
	Broadcast(event string, payload interface{})
}

// CacheInvalidator drops cached list views matching a key pattern.
// Best-effort: failures are logged, never propagated.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string)
}

// SettlementResult is the success payload of a settlement run
type SettlementResult struct {
	Draw        *models.Draw `json:"draw"`
	WinnerCount int          `json:"winnerCount"`
	LoserCount  int          `json:"loserCount"`
	TotalStake  float64      `json:"totalStake"`
	TotalPayout float64      `json:"totalPayout"`
	GrossProfit float64      `json:"grossProfit"`
}

// DrawService drives the draw lifecycle
type DrawService interface {
	ScheduleDraw(ctx context.Context, drawDate time.Time, drawType models.DrawType, scheduleID primitive.ObjectID) (*models.Draw, error)
	OpenDraw(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	CloseDraw(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	RecordResult(ctx context.Context, id primitive.ObjectID, number1, number2 int, boladorID *primitive.ObjectID) (*models.Draw, error)
	SettleDraw(ctx context.Context, id primitive.ObjectID) (*SettlementResult, error)
	GetDrawByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	GetDraws(ctx context.Context, page, limit int) ([]*models.Draw, error)
	GetDrawsByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error)
	GetBetsByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Bet, error)
}

// WalletService provides the ledger primitive and the deposit/withdrawal
// flows built on top of it
type WalletService interface {
	ApplyBalanceChange(ctx context.Context, walletID primitive.ObjectID, delta float64, txType models.TransactionType, reference, description string) (*models.Wallet, *models.Transaction, error)
	Deposit(ctx context.Context, walletID primitive.ObjectID, amount float64, reference string) (*models.Wallet, *models.Transaction, error)
	Withdraw(ctx context.Context, walletID primitive.ObjectID, amount float64, reference string) (*models.Wallet, *models.Transaction, error)
	GetWallet(ctx context.Context, id primitive.ObjectID) (*models.Wallet, error)
	GetWalletByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)
	GetTransactions(ctx context.Context, walletID primitive.ObjectID, page, limit int) ([]*models.Transaction, error)
}

// ChainVerification is the result of walking the audit chain
type ChainVerification struct {
	Valid        bool   `json:"valid"`
	TotalChecked int    `json:"totalChecked"`
	BrokenAt     string `json:"brokenAt,omitempty"`
	BrokenReason string `json:"brokenReason,omitempty"`
}

// AuditService records business mutations into the tamper-evident chain
type AuditService interface {
	// Record queues an audit entry. It never returns an error to the
	// caller; enqueue failures are logged and swallowed.
	Record(ctx context.Context, action, resource, resourceID, userID string, oldValue, newValue interface{})
	Verify(ctx context.Context) (*ChainVerification, error)
	GetTrail(ctx context.Context, resource, resourceID string) ([]*models.AuditLog, error)
}

// GameConfigService manages game configurations
type GameConfigService interface {
	CreateConfig(ctx context.Context, config *models.GameConfig) (*models.GameConfig, error)
	ActivateConfig(ctx context.Context, id primitive.ObjectID) (*models.GameConfig, error)
	GetActiveConfig(ctx context.Context) (*models.GameConfig, error)
	GetConfigs(ctx context.Context) ([]*models.GameConfig, error)
}

// AgentService manages field agents
type AgentService interface {
	CreateAgent(ctx context.Context, agent *models.Agent) (*models.Agent, error)
	GetAgentByID(ctx context.Context, id primitive.ObjectID) (*models.Agent, error)
	GetAgents(ctx context.Context, page, limit int) ([]*models.Agent, error)
	UpdateAgentStatus(ctx context.Context, id primitive.ObjectID, status models.AgentStatus) (*models.Agent, error)
}

// PayoutService drives payout disbursement after settlement
type PayoutService interface {
	MarkPaid(ctx context.Context, id primitive.ObjectID) (*models.Payout, error)
	MarkClaimed(ctx context.Context, id primitive.ObjectID) (*models.Payout, error)
	GetPayoutsByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Payout, error)
}

// DrawSummary aggregates settled draws for reporting
type DrawSummary struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	DrawCount   int       `json:"drawCount"`
	TotalBets   int       `json:"totalBets"`
	TotalStake  float64   `json:"totalStake"`
	TotalPayout float64   `json:"totalPayout"`
	GrossProfit float64   `json:"grossProfit"`
}

// ReportService exposes the read-only reporting model
type ReportService interface {
	DrawSummary(ctx context.Context, from, to time.Time) (*DrawSummary, error)
	AgentCommissions(ctx context.Context, agentID primitive.ObjectID, page, limit int) ([]*models.Commission, error)
	VerifyAuditChain(ctx context.Context) (*ChainVerification, error)
}

// AuthService authenticates back-office operators
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.Operator, error)
	CreateOperator(ctx context.Context, email, password, name, role string) (*models.Operator, error)
}
