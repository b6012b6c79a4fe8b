package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. Each fake guards its state with a mutex and
// honors the same compare-and-set contracts as the mongodb implementations,
// so concurrency tests exercise real race outcomes.

type fakeDrawRepo struct {
	mu    sync.Mutex
	draws map[primitive.ObjectID]*models.Draw
}

func newFakeDrawRepo() *fakeDrawRepo {
	return &fakeDrawRepo{draws: make(map[primitive.ObjectID]*models.Draw)}
}

func (r *fakeDrawRepo) Create(ctx context.Context, draw *models.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if draw.ID.IsZero() {
		draw.ID = primitive.NewObjectID()
	}
	draw.CreatedAt = time.Now()
	draw.UpdatedAt = draw.CreatedAt
	c := *draw
	r.draws[draw.ID] = &c
	return nil
}

func (r *fakeDrawRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draw, ok := r.draws[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *draw
	return &c, nil
}

func (r *fakeDrawRepo) FindByDateAndType(ctx context.Context, date time.Time, drawType models.DrawType) (*models.Draw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, draw := range r.draws {
		if draw.DrawType == drawType && sameDay(draw.DrawDate, date) {
			c := *draw
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeDrawRepo) FindByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Draw
	for _, draw := range r.draws {
		if draw.Status == status {
			c := *draw
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeDrawRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Draw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Draw
	for _, draw := range r.draws {
		if !draw.DrawDate.Before(start) && draw.DrawDate.Before(end) {
			c := *draw
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeDrawRepo) FindSettledByDateRange(ctx context.Context, start, end time.Time) ([]*models.Draw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Draw
	for _, draw := range r.draws {
		if draw.Status == models.DrawStatusSettled && !draw.DrawDate.Before(start) && draw.DrawDate.Before(end) {
			c := *draw
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeDrawRepo) FindAll(ctx context.Context, page, limit int) ([]*models.Draw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Draw
	for _, draw := range r.draws {
		c := *draw
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeDrawRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.DrawStatus, update repositories.DrawUpdate) (*models.Draw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draw, ok := r.draws[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if draw.Status != from {
		return nil, repositories.ErrPreconditionFailed
	}
	draw.Status = to
	if update.OpenedAt != nil {
		draw.OpenedAt = update.OpenedAt
	}
	if update.ClosedAt != nil {
		draw.ClosedAt = update.ClosedAt
	}
	if update.DrawnAt != nil {
		draw.DrawnAt = update.DrawnAt
	}
	if update.SettledAt != nil {
		draw.SettledAt = update.SettledAt
	}
	if update.Number1 != nil {
		draw.Number1 = update.Number1
	}
	if update.Number2 != nil {
		draw.Number2 = update.Number2
	}
	if update.CombinationKey != "" {
		draw.CombinationKey = update.CombinationKey
	}
	if update.BoladorID != nil {
		draw.BoladorID = update.BoladorID
	}
	if update.TotalBets != nil {
		draw.TotalBets = *update.TotalBets
	}
	if update.TotalStake != nil {
		draw.TotalStake = *update.TotalStake
	}
	if update.TotalPayout != nil {
		draw.TotalPayout = *update.TotalPayout
	}
	if update.GrossProfit != nil {
		draw.GrossProfit = *update.GrossProfit
	}
	draw.UpdatedAt = time.Now()
	c := *draw
	return &c, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[primitive.ObjectID]*models.DrawSchedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[primitive.ObjectID]*models.DrawSchedule)}
}

func (r *fakeScheduleRepo) Create(ctx context.Context, schedule *models.DrawSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if schedule.ID.IsZero() {
		schedule.ID = primitive.NewObjectID()
	}
	c := *schedule
	r.schedules[schedule.ID] = &c
	return nil
}

func (r *fakeScheduleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *schedule
	return &c, nil
}

func (r *fakeScheduleRepo) FindActive(ctx context.Context) ([]*models.DrawSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DrawSchedule
	for _, schedule := range r.schedules {
		if schedule.Active {
			c := *schedule
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, schedule *models.DrawSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *schedule
	r.schedules[schedule.ID] = &c
	return nil
}

type fakeBetRepo struct {
	mu   sync.Mutex
	bets map[primitive.ObjectID]*models.Bet
}

func newFakeBetRepo() *fakeBetRepo {
	return &fakeBetRepo{bets: make(map[primitive.ObjectID]*models.Bet)}
}

func (r *fakeBetRepo) Create(ctx context.Context, bet *models.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bet.ID.IsZero() {
		bet.ID = primitive.NewObjectID()
	}
	bet.CreatedAt = time.Now()
	c := *bet
	r.bets[bet.ID] = &c
	return nil
}

func (r *fakeBetRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bet, ok := r.bets[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *bet
	return &c, nil
}

func (r *fakeBetRepo) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Bet
	for _, bet := range r.bets {
		if bet.DrawID == drawID {
			c := *bet
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *fakeBetRepo) FindByBettorID(ctx context.Context, bettorID primitive.ObjectID, page, limit int) ([]*models.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Bet
	for _, bet := range r.bets {
		if bet.BettorID == bettorID {
			c := *bet
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeBetRepo) CountByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, bet := range r.bets {
		if bet.DrawID == drawID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBetRepo) MarkWon(ctx context.Context, id primitive.ObjectID, payoutAmount float64, settledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bet, ok := r.bets[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if bet.Status != models.BetStatusPending {
		return repositories.ErrPreconditionFailed
	}
	bet.Status = models.BetStatusWon
	bet.IsWinner = true
	bet.PayoutAmount = payoutAmount
	at := settledAt
	bet.SettledAt = &at
	return nil
}

func (r *fakeBetRepo) MarkLostBulk(ctx context.Context, drawID primitive.ObjectID, winningKey string, settledAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, bet := range r.bets {
		if bet.DrawID != drawID || bet.Status != models.BetStatusPending || bet.CombinationKey == winningKey {
			continue
		}
		bet.Status = models.BetStatusLost
		bet.IsWinner = false
		at := settledAt
		bet.SettledAt = &at
		n++
	}
	return n, nil
}

type fakePayoutRepo struct {
	mu      sync.Mutex
	payouts map[primitive.ObjectID]*models.Payout
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{payouts: make(map[primitive.ObjectID]*models.Payout)}
}

func (r *fakePayoutRepo) Create(ctx context.Context, payout *models.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.payouts {
		if existing.BetID == payout.BetID {
			return repositories.ErrDuplicateKey
		}
	}
	if payout.ID.IsZero() {
		payout.ID = primitive.NewObjectID()
	}
	payout.CreatedAt = time.Now()
	c := *payout
	r.payouts[payout.ID] = &c
	return nil
}

func (r *fakePayoutRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payout, ok := r.payouts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *payout
	return &c, nil
}

func (r *fakePayoutRepo) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Payout
	for _, payout := range r.payouts {
		if payout.DrawID == drawID {
			c := *payout
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakePayoutRepo) FindByBetID(ctx context.Context, betID primitive.ObjectID) (*models.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payout := range r.payouts {
		if payout.BetID == betID {
			c := *payout
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakePayoutRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.PayoutStatus, at time.Time) (*models.Payout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payout, ok := r.payouts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if payout.Status != from {
		return nil, repositories.ErrPreconditionFailed
	}
	payout.Status = to
	stamp := at
	switch to {
	case models.PayoutStatusPaid:
		payout.PaidAt = &stamp
	case models.PayoutStatusClaimed:
		payout.ClaimedAt = &stamp
	}
	c := *payout
	return &c, nil
}

type fakeCommissionRepo struct {
	mu          sync.Mutex
	commissions map[primitive.ObjectID]*models.Commission
}

func newFakeCommissionRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{commissions: make(map[primitive.ObjectID]*models.Commission)}
}

func (r *fakeCommissionRepo) Create(ctx context.Context, commission *models.Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.commissions {
		if existing.DrawID == commission.DrawID && existing.AgentID == commission.AgentID && existing.Type == commission.Type {
			return repositories.ErrDuplicateKey
		}
	}
	if commission.ID.IsZero() {
		commission.ID = primitive.NewObjectID()
	}
	commission.CreatedAt = time.Now()
	c := *commission
	r.commissions[commission.ID] = &c
	return nil
}

func (r *fakeCommissionRepo) CreateMany(ctx context.Context, commissions []*models.Commission) error {
	for _, commission := range commissions {
		if err := r.Create(ctx, commission); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeCommissionRepo) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Commission
	for _, commission := range r.commissions {
		if commission.DrawID == drawID {
			c := *commission
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeCommissionRepo) FindByAgentID(ctx context.Context, agentID primitive.ObjectID, page, limit int) ([]*models.Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Commission
	for _, commission := range r.commissions {
		if commission.AgentID == agentID {
			c := *commission
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeCommissionRepo) ExistsForDrawAndType(ctx context.Context, drawID, agentID primitive.ObjectID, commType models.CommissionType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, commission := range r.commissions {
		if commission.DrawID == drawID && commission.AgentID == agentID && commission.Type == commType {
			return true, nil
		}
	}
	return false, nil
}

type fakeConfigRepo struct {
	mu      sync.Mutex
	configs map[primitive.ObjectID]*models.GameConfig
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[primitive.ObjectID]*models.GameConfig)}
}

func (r *fakeConfigRepo) Create(ctx context.Context, config *models.GameConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if config.ID.IsZero() {
		config.ID = primitive.NewObjectID()
	}
	c := *config
	r.configs[config.ID] = &c
	return nil
}

func (r *fakeConfigRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.GameConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	config, ok := r.configs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *config
	return &c, nil
}

func (r *fakeConfigRepo) FindActive(ctx context.Context) (*models.GameConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, config := range r.configs {
		if config.IsActive {
			c := *config
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeConfigRepo) FindAll(ctx context.Context) ([]*models.GameConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.GameConfig
	for _, config := range r.configs {
		c := *config
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeConfigRepo) Activate(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[id]; !ok {
		return mongo.ErrNoDocuments
	}
	for _, config := range r.configs {
		config.IsActive = config.ID == id
	}
	return nil
}

type fakeWalletRepo struct {
	mu           sync.Mutex
	wallets      map[primitive.ObjectID]*models.Wallet
	transactions []*models.Transaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[primitive.ObjectID]*models.Wallet)}
}

func (r *fakeWalletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wallet.ID.IsZero() {
		wallet.ID = primitive.NewObjectID()
	}
	c := *wallet
	r.wallets[wallet.ID] = &c
	return nil
}

func (r *fakeWalletRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wallet, ok := r.wallets[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *wallet
	return &c, nil
}

func (r *fakeWalletRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, wallet := range r.wallets {
		if wallet.UserID == userID {
			c := *wallet
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeWalletRepo) ApplyBalanceChange(ctx context.Context, walletID primitive.ObjectID, delta float64, tx *models.Transaction) (*models.Wallet, *models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wallet, ok := r.wallets[walletID]
	if !ok {
		return nil, nil, mongo.ErrNoDocuments
	}
	before := wallet.Balance
	wallet.Balance += delta
	wallet.Version++
	wallet.UpdatedAt = time.Now()

	created := *tx
	created.ID = primitive.NewObjectID()
	created.WalletID = wallet.ID
	created.UserID = wallet.UserID
	created.Amount = delta
	created.BalanceBefore = before
	created.BalanceAfter = wallet.Balance
	created.Currency = wallet.Currency
	created.Status = models.TransactionStatusCompleted
	created.CreatedAt = time.Now()
	r.transactions = append(r.transactions, &created)

	w := *wallet
	t := created
	return &w, &t, nil
}

func (r *fakeWalletRepo) transactionsFor(walletID primitive.ObjectID) []*models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range r.transactions {
		if tx.WalletID == walletID {
			c := *tx
			out = append(out, &c)
		}
	}
	return out
}

type fakeTransactionRepo struct {
	wallets *fakeWalletRepo
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	r.wallets.mu.Lock()
	defer r.wallets.mu.Unlock()
	c := *tx
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.wallets.transactions = append(r.wallets.transactions, &c)
	return nil
}

func (r *fakeTransactionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	r.wallets.mu.Lock()
	defer r.wallets.mu.Unlock()
	for _, tx := range r.wallets.transactions {
		if tx.ID == id {
			c := *tx
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeTransactionRepo) FindByWalletID(ctx context.Context, walletID primitive.ObjectID, page, limit int) ([]*models.Transaction, error) {
	return r.wallets.transactionsFor(walletID), nil
}

func (r *fakeTransactionRepo) FindLatestByWalletID(ctx context.Context, walletID primitive.ObjectID) (*models.Transaction, error) {
	txs := r.wallets.transactionsFor(walletID)
	if len(txs) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return txs[len(txs)-1], nil
}

type fakeAgentRepo struct {
	mu     sync.Mutex
	agents map[primitive.ObjectID]*models.Agent
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: make(map[primitive.ObjectID]*models.Agent)}
}

func (r *fakeAgentRepo) Create(ctx context.Context, agent *models.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agent.ID.IsZero() {
		agent.ID = primitive.NewObjectID()
	}
	c := *agent
	r.agents[agent.ID] = &c
	return nil
}

func (r *fakeAgentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *agent
	return &c, nil
}

func (r *fakeAgentRepo) FindActiveByRole(ctx context.Context, role models.AgentRole) ([]*models.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Agent
	for _, agent := range r.agents {
		if agent.Role == role && agent.Status == models.AgentStatusActive {
			c := *agent
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *fakeAgentRepo) FindAll(ctx context.Context, page, limit int) ([]*models.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Agent
	for _, agent := range r.agents {
		c := *agent
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeAgentRepo) Update(ctx context.Context, agent *models.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *agent
	r.agents[agent.ID] = &c
	return nil
}

type fakeAuditLogRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (r *fakeAuditLogRepo) Insert(ctx context.Context, entry *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	c := *entry
	r.entries = append(r.entries, &c)
	return nil
}

func (r *fakeAuditLogRepo) FindLatestHashed(ctx context.Context) (*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Hash != "" {
			c := *r.entries[i]
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAuditLogRepo) FindAllOrdered(ctx context.Context) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.AuditLog, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.Hash == "" {
			continue
		}
		c := *entry
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *fakeAuditLogRepo) FindByResource(ctx context.Context, resource, resourceID string) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, entry := range r.entries {
		if entry.Resource == resource && entry.ResourceID == resourceID {
			c := *entry
			out = append(out, &c)
		}
	}
	return out, nil
}

// mutate alters a stored entry in place, simulating tampering
func (r *fakeAuditLogRepo) mutate(i int, fn func(*models.AuditLog)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.entries[i])
}

// remove deletes a stored entry, simulating record destruction
func (r *fakeAuditLogRepo) remove(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
}

type fakeAuditOutboxRepo struct {
	mu      sync.Mutex
	entries []*models.AuditOutbox
}

func (r *fakeAuditOutboxRepo) Enqueue(ctx context.Context, entry *models.AuditOutbox) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.Status = models.AuditOutboxStatusPending
	entry.CreatedAt = time.Now()
	c := *entry
	r.entries = append(r.entries, &c)
	return nil
}

func (r *fakeAuditOutboxRepo) FindPending(ctx context.Context, limit int) ([]*models.AuditOutbox, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditOutbox
	for _, entry := range r.entries {
		if entry.Status != models.AuditOutboxStatusPending {
			continue
		}
		c := *entry
		out = append(out, &c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeAuditOutboxRepo) MarkApplied(ctx context.Context, id primitive.ObjectID) error {
	return r.setStatus(id, models.AuditOutboxStatusApplied)
}

func (r *fakeAuditOutboxRepo) MarkFailed(ctx context.Context, id primitive.ObjectID) error {
	return r.setStatus(id, models.AuditOutboxStatusFailed)
}

func (r *fakeAuditOutboxRepo) IncrementRetry(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.ID == id {
			entry.RetryCount++
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeAuditOutboxRepo) setStatus(id primitive.ObjectID, status models.AuditOutboxStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.ID == id {
			entry.Status = status
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

// Sinks. Settlement and wallet flows treat these as fire-and-forget, so
// the fakes just count invocations.

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []models.NotificationType
	users []primitive.ObjectID
}

func (n *recordingNotifier) Notify(ctx context.Context, userID primitive.ObjectID, notificationType models.NotificationType, title, body string, metadata map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notificationType)
	n.users = append(n.users, userID)
}

func (n *recordingNotifier) count(t models.NotificationType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, sent := range n.sent {
		if sent == t {
			c++
		}
	}
	return c
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Broadcast(event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

type nopCache struct{}

func (nopCache) Invalidate(ctx context.Context, pattern string) {}
