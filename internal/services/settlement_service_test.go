package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type settlementHarness struct {
	engine      *SettlementEngine
	drawRepo    *fakeDrawRepo
	betRepo     *fakeBetRepo
	payoutRepo  *fakePayoutRepo
	commRepo    *fakeCommissionRepo
	agentRepo   *fakeAgentRepo
	walletRepo  *fakeWalletRepo
	notifier    *recordingNotifier
	broadcaster *recordingBroadcaster
	audit       *AuditServiceImpl
	outboxRepo  *fakeAuditOutboxRepo
}

func newSettlementHarness() *settlementHarness {
	h := &settlementHarness{
		drawRepo:    newFakeDrawRepo(),
		betRepo:     newFakeBetRepo(),
		payoutRepo:  newFakePayoutRepo(),
		commRepo:    newFakeCommissionRepo(),
		agentRepo:   newFakeAgentRepo(),
		walletRepo:  newFakeWalletRepo(),
		notifier:    &recordingNotifier{},
		broadcaster: &recordingBroadcaster{},
		outboxRepo:  &fakeAuditOutboxRepo{},
	}
	h.audit = NewAuditService(&fakeAuditLogRepo{}, h.outboxRepo)
	h.engine = NewSettlementEngine(
		h.drawRepo, h.betRepo, h.payoutRepo, h.commRepo, h.agentRepo, h.walletRepo,
		h.notifier, h.broadcaster, nopCache{}, h.audit,
	)
	return h
}

// drawnDraw stores a DRAWN draw with the given winning numbers
func (h *settlementHarness) drawnDraw(t *testing.T, n1, n2 int) *models.Draw {
	t.Helper()
	now := time.Now()
	draw := &models.Draw{
		DrawDate:       now.Truncate(24 * time.Hour),
		DrawType:       models.DrawTypeEvening,
		ScheduledAt:    now,
		Status:         models.DrawStatusDrawn,
		Number1:        &n1,
		Number2:        &n2,
		CombinationKey: utils.CombinationKey(n1, n2),
		DrawnAt:        &now,
	}
	require.NoError(t, h.drawRepo.Create(context.Background(), draw))
	return draw
}

func (h *settlementHarness) addBet(t *testing.T, draw *models.Draw, n1, n2 int, amount float64) *models.Bet {
	t.Helper()
	bet := &models.Bet{
		DrawID:         draw.ID,
		BettorID:       primitive.NewObjectID(),
		Number1:        n1,
		Number2:        n2,
		CombinationKey: utils.CombinationKey(n1, n2),
		Amount:         amount,
		Currency:       "PHP",
		Status:         models.BetStatusPending,
	}
	require.NoError(t, h.betRepo.Create(context.Background(), bet))
	return bet
}

// addAgent stores an active agent with an empty wallet
func (h *settlementHarness) addAgent(t *testing.T, role models.AgentRole) (*models.Agent, *models.Wallet) {
	t.Helper()
	userID := primitive.NewObjectID()
	agent := &models.Agent{UserID: userID, Role: role, Status: models.AgentStatusActive}
	require.NoError(t, h.agentRepo.Create(context.Background(), agent))
	wallet := &models.Wallet{UserID: userID, Currency: "PHP", Status: models.WalletStatusActive}
	require.NoError(t, h.walletRepo.Create(context.Background(), wallet))
	return agent, wallet
}

func (h *settlementHarness) attachCobrador(t *testing.T, bet *models.Bet, cobrador *models.Agent) {
	t.Helper()
	h.betRepo.mu.Lock()
	h.betRepo.bets[bet.ID].CobradorID = &cobrador.ID
	h.betRepo.mu.Unlock()
}

func TestSettleResolvesWinnersAndLosers(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig() // multiplier 400

	draw := h.drawnDraw(t, 7, 21)
	winner := h.addBet(t, draw, 21, 7, 12.5) // reversed order still wins
	loser1 := h.addBet(t, draw, 1, 2, 100)
	loser2 := h.addBet(t, draw, 7, 22, 400)

	result, err := h.engine.Settle(ctx, draw, config)
	require.NoError(t, err)

	assert.Equal(t, 1, result.WinnerCount)
	assert.Equal(t, 2, result.LoserCount)
	assert.Equal(t, 512.5, result.TotalStake)
	assert.Equal(t, 5000.0, result.TotalPayout)
	assert.Equal(t, -4487.5, result.GrossProfit)

	stored, err := h.betRepo.FindByID(ctx, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BetStatusWon, stored.Status)
	assert.True(t, stored.IsWinner)
	assert.Equal(t, 5000.0, stored.PayoutAmount)
	require.NotNil(t, stored.SettledAt)

	for _, id := range []primitive.ObjectID{loser1.ID, loser2.ID} {
		lost, err := h.betRepo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.BetStatusLost, lost.Status)
		assert.False(t, lost.IsWinner)
	}

	// One PENDING payout per winner; no wallet credit until disbursement
	payout, err := h.payoutRepo.FindByBetID(ctx, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPending, payout.Status)
	assert.Equal(t, 5000.0, payout.Amount)
	assert.Empty(t, h.walletRepo.transactions)

	final, err := h.drawRepo.FindByID(ctx, draw.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusSettled, final.Status)
	assert.Equal(t, 3, final.TotalBets)
	assert.Equal(t, 512.5, final.TotalStake)
	assert.Equal(t, 5000.0, final.TotalPayout)
	require.NotNil(t, final.SettledAt)

	assert.Equal(t, 1, h.notifier.count(models.NotificationTypeBetWon))
	assert.Equal(t, 2, h.notifier.count(models.NotificationTypeBetLost))
	assert.Contains(t, h.broadcaster.events, "draw:result")
}

func TestSettlePayoutExample(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig()
	config.PayoutMultiplier = 5000

	// 15 bets of 1 each, one winner: stake 15, payout 5000, profit -4985
	draw := h.drawnDraw(t, 3, 18)
	h.addBet(t, draw, 3, 18, 1)
	for i := 0; i < 14; i++ {
		h.addBet(t, draw, 1, 2, 1)
	}

	result, err := h.engine.Settle(ctx, draw, config)
	require.NoError(t, err)

	assert.Equal(t, 15, result.WinnerCount+result.LoserCount)
	assert.Equal(t, 15.0, result.TotalStake)
	assert.Equal(t, 5000.0, result.TotalPayout)
	assert.Equal(t, -4985.0, result.GrossProfit)
}

func TestSettleRejectsWrongStatus(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig()

	open := &models.Draw{Status: models.DrawStatusOpen}
	require.NoError(t, h.drawRepo.Create(ctx, open))
	_, err := h.engine.Settle(ctx, open, config)
	assert.ErrorIs(t, err, ErrInvalidDrawStatus)

	settled := &models.Draw{Status: models.DrawStatusSettled, CombinationKey: "1-2"}
	require.NoError(t, h.drawRepo.Create(ctx, settled))
	_, err = h.engine.Settle(ctx, settled, config)
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestSettleRejectsMissingCombination(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()

	draw := &models.Draw{Status: models.DrawStatusDrawn}
	require.NoError(t, h.drawRepo.Create(ctx, draw))

	_, err := h.engine.Settle(ctx, draw, testConfig())
	assert.ErrorIs(t, err, ErrMissingResult)
}

func TestSettleSecondRunRejected(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig()

	draw := h.drawnDraw(t, 5, 9)
	h.addBet(t, draw, 5, 9, 10)

	_, err := h.engine.Settle(ctx, draw, config)
	require.NoError(t, err)

	// Second run against the refreshed draw fails the status gate
	refreshed, err := h.drawRepo.FindByID(ctx, draw.ID)
	require.NoError(t, err)
	_, err = h.engine.Settle(ctx, refreshed, config)
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestSettleConcurrentRunsSettleAtMostOnce(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig()

	cobrador, cobradorWallet := h.addAgent(t, models.AgentRoleCobrador)
	_, capitalistaWallet := h.addAgent(t, models.AgentRoleCapitalista)

	draw := h.drawnDraw(t, 11, 30)
	winner := h.addBet(t, draw, 11, 30, 20)
	loser := h.addBet(t, draw, 1, 3, 50)
	h.attachCobrador(t, loser, cobrador)

	const runs = 8
	var wg sync.WaitGroup
	errs := make([]error, runs)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each goroutine works from its own stale DRAWN snapshot
			snapshot := *draw
			_, errs[i] = h.engine.Settle(ctx, &snapshot, config)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrAlreadySettled)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent run may finalize")

	// The winner was paid exactly once regardless of how many runs raced
	payouts, err := h.payoutRepo.FindByDrawID(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, winner.ID, payouts[0].BetID)

	stored, err := h.betRepo.FindByID(ctx, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, stored.PayoutAmount)

	// Commissions were inserted and credited exactly once across all runs
	commissions, err := h.commRepo.FindByDrawID(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, commissions, 2)

	cobradorBalance, err := h.walletRepo.FindByID(ctx, cobradorWallet.ID)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, cobradorBalance.Balance, 1e-9) // 50 x 0.15
	require.Len(t, h.walletRepo.transactionsFor(cobradorWallet.ID), 1)

	capitalistaBalance, err := h.walletRepo.FindByID(ctx, capitalistaWallet.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, capitalistaBalance.Balance, 1e-9) // 70 x 0.05
	require.Len(t, h.walletRepo.transactionsFor(capitalistaWallet.ID), 1)
}

// laggedCommissionRepo delays the existence check the way a real database
// round-trip would, widening the window in which racing runs all observe
// "no commission row yet".
type laggedCommissionRepo struct {
	*fakeCommissionRepo
	delay time.Duration
}

func (r *laggedCommissionRepo) ExistsForDrawAndType(ctx context.Context, drawID, agentID primitive.ObjectID, commType models.CommissionType) (bool, error) {
	time.Sleep(r.delay)
	return r.fakeCommissionRepo.ExistsForDrawAndType(ctx, drawID, agentID, commType)
}

func TestSettleConcurrentRunsCreditCommissionsOnce(t *testing.T) {
	h := newSettlementHarness()
	lagged := &laggedCommissionRepo{fakeCommissionRepo: h.commRepo, delay: 5 * time.Millisecond}
	h.engine = NewSettlementEngine(
		h.drawRepo, h.betRepo, h.payoutRepo, lagged, h.agentRepo, h.walletRepo,
		h.notifier, h.broadcaster, nopCache{}, h.audit,
	)
	ctx := context.Background()
	config := testConfig()

	cobrador, wallet := h.addAgent(t, models.AgentRoleCobrador)
	draw := h.drawnDraw(t, 3, 9)
	bet := h.addBet(t, draw, 2, 5, 100)
	h.attachCobrador(t, bet, cobrador)

	const runs = 4
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snapshot := *draw
			_, _ = h.engine.Settle(ctx, &snapshot, config)
		}()
	}
	wg.Wait()

	// Every run passed the stale existence check; only the insert winner
	// got to create the row and credit the wallet
	commissions, err := h.commRepo.FindByDrawID(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, commissions, 1)
	assert.InDelta(t, 15.0, commissions[0].Amount, 1e-9)

	credited, err := h.walletRepo.FindByID(ctx, wallet.ID)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, credited.Balance, 1e-9)
	require.Len(t, h.walletRepo.transactionsFor(wallet.ID), 1)
}

func TestSettleRetryAfterPartialRunIsIdempotent(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig()

	draw := h.drawnDraw(t, 2, 4)
	winner := h.addBet(t, draw, 2, 4, 10)
	h.addBet(t, draw, 6, 8, 30)

	// Simulate a crashed first run: the winner was resolved and paid out,
	// but the draw never reached SETTLED.
	now := time.Now()
	require.NoError(t, h.betRepo.MarkWon(ctx, winner.ID, 4000, now))
	require.NoError(t, h.payoutRepo.Create(ctx, &models.Payout{
		BetID:    winner.ID,
		DrawID:   draw.ID,
		BettorID: winner.BettorID,
		Amount:   4000,
		Currency: "PHP",
		Status:   models.PayoutStatusPending,
	}))

	result, err := h.engine.Settle(ctx, draw, config)
	require.NoError(t, err)

	// The stored payout amount from the first run is preserved
	assert.Equal(t, 4000.0, result.TotalPayout)

	payouts, err := h.payoutRepo.FindByDrawID(ctx, draw.ID)
	require.NoError(t, err)
	assert.Len(t, payouts, 1, "retry must not duplicate the payout row")

	final, err := h.drawRepo.FindByID(ctx, draw.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusSettled, final.Status)
}

func TestSettleRetryCreatesPayoutForResolvedWinner(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig()

	draw := h.drawnDraw(t, 2, 4)
	winner := h.addBet(t, draw, 2, 4, 10)
	h.addBet(t, draw, 6, 8, 30)

	// A crashed first run resolved the winner but died before inserting
	// the payout row. Its stored amount wins over a recomputation.
	require.NoError(t, h.betRepo.MarkWon(ctx, winner.ID, 9000, time.Now()))

	result, err := h.engine.Settle(ctx, draw, config)
	require.NoError(t, err)
	assert.Equal(t, 9000.0, result.TotalPayout)

	payout, err := h.payoutRepo.FindByBetID(ctx, winner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPending, payout.Status)
	assert.Equal(t, 9000.0, payout.Amount)

	payouts, err := h.payoutRepo.FindByDrawID(ctx, draw.ID)
	require.NoError(t, err)
	assert.Len(t, payouts, 1)
}

func TestSettleCreditsCommissionWallets(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig()

	cobradorUser := primitive.NewObjectID()
	cobrador := &models.Agent{
		UserID: cobradorUser,
		Name:   "field collector",
		Role:   models.AgentRoleCobrador,
		Status: models.AgentStatusActive,
	}
	require.NoError(t, h.agentRepo.Create(ctx, cobrador))
	wallet := &models.Wallet{UserID: cobradorUser, Currency: "PHP", Status: models.WalletStatusActive}
	require.NoError(t, h.walletRepo.Create(ctx, wallet))

	draw := h.drawnDraw(t, 14, 14)
	bet := h.addBet(t, draw, 9, 10, 200)
	h.betRepo.mu.Lock()
	h.betRepo.bets[bet.ID].CobradorID = &cobrador.ID
	h.betRepo.mu.Unlock()

	_, err := h.engine.Settle(ctx, draw, config)
	require.NoError(t, err)

	commissions, err := h.commRepo.FindByDrawID(ctx, draw.ID)
	require.NoError(t, err)
	require.Len(t, commissions, 1)
	assert.Equal(t, models.CommissionTypeCollection, commissions[0].Type)
	assert.InDelta(t, 30.0, commissions[0].Amount, 1e-9)

	credited, err := h.walletRepo.FindByID(ctx, wallet.ID)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, credited.Balance, 1e-9)

	txs := h.walletRepo.transactionsFor(wallet.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypeCommission, txs[0].Type)
	assert.Equal(t, 0.0, txs[0].BalanceBefore)
	assert.InDelta(t, 30.0, txs[0].BalanceAfter, 1e-9)

	assert.Equal(t, 1, h.notifier.count(models.NotificationTypeCommissionCredited))
}

func TestSettleCommissionRetryDoesNotDoubleCredit(t *testing.T) {
	h := newSettlementHarness()
	ctx := context.Background()
	config := testConfig()

	cobradorUser := primitive.NewObjectID()
	cobrador := &models.Agent{UserID: cobradorUser, Role: models.AgentRoleCobrador, Status: models.AgentStatusActive}
	require.NoError(t, h.agentRepo.Create(ctx, cobrador))
	wallet := &models.Wallet{UserID: cobradorUser, Currency: "PHP"}
	require.NoError(t, h.walletRepo.Create(ctx, wallet))

	draw := h.drawnDraw(t, 1, 5)
	bet := h.addBet(t, draw, 2, 3, 100)
	h.betRepo.mu.Lock()
	h.betRepo.bets[bet.ID].CobradorID = &cobrador.ID
	h.betRepo.mu.Unlock()

	// A previous partial run already created and credited this commission
	require.NoError(t, h.commRepo.Create(ctx, &models.Commission{
		AgentID:    cobrador.ID,
		DrawID:     draw.ID,
		Type:       models.CommissionTypeCollection,
		Rate:       config.CobradorRate,
		BaseAmount: 100,
		Amount:     15,
		Currency:   "PHP",
		Status:     models.CommissionStatusPending,
	}))

	_, err := h.engine.Settle(ctx, draw, config)
	require.NoError(t, err)

	commissions, err := h.commRepo.FindByDrawID(ctx, draw.ID)
	require.NoError(t, err)
	assert.Len(t, commissions, 1, "retry must not duplicate the commission row")
	assert.Empty(t, h.walletRepo.transactionsFor(wallet.ID), "retry must not credit again")
}
