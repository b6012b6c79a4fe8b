package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// SettlementEngine resolves every bet on a drawn draw, creates payouts and
// commissions, and finalizes the draw record. The DRAWN -> SETTLED status
// write is the last mutation and doubles as the completion marker: a
// partial failure leaves the draw DRAWN for an operator retry, and the
// per-bet status filters make that retry safe.
type SettlementEngine struct {
	drawRepo       repositories.DrawRepository
	betRepo        repositories.BetRepository
	payoutRepo     repositories.PayoutRepository
	commissionRepo repositories.CommissionRepository
	agentRepo      repositories.AgentRepository
	walletRepo     repositories.WalletRepository
	notifier       NotificationSink
	broadcaster    BroadcastSink
	cache          CacheInvalidator
	audit          AuditService
}

// NewSettlementEngine creates a new SettlementEngine
func NewSettlementEngine(
	drawRepo repositories.DrawRepository,
	betRepo repositories.BetRepository,
	payoutRepo repositories.PayoutRepository,
	commissionRepo repositories.CommissionRepository,
	agentRepo repositories.AgentRepository,
	walletRepo repositories.WalletRepository,
	notifier NotificationSink,
	broadcaster BroadcastSink,
	cache CacheInvalidator,
	audit AuditService,
) *SettlementEngine {
	return &SettlementEngine{
		drawRepo:       drawRepo,
		betRepo:        betRepo,
		payoutRepo:     payoutRepo,
		commissionRepo: commissionRepo,
		agentRepo:      agentRepo,
		walletRepo:     walletRepo,
		notifier:       notifier,
		broadcaster:    broadcaster,
		cache:          cache,
		audit:          audit,
	}
}

// deferredEffect is a side effect held back until the draw's status write
// has succeeded. Each effect runs isolated: one failing never stops the
// rest, and none can fail the settlement itself.
type deferredEffect func(ctx context.Context)

// Settle runs the settlement algorithm against a draw already verified to
// be DRAWN with a recorded combination, using the config snapshot taken at
// invocation time.
func (e *SettlementEngine) Settle(ctx context.Context, draw *models.Draw, config *models.GameConfig) (*SettlementResult, error) {
	if draw.Status != models.DrawStatusDrawn {
		if draw.Status == models.DrawStatusSettled {
			return nil, ErrAlreadySettled
		}
		return nil, ErrInvalidDrawStatus
	}
	if draw.CombinationKey == "" {
		return nil, ErrMissingResult
	}

	now := time.Now()
	var effects []deferredEffect

	bets, err := e.betRepo.FindByDrawID(ctx, draw.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bets for draw %s: %w", draw.ID.Hex(), err)
	}

	// 1. Partition by combination key
	var winning, losing []*models.Bet
	for _, bet := range bets {
		if bet.CombinationKey == draw.CombinationKey {
			winning = append(winning, bet)
		} else {
			losing = append(losing, bet)
		}
	}

	// 2. Resolve winners one by one; the PENDING filter in MarkWon skips
	// bets a previous partial run already resolved.
	var totalPayout float64
	for _, bet := range winning {
		payoutAmount := bet.Amount * config.PayoutMultiplier

		if bet.Status.Terminal() {
			totalPayout += bet.PayoutAmount
			// A crashed run may have resolved the bet and died before
			// the payout insert; the bet's stored amount is authoritative
			if bet.Status == models.BetStatusWon {
				if err := e.ensurePayout(ctx, draw, bet, bet.PayoutAmount); err != nil {
					return nil, err
				}
			}
			continue
		}

		err := e.betRepo.MarkWon(ctx, bet.ID, payoutAmount, now)
		if errors.Is(err, repositories.ErrPreconditionFailed) {
			// Lost a race with an earlier run; keep its stored amount
			if resolved, findErr := e.betRepo.FindByID(ctx, bet.ID); findErr == nil {
				totalPayout += resolved.PayoutAmount
				if resolved.Status == models.BetStatusWon {
					if err := e.ensurePayout(ctx, draw, resolved, resolved.PayoutAmount); err != nil {
						return nil, err
					}
				}
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to mark bet %s won: %w", bet.ID.Hex(), err)
		}
		bet.Status = models.BetStatusWon
		bet.IsWinner = true
		bet.PayoutAmount = payoutAmount
		totalPayout += payoutAmount

		if err := e.ensurePayout(ctx, draw, bet, payoutAmount); err != nil {
			return nil, err
		}

		bet := bet
		effects = append(effects, func(ctx context.Context) {
			e.notifier.Notify(ctx, bet.BettorID, models.NotificationTypeBetWon,
				"You won!",
				fmt.Sprintf("Your combination %s won %.2f", bet.CombinationKey, payoutAmount),
				map[string]interface{}{
					"betId":          bet.ID.Hex(),
					"drawId":         draw.ID.Hex(),
					"winAmount":      payoutAmount,
					"combinationKey": bet.CombinationKey,
				})
		})
	}

	// 3. Resolve losers in bulk
	if _, err := e.betRepo.MarkLostBulk(ctx, draw.ID, draw.CombinationKey, now); err != nil {
		return nil, fmt.Errorf("failed to mark losing bets: %w", err)
	}
	for _, bet := range losing {
		if bet.Status.Terminal() {
			continue
		}
		bet := bet
		effects = append(effects, func(ctx context.Context) {
			e.notifier.Notify(ctx, bet.BettorID, models.NotificationTypeBetLost,
				"Better luck next time",
				fmt.Sprintf("The winning combination was %s", draw.CombinationKey),
				map[string]interface{}{
					"betId":              bet.ID.Hex(),
					"drawId":             draw.ID.Hex(),
					"combinationKey":     bet.CombinationKey,
					"winningCombination": draw.CombinationKey,
				})
		})
	}

	// 4. Totals over the full bet set
	var totalStake float64
	for _, bet := range bets {
		totalStake += bet.Amount
	}
	grossProfit := totalStake - totalPayout

	// 5. Commissions. Winning bets carry their fresh payout amounts from
	// step 2, so the pure calculator sees settled state.
	if err := e.settleCommissions(ctx, draw, config, bets, &effects); err != nil {
		return nil, err
	}

	// 6. Finalize: compare-and-set DRAWN -> SETTLED, the completion marker.
	totalBets := len(bets)
	settled, err := e.drawRepo.TransitionStatus(ctx, draw.ID, models.DrawStatusDrawn, models.DrawStatusSettled, repositories.DrawUpdate{
		SettledAt:   &now,
		TotalBets:   &totalBets,
		TotalStake:  &totalStake,
		TotalPayout: &totalPayout,
		GrossProfit: &grossProfit,
	})
	if errors.Is(err, repositories.ErrPreconditionFailed) {
		return nil, ErrAlreadySettled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to finalize draw %s: %w", draw.ID.Hex(), err)
	}

	e.audit.Record(ctx, "DRAW_SETTLED", "draw", settled.ID.Hex(), "", draw, settled)

	// 7-8. Side effects only after the completion marker is written
	e.broadcaster.Broadcast("draw:result", map[string]interface{}{
		"drawId":         settled.ID.Hex(),
		"combinationKey": settled.CombinationKey,
		"number1":        settled.Number1,
		"number2":        settled.Number2,
		"timestamp":      now.UTC(),
	})
	e.cache.Invalidate(ctx, "draw:*")
	e.cache.Invalidate(ctx, fmt.Sprintf("bet:draw:%s:*", settled.ID.Hex()))
	for _, effect := range effects {
		effect(ctx)
	}

	return &SettlementResult{
		Draw:        settled,
		WinnerCount: len(winning),
		LoserCount:  len(losing),
		TotalStake:  totalStake,
		TotalPayout: totalPayout,
		GrossProfit: grossProfit,
	}, nil
}

// ensurePayout creates the PENDING payout row for a winning bet unless a
// previous partial run already created it.
func (e *SettlementEngine) ensurePayout(ctx context.Context, draw *models.Draw, bet *models.Bet, amount float64) error {
	_, err := e.payoutRepo.FindByBetID(ctx, bet.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check payout for bet %s: %w", bet.ID.Hex(), err)
	}
	payout := &models.Payout{
		BetID:    bet.ID,
		DrawID:   draw.ID,
		BettorID: bet.BettorID,
		Amount:   amount,
		Currency: bet.Currency,
		Status:   models.PayoutStatusPending,
	}
	if err := e.payoutRepo.Create(ctx, payout); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// A concurrent run inserted it between the check and here
			return nil
		}
		return fmt.Errorf("failed to create payout for bet %s: %w", bet.ID.Hex(), err)
	}
	return nil
}

// settleCommissions computes, persists and credits commissions. The unique
// (draw, agent, type) insert is the serialization point: whichever run
// inserts the row credits the agent, so racing runs cannot double-credit.
// The Exists pre-check only keeps operator retries from hitting duplicate
// key errors on every row. Crediting an agent's wallet is isolated per
// agent: one failed credit is logged and the loop continues.
func (e *SettlementEngine) settleCommissions(ctx context.Context, draw *models.Draw, config *models.GameConfig, bets []*models.Bet, effects *[]deferredEffect) error {
	capitalistas, err := e.agentRepo.FindActiveByRole(ctx, models.AgentRoleCapitalista)
	if err != nil {
		return fmt.Errorf("failed to load capitalista agents: %w", err)
	}

	inputs := CalculateCommissions(bets, config, capitalistas)

	for _, input := range inputs {
		exists, err := e.commissionRepo.ExistsForDrawAndType(ctx, draw.ID, input.AgentID, input.Type)
		if err != nil {
			return fmt.Errorf("failed to check commission for agent %s: %w", input.AgentID.Hex(), err)
		}
		if exists {
			// Left over from a previous partial run
			continue
		}

		commission := &models.Commission{
			AgentID:    input.AgentID,
			DrawID:     draw.ID,
			Type:       input.Type,
			Rate:       input.Rate,
			BaseAmount: input.BaseAmount,
			Amount:     input.Amount,
			Currency:   config.Currency,
			Status:     models.CommissionStatusPending,
		}
		if err := e.commissionRepo.Create(ctx, commission); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				// A concurrent run inserted this row first; the inserting
				// run is the one that credits the agent
				continue
			}
			return fmt.Errorf("failed to create commission for agent %s: %w", input.AgentID.Hex(), err)
		}

		e.creditAgent(ctx, draw, commission)

		input := input
		*effects = append(*effects, func(ctx context.Context) {
			agent, err := e.agentRepo.FindByID(ctx, input.AgentID)
			if err != nil {
				slog.Warn("Skipping commission notification, agent lookup failed",
					"agentId", input.AgentID.Hex(), "error", err)
				return
			}
			e.notifier.Notify(ctx, agent.UserID, models.NotificationTypeCommissionCredited,
				"Commission earned",
				fmt.Sprintf("%s commission of %.2f on draw %s", input.Type, input.Amount, draw.CombinationKey),
				map[string]interface{}{
					"drawId":     draw.ID.Hex(),
					"type":       string(input.Type),
					"baseAmount": input.BaseAmount,
					"amount":     input.Amount,
				})
		})
	}
	return nil
}

// creditAgent credits one agent's wallet for a freshly created commission.
// Failures are logged and swallowed so other agents still get processed.
func (e *SettlementEngine) creditAgent(ctx context.Context, draw *models.Draw, commission *models.Commission) {
	agent, err := e.agentRepo.FindByID(ctx, commission.AgentID)
	if err != nil {
		slog.Error("Commission wallet credit skipped, agent lookup failed",
			"agentId", commission.AgentID.Hex(), "drawId", draw.ID.Hex(), "error", err)
		return
	}
	wallet, err := e.walletRepo.FindByUserID(ctx, agent.UserID)
	if err != nil {
		slog.Error("Commission wallet credit skipped, wallet lookup failed",
			"agentId", agent.ID.Hex(), "userId", agent.UserID.Hex(), "error", err)
		return
	}
	tx := &models.Transaction{
		Type:        models.TransactionTypeCommission,
		Reference:   commission.ID.Hex(),
		Description: fmt.Sprintf("%s commission on draw %s", commission.Type, draw.ID.Hex()),
	}
	if _, _, err := e.walletRepo.ApplyBalanceChange(ctx, wallet.ID, commission.Amount, tx); err != nil {
		slog.Error("Commission wallet credit failed",
			"agentId", agent.ID.Hex(), "walletId", wallet.ID.Hex(),
			"amount", commission.Amount, "error", err)
	}
}
