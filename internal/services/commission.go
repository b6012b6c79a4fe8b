package services

import (
	"github.com/ejggaming/jueteng-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionInput is one computed commission before persistence
type CommissionInput struct {
	AgentID    primitive.ObjectID
	Type       models.CommissionType
	Rate       float64
	BaseAmount float64
	Amount     float64
}

// CalculateCommissions computes every commission owed on one settled bet
// set. Pure: no I/O, no clock, deterministic over its inputs.
//
// Rules:
//   - COLLECTION: all bets grouped by cobrador; base is the cobrador's
//     collected stake. Bets without a cobrador contribute to no row.
//   - WINNER_BONUS: winning bets grouped by cabo; base is the payout sum
//     under that cabo. Bets without a cabo are excluded.
//   - CAPITALISTA: every active capitalista gets the full totalStake as
//     base, not a share of it.
//
// Rows whose computed amount is zero or negative are dropped.
func CalculateCommissions(bets []*models.Bet, config *models.GameConfig, capitalistas []*models.Agent) []CommissionInput {
	var out []CommissionInput

	// COLLECTION: group every bet by its collecting cobrador
	collectionBase := make(map[primitive.ObjectID]float64)
	var collectionOrder []primitive.ObjectID
	for _, bet := range bets {
		if bet.CobradorID == nil {
			continue
		}
		if _, seen := collectionBase[*bet.CobradorID]; !seen {
			collectionOrder = append(collectionOrder, *bet.CobradorID)
		}
		collectionBase[*bet.CobradorID] += bet.Amount
	}
	for _, cobradorID := range collectionOrder {
		base := collectionBase[cobradorID]
		amount := base * config.CobradorRate
		if amount <= 0 {
			continue
		}
		out = append(out, CommissionInput{
			AgentID:    cobradorID,
			Type:       models.CommissionTypeCollection,
			Rate:       config.CobradorRate,
			BaseAmount: base,
			Amount:     amount,
		})
	}

	// WINNER_BONUS: group winning bets' payouts by supervising cabo
	bonusBase := make(map[primitive.ObjectID]float64)
	var bonusOrder []primitive.ObjectID
	for _, bet := range bets {
		if !bet.IsWinner || bet.CaboID == nil {
			continue
		}
		if _, seen := bonusBase[*bet.CaboID]; !seen {
			bonusOrder = append(bonusOrder, *bet.CaboID)
		}
		bonusBase[*bet.CaboID] += bet.PayoutAmount
	}
	for _, caboID := range bonusOrder {
		base := bonusBase[caboID]
		amount := base * config.CaboRate
		if amount <= 0 {
			continue
		}
		out = append(out, CommissionInput{
			AgentID:    caboID,
			Type:       models.CommissionTypeWinnerBonus,
			Rate:       config.CaboRate,
			BaseAmount: base,
			Amount:     amount,
		})
	}

	// CAPITALISTA: each financier is entitled to a cut of the whole stake
	var totalStake float64
	for _, bet := range bets {
		totalStake += bet.Amount
	}
	for _, agent := range capitalistas {
		if agent.Status != models.AgentStatusActive {
			continue
		}
		amount := totalStake * config.CapitalistaRate
		if amount <= 0 {
			continue
		}
		out = append(out, CommissionInput{
			AgentID:    agent.ID,
			Type:       models.CommissionTypeCapitalista,
			Rate:       config.CapitalistaRate,
			BaseAmount: totalStake,
			Amount:     amount,
		})
	}

	return out
}
