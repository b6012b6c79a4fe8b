package services

import (
	"testing"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testConfig() *models.GameConfig {
	return &models.GameConfig{
		ID:               primitive.NewObjectID(),
		MinNumber:        1,
		MaxNumber:        37,
		PayoutMultiplier: 400,
		CobradorRate:     0.15,
		CaboRate:         0.05,
		CapitalistaRate:  0.05,
		Currency:         "PHP",
		IsActive:         true,
	}
}

func TestCalculateCommissionsAggregatesPerCobrador(t *testing.T) {
	cobrador := primitive.NewObjectID()
	config := testConfig()

	// Three bets collected by the same cobrador: 100 + 150 + 50 = 300
	bets := []*models.Bet{
		{CobradorID: &cobrador, Amount: 100, Status: models.BetStatusLost},
		{CobradorID: &cobrador, Amount: 150, Status: models.BetStatusLost},
		{CobradorID: &cobrador, Amount: 50, Status: models.BetStatusLost},
	}

	out := CalculateCommissions(bets, config, nil)

	require.Len(t, out, 1, "same cobrador must yield one aggregated row")
	assert.Equal(t, cobrador, out[0].AgentID)
	assert.Equal(t, models.CommissionTypeCollection, out[0].Type)
	assert.Equal(t, 300.0, out[0].BaseAmount)
	assert.InDelta(t, 45.0, out[0].Amount, 1e-9)
}

func TestCalculateCommissionsSkipsBetsWithoutCobrador(t *testing.T) {
	cobrador := primitive.NewObjectID()
	config := testConfig()

	bets := []*models.Bet{
		{CobradorID: &cobrador, Amount: 100},
		{Amount: 500}, // direct bet, no collecting agent
	}

	out := CalculateCommissions(bets, config, nil)

	require.Len(t, out, 1)
	assert.Equal(t, 100.0, out[0].BaseAmount)
}

func TestCalculateCommissionsWinnerBonusOnWinningPayoutsOnly(t *testing.T) {
	cabo := primitive.NewObjectID()
	config := testConfig()

	bets := []*models.Bet{
		{CaboID: &cabo, Amount: 10, IsWinner: true, PayoutAmount: 4000, Status: models.BetStatusWon},
		{CaboID: &cabo, Amount: 20, IsWinner: false, Status: models.BetStatusLost},
	}

	out := CalculateCommissions(bets, config, nil)

	require.Len(t, out, 1)
	assert.Equal(t, models.CommissionTypeWinnerBonus, out[0].Type)
	assert.Equal(t, 4000.0, out[0].BaseAmount)
	assert.InDelta(t, 200.0, out[0].Amount, 1e-9)
}

func TestCalculateCommissionsCapitalistaFanOut(t *testing.T) {
	config := testConfig()
	capitalistas := []*models.Agent{
		{ID: primitive.NewObjectID(), Role: models.AgentRoleCapitalista, Status: models.AgentStatusActive},
		{ID: primitive.NewObjectID(), Role: models.AgentRoleCapitalista, Status: models.AgentStatusActive},
	}

	bets := []*models.Bet{
		{Amount: 3000},
		{Amount: 2000},
	}

	out := CalculateCommissions(bets, config, capitalistas)

	// Each capitalista gets the full 5000 stake as base, not a split
	require.Len(t, out, 2)
	for _, row := range out {
		assert.Equal(t, models.CommissionTypeCapitalista, row.Type)
		assert.Equal(t, 5000.0, row.BaseAmount)
		assert.InDelta(t, 250.0, row.Amount, 1e-9)
	}
	assert.NotEqual(t, out[0].AgentID, out[1].AgentID)
}

func TestCalculateCommissionsSkipsInactiveCapitalista(t *testing.T) {
	config := testConfig()
	capitalistas := []*models.Agent{
		{ID: primitive.NewObjectID(), Role: models.AgentRoleCapitalista, Status: models.AgentStatusSuspended},
	}

	out := CalculateCommissions([]*models.Bet{{Amount: 1000}}, config, capitalistas)

	assert.Empty(t, out)
}

func TestCalculateCommissionsDropsZeroAmountRows(t *testing.T) {
	cobrador := primitive.NewObjectID()
	config := testConfig()
	config.CobradorRate = 0

	out := CalculateCommissions([]*models.Bet{{CobradorID: &cobrador, Amount: 100}}, config, nil)

	assert.Empty(t, out)
}

func TestCalculateCommissionsEmptyBetSet(t *testing.T) {
	capitalistas := []*models.Agent{
		{ID: primitive.NewObjectID(), Role: models.AgentRoleCapitalista, Status: models.AgentStatusActive},
	}

	out := CalculateCommissions(nil, testConfig(), capitalistas)

	// Zero stake means zero base, so even capitalistas earn nothing
	assert.Empty(t, out)
}
