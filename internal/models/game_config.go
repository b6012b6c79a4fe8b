package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameConfig governs number range, payout multiplier, bet limits and the
// commission rates. Exactly one record is active at any time; settlement
// reads the active snapshot once and is never retroactively affected by
// later config changes.
type GameConfig struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name             string             `bson:"name" json:"name"`
	MinNumber        int                `bson:"minNumber" json:"minNumber"`
	MaxNumber        int                `bson:"maxNumber" json:"maxNumber"`
	PayoutMultiplier float64            `bson:"payoutMultiplier" json:"payoutMultiplier"`
	MinBetAmount     float64            `bson:"minBetAmount" json:"minBetAmount"`
	MaxBetAmount     float64            `bson:"maxBetAmount" json:"maxBetAmount"`
	CobradorRate     float64            `bson:"cobradorRate" json:"cobradorRate"`
	CaboRate         float64            `bson:"caboRate" json:"caboRate"`
	CapitalistaRate  float64            `bson:"capitalistaRate" json:"capitalistaRate"`
	GovernmentRate   float64            `bson:"governmentRate" json:"governmentRate"`
	Currency         string             `bson:"currency" json:"currency"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
