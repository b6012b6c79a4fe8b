package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommissionType represents the rule a commission was computed under
type CommissionType string

const (
	CommissionTypeCollection  CommissionType = "COLLECTION"
	CommissionTypeWinnerBonus CommissionType = "WINNER_BONUS"
	CommissionTypeCapitalista CommissionType = "CAPITALISTA"
	CommissionTypeFixed       CommissionType = "FIXED"
)

// CommissionStatus represents the payment status of a commission
type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "PENDING"
	CommissionStatusPaid      CommissionStatus = "PAID"
	CommissionStatusCancelled CommissionStatus = "CANCELLED"
)

// Commission represents one agent's earnings of one type on one draw.
// Amounts for multiple bets under the same agent are aggregated into a
// single baseAmount before the row is created.
type Commission struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AgentID    primitive.ObjectID `bson:"agentId" json:"agentId"`
	DrawID     primitive.ObjectID `bson:"drawId" json:"drawId"`
	Type       CommissionType     `bson:"type" json:"type"`
	Rate       float64            `bson:"rate" json:"rate"`
	BaseAmount float64            `bson:"baseAmount" json:"baseAmount"`
	Amount     float64            `bson:"amount" json:"amount"`
	Currency   string             `bson:"currency" json:"currency"`
	Status     CommissionStatus   `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
