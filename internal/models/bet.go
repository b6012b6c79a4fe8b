package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BetStatus represents the resolution status of a bet
type BetStatus string

const (
	BetStatusPending  BetStatus = "PENDING"
	BetStatusWon      BetStatus = "WON"
	BetStatusLost     BetStatus = "LOST"
	BetStatusVoid     BetStatus = "VOID"
	BetStatusRefunded BetStatus = "REFUNDED"
)

// Terminal reports whether the status is a final resolution state.
// A bet in a terminal status is never resolved again.
func (s BetStatus) Terminal() bool {
	return s != BetStatusPending
}

// Bet represents a player's wager on one draw
type Bet struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	DrawID         primitive.ObjectID  `bson:"drawId" json:"drawId"`
	BettorID       primitive.ObjectID  `bson:"bettorId" json:"bettorId"`
	CobradorID     *primitive.ObjectID `bson:"cobradorId,omitempty" json:"cobradorId,omitempty"`
	CaboID         *primitive.ObjectID `bson:"caboId,omitempty" json:"caboId,omitempty"`
	Number1        int                 `bson:"number1" json:"number1"`
	Number2        int                 `bson:"number2" json:"number2"`
	CombinationKey string              `bson:"combinationKey" json:"combinationKey"`
	Amount         float64             `bson:"amount" json:"amount"`
	Currency       string              `bson:"currency" json:"currency"`
	Status         BetStatus           `bson:"status" json:"status"`
	IsWinner       bool                `bson:"isWinner" json:"isWinner"`
	PayoutAmount   float64             `bson:"payoutAmount,omitempty" json:"payoutAmount,omitempty"`
	SettledAt      *time.Time          `bson:"settledAt,omitempty" json:"settledAt,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
