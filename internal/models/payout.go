package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayoutStatus represents the disbursement status of a payout
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "PENDING"
	PayoutStatusPaid    PayoutStatus = "PAID"
	PayoutStatusClaimed PayoutStatus = "CLAIMED"
)

// Payout represents the winnings owed on one winning bet, tracked
// independently of the bet so disbursement can move through its own
// PENDING -> PAID -> CLAIMED flow.
type Payout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BetID     primitive.ObjectID `bson:"betId" json:"betId"`
	DrawID    primitive.ObjectID `bson:"drawId" json:"drawId"`
	BettorID  primitive.ObjectID `bson:"bettorId" json:"bettorId"`
	Amount    float64            `bson:"amount" json:"amount"`
	Currency  string             `bson:"currency" json:"currency"`
	Status    PayoutStatus       `bson:"status" json:"status"`
	PaidAt    *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	ClaimedAt *time.Time         `bson:"claimedAt,omitempty" json:"claimedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
