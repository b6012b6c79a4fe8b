package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType classifies what moved money on a wallet
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal       TransactionType = "WITHDRAWAL"
	TransactionTypeBetStake         TransactionType = "BET_STAKE"
	TransactionTypePayout           TransactionType = "PAYOUT"
	TransactionTypeCommission       TransactionType = "COMMISSION"
	TransactionTypeRefund           TransactionType = "REFUND"
	TransactionTypeAdjustment       TransactionType = "ADJUSTMENT"
)

// TransactionStatus represents the processing status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction is an immutable append-only record of one balance change,
// with the balance captured before and after at write time.
type Transaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	WalletID      primitive.ObjectID `bson:"walletId" json:"walletId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Type          TransactionType    `bson:"type" json:"type"`
	Amount        float64            `bson:"amount" json:"amount"`
	BalanceBefore float64            `bson:"balanceBefore" json:"balanceBefore"`
	BalanceAfter  float64            `bson:"balanceAfter" json:"balanceAfter"`
	Currency      string             `bson:"currency" json:"currency"`
	Reference     string             `bson:"reference,omitempty" json:"reference,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Status        TransactionStatus  `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
