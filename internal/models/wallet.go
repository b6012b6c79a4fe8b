package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WalletStatus represents the operational status of a wallet
type WalletStatus string

const (
	WalletStatusActive WalletStatus = "ACTIVE"
	WalletStatusFrozen WalletStatus = "FROZEN"
	WalletStatusClosed WalletStatus = "CLOSED"
)

// Wallet holds one user's running balance. The balance always equals the
// balanceAfter of the wallet's most recent transaction; Version guards
// concurrent balance writes.
type Wallet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Balance   float64            `bson:"balance" json:"balance"`
	Currency  string             `bson:"currency" json:"currency"`
	Status    WalletStatus       `bson:"status" json:"status"`
	Version   int64              `bson:"version" json:"version"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
