package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies what a notification is about
type NotificationType string

const (
	NotificationTypeBetWon             NotificationType = "BET_WON"
	NotificationTypeBetLost            NotificationType = "BET_LOST"
	NotificationTypeCommissionCredited NotificationType = "COMMISSION_CREDITED"
	NotificationTypeWalletCredited     NotificationType = "WALLET_CREDITED"
	NotificationTypeWalletDebited      NotificationType = "WALLET_DEBITED"
)

// NotificationStatus represents the delivery status of a notification
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// Notification is an in-app message addressed to one user
type Notification struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID     `bson:"userId" json:"userId"`
	Type      NotificationType       `bson:"type" json:"type"`
	Title     string                 `bson:"title" json:"title"`
	Body      string                 `bson:"body" json:"body"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Status    NotificationStatus     `bson:"status" json:"status"`
	ReadAt    *time.Time             `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
