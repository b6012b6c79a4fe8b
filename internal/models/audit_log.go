package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenesisHash is the previousHash sentinel of the first chain entry
const GenesisHash = "GENESIS"

// AuditLog is one entry of the tamper-evident hash chain. Hash covers
// previousHash, action, resource, resourceId, userId, the serialized new
// value and createdAt; previousHash of entry N equals hash of entry N-1
// in creation order. Entries are never updated or deleted.
type AuditLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Action       string             `bson:"action" json:"action"`
	Resource     string             `bson:"resource" json:"resource"`
	ResourceID   string             `bson:"resourceId" json:"resourceId"`
	UserID       string             `bson:"userId" json:"userId"`
	OldValue     string             `bson:"oldValue,omitempty" json:"oldValue,omitempty"` // JSON snapshot
	NewValue     string             `bson:"newValue,omitempty" json:"newValue,omitempty"` // JSON snapshot
	Hash         string             `bson:"hash" json:"hash"`
	PreviousHash string             `bson:"previousHash" json:"previousHash"`
	Sequence     int64              `bson:"sequence" json:"sequence"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// AuditOutboxStatus represents the processing status of a queued entry
type AuditOutboxStatus string

const (
	AuditOutboxStatusPending AuditOutboxStatus = "PENDING"
	AuditOutboxStatusApplied AuditOutboxStatus = "APPLIED"
	AuditOutboxStatusFailed  AuditOutboxStatus = "FAILED"
)

// AuditOutbox is a pending audit record queued by a business operation.
// A background writer drains the queue in creation order and builds the
// hash chain sequentially, so business writes never wait on the chain.
type AuditOutbox struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Action     string             `bson:"action" json:"action"`
	Resource   string             `bson:"resource" json:"resource"`
	ResourceID string             `bson:"resourceId" json:"resourceId"`
	UserID     string             `bson:"userId" json:"userId"`
	OldValue   string             `bson:"oldValue,omitempty" json:"oldValue,omitempty"`
	NewValue   string             `bson:"newValue,omitempty" json:"newValue,omitempty"`
	Status     AuditOutboxStatus  `bson:"status" json:"status"`
	RetryCount int                `bson:"retryCount" json:"retryCount"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
