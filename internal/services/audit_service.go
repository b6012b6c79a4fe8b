package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuditServiceImpl implements AuditService
var _ AuditService = (*AuditServiceImpl)(nil)

// maxOutboxRetries bounds how often a queued entry is retried before it is
// marked failed and dropped from the queue
const maxOutboxRetries = 5

// AuditServiceImpl maintains the tamper-evident audit chain. Business
// operations enqueue entries through Record; the outbox writer drains the
// queue in creation order and links each entry to its predecessor by hash.
// Recording is best-effort throughout: the chain documents operations, it
// never blocks them.
type AuditServiceImpl struct {
	logRepo    repositories.AuditLogRepository
	outboxRepo repositories.AuditOutboxRepository
}

// NewAuditService creates a new AuditServiceImpl
func NewAuditService(logRepo repositories.AuditLogRepository, outboxRepo repositories.AuditOutboxRepository) *AuditServiceImpl {
	return &AuditServiceImpl{
		logRepo:    logRepo,
		outboxRepo: outboxRepo,
	}
}

// ComputeEntryHash derives the chain hash over the fixed field order
// previousHash | action | resource | resourceId | userId | newValue |
// createdAt. createdAt is rendered RFC3339Nano in UTC; the stored entry
// must carry exactly the value that was hashed.
func ComputeEntryHash(previousHash, action, resource, resourceID, userID, newValue string, createdAt time.Time) string {
	payload := strings.Join([]string{
		previousHash,
		action,
		resource,
		resourceID,
		userID,
		newValue,
		createdAt.UTC().Format(time.RFC3339Nano),
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Record queues an audit entry for the chain writer. Never fails the
// caller: a queue error is logged and swallowed.
func (s *AuditServiceImpl) Record(ctx context.Context, action, resource, resourceID, userID string, oldValue, newValue interface{}) {
	entry := &models.AuditOutbox{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		UserID:     userID,
		OldValue:   marshalValue(oldValue),
		NewValue:   marshalValue(newValue),
	}
	if err := s.outboxRepo.Enqueue(ctx, entry); err != nil {
		slog.Error("Audit record dropped, enqueue failed",
			"action", action, "resource", resource, "resourceId", resourceID, "error", err)
	}
}

// DrainOutbox applies up to limit pending entries to the chain in creation
// order. Called by the outbox writer job; entries that keep failing are
// marked failed after maxOutboxRetries so one poison entry cannot stall
// the queue forever.
func (s *AuditServiceImpl) DrainOutbox(ctx context.Context, limit int) (int, error) {
	pending, err := s.outboxRepo.FindPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending audit entries: %w", err)
	}

	applied := 0
	for _, item := range pending {
		if err := s.applyEntry(ctx, item); err != nil {
			slog.Error("Audit chain append failed", "outboxId", item.ID.Hex(), "error", err)
			if rerr := s.outboxRepo.IncrementRetry(ctx, item.ID); rerr != nil {
				slog.Error("Audit outbox retry bump failed", "outboxId", item.ID.Hex(), "error", rerr)
			}
			if item.RetryCount+1 >= maxOutboxRetries {
				if ferr := s.outboxRepo.MarkFailed(ctx, item.ID); ferr != nil {
					slog.Error("Audit outbox mark-failed failed", "outboxId", item.ID.Hex(), "error", ferr)
				} else {
					slog.Warn("Audit entry dropped after repeated failures", "outboxId", item.ID.Hex())
				}
			}
			// Stop the batch: appending out of order would fork the chain
			return applied, err
		}
		if err := s.outboxRepo.MarkApplied(ctx, item.ID); err != nil {
			slog.Error("Audit outbox mark-applied failed", "outboxId", item.ID.Hex(), "error", err)
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// applyEntry links one queued record to the chain head and inserts it
func (s *AuditServiceImpl) applyEntry(ctx context.Context, item *models.AuditOutbox) error {
	previousHash := models.GenesisHash
	var sequence int64
	latest, err := s.logRepo.FindLatestHashed(ctx)
	if err == nil {
		previousHash = latest.Hash
		sequence = latest.Sequence + 1
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to read chain head: %w", err)
	}

	createdAt := time.Now().UTC()
	entry := &models.AuditLog{
		Action:       item.Action,
		Resource:     item.Resource,
		ResourceID:   item.ResourceID,
		UserID:       item.UserID,
		OldValue:     item.OldValue,
		NewValue:     item.NewValue,
		PreviousHash: previousHash,
		Sequence:     sequence,
		CreatedAt:    createdAt,
	}
	entry.Hash = ComputeEntryHash(previousHash, entry.Action, entry.Resource, entry.ResourceID, entry.UserID, entry.NewValue, createdAt)
	return s.logRepo.Insert(ctx, entry)
}

// Verify walks the whole chain in creation order. The first linkage break
// or hash mismatch decides validity; the scan keeps its position for the
// report but entries past the break carry no trust either way.
func (s *AuditServiceImpl) Verify(ctx context.Context) (*ChainVerification, error) {
	entries, err := s.logRepo.FindAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit chain: %w", err)
	}

	result := &ChainVerification{Valid: true}
	expectedPrevious := models.GenesisHash
	for _, entry := range entries {
		result.TotalChecked++
		if entry.PreviousHash != expectedPrevious {
			result.Valid = false
			result.BrokenAt = entry.ID.Hex()
			result.BrokenReason = fmt.Sprintf("chain linkage broken: previousHash %q does not match predecessor hash %q", entry.PreviousHash, expectedPrevious)
			return result, nil
		}
		recomputed := ComputeEntryHash(entry.PreviousHash, entry.Action, entry.Resource, entry.ResourceID, entry.UserID, entry.NewValue, entry.CreatedAt)
		if recomputed != entry.Hash {
			result.Valid = false
			result.BrokenAt = entry.ID.Hex()
			result.BrokenReason = "stored hash does not match recomputed hash; entry was modified after creation"
			return result, nil
		}
		expectedPrevious = entry.Hash
	}
	return result, nil
}

// GetTrail returns one resource's audit entries, oldest first
func (s *AuditServiceImpl) GetTrail(ctx context.Context, resource, resourceID string) ([]*models.AuditLog, error) {
	return s.logRepo.FindByResource(ctx, resource, resourceID)
}

// marshalValue serializes a snapshot once, at enqueue time. The serialized
// form is what gets hashed and stored, so later re-verification never
// depends on marshaling round-trips.
func marshalValue(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Audit value not serializable", "error", err)
		return ""
	}
	return string(data)
}
