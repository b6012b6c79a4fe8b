package jobs

import (
	"context"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/services"
	"golang.org/x/exp/slog"
)

// AuditOutboxWriter drains the audit outbox into the hash chain. One
// writer runs per deployment so chain entries link in a single sequential
// order; the drain itself tolerates failures and resumes on the next tick.
type AuditOutboxWriter struct {
	audit     *services.AuditServiceImpl
	interval  time.Duration
	batchSize int
	stopCh    chan struct{}
}

// NewAuditOutboxWriter creates a new AuditOutboxWriter
func NewAuditOutboxWriter(audit *services.AuditServiceImpl, interval time.Duration, batchSize int) *AuditOutboxWriter {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &AuditOutboxWriter{
		audit:     audit,
		interval:  interval,
		batchSize: batchSize,
		stopCh:    make(chan struct{}),
	}
}

// Start runs the drain loop until the context is cancelled or Stop is called
func (w *AuditOutboxWriter) Start(ctx context.Context) {
	slog.Info("Audit outbox writer started", "interval", w.interval, "batchSize", w.batchSize)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Audit outbox writer stopped", "reason", "context cancelled")
			return
		case <-w.stopCh:
			slog.Info("Audit outbox writer stopped")
			return
		case <-ticker.C:
			if _, err := w.audit.DrainOutbox(ctx, w.batchSize); err != nil {
				// Already logged per entry; the next tick picks up where
				// the drain stopped
				continue
			}
		}
	}
}

// Stop terminates the loop
func (w *AuditOutboxWriter) Stop() {
	close(w.stopCh)
}
