package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"github.com/ejggaming/jueteng-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// ClosureScheduler closes OPEN draws once their betting cutoff has passed.
// It ticks at least once per minute and is idempotent at the scheduler
// level: losing a close race to another caller is logged, not escalated.
type ClosureScheduler struct {
	drawRepo     repositories.DrawRepository
	scheduleRepo repositories.DrawScheduleRepository
	drawService  services.DrawService
	interval     time.Duration
	stopCh       chan struct{}
}

// NewClosureScheduler creates a new ClosureScheduler
func NewClosureScheduler(
	drawRepo repositories.DrawRepository,
	scheduleRepo repositories.DrawScheduleRepository,
	drawService services.DrawService,
	interval time.Duration,
) *ClosureScheduler {
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	return &ClosureScheduler{
		drawRepo:     drawRepo,
		scheduleRepo: scheduleRepo,
		drawService:  drawService,
		interval:     interval,
		stopCh:       make(chan struct{}),
	}
}

// Start runs the tick loop until the context is cancelled or Stop is called
func (s *ClosureScheduler) Start(ctx context.Context) {
	slog.Info("Closure scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Closure scheduler stopped", "reason", "context cancelled")
			return
		case <-s.stopCh:
			slog.Info("Closure scheduler stopped")
			return
		case <-ticker.C:
			s.closeDueDraws(ctx)
		}
	}
}

// Stop terminates the loop
func (s *ClosureScheduler) Stop() {
	close(s.stopCh)
}

// closeDueDraws closes every OPEN draw whose cutoff has passed
func (s *ClosureScheduler) closeDueDraws(ctx context.Context) {
	open, err := s.drawRepo.FindByStatus(ctx, models.DrawStatusOpen)
	if err != nil {
		slog.Error("Closure scheduler failed to list open draws", "error", err)
		return
	}

	now := time.Now()
	schedules := make(map[primitive.ObjectID]*models.DrawSchedule)
	for _, draw := range open {
		schedule, ok := schedules[draw.ScheduleID]
		if !ok {
			schedule, err = s.scheduleRepo.FindByID(ctx, draw.ScheduleID)
			if err != nil {
				slog.Error("Closure scheduler failed to load schedule",
					"drawId", draw.ID.Hex(), "scheduleId", draw.ScheduleID.Hex(), "error", err)
				continue
			}
			schedules[draw.ScheduleID] = schedule
		}

		if now.Before(draw.CutoffAt(schedule)) {
			continue
		}

		if _, err := s.drawService.CloseDraw(ctx, draw.ID); err != nil {
			if errors.Is(err, services.ErrInvalidDrawStatus) {
				// Someone else closed it between the list and the call
				slog.Debug("Draw already closed", "drawId", draw.ID.Hex())
				continue
			}
			slog.Error("Closure scheduler failed to close draw", "drawId", draw.ID.Hex(), "error", err)
			continue
		}
		slog.Info("Draw closed by cutoff", "drawId", draw.ID.Hex(), "cutoff", draw.CutoffAt(schedule))
	}
}
