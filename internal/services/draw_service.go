package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"github.com/ejggaming/jueteng-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl enforces the draw lifecycle
// SCHEDULED -> OPEN -> CLOSED -> DRAWN -> SETTLED. Every transition is a
// compare-and-set against the expected current status, so concurrent
// callers serialize and the loser sees a precondition error.
type DrawServiceImpl struct {
	drawRepo     repositories.DrawRepository
	betRepo      repositories.BetRepository
	scheduleRepo repositories.DrawScheduleRepository
	configRepo   repositories.GameConfigRepository
	settlement   *SettlementEngine
	audit        AuditService
	broadcaster  BroadcastSink
	cache        CacheInvalidator
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	drawRepo repositories.DrawRepository,
	betRepo repositories.BetRepository,
	scheduleRepo repositories.DrawScheduleRepository,
	configRepo repositories.GameConfigRepository,
	settlement *SettlementEngine,
	audit AuditService,
	broadcaster BroadcastSink,
	cache CacheInvalidator,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		drawRepo:     drawRepo,
		betRepo:      betRepo,
		scheduleRepo: scheduleRepo,
		configRepo:   configRepo,
		settlement:   settlement,
		audit:        audit,
		broadcaster:  broadcaster,
		cache:        cache,
	}
}

// ScheduleDraw creates a SCHEDULED draw for one slot on one calendar day
func (s *DrawServiceImpl) ScheduleDraw(ctx context.Context, drawDate time.Time, drawType models.DrawType, scheduleID primitive.ObjectID) (*models.Draw, error) {
	existing, err := s.drawRepo.FindByDateAndType(ctx, drawDate, drawType)
	if err == nil && existing != nil {
		slog.Warn("Attempted to schedule duplicate draw", "date", drawDate, "drawType", drawType)
		return existing, ErrDuplicateDraw
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check for existing draw: %w", err)
	}

	schedule, err := s.scheduleRepo.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load draw schedule: %w", err)
	}

	scheduledAt, err := scheduleTimeOn(drawDate, schedule.TimeOfDay)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule time %q: %w", schedule.TimeOfDay, err)
	}

	draw := &models.Draw{
		ScheduleID:  schedule.ID,
		DrawDate:    drawDate,
		DrawType:    drawType,
		ScheduledAt: scheduledAt,
		Status:      models.DrawStatusScheduled,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}

	slog.Info("Draw scheduled", "drawId", draw.ID.Hex(), "drawType", drawType, "scheduledAt", scheduledAt)
	s.audit.Record(ctx, "DRAW_SCHEDULED", "draw", draw.ID.Hex(), "", nil, draw)
	s.cache.Invalidate(ctx, "draw:*")
	return draw, nil
}

// OpenDraw transitions SCHEDULED -> OPEN
func (s *DrawServiceImpl) OpenDraw(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	now := time.Now()
	draw, err := s.drawRepo.TransitionStatus(ctx, id, models.DrawStatusScheduled, models.DrawStatusOpen, repositories.DrawUpdate{
		OpenedAt: &now,
	})
	if err != nil {
		return nil, mapTransitionErr(err)
	}

	slog.Info("Draw opened", "drawId", draw.ID.Hex())
	s.audit.Record(ctx, "DRAW_OPENED", "draw", draw.ID.Hex(), "", nil, draw)
	s.broadcaster.Broadcast("draw:opened", map[string]interface{}{
		"drawId":      draw.ID.Hex(),
		"drawType":    draw.DrawType,
		"scheduledAt": draw.ScheduledAt,
	})
	s.cache.Invalidate(ctx, "draw:*")
	return draw, nil
}

// CloseDraw transitions OPEN -> CLOSED, stopping bet intake
func (s *DrawServiceImpl) CloseDraw(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	now := time.Now()
	draw, err := s.drawRepo.TransitionStatus(ctx, id, models.DrawStatusOpen, models.DrawStatusClosed, repositories.DrawUpdate{
		ClosedAt: &now,
	})
	if err != nil {
		return nil, mapTransitionErr(err)
	}

	slog.Info("Draw closed", "drawId", draw.ID.Hex())
	s.audit.Record(ctx, "DRAW_CLOSED", "draw", draw.ID.Hex(), "", nil, draw)
	s.broadcaster.Broadcast("draw:closed", map[string]interface{}{
		"drawId":   draw.ID.Hex(),
		"closedAt": now.UTC(),
	})
	s.cache.Invalidate(ctx, "draw:*")
	return draw, nil
}

// RecordResult transitions CLOSED -> DRAWN, recording both winning numbers
// and the derived combination key in the same conditional write. The
// numbers are immutable afterwards: no transition out of DRAWN touches
// them.
func (s *DrawServiceImpl) RecordResult(ctx context.Context, id primitive.ObjectID, number1, number2 int, boladorID *primitive.ObjectID) (*models.Draw, error) {
	config, err := s.configRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoActiveConfig
		}
		return nil, fmt.Errorf("failed to load active config: %w", err)
	}

	if !utils.NumberInRange(number1, config.MinNumber, config.MaxNumber) ||
		!utils.NumberInRange(number2, config.MinNumber, config.MaxNumber) {
		return nil, ErrNumberOutOfRange
	}

	now := time.Now()
	draw, err := s.drawRepo.TransitionStatus(ctx, id, models.DrawStatusClosed, models.DrawStatusDrawn, repositories.DrawUpdate{
		DrawnAt:        &now,
		Number1:        &number1,
		Number2:        &number2,
		CombinationKey: utils.CombinationKey(number1, number2),
		BoladorID:      boladorID,
	})
	if err != nil {
		return nil, mapTransitionErr(err)
	}

	slog.Info("Draw result recorded",
		"drawId", draw.ID.Hex(), "combinationKey", draw.CombinationKey)
	s.audit.Record(ctx, "DRAW_RESULT_RECORDED", "draw", draw.ID.Hex(), "", nil, draw)
	s.cache.Invalidate(ctx, "draw:*")
	return draw, nil
}

// SettleDraw hands a DRAWN draw to the settlement engine with a config
// snapshot taken once here, so the whole run sees one consistent config.
func (s *DrawServiceImpl) SettleDraw(ctx context.Context, id primitive.ObjectID) (*SettlementResult, error) {
	draw, err := s.drawRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load draw: %w", err)
	}

	config, err := s.configRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoActiveConfig
		}
		return nil, fmt.Errorf("failed to load active config: %w", err)
	}

	result, err := s.settlement.Settle(ctx, draw, config)
	if err != nil {
		slog.Error("Settlement failed", "drawId", id.Hex(), "error", err)
		return nil, err
	}

	slog.Info("Draw settled",
		"drawId", id.Hex(),
		"winners", result.WinnerCount,
		"totalStake", result.TotalStake,
		"totalPayout", result.TotalPayout)
	return result, nil
}

// GetDrawByID retrieves a draw by ID
func (s *DrawServiceImpl) GetDrawByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	draw, err := s.drawRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return draw, nil
}

// GetDraws retrieves draws with pagination
func (s *DrawServiceImpl) GetDraws(ctx context.Context, page, limit int) ([]*models.Draw, error) {
	return s.drawRepo.FindAll(ctx, page, limit)
}

// GetDrawsByStatus retrieves draws by status
func (s *DrawServiceImpl) GetDrawsByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error) {
	return s.drawRepo.FindByStatus(ctx, status)
}

// GetBetsByDrawID retrieves all bets placed on a draw
func (s *DrawServiceImpl) GetBetsByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Bet, error) {
	return s.betRepo.FindByDrawID(ctx, drawID)
}

// mapTransitionErr translates repository-level transition failures into
// the service error taxonomy
func mapTransitionErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPreconditionFailed):
		return ErrInvalidDrawStatus
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	default:
		return err
	}
}

// scheduleTimeOn combines a calendar day with a schedule's "15:04" time
func scheduleTimeOn(date time.Time, timeOfDay string) (time.Time, error) {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
