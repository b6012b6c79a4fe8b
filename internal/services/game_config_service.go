package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure GameConfigServiceImpl implements GameConfigService
var _ GameConfigService = (*GameConfigServiceImpl)(nil)

// GameConfigServiceImpl manages game configurations. Configs are created
// inactive and switched with Activate, which keeps exactly one active at a
// time. Settlement never reads through this service mid-run; it takes a
// snapshot up front.
type GameConfigServiceImpl struct {
	configRepo repositories.GameConfigRepository
	audit      AuditService
}

// NewGameConfigService creates a new GameConfigServiceImpl
func NewGameConfigService(configRepo repositories.GameConfigRepository, audit AuditService) *GameConfigServiceImpl {
	return &GameConfigServiceImpl{
		configRepo: configRepo,
		audit:      audit,
	}
}

// CreateConfig creates a new, inactive game config
func (s *GameConfigServiceImpl) CreateConfig(ctx context.Context, config *models.GameConfig) (*models.GameConfig, error) {
	if config.MinNumber < 1 || config.MaxNumber <= config.MinNumber {
		return nil, fmt.Errorf("%w: number range [%d, %d]", ErrNumberOutOfRange, config.MinNumber, config.MaxNumber)
	}
	if config.PayoutMultiplier <= 0 {
		return nil, ErrInvalidAmount
	}
	for _, rate := range []float64{config.CobradorRate, config.CaboRate, config.CapitalistaRate, config.GovernmentRate} {
		if rate < 0 || rate > 1 {
			return nil, fmt.Errorf("commission rates must be fractions in [0,1], got %v", rate)
		}
	}

	config.IsActive = false
	if err := s.configRepo.Create(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to create game config: %w", err)
	}
	s.audit.Record(ctx, "CONFIG_CREATED", "game_config", config.ID.Hex(), "", nil, config)
	return config, nil
}

// ActivateConfig flags one config active and deactivates the rest
func (s *GameConfigServiceImpl) ActivateConfig(ctx context.Context, id primitive.ObjectID) (*models.GameConfig, error) {
	previous, err := s.configRepo.FindActive(ctx)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load active config: %w", err)
	}

	if err := s.configRepo.Activate(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to activate config: %w", err)
	}

	activated, err := s.configRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slog.Info("Game config activated", "configId", id.Hex(), "name", activated.Name)
	s.audit.Record(ctx, "CONFIG_ACTIVATED", "game_config", id.Hex(), "", previous, activated)
	return activated, nil
}

// GetActiveConfig returns the single active config
func (s *GameConfigServiceImpl) GetActiveConfig(ctx context.Context) (*models.GameConfig, error) {
	config, err := s.configRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoActiveConfig
		}
		return nil, err
	}
	return config, nil
}

// GetConfigs returns all configs, newest first
func (s *GameConfigServiceImpl) GetConfigs(ctx context.Context) ([]*models.GameConfig, error) {
	return s.configRepo.FindAll(ctx)
}
