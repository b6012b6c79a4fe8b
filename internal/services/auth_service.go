package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/config"
	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl authenticates back-office operators and issues the JWTs
// the middleware checks on mutating routes
type AuthServiceImpl struct {
	operatorRepo repositories.OperatorRepository
	cfg          *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(operatorRepo repositories.OperatorRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		operatorRepo: operatorRepo,
		cfg:          cfg,
	}
}

// Login verifies credentials and returns a signed token plus the operator
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *models.Operator, error) {
	operator, err := s.operatorRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up operator: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  operator.ID.Hex(),
		"role": operator.Role,
		"exp":  time.Now().Add(time.Second * time.Duration(s.cfg.JWT.ExpiresIn)).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	now := time.Now()
	operator.LastLoginAt = &now
	if err := s.operatorRepo.Update(ctx, operator); err != nil {
		slog.Warn("Failed to record operator login time", "operatorId", operator.ID.Hex(), "error", err)
	}

	return signed, operator, nil
}

// CreateOperator registers a back-office account with a bcrypt-hashed
// password
func (s *AuthServiceImpl) CreateOperator(ctx context.Context, email, password, name, role string) (*models.Operator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	operator := &models.Operator{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.operatorRepo.Create(ctx, operator); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	return operator, nil
}
