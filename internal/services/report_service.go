package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure ReportServiceImpl implements ReportService
var _ ReportService = (*ReportServiceImpl)(nil)

// ReportServiceImpl is the read-only reporting model: it aggregates
// settled draws and reads the audit chain, and performs no mutation.
type ReportServiceImpl struct {
	drawRepo       repositories.DrawRepository
	commissionRepo repositories.CommissionRepository
	audit          AuditService
}

// NewReportService creates a new ReportServiceImpl
func NewReportService(
	drawRepo repositories.DrawRepository,
	commissionRepo repositories.CommissionRepository,
	audit AuditService,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		drawRepo:       drawRepo,
		commissionRepo: commissionRepo,
		audit:          audit,
	}
}

// DrawSummary aggregates all settled draws in [from, to)
func (s *ReportServiceImpl) DrawSummary(ctx context.Context, from, to time.Time) (*DrawSummary, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("invalid report range: %s is not before %s", from, to)
	}
	draws, err := s.drawRepo.FindSettledByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled draws: %w", err)
	}

	summary := &DrawSummary{From: from, To: to}
	for _, draw := range draws {
		summary.DrawCount++
		summary.TotalBets += draw.TotalBets
		summary.TotalStake += draw.TotalStake
		summary.TotalPayout += draw.TotalPayout
		summary.GrossProfit += draw.GrossProfit
	}
	return summary, nil
}

// AgentCommissions lists one agent's commissions with pagination
func (s *ReportServiceImpl) AgentCommissions(ctx context.Context, agentID primitive.ObjectID, page, limit int) ([]*models.Commission, error) {
	return s.commissionRepo.FindByAgentID(ctx, agentID, page, limit)
}

// VerifyAuditChain runs the chain verification pass
func (s *ReportServiceImpl) VerifyAuditChain(ctx context.Context) (*ChainVerification, error) {
	return s.audit.Verify(ctx)
}
