package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure AgentServiceImpl implements AgentService
var _ AgentService = (*AgentServiceImpl)(nil)

// AgentServiceImpl manages field agent accounts
type AgentServiceImpl struct {
	agentRepo repositories.AgentRepository
	audit     AuditService
}

// NewAgentService creates a new AgentServiceImpl
func NewAgentService(agentRepo repositories.AgentRepository, audit AuditService) *AgentServiceImpl {
	return &AgentServiceImpl{
		agentRepo: agentRepo,
		audit:     audit,
	}
}

// CreateAgent registers a new agent
func (s *AgentServiceImpl) CreateAgent(ctx context.Context, agent *models.Agent) (*models.Agent, error) {
	switch agent.Role {
	case models.AgentRoleCobrador, models.AgentRoleCabo, models.AgentRoleCapitalista,
		models.AgentRoleBolador, models.AgentRolePagador:
	default:
		return nil, fmt.Errorf("unknown agent role %q", agent.Role)
	}
	if agent.Status == "" {
		agent.Status = models.AgentStatusActive
	}
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	s.audit.Record(ctx, "AGENT_CREATED", "agent", agent.ID.Hex(), "", nil, agent)
	return agent, nil
}

// GetAgentByID retrieves an agent by ID
func (s *AgentServiceImpl) GetAgentByID(ctx context.Context, id primitive.ObjectID) (*models.Agent, error) {
	agent, err := s.agentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return agent, nil
}

// GetAgents retrieves agents with pagination
func (s *AgentServiceImpl) GetAgents(ctx context.Context, page, limit int) ([]*models.Agent, error) {
	return s.agentRepo.FindAll(ctx, page, limit)
}

// UpdateAgentStatus changes an agent's standing
func (s *AgentServiceImpl) UpdateAgentStatus(ctx context.Context, id primitive.ObjectID, status models.AgentStatus) (*models.Agent, error) {
	agent, err := s.GetAgentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *agent
	agent.Status = status
	if err := s.agentRepo.Update(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}
	s.audit.Record(ctx, "AGENT_STATUS_CHANGED", "agent", agent.ID.Hex(), "", &before, agent)
	return agent, nil
}
