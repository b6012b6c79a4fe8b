package handlers

import (
	"net/http"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AgentHandler handles field agent HTTP requests
type AgentHandler struct {
	agentService services.AgentService
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agentService services.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// CreateAgentRequest is the body of POST /agents
type CreateAgentRequest struct {
	UserID string `json:"userId" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Role   string `json:"role" binding:"required"`
	CaboID string `json:"caboId"`
	Area   string `json:"area"`
}

// CreateAgent handles POST /agents
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var request CreateAgentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	role := models.AgentRole(request.Role)
	switch role {
	case models.AgentRoleCobrador, models.AgentRoleCabo, models.AgentRoleCapitalista,
		models.AgentRoleBolador, models.AgentRolePagador:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent role"})
		return
	}

	agent := &models.Agent{
		UserID: userID,
		Name:   request.Name,
		Role:   role,
		Area:   request.Area,
	}
	if request.CaboID != "" {
		caboID, err := primitive.ObjectIDFromHex(request.CaboID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cabo ID format"})
			return
		}
		agent.CaboID = &caboID
	}

	created, err := h.agentService.CreateAgent(c.Request.Context(), agent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetAgentByID handles GET /agents/:id
func (h *AgentHandler) GetAgentByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	agent, err := h.agentService.GetAgentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agent)
}

// GetAgents handles GET /agents
func (h *AgentHandler) GetAgents(c *gin.Context) {
	page, limit := pagination(c)
	agents, err := h.agentService.GetAgents(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agents)
}

// UpdateAgentStatusRequest is the body of PUT /agents/:id/status
type UpdateAgentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAgentStatus handles PUT /agents/:id/status
func (h *AgentHandler) UpdateAgentStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request UpdateAgentStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.AgentStatus(request.Status)
	switch status {
	case models.AgentStatusActive, models.AgentStatusSuspended, models.AgentStatusTerminated:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent status"})
		return
	}

	agent, err := h.agentService.UpdateAgentStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agent)
}
