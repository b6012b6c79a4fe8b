package handlers

import (
	"net/http"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameConfigHandler handles game configuration HTTP requests
type GameConfigHandler struct {
	configService services.GameConfigService
}

// NewGameConfigHandler creates a new GameConfigHandler
func NewGameConfigHandler(configService services.GameConfigService) *GameConfigHandler {
	return &GameConfigHandler{configService: configService}
}

// CreateConfigRequest is the body of POST /configs
type CreateConfigRequest struct {
	Name             string  `json:"name" binding:"required"`
	MinNumber        int     `json:"minNumber"`
	MaxNumber        int     `json:"maxNumber" binding:"required"`
	PayoutMultiplier float64 `json:"payoutMultiplier" binding:"required"`
	MinBetAmount     float64 `json:"minBetAmount"`
	MaxBetAmount     float64 `json:"maxBetAmount"`
	CobradorRate     float64 `json:"cobradorRate"`
	CaboRate         float64 `json:"caboRate"`
	CapitalistaRate  float64 `json:"capitalistaRate"`
	GovernmentRate   float64 `json:"governmentRate"`
	Currency         string  `json:"currency"`
}

// CreateConfig handles POST /configs
func (h *GameConfigHandler) CreateConfig(c *gin.Context) {
	var request CreateConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.MinNumber < 1 || request.MaxNumber <= request.MinNumber {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid number range"})
		return
	}

	config := &models.GameConfig{
		Name:             request.Name,
		MinNumber:        request.MinNumber,
		MaxNumber:        request.MaxNumber,
		PayoutMultiplier: request.PayoutMultiplier,
		MinBetAmount:     request.MinBetAmount,
		MaxBetAmount:     request.MaxBetAmount,
		CobradorRate:     request.CobradorRate,
		CaboRate:         request.CaboRate,
		CapitalistaRate:  request.CapitalistaRate,
		GovernmentRate:   request.GovernmentRate,
		Currency:         request.Currency,
	}

	created, err := h.configService.CreateConfig(c.Request.Context(), config)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ActivateConfig handles POST /configs/:id/activate
func (h *GameConfigHandler) ActivateConfig(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	config, err := h.configService.ActivateConfig(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

// GetActiveConfig handles GET /configs/active
func (h *GameConfigHandler) GetActiveConfig(c *gin.Context) {
	config, err := h.configService.GetActiveConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

// GetConfigs handles GET /configs
func (h *GameConfigHandler) GetConfigs(c *gin.Context) {
	configs, err := h.configService.GetConfigs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, configs)
}
