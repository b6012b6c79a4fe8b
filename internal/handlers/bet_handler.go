package handlers

import (
	"net/http"

	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BetHandler exposes read-only bet listings. Bet intake itself runs
// through the field collection channel, not this API.
type BetHandler struct {
	drawService services.DrawService
}

// NewBetHandler creates a new BetHandler
func NewBetHandler(drawService services.DrawService) *BetHandler {
	return &BetHandler{drawService: drawService}
}

// GetBetsByDraw handles GET /draws/:id/bets
func (h *BetHandler) GetBetsByDraw(c *gin.Context) {
	drawID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	bets, err := h.drawService.GetBetsByDrawID(c.Request.Context(), drawID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bets)
}
