package handlers

import (
	"net/http"

	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayoutHandler handles payout disbursement HTTP requests
type PayoutHandler struct {
	payoutService services.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService services.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// MarkPaid handles POST /payouts/:id/pay
func (h *PayoutHandler) MarkPaid(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	payout, err := h.payoutService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payout)
}

// MarkClaimed handles POST /payouts/:id/claim
func (h *PayoutHandler) MarkClaimed(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	payout, err := h.payoutService.MarkClaimed(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payout)
}

// GetPayoutsByDraw handles GET /draws/:id/payouts
func (h *PayoutHandler) GetPayoutsByDraw(c *gin.Context) {
	drawID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	payouts, err := h.payoutService.GetPayoutsByDrawID(c.Request.Context(), drawID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payouts)
}
