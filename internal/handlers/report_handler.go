package handlers

import (
	"net/http"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetDrawSummary handles GET /reports/draws?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) GetDrawSummary(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date format (YYYY-MM-DD)"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date format (YYYY-MM-DD)"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return
	}

	// The service range is half-open; make the to date inclusive
	summary, err := h.reportService.DrawSummary(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAgentCommissions handles GET /reports/agents/:id/commissions
func (h *ReportHandler) GetAgentCommissions(c *gin.Context) {
	agentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	page, limit := pagination(c)
	commissions, err := h.reportService.AgentCommissions(c.Request.Context(), agentID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, commissions)
}
