package handlers

import (
	"net/http"
	"time"

	"github.com/ejggaming/jueteng-backend/internal/models"
	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawHandler handles draw-related HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{drawService: drawService}
}

// ScheduleDrawRequest is the body of POST /draws
type ScheduleDrawRequest struct {
	DrawDate   string `json:"drawDate" binding:"required"`
	DrawType   string `json:"drawType" binding:"required"`
	ScheduleID string `json:"scheduleId" binding:"required"`
}

// ScheduleDraw handles POST /draws
func (h *DrawHandler) ScheduleDraw(c *gin.Context) {
	var request ScheduleDrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	drawDate, err := time.Parse("2006-01-02", request.DrawDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw date format (YYYY-MM-DD)"})
		return
	}

	drawType := models.DrawType(request.DrawType)
	if drawType != models.DrawTypeMorning && drawType != models.DrawTypeAfternoon && drawType != models.DrawTypeEvening {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw type"})
		return
	}

	scheduleID, err := primitive.ObjectIDFromHex(request.ScheduleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID format"})
		return
	}

	draw, err := h.drawService.ScheduleDraw(c.Request.Context(), drawDate, drawType, scheduleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, draw)
}

// OpenDraw handles POST /draws/:id/open
func (h *DrawHandler) OpenDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	draw, err := h.drawService.OpenDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draw)
}

// CloseDraw handles POST /draws/:id/close
func (h *DrawHandler) CloseDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	draw, err := h.drawService.CloseDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draw)
}

// RecordResultRequest is the body of POST /draws/:id/result
type RecordResultRequest struct {
	Number1   *int   `json:"number1" binding:"required"`
	Number2   *int   `json:"number2" binding:"required"`
	BoladorID string `json:"boladorId"`
}

// RecordResult handles POST /draws/:id/result
func (h *DrawHandler) RecordResult(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request RecordResultRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var boladorID *primitive.ObjectID
	if request.BoladorID != "" {
		oid, err := primitive.ObjectIDFromHex(request.BoladorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bolador ID format"})
			return
		}
		boladorID = &oid
	}

	draw, err := h.drawService.RecordResult(c.Request.Context(), id, *request.Number1, *request.Number2, boladorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draw)
}

// SettleDraw handles POST /draws/:id/settle
func (h *DrawHandler) SettleDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	result, err := h.drawService.SettleDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDrawByID handles GET /draws/:id
func (h *DrawHandler) GetDrawByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	draw, err := h.drawService.GetDrawByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draw)
}

// GetDraws handles GET /draws
func (h *DrawHandler) GetDraws(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		draws, err := h.drawService.GetDrawsByStatus(c.Request.Context(), models.DrawStatus(status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, draws)
		return
	}

	page, limit := pagination(c)
	draws, err := h.drawService.GetDraws(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draws)
}
