package handlers

import (
	"net/http"

	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuditHandler handles audit chain HTTP requests
type AuditHandler struct {
	auditService services.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// VerifyChain handles GET /audit/verify. It walks the whole chain and
// reports the first broken link, if any.
func (h *AuditHandler) VerifyChain(c *gin.Context) {
	verification, err := h.auditService.Verify(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, verification)
}

// GetTrail handles GET /audit/:resource/:id
func (h *AuditHandler) GetTrail(c *gin.Context) {
	resource := c.Param("resource")
	resourceID := c.Param("id")
	if resource == "" || resourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource and id are required"})
		return
	}

	trail, err := h.auditService.GetTrail(c.Request.Context(), resource, resourceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trail)
}
