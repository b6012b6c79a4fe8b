package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ejggaming/jueteng-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// respondError maps a domain error onto the HTTP taxonomy. Lifecycle
// precondition violations are 422: the request was well-formed but the
// resource is not in a state that permits the operation.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, services.ErrInvalidDrawStatus),
		errors.Is(err, services.ErrMissingResult),
		errors.Is(err, services.ErrAlreadySettled),
		errors.Is(err, services.ErrBetAlreadyResolved),
		errors.Is(err, services.ErrInvalidPayout):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoActiveConfig):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNumberOutOfRange),
		errors.Is(err, services.ErrDuplicateDraw),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// pagination reads page/limit query parameters with sane bounds
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
