package api

import (
	"errors"
	"net/http"

	"github.com/aenrique-byte/author-microsite-sub001/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy onto HTTP statuses.
// Conflict and invalid-state both answer 409, but the kind field lets
// admin consumers tell a refused transition from a contested slot.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "not_found"})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "conflict"})
	case domain.IsInvalidState(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "invalid_state"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
