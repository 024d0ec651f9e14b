// internal/interfaces/http/handlers/responses.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/pkg/apperrors"
)

// respondError maps a domain error onto its HTTP status. Internal
// causes stay server-side; the client only sees the message.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		body := gin.H{"error": appErr.Message}
		if appErr.Kind == apperrors.KindInternal {
			_ = c.Error(err)
		}
		c.JSON(appErr.StatusCode(), body)
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}

// respondBindError reports a malformed request body or query string.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
