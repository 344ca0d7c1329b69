package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidEntry),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidGoals),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, domain.ErrInvalidImport),
		errors.Is(err, services.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrEntryNotFound), errors.Is(err, domain.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrDocumentCorrupt):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "stored data is corrupt",
			"message": "import a backup or clear the stored data",
		})

	case errors.Is(err, domain.ErrQuotaExceeded):
		c.JSON(http.StatusInsufficientStorage, gin.H{"error": "storage quota exceeded"})

	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})

	default:
		middleware.GetLogger(c).WithError(err).Error("unhandled error")

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
	_ = c.Error(err)
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
}
