package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

const (
	bearerPrefix      = "Bearer "
	ContextProfileKey = "profileKey"
)

// Authenticator resolves a bearer token to the profile it unlocks.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// RequireProfile rejects requests without a bearer token for the served profile.
// A failed profile lookup is a 503, not a 401, so clients keep their token.
func RequireProfile(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), bearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		profileKey, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		case err != nil:
			GetLogger(c).WithError(err).Warn("token check failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
			return
		}

		c.Set(ContextProfileKey, profileKey)
		c.Next()
	}
}

func GetProfileKey(c *gin.Context) (string, bool) {
	return c.GetString(ContextProfileKey), c.GetString(ContextProfileKey) != ""
}
