package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type AuthHandler struct {
	service *services.AuthService
	ttl     int64
}

func NewAuthHandler(service *services.AuthService, ttlSeconds int64) *AuthHandler {
	return &AuthHandler{
		service: service,
		ttl:     ttlSeconds,
	}
}

type tokenRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/token", h.Token)
	}
}

func (h *AuthHandler) Token(c *gin.Context) {
	if !h.service.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "authentication is not enabled"})
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Passcode)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.ttl,
	})
}
