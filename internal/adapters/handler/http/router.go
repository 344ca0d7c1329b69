package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	DocumentHandler *DocumentHandler
	EntryHandler    *EntryHandler
	StatsHandler    *StatsHandler
	ExportHandler   *ExportHandler

	// AuthService guards /api/v1 when a passcode is configured.
	AuthService *services.AuthService

	Redis     *redis.Client
	RateLimit int

	HealthCheck  func(ctx context.Context) error
	DefaultsPath string
	StartTime    time.Time
	Logger       logrus.FieldLogger
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, 1*time.Minute, log))
	}

	router.GET("/health", func(c *gin.Context) {
		storageStatus := "connected"
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.Request.Context()); err != nil {
				log.WithError(err).Warn("health check failed")
				storageStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		status := "ok"
		if storageStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":  status,
			"storage": storageStatus,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	})

	if deps.DefaultsPath != "" {
		router.StaticFile("/data/default.json", deps.DefaultsPath)
	}

	apiV1 := router.Group("/api/v1")

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(apiV1)
	}

	protected := apiV1.Group("")
	if deps.AuthService != nil && deps.AuthService.Enabled() {
		protected.Use(middleware.RequireProfile(deps.AuthService))
	}
	{
		deps.DocumentHandler.RegisterRoutes(protected)
		deps.EntryHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
		deps.ExportHandler.RegisterRoutes(protected)
	}

	return router
}
