package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetStats)
	r.GET("/stats/score", h.GetHealthScore)
	r.GET("/stats/flags", h.GetFlags)
	r.GET("/stats/weekly", h.GetWeeklyStats)
	r.GET("/stats/dashboard", h.GetDashboard)
	r.GET("/recommendations", h.GetRecommendations)
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats(c.Request.Context()))
}

func (h *StatsHandler) GetHealthScore(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"healthScore": h.svc.HealthScore(c.Request.Context())})
}

func (h *StatsHandler) GetFlags(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Flags(c.Request.Context()))
}

func (h *StatsHandler) GetRecommendations(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Recommendations(c.Request.Context()))
}

func (h *StatsHandler) GetDashboard(c *gin.Context) {
	dash, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// GetWeeklyStats defaults to the seven days ending today.
func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	endDate := h.svc.Today()
	if s := c.Query("end_date"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected YYYY-MM-DD"})
			return
		}
		endDate = d
	}

	startDate := endDate.AddDays(-6)
	if s := c.Query("start_date"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, expected YYYY-MM-DD"})
			return
		}
		startDate = d
	}

	stats, err := h.svc.GetWeeklyStats(c.Request.Context(), domain.StatsInput{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
