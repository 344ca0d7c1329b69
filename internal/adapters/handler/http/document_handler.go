package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

// SettingsObserver is told whenever stored settings may have changed.
type SettingsObserver interface {
	Schedule(settings domain.Settings)
}

type DocumentHandler struct {
	store    *services.RecordStore
	observer SettingsObserver
}

func NewDocumentHandler(store *services.RecordStore, observer SettingsObserver) *DocumentHandler {
	return &DocumentHandler{
		store:    store,
		observer: observer,
	}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/document", h.GetDocument)
	router.PUT("/document", h.ReplaceDocument)
	router.GET("/goals", h.GetGoals)
	router.PUT("/goals", h.UpdateGoals)
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)
	router.GET("/user", h.GetUser)
	router.PATCH("/user", h.UpdateUser)
}

func (h *DocumentHandler) notify(settings domain.Settings) {
	if h.observer != nil {
		h.observer.Schedule(settings)
	}
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) ReplaceDocument(c *gin.Context) {
	// Omitted sections keep their defaults; entries must still be sent explicitly.
	doc := domain.NewEmptyDocument()
	doc.Entries = nil
	if err := c.ShouldBindJSON(doc); err != nil {
		bindError(c, err)
		return
	}
	if doc.Entries == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entries must be an array"})
		return
	}

	if err := h.store.SaveAll(c.Request.Context(), doc); err != nil {
		handleError(c, err)
		return
	}
	h.notify(doc.Settings)

	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) GetGoals(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetGoals(c.Request.Context()))
}

func (h *DocumentHandler) UpdateGoals(c *gin.Context) {
	var goals domain.Goals
	if err := c.ShouldBindJSON(&goals); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.store.UpdateGoals(c.Request.Context(), goals)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DocumentHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetSettings(c.Request.Context()))
}

func (h *DocumentHandler) UpdateSettings(c *gin.Context) {
	var settings domain.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.store.UpdateSettings(c.Request.Context(), settings)
	if err != nil {
		handleError(c, err)
		return
	}
	h.notify(updated)

	c.JSON(http.StatusOK, updated)
}

func (h *DocumentHandler) GetUser(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetUser(c.Request.Context()))
}

// UpdateUser merges the body into the profile; null removes a field.
func (h *DocumentHandler) UpdateUser(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.store.UpdateUser(c.Request.Context(), fields)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
