package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

const maxLastDays = 3650

type EntryHandler struct {
	store *services.RecordStore
}

func NewEntryHandler(store *services.RecordStore) *EntryHandler {
	return &EntryHandler{
		store: store,
	}
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.GET("", h.List)
		entries.POST("", h.Create)
		entries.GET("/:date", h.Get)
		entries.PUT("/:date", h.Upsert)
		entries.DELETE("/:date", h.Delete)
	}
}

// List serves ?last=N, ?from=&to= (either bound optional) or, with no query, every entry.
func (h *EntryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if lastStr := c.Query("last"); lastStr != "" {
		n, err := strconv.Atoi(lastStr)
		if err != nil || n > maxLastDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "last must be an integer up to 3650"})
			return
		}
		entries, err := h.store.GetLastNDays(ctx, n)
		if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(entries))
		return
	}

	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" && toStr == "" {
		doc, err := h.store.GetAll(ctx)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			c.JSON(http.StatusOK, []domain.Entry{})
			return
		}
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc.Entries)
		return
	}

	from := domain.NewDate(1, 1, 1)
	to := domain.NewDate(9999, 12, 31)
	var err error
	if fromStr != "" {
		if from, err = domain.ParseDate(fromStr); err != nil {
			handleError(c, err)
			return
		}
	}
	if toStr != "" {
		if to, err = domain.ParseDate(toStr); err != nil {
			handleError(c, err)
			return
		}
	}

	entries, err := h.store.GetEntriesInRange(ctx, from, to)
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(entries))
}

func (h *EntryHandler) Get(c *gin.Context) {
	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	entry, err := h.store.GetEntryByDate(c.Request.Context(), date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) Create(c *gin.Context) {
	var entry domain.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		bindError(c, err)
		return
	}

	saved, err := h.store.SaveEntry(c.Request.Context(), entry)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// Upsert takes the date from the path; a body date, if present, must match it.
func (h *EntryHandler) Upsert(c *gin.Context) {
	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	var entry domain.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		bindError(c, err)
		return
	}
	if !entry.Date.IsZero() && !entry.Date.Equal(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body date does not match path date"})
		return
	}
	entry.Date = date

	saved, err := h.store.SaveEntry(c.Request.Context(), entry)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

func (h *EntryHandler) Delete(c *gin.Context) {
	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.store.DeleteEntry(c.Request.Context(), date); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func nonNil(entries []domain.Entry) []domain.Entry {
	if entries == nil {
		return []domain.Entry{}
	}
	return entries
}
