package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

const maxImportBytes = 5 << 20

type ExportHandler struct {
	store    *services.RecordStore
	observer SettingsObserver
}

func NewExportHandler(store *services.RecordStore, observer SettingsObserver) *ExportHandler {
	return &ExportHandler{
		store:    store,
		observer: observer,
	}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/export/json", h.ExportJSON)
	router.GET("/export/csv", h.ExportCSV)
	router.POST("/import", h.Import)
}

func (h *ExportHandler) attachment(c *gin.Context, ext string) {
	name := fmt.Sprintf("health-data-%s.%s", h.store.Today(), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}

func (h *ExportHandler) ExportJSON(c *gin.Context) {
	data, err := h.store.ExportJSON(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	h.attachment(c, "json")
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	doc, err := h.store.GetAll(c.Request.Context())
	if errors.Is(err, domain.ErrDocumentNotFound) {
		doc = domain.NewEmptyDocument()
	} else if err != nil {
		handleError(c, err)
		return
	}

	h.attachment(c, "csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", services.ExportCSV(doc.Entries))
}

// Import replaces the whole document. A rejected payload leaves stored data untouched.
func (h *ExportHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, services.ImportResult{Message: "import payload too large"})
		return
	}

	result := h.store.ImportJSON(c.Request.Context(), body)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	if h.observer != nil {
		h.observer.Schedule(h.store.GetSettings(c.Request.Context()))
	}
	c.JSON(http.StatusOK, result)
}
