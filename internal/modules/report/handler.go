package report

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/symnote/core/internal/modules/entry"
	"github.com/symnote/core/internal/modules/settings"
	"github.com/symnote/core/internal/pkg/response"
	"go.uber.org/zap"
)

const dateParamLayout = "2006-01-02"

type Handler struct {
	entries *entry.Service
	cfgSvc  *settings.Service
	logger  *zap.Logger
}

func NewHandler(entries *entry.Service, cfgSvc *settings.Service, logger *zap.Logger) *Handler {
	return &Handler{entries: entries, cfgSvc: cfgSvc, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/report")
	g.GET("/summary", h.summary)
	g.GET("/pdf", h.pdf)
}

// parseRange reads ?from and ?to. Missing bounds default to the last 14 days,
// matching the app's export sheet. Never fails on an empty range.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -14)
	to := now

	if raw := c.Query("from"); raw != "" {
		t, err := time.ParseInLocation(dateParamLayout, raw, time.Local)
		if err != nil {
			response.BadRequest(c, "invalid from date, want YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.ParseInLocation(dateParamLayout, raw, time.Local)
		if err != nil {
			response.BadRequest(c, "invalid to date, want YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	return from, to, true
}

func (h *Handler) summary(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	entries, err := h.entries.ListRange(from, to)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.String(http.StatusOK, BuildSummary(from, to, entries))
}

func (h *Handler) pdf(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	entries, err := h.entries.ListRange(from, to)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	cfg, err := h.cfgSvc.Get()
	if err != nil {
		// Render with defaults rather than failing the export.
		h.logger.Warn("settings unavailable, rendering PDF with defaults", zap.Error(err))
		cfg = nil
	}

	doc, err := RenderPDF(from, to, entries, cfg)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ArtifactName+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
