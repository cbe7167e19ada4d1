package advice

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/modules/entry"
	"github.com/symnote/core/internal/modules/settings"
	"github.com/symnote/core/internal/pkg/response"
	"github.com/symnote/core/internal/pkg/secret"
	"go.uber.org/zap"
)

type Handler struct {
	client  *Client
	history *History
	entries *entry.Service
	cfgSvc  *settings.Service
	secrets *secret.Store
	logger  *zap.Logger
}

func NewHandler(client *Client, history *History, entries *entry.Service, cfgSvc *settings.Service, secrets *secret.Store, logger *zap.Logger) *Handler {
	return &Handler{client: client, history: history, entries: entries, cfgSvc: cfgSvc, secrets: secrets, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/entries/:id/advice", h.generateForEntry)
	rg.POST("/advice", h.generateForRange)

	g := rg.Group("/credential")
	g.PUT("", h.setCredential)
	g.GET("", h.getCredential)
}

type generateDTO struct {
	Kind    string `json:"kind"`    // full | short, default full
	Tone    string `json:"tone"`    // polite | concise | clinician
	Bullets *int   `json:"bullets"` // short only
	Cache   bool   `json:"cache"`   // also write the entry's cached advice field
}

func (dto *generateDTO) options() Options {
	return Options{Kind: dto.Kind, Tone: Tone(dto.Tone), Bullets: dto.Bullets}
}

func (h *Handler) generateForEntry(c *gin.Context) {
	var dto generateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid advice payload")
		return
	}

	e, err := h.entries.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if e == nil {
		response.NotFound(c)
		return
	}

	cfg := h.loadSettings()
	opts := dto.options()

	text, err := h.client.GetEntryAdvice(c.Request.Context(), e, opts, cfg)
	if err != nil {
		h.adviceError(c, err)
		return
	}

	rec, err := h.recordGeneration(e.ID, opts, cfg, text)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if dto.Cache {
		if err := h.entries.CacheAdvice(e.ID, opts.kind(), text); err != nil {
			response.InternalError(c, err)
			return
		}
	}

	response.OK(c, gin.H{"text": text, "record": rec})
}

type rangeAdviceDTO struct {
	From    string `json:"from" binding:"required"` // YYYY-MM-DD
	To      string `json:"to"   binding:"required"`
	Kind    string `json:"kind"`
	Tone    string `json:"tone"`
	Bullets *int   `json:"bullets"`
}

func (h *Handler) generateForRange(c *gin.Context) {
	var dto rangeAdviceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid advice payload")
		return
	}
	from, err := time.ParseInLocation("2006-01-02", dto.From, time.Local)
	if err != nil {
		response.BadRequest(c, "invalid from date, want YYYY-MM-DD")
		return
	}
	to, err := time.ParseInLocation("2006-01-02", dto.To, time.Local)
	if err != nil {
		response.BadRequest(c, "invalid to date, want YYYY-MM-DD")
		return
	}

	entries, err := h.entries.ListRange(from, to)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	cfg := h.loadSettings()
	opts := Options{Kind: dto.Kind, Tone: Tone(dto.Tone), Bullets: dto.Bullets}

	text, err := h.client.GetAdvice(c.Request.Context(), entries, opts, cfg)
	if err != nil {
		h.adviceError(c, err)
		return
	}

	// Range summaries span entries, so no single entry owns a ledger record.
	response.OK(c, gin.H{"text": text})
}

func (h *Handler) recordGeneration(entryID string, opts Options, cfg *settings.Settings, text string) (*models.AdviceRecordModel, error) {
	tone := string(opts.tone())
	model := h.client.Model(cfg)
	var bullets *int
	if opts.kind() == models.AdviceKindShort {
		n := opts.bullets()
		bullets = &n
	}
	return h.history.Record(entryID, opts.kind(), &tone, bullets, &model, text)
}

func (h *Handler) loadSettings() *settings.Settings {
	cfg, err := h.cfgSvc.Get()
	if err != nil {
		// Defaults apply; generation still works without stored settings.
		h.logger.Warn("settings unavailable, using defaults", zap.Error(err))
		return nil
	}
	return cfg
}

func (h *Handler) adviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoAPIKey):
		response.BadRequest(c, "no API key configured; add your key in settings and retry")
	case errors.Is(err, ErrInvalidResponse):
		response.BadGateway(c, "the advice service did not answer; check your key and connection, then retry")
	default:
		response.InternalError(c, err)
	}
}

type credentialDTO struct {
	Key *string `json:"key"` // null clears the stored credential
}

func (h *Handler) setCredential(c *gin.Context) {
	var dto credentialDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid credential payload")
		return
	}
	if err := h.secrets.Set(secret.KeyAPICredential, dto.Key); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// getCredential reports only whether a key is configured; it never echoes it.
func (h *Handler) getCredential(c *gin.Context) {
	key, err := h.secrets.Get(secret.KeyAPICredential)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"configured": key != nil && *key != ""})
}
