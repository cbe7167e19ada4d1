package settings

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsKey = "settings"

// PDF placement modes for generated AI content.
const (
	PlacementFrontMatter = "front-matter"
	PlacementPerEntry    = "per-entry"
)

// Settings is the per-install user configuration. Stored versions may predate
// any field here; defaults are applied once at load, not at call sites.
type Settings struct {
	AccentHex      string `json:"accent_hex"`
	TextScale      int    `json:"text_scale"` // 0 standard, 1 large, 2 x-large
	HighContrast   bool   `json:"high_contrast"`
	SimpleMode     bool   `json:"simple_mode"`
	EnableHaptics  bool   `json:"enable_haptics"`
	EnableSound    bool   `json:"enable_sound"`
	PDFAIPlacement string `json:"pdf_ai_placement"` // front-matter | per-entry
	AIModel        string `json:"ai_model"`         // empty means default at use time
	AISystemPrompt string `json:"ai_system_prompt"`
}

// Default returns the settings applied to a fresh install.
func Default() Settings {
	return Settings{
		AccentHex:      "#C19A6B",
		TextScale:      0,
		EnableHaptics:  true,
		EnableSound:    true,
		PDFAIPlacement: PlacementPerEntry,
	}
}

// Service owns the settings singleton: one logical row, created lazily on
// first access.
type Service struct {
	db  *gorm.DB
	mu  sync.RWMutex
	cur *Settings
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the current settings, loading from DB if not cached and
// persisting the defaults when no row exists yet.
func (s *Service) Get() (*Settings, error) {
	s.mu.RLock()
	if s.cur != nil {
		defer s.mu.RUnlock()
		return s.cur, nil
	}
	s.mu.RUnlock()

	return s.load()
}

func (s *Service) load() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var opt models.OptionModel
	err := s.db.Where("name = ?", settingsKey).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := Default()
		s.cur = &defaults
		if err := s.persist(&defaults); err != nil {
			return nil, err
		}
		return s.cur, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal([]byte(opt.Value), &cfg); err != nil {
		return nil, err
	}
	normalize(&cfg)
	s.cur = &cfg
	return s.cur, nil
}

// Patch merges the given partial JSON update into the current settings and
// persists the result.
func (s *Service) Patch(partial map[string]json.RawMessage) (*Settings, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}

	updated := *current
	merged, err := json.Marshal(partial)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(merged, &updated); err != nil {
		return nil, err
	}
	normalize(&updated)

	s.mu.Lock()
	s.cur = &updated
	s.mu.Unlock()

	return &updated, s.persist(&updated)
}

func normalize(cfg *Settings) {
	switch cfg.PDFAIPlacement {
	case PlacementFrontMatter, PlacementPerEntry:
	default:
		cfg.PDFAIPlacement = PlacementPerEntry
	}
	if cfg.TextScale < 0 || cfg.TextScale > 2 {
		cfg.TextScale = 0
	}
	if cfg.AccentHex == "" {
		cfg.AccentHex = Default().AccentHex
	}
}

func (s *Service) persist(cfg *Settings) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	opt := models.OptionModel{Name: settingsKey, Value: string(data)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&opt).Error
}

// Invalidate clears the in-memory cache, forcing a DB reload on next Get.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/settings")
	g.GET("", h.get)
	g.PATCH("", h.patch)
}

func (h *Handler) get(c *gin.Context) {
	cfg, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cfg)
}

func (h *Handler) patch(c *gin.Context) {
	var partial map[string]json.RawMessage
	if err := c.ShouldBindJSON(&partial); err != nil {
		response.BadRequest(c, "invalid settings payload")
		return
	}
	cfg, err := h.svc.Patch(partial)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cfg)
}
