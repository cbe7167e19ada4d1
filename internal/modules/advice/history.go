package advice

import (
	"github.com/symnote/core/internal/models"
	"gorm.io/gorm"
)

// History is the append-only ledger of generated advice. Records are never
// updated or deduplicated; they disappear only with their owning entry.
type History struct {
	db *gorm.DB
}

func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Record appends one ledger entry for a successful generation.
func (h *History) Record(entryID, kind string, tone *string, bullets *int, model *string, text string) (*models.AdviceRecordModel, error) {
	rec := models.AdviceRecordModel{
		EntryID: entryID,
		Kind:    kind,
		Tone:    tone,
		Bullets: bullets,
		Model:   model,
		Text:    text,
	}
	if err := h.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByEntry returns an entry's records, oldest first.
func (h *History) ListByEntry(entryID string) ([]models.AdviceRecordModel, error) {
	var records []models.AdviceRecordModel
	if err := h.db.
		Where("entry_id = ?", entryID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
