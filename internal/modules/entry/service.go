package entry

import (
	"errors"
	"time"

	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/pkg/pagination"
	"github.com/symnote/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(q pagination.Query) ([]models.EntryModel, response.Pagination, error) {
	tx := s.db.Model(&models.EntryModel{}).
		Order("date DESC")

	var entries []models.EntryModel
	pag, err := pagination.Paginate(tx, q, &entries)
	return entries, pag, err
}

// ListRange returns all entries whose date falls inside the inclusive day
// range [startOfDay(from), endOfDay(to)], ascending by date.
func (s *Service) ListRange(from, to time.Time) ([]models.EntryModel, error) {
	start := startOfDay(from)
	end := startOfDay(to).AddDate(0, 0, 1)

	var entries []models.EntryModel
	if err := s.db.
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) GetByID(id string) (*models.EntryModel, error) {
	var e models.EntryModel
	if err := s.db.
		Preload("History", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (s *Service) Create(dto *CreateEntryDTO) (*models.EntryModel, error) {
	e := models.EntryModel{
		Date:       startOfDay(time.Now()),
		Text:       dto.Text,
		Severity:   5,
		Medication: dto.Medication,
	}
	if dto.Date != nil {
		e.Date = startOfDay(*dto.Date)
	}
	if dto.Severity != nil {
		e.Severity = *dto.Severity
	}
	if dto.Important != nil {
		e.Important = *dto.Important
	}

	if err := s.db.Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) Update(id string, dto *UpdateEntryDTO) (*models.EntryModel, error) {
	e, err := s.GetByID(id)
	if err != nil || e == nil {
		return e, err
	}

	updates := map[string]interface{}{}
	if dto.Date != nil {
		updates["date"] = startOfDay(*dto.Date)
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.Severity != nil {
		updates["severity"] = *dto.Severity
	}
	if dto.Medication != nil {
		updates["medication"] = *dto.Medication
	}
	if dto.Important != nil {
		updates["important"] = *dto.Important
	}

	if err := s.db.Model(e).Updates(updates).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// CacheAdvice writes a generated advice text onto the entry's cached fields.
func (s *Service) CacheAdvice(id, kind, text string) error {
	column := "ai_advice"
	if kind == models.AdviceKindShort {
		column = "ai_advice_short"
	}
	return s.db.Model(&models.EntryModel{}).Where("id = ?", id).
		UpdateColumn(column, text).Error
}

// Delete removes an entry and all its advice records in one transaction.
// The cascade is explicit so the invariant holds on any storage backend.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.AdviceRecordModel{}, "entry_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.EntryModel{}, "id = ?", id).Error
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
