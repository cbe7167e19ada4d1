package models

import "time"

// EntryModel is one day's symptom journal entry.
// Severity is whatever the editing surface stored; display code treats the
// 0..10 range defensively and must not assume it.
type EntryModel struct {
	Base
	Date       time.Time `json:"date"       gorm:"index;not null"`
	Text       string    `json:"text"       gorm:"type:text"`
	Severity   int       `json:"severity"   gorm:"default:5"`
	Medication string    `json:"medication"`
	Important  bool      `json:"important"  gorm:"default:false"`

	// Cached advice from the most recent generation the user chose to keep.
	AIAdvice      *string `json:"ai_advice,omitempty"       gorm:"type:text"`
	AIAdviceShort *string `json:"ai_advice_short,omitempty" gorm:"type:text"`

	History []AdviceRecordModel `json:"history,omitempty" gorm:"foreignKey:EntryID"`
}

func (EntryModel) TableName() string { return "entries" }
