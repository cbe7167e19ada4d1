package models

// Advice kinds stored in AdviceRecordModel.Kind.
const (
	AdviceKindFull  = "full"
	AdviceKindShort = "short"
)

// AdviceRecordModel is one generated advice text, appended per successful
// generation. Records are immutable once created; they are removed only when
// their owning entry is deleted.
type AdviceRecordModel struct {
	Base
	EntryID string  `json:"entry_id" gorm:"index;not null"`
	Kind    string  `json:"kind"     gorm:"not null"` // full | short
	Tone    *string `json:"tone,omitempty"`
	Bullets *int    `json:"bullets,omitempty"` // short only
	Model   *string `json:"model,omitempty"`
	Text    string  `json:"text"     gorm:"type:text;not null"`
}

func (AdviceRecordModel) TableName() string { return "advice_records" }
