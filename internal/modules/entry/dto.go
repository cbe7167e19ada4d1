package entry

import "time"

type CreateEntryDTO struct {
	Date       *time.Time `json:"date"`
	Text       string     `json:"text"`
	Severity   *int       `json:"severity"`
	Medication string     `json:"medication"`
	Important  *bool      `json:"important"`
}

type UpdateEntryDTO struct {
	Date       *time.Time `json:"date"`
	Text       *string    `json:"text"`
	Severity   *int       `json:"severity"`
	Medication *string    `json:"medication"`
	Important  *bool      `json:"important"`
}
