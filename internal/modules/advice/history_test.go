package advice

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/symnote/core/internal/database"
	"github.com/symnote/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openHistoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedEntry(t *testing.T, db *gorm.DB) *models.EntryModel {
	t.Helper()
	e := models.EntryModel{Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Severity: 5}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return &e
}

func TestHistory_RecordKeepsMetadata(t *testing.T) {
	db := openHistoryDB(t)
	h := NewHistory(db)
	e := seedEntry(t, db)

	tone := string(ToneConcise)
	model := "gpt-4o-mini"
	rec, err := h.Record(e.ID, models.AdviceKindShort, &tone, intPtr(3), &model, "rest more")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ID == "" {
		t.Error("want generated record id")
	}

	got, err := h.ListByEntry(e.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 record, got %d", len(got))
	}
	r := got[0]
	if r.Kind != models.AdviceKindShort || r.Text != "rest more" {
		t.Errorf("bad record: %+v", r)
	}
	if r.Tone == nil || *r.Tone != tone || r.Bullets == nil || *r.Bullets != 3 || r.Model == nil || *r.Model != model {
		t.Errorf("metadata must round-trip: %+v", r)
	}
}

func TestHistory_ListOldestFirst(t *testing.T) {
	db := openHistoryDB(t)
	h := NewHistory(db)
	e := seedEntry(t, db)

	texts := []string{"first", "second", "third"}
	for _, txt := range texts {
		if _, err := h.Record(e.ID, models.AdviceKindFull, nil, nil, nil, txt); err != nil {
			t.Fatalf("record %q: %v", txt, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	got, err := h.ListByEntry(e.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(texts) {
		t.Fatalf("want %d records, got %d", len(texts), len(got))
	}
	for i, txt := range texts {
		if got[i].Text != txt {
			t.Errorf("position %d: want %q, got %q", i, txt, got[i].Text)
		}
	}
}

func TestHistory_ScopedToEntry(t *testing.T) {
	db := openHistoryDB(t)
	h := NewHistory(db)
	a := seedEntry(t, db)
	b := seedEntry(t, db)

	if _, err := h.Record(a.ID, models.AdviceKindFull, nil, nil, nil, "for a"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := h.Record(b.ID, models.AdviceKindFull, nil, nil, nil, "for b"); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := h.ListByEntry(a.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Text != "for a" {
		t.Errorf("records must be scoped to their entry, got %+v", got)
	}
}

func TestHistory_EmptyWithoutRecords(t *testing.T) {
	db := openHistoryDB(t)
	h := NewHistory(db)
	e := seedEntry(t, db)

	got, err := h.ListByEntry(e.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("want no records, got %d", len(got))
	}
}
