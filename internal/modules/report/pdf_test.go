package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/modules/settings"
)

func TestRenderPDF_ProducesDocument(t *testing.T) {
	entries := []models.EntryModel{
		{Date: day(t, "2026-03-01"), Text: "headache all day", Severity: 6, Medication: "ibuprofen"},
	}

	doc, err := RenderPDF(day(t, "2026-03-01"), day(t, "2026-03-07"), entries, nil)
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("want non-empty document")
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", doc[:8])
	}
}

func TestRenderPDF_EmptyRange(t *testing.T) {
	doc, err := RenderPDF(day(t, "2026-03-01"), day(t, "2026-03-07"), nil, nil)
	if err != nil {
		t.Fatalf("RenderPDF failed on empty range: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("empty range must still yield a valid document")
	}
}

func TestRenderPDF_PerEntryAdviceGrowsDocument(t *testing.T) {
	base := models.EntryModel{Date: day(t, "2026-03-01"), Text: "dizzy in the morning", Severity: 4}
	withAdvice := base
	withAdvice.AIAdviceShort = strPtr("hydrate regularly\nrest before noon\navoid sudden standing")

	plain, err := RenderPDF(day(t, "2026-03-01"), day(t, "2026-03-01"), []models.EntryModel{base}, nil)
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	advised, err := RenderPDF(day(t, "2026-03-01"), day(t, "2026-03-01"), []models.EntryModel{withAdvice}, nil)
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}

	if len(advised) <= len(plain) {
		t.Errorf("cached advice should grow the document: plain=%d advised=%d", len(plain), len(advised))
	}
}

func TestRenderPDF_FrontMatterPlacement(t *testing.T) {
	cfg := settings.Default()
	cfg.PDFAIPlacement = settings.PlacementFrontMatter

	entries := []models.EntryModel{
		{Date: day(t, "2026-03-02"), Text: "better", AIAdviceShort: strPtr("keep current routine")},
	}

	frontMatter, err := RenderPDF(day(t, "2026-03-01"), day(t, "2026-03-07"), entries, &cfg)
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}

	// With nothing cached the front block and its separator are skipped,
	// so the document shrinks.
	bare := []models.EntryModel{{Date: day(t, "2026-03-02"), Text: "better"}}
	withoutBlock, err := RenderPDF(day(t, "2026-03-01"), day(t, "2026-03-07"), bare, &cfg)
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if len(frontMatter) <= len(withoutBlock) {
		t.Errorf("front-matter block should grow the document: with=%d without=%d", len(frontMatter), len(withoutBlock))
	}
}

func TestRenderPDF_LongUnbrokenText(t *testing.T) {
	long := bytes.Repeat([]byte("verylongunbrokenrun"), 400)
	entries := []models.EntryModel{
		{Date: day(t, "2026-03-01"), Text: string(long), Severity: 2},
	}

	doc, err := RenderPDF(day(t, "2026-03-01"), day(t, "2026-03-01"), entries, nil)
	if err != nil {
		t.Fatalf("RenderPDF failed on long text: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("long text must not break layout")
	}
}

func TestSafeLineHeight(t *testing.T) {
	if h := safeLineHeight(13); h <= 0 {
		t.Errorf("want positive height, got %v", h)
	}
	for _, bad := range []float64{0, -4} {
		if h := safeLineHeight(bad); h != 13 {
			t.Errorf("safeLineHeight(%v) = %v, want fallback 13", bad, h)
		}
	}
}

func TestDigestMarkerForPDF(t *testing.T) {
	entries := []models.EntryModel{
		{Date: day(t, "2026-03-01"), AIAdviceShort: strPtr("rest more")},
		{Date: day(t, "2026-03-02"), AIAdvice: strPtr("stay hydrated")},
	}

	got := digestMarkerForPDF(AISummaryText(entries))
	if strings.Contains(got, "◆") {
		t.Errorf("marker without a core-font glyph must not reach the page: %q", got)
	}
	if strings.Count(got, "•") != 2 {
		t.Errorf("want one bullet per digest line, got %q", got)
	}
	if !strings.Contains(got, "rest more") || !strings.Contains(got, "stay hydrated") {
		t.Errorf("digest text must survive the swap: %q", got)
	}
}

func TestWritePDF_OverwritesArtifact(t *testing.T) {
	first := []models.EntryModel{
		{Date: day(t, "2026-03-01"), Text: "headache", Severity: 6},
	}
	second := append(first, models.EntryModel{
		Date: day(t, "2026-03-02"), Text: "worse today, barely slept", Severity: 8,
	})

	path, err := WritePDF(day(t, "2026-03-01"), day(t, "2026-03-07"), first, nil)
	if err != nil {
		t.Fatalf("WritePDF failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	if filepath.Base(path) != ArtifactName {
		t.Errorf("artifact must keep its well-known name, got %q", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	firstSize := info.Size()

	again, err := WritePDF(day(t, "2026-03-01"), day(t, "2026-03-07"), second, nil)
	if err != nil {
		t.Fatalf("second WritePDF failed: %v", err)
	}
	if again != path {
		t.Errorf("repeat exports must reuse the same path, got %q and %q", path, again)
	}
	info, err = os.Stat(path)
	if err != nil {
		t.Fatalf("stat after overwrite: %v", err)
	}
	if info.Size() <= firstSize {
		t.Errorf("overwrite must replace the artifact, size stayed at %d", info.Size())
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Errorf("artifact is not a PDF document")
	}
}
