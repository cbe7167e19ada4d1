package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/modules/settings"
)

// ArtifactName is the well-known name of the exported PDF, overwritten on
// each export. The caller owns sharing and cleanup.
const ArtifactName = "symptom_summary.pdf"

const (
	pageWidth  = 595 // A4 at 72 dpi
	pageHeight = 842
	margin     = 32
	blockGap   = 10
	entryGap   = 6
)

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFWriter() *pdfWriter {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	return &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// safeLineHeight clamps a degenerate measurement to a single readable line so
// bad font metrics never poison the layout cursor.
func safeLineHeight(fontSize float64) float64 {
	h := fontSize * 1.3
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 13
	}
	return h
}

// block draws wrapped text at the cursor and advances it by the measured
// height plus the standard gap.
func (w *pdfWriter) block(text string, fontSize float64, bold bool) {
	if text == "" {
		return
	}
	style := ""
	if bold {
		style = "B"
	}
	w.pdf.SetFont("Helvetica", style, fontSize)
	lh := safeLineHeight(fontSize)
	w.pdf.MultiCell(pageWidth-2*margin, lh, w.tr(text), "", "L", false)
	w.pdf.SetY(w.pdf.GetY() + blockGap)
}

// rule draws a horizontal separator at the cursor.
func (w *pdfWriter) rule() {
	y := w.pdf.GetY()
	w.pdf.SetDrawColor(180, 180, 180)
	w.pdf.SetLineWidth(1)
	w.pdf.Line(margin, y, pageWidth-margin, y)
	w.pdf.SetY(y + 16)
}

// digestMarkerForPDF swaps the digest marker for the cp1252 bullet; the
// built-in core fonts have no glyph for the text marker.
func digestMarkerForPDF(summary string) string {
	return strings.ReplaceAll(summary, "◆", "•")
}

func pdfEntryHeader(e *models.EntryModel) string {
	head := formatDate(e.Date) + "  /  " + severityLabel(e.Severity)
	if e.Important {
		head += "  [important]"
	}
	if e.Medication != "" {
		head += "  medication: " + e.Medication
	}
	return head
}

// RenderPDF lays the range report out on A4 pages. The same ordering and
// content rules as BuildSummary apply; the AI placement mode comes from
// settings, defaulting to per-entry when settings are absent.
func RenderPDF(from, to time.Time, entries []models.EntryModel, cfg *settings.Settings) ([]byte, error) {
	w := newPDFWriter()

	w.block("Symptom Summary — for clinical use", 20, true)
	w.block("period: "+formatDate(from)+" — "+formatDate(to), 12, false)
	w.rule()

	sorted := sortedByDate(entries)

	placement := settings.PlacementPerEntry
	if cfg != nil && cfg.PDFAIPlacement != "" {
		placement = cfg.PDFAIPlacement
	}

	if placement == settings.PlacementFrontMatter {
		// An empty summary skips the whole block, separator included,
		// instead of rendering a stray empty section.
		if summary := AISummaryText(sorted); summary != "" {
			w.block("AI Summary", 16, true)
			w.block(digestMarkerForPDF(summary), 12, false)
			w.rule()
		}
	}

	if len(sorted) == 0 {
		w.block(noRecordsMarker, 13, false)
	}

	for i := range sorted {
		e := &sorted[i]
		w.block(pdfEntryHeader(e), 14, true)
		if e.Text != "" {
			w.block(e.Text, 13, false)
		}
		if placement == settings.PlacementPerEntry {
			if e.AIAdviceShort != nil && *e.AIAdviceShort != "" {
				w.block("key points (AI):\n"+*e.AIAdviceShort, 12, false)
			} else if e.AIAdvice != nil && *e.AIAdvice != "" {
				w.block("AI advice:\n"+*e.AIAdvice, 12, false)
			}
		}
		w.pdf.SetY(w.pdf.GetY() + entryGap)
	}

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePDF renders the report and overwrites the well-known temporary
// artifact, returning its path.
func WritePDF(from, to time.Time, entries []models.EntryModel, cfg *settings.Settings) (string, error) {
	doc, err := RenderPDF(from, to, entries, cfg)
	if err != nil {
		return "", err
	}
	path := filepath.Join(os.TempDir(), ArtifactName)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
