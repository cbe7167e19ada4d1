// Package report renders date-range summaries of journal entries as plain
// text and as PDF. Both formats share the same content and ordering rules:
// entries ascend by date, ties keep their input order.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/symnote/core/internal/models"
)

const noRecordsMarker = "(no records)"

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func sortedByDate(entries []models.EntryModel) []models.EntryModel {
	sorted := make([]models.EntryModel, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

func severityLabel(severity int) string {
	return fmt.Sprintf("severity: %d/10", severity)
}

// entryHeader is the shared one-line serialization of an entry used by the
// text summary, the PDF and the advice prompts.
func entryHeader(e *models.EntryModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s [%s]", formatDate(e.Date), severityLabel(e.Severity))
	if e.Important {
		b.WriteString(" [important]")
	}
	if e.Medication != "" {
		b.WriteString(" medication: " + e.Medication)
	}
	return b.String()
}

// EntryLines serializes one entry for list-style output: the header line,
// plus an indented body line when the free text is non-empty.
func EntryLines(e *models.EntryModel) []string {
	lines := []string{entryHeader(e)}
	if e.Text != "" {
		lines = append(lines, "  "+e.Text)
	}
	return lines
}

// BuildSummary renders the canonical text report for the given range.
// The caller pre-filters entries to the range; ordering is re-established
// here so callers need not care.
func BuildSummary(from, to time.Time, entries []models.EntryModel) string {
	lines := []string{
		"Symptom Summary",
		fmt.Sprintf("period: %s — %s", formatDate(from), formatDate(to)),
		"",
	}
	for _, e := range sortedByDate(entries) {
		lines = append(lines, EntryLines(&e)...)
	}
	if len(entries) == 0 {
		lines = append(lines, noRecordsMarker)
	}
	return strings.Join(lines, "\n")
}

// AISummaryText joins the cached advice of each entry into the PDF
// front-matter block, ascending by date. Per entry the short advice wins over
// the full one; entries with neither contribute nothing. Returns "" when no
// entry contributes.
func AISummaryText(entries []models.EntryModel) string {
	var blocks []string
	for _, e := range sortedByDate(entries) {
		text := ""
		if e.AIAdviceShort != nil && *e.AIAdviceShort != "" {
			text = *e.AIAdviceShort
		} else if e.AIAdvice != nil && *e.AIAdvice != "" {
			text = *e.AIAdvice
		}
		if text == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("◆ %s\n%s", formatDate(e.Date), text))
	}
	return strings.Join(blocks, "\n\n")
}
