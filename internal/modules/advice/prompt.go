// Package advice builds prompts for the completion endpoint, performs the
// call, and keeps the per-entry generation ledger.
package advice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/modules/report"
)

// Tone selects the style instruction embedded in the prompt.
type Tone string

const (
	TonePolite    Tone = "polite"
	ToneConcise   Tone = "concise"
	ToneClinician Tone = "clinician"
)

const defaultBullets = 5

// Options control what kind of advice a prompt asks for.
type Options struct {
	Tone    Tone
	Kind    string // models.AdviceKindFull | models.AdviceKindShort
	Bullets *int   // short only, default 5
}

func (o Options) tone() Tone {
	switch o.Tone {
	case TonePolite, ToneConcise, ToneClinician:
		return o.Tone
	}
	return TonePolite
}

func (o Options) kind() string {
	if o.Kind == models.AdviceKindShort {
		return models.AdviceKindShort
	}
	return models.AdviceKindFull
}

func (o Options) bullets() int {
	if o.Bullets != nil && *o.Bullets > 0 {
		return *o.Bullets
	}
	return defaultBullets
}

func stylePhrase(t Tone) string {
	switch t {
	case ToneConcise:
		return "concisely, in short plain sentences"
	case ToneClinician:
		return "for clinicians, using appropriate medical terminology, concise and precise"
	default:
		return "in a polite, plain style a layperson can follow"
	}
}

func purposePhrase(kind string) string {
	if kind == models.AdviceKindShort {
		return "a bullet-point summary of only the key points"
	}
	return "an evaluation of the symptoms and advice"
}

func kindInstruction(o Options) string {
	if o.kind() == models.AdviceKindShort {
		return fmt.Sprintf("Use at most %d bullet points, one sentence of roughly 60 characters per line, and skip any preamble.", o.bullets())
	}
	return "Include the key points and actionable advice. Do not diagnose; urge seeing a doctor in urgent cases."
}

// BuildPrompt serializes a list of entries into a single advice prompt,
// ascending by date regardless of input order.
func BuildPrompt(entries []models.EntryModel, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful health assistant. Read the symptom journal below and produce %s. Write %s.\n",
		purposePhrase(opts.kind()), stylePhrase(opts.tone()))
	b.WriteString(kindInstruction(opts) + "\n\n")

	sorted := make([]models.EntryModel, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	for i := range sorted {
		for _, line := range report.EntryLines(&sorted[i]) {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// BuildEntryPrompt serializes a single entry with explicit field lines.
func BuildEntryPrompt(e *models.EntryModel, opts Options) string {
	lines := []string{
		fmt.Sprintf("The following is a patient's symptom journal entry. Provide %s. Write %s.",
			purposePhrase(opts.kind()), stylePhrase(opts.tone())),
		"date: " + e.Date.Format("Jan 2, 2006"),
		fmt.Sprintf("severity: %d/10", e.Severity),
	}
	if e.Medication != "" {
		lines = append(lines, "medication: "+e.Medication)
	}
	if e.Text != "" {
		lines = append(lines, "text: "+e.Text)
	}
	lines = append(lines, kindInstruction(opts))
	return strings.Join(lines, "\n")
}
