// Package plan holds the rendered plan model and turns templates into
// concrete markdown documents.
package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/task"
)

// ChecklistItem is one actionable `- [ ]` line. IDs are deterministic:
// the section heading slug plus a 1-based two-digit index, so the same
// input always yields the same IDs.
type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Section is one `##` block of the finished plan. Body keeps the full
// rendered markdown including checklist lines; Checklist is the parsed
// view used for tracking and validation.
type Section struct {
	Heading   string          `json:"heading"`
	Body      string          `json:"body"`
	Checklist []ChecklistItem `json:"checklist,omitempty"`
}

// Metadata records how the plan was produced. Generation time lives only
// here, never in the plan body, so identical inputs produce identical
// bodies.
type Metadata struct {
	TemplateID       string           `json:"template_id"`
	TemplateVersion  string           `json:"template_version,omitempty"`
	Category         task.Category    `json:"category"`
	Complexity       task.Complexity  `json:"complexity"`
	Tier             environment.Tier `json:"tier"`
	EstimatedHours   float64          `json:"estimated_hours"`
	ToolsRequired    []string         `json:"tools_required,omitempty"`
	Attempts         int              `json:"attempts"`
	EnvFiltered      bool             `json:"environment_filtered"`
	RequestID        string           `json:"request_id,omitempty"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// Plan is a finished, renderable plan.
type Plan struct {
	Title    string   `json:"title"`
	Sections []Section `json:"sections"`
	Metadata Metadata  `json:"metadata"`
}

// Section returns the section with the given heading, if present.
func (p *Plan) Section(heading string) (*Section, bool) {
	for i := range p.Sections {
		if p.Sections[i].Heading == heading {
			return &p.Sections[i], true
		}
	}
	return nil, false
}

// ChecklistCount totals actionable items across sections.
func (p *Plan) ChecklistCount() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Checklist)
	}
	return n
}

// Slug lowercases a heading into an ID-safe form: "Execution Plan"
// becomes "execution-plan".
func Slug(heading string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(heading) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// itemID builds a deterministic checklist ID.
func itemID(heading string, index int) string {
	return fmt.Sprintf("%s-%02d", Slug(heading), index)
}
