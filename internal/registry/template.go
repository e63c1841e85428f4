// Package registry loads, stores, and selects plan templates. Templates
// are markdown files with YAML frontmatter; the registry holds them
// immutably after load and answers candidate queries by category and
// complexity.
package registry

import (
	"fmt"

	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/task"
)

// SlotSource names where a slot's value comes from at render time.
type SlotSource string

const (
	SourceTask        SlotSource = "task"        // task attribute or field
	SourceEnvironment SlotSource = "environment" // profile field
	SourceTier        SlotSource = "tier"        // per-tier variant table
)

// SlotSpec declares how one {{placeholder}} is filled.
type SlotSpec struct {
	Source   SlotSource        `yaml:"source"`
	Key      string            `yaml:"key,omitempty"`
	Variants map[string]string `yaml:"variants,omitempty"`
	Default  string            `yaml:"default,omitempty"`
}

// ComplexityRange bounds the complexities a template serves, inclusive.
type ComplexityRange struct {
	Min task.Complexity
	Max task.Complexity
}

// Span is the width of the range; narrower templates win selection ties.
func (r ComplexityRange) Span() int {
	return int(r.Max) - int(r.Min)
}

func (r ComplexityRange) Contains(c task.Complexity) bool {
	return c >= r.Min && c <= r.Max
}

// CategoryAny marks a template as applicable to every task category.
const CategoryAny = task.Category("any")

// Requirements gate a template on the host environment. List fields are
// containment checks: every named tool or language must be present.
type Requirements struct {
	AITools   []string `yaml:"requires_ai"`
	Languages []string `yaml:"requires_languages"`
	MinRAMGB  int      `yaml:"min_ram_gb"`
}

// Section is one `##` block of template body, raw markdown with
// {{placeholders}} still unresolved.
type Section struct {
	Heading string
	Body    string
}

// Template is an immutable plan template.
type Template struct {
	ID             string
	Version        string
	Name           string
	Category       task.Category
	Range          ComplexityRange
	Priority       int
	EstimatedHours float64
	Requires       Requirements
	Slots          map[string]SlotSpec
	Sections       []Section

	// Source is the file it was loaded from, empty for built-ins.
	Source string
}

// Matches reports whether the template serves the given classification.
// An "any" category template matches every category.
func (t *Template) Matches(cat task.Category, cx task.Complexity) bool {
	if t.Category != CategoryAny && t.Category != cat {
		return false
	}
	return t.Range.Contains(cx)
}

// Applicable evaluates the environment gate. A template with no
// requirements is applicable everywhere.
func (t *Template) Applicable(p *environment.Profile) bool {
	for _, tool := range t.Requires.AITools {
		if !p.HasAITool(tool) {
			return false
		}
	}
	for _, lang := range t.Requires.Languages {
		if !p.HasLanguage(lang) {
			return false
		}
	}
	if t.Requires.MinRAMGB > 0 && p.RAMTotalGB() < t.Requires.MinRAMGB {
		return false
	}
	return true
}

// Validate checks structural invariants after load.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template missing id")
	}
	if _, ok := task.ParseCategory(string(t.Category)); !ok && t.Category != CategoryAny {
		return fmt.Errorf("template %s: unknown category %q", t.ID, t.Category)
	}
	if t.Range.Min > t.Range.Max {
		return fmt.Errorf("template %s: complexity min %s exceeds max %s", t.ID, t.Range.Min, t.Range.Max)
	}
	if len(t.Sections) == 0 {
		return fmt.Errorf("template %s: no sections", t.ID)
	}
	for name, slot := range t.Slots {
		switch slot.Source {
		case SourceTask, SourceEnvironment:
			if slot.Key == "" {
				return fmt.Errorf("template %s: slot %s has no key", t.ID, name)
			}
		case SourceTier:
			if len(slot.Variants) == 0 {
				return fmt.Errorf("template %s: tier slot %s has no variants", t.ID, name)
			}
		default:
			return fmt.Errorf("template %s: slot %s has unknown source %q", t.ID, name, slot.Source)
		}
	}
	return nil
}
