package plan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/registry"
	"github.com/joss/opius/internal/task"
)

// RenderError reports a slot that could not be resolved, naming the slot
// and the first section whose text still references it.
type RenderError struct {
	Slot    string
	Section string
}

func (e *RenderError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("rendering plan: unresolved slot %q in section %q", e.Slot, e.Section)
	}
	return fmt.Sprintf("rendering plan: cannot resolve slot %q", e.Slot)
}

var placeholderRe = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// Renderer binds a template's slots against a task and environment
// profile. Stateless and safe for concurrent use.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces a plan from a selected template. The body is a pure
// function of template, task, and profile tier; timestamps go into
// metadata only.
func (r *Renderer) Render(tpl *registry.Template, t *task.Task, p *environment.Profile) (*Plan, error) {
	values, err := resolveSlots(tpl, t, p)
	if err != nil {
		return nil, err
	}

	sections := make([]Section, 0, len(tpl.Sections)+1)
	if _, ok := findHeading(tpl.Sections, "Overview"); !ok {
		sections = append(sections, synthesizeOverview(t))
	}

	for _, src := range tpl.Sections {
		body, err := bind(src.Body, src.Heading, values)
		if err != nil {
			return nil, err
		}
		sections = append(sections, Section{
			Heading:   src.Heading,
			Body:      body,
			Checklist: parseChecklist(src.Heading, body),
		})
	}

	return &Plan{
		Title:    t.Attribute(task.AttrProjectName, "Untitled Project"),
		Sections: sections,
		Metadata: Metadata{
			TemplateID:      tpl.ID,
			TemplateVersion: tpl.Version,
			Category:        t.Category,
			Complexity:      t.Complexity,
			Tier:            p.Tier(),
			EstimatedHours:  tpl.EstimatedHours,
			ToolsRequired:   t.Keywords,
		},
	}, nil
}

// resolveSlots evaluates every declared slot to a string.
func resolveSlots(tpl *registry.Template, t *task.Task, p *environment.Profile) (map[string]string, error) {
	values := make(map[string]string, len(tpl.Slots))
	for name, slot := range tpl.Slots {
		v, ok := resolveSlot(slot, t, p)
		if !ok {
			return nil, &RenderError{Slot: name}
		}
		values[name] = v
	}
	return values, nil
}

func resolveSlot(slot registry.SlotSpec, t *task.Task, p *environment.Profile) (string, bool) {
	switch slot.Source {
	case registry.SourceTask:
		return resolveTaskKey(slot, t)
	case registry.SourceEnvironment:
		return resolveEnvKey(slot, p)
	case registry.SourceTier:
		if v, ok := slot.Variants[string(p.Tier())]; ok {
			return v, true
		}
		if slot.Default != "" {
			return slot.Default, true
		}
		return "", false
	}
	return "", false
}

func resolveTaskKey(slot registry.SlotSpec, t *task.Task) (string, bool) {
	switch slot.Key {
	case "description":
		return t.Description, true
	case "category":
		return string(t.Category), true
	case "complexity":
		return t.Complexity.String(), true
	case "keywords":
		return strings.Join(t.Keywords, ", "), true
	case "skills":
		return strings.Join(t.Skills, ", "), true
	}
	if v := t.Attribute(slot.Key, slot.Default); v != "" {
		return v, true
	}
	return "", false
}

func resolveEnvKey(slot registry.SlotSpec, p *environment.Profile) (string, bool) {
	switch slot.Key {
	case "editor":
		return p.ActiveEditor, true
	case "tier":
		return string(p.Tier()), true
	case "cpu_cores":
		return strconv.Itoa(p.CPUCores), true
	case "ram_gb":
		return strconv.Itoa(p.RAMTotalGB()), true
	case "languages":
		if len(p.Languages) == 0 {
			return "none detected", true
		}
		return strings.Join(p.Languages, ", "), true
	case "ai_tools":
		if len(p.AITools) == 0 {
			return "none detected", true
		}
		return strings.Join(p.AITools, ", "), true
	}
	if slot.Default != "" {
		return slot.Default, true
	}
	return "", false
}

// bind substitutes {{name}} placeholders. Any placeholder left over,
// declared or not, is an error so half-rendered plans never escape.
func bind(body, heading string, values map[string]string) (string, error) {
	out := placeholderRe.ReplaceAllStringFunc(body, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})
	if m := placeholderRe.FindStringSubmatch(out); m != nil {
		return "", &RenderError{Slot: m[1], Section: heading}
	}
	return out, nil
}

// parseChecklist extracts `- [ ]` and `- [x]` lines with stable IDs.
func parseChecklist(heading, body string) []ChecklistItem {
	var items []ChecklistItem
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		var done bool
		var text string
		switch {
		case strings.HasPrefix(trimmed, "- [ ] "):
			text = strings.TrimPrefix(trimmed, "- [ ] ")
		case strings.HasPrefix(trimmed, "- [x] "):
			text = strings.TrimPrefix(trimmed, "- [x] ")
			done = true
		default:
			continue
		}
		items = append(items, ChecklistItem{
			ID:   itemID(heading, len(items)+1),
			Text: strings.TrimSpace(text),
			Done: done,
		})
	}
	return items
}

func findHeading(sections []registry.Section, heading string) (int, bool) {
	for i, s := range sections {
		if s.Heading == heading {
			return i, true
		}
	}
	return 0, false
}

// synthesizeOverview builds a minimal overview for templates without one.
func synthesizeOverview(t *task.Task) Section {
	body := fmt.Sprintf("%s\n\nCategory: %s. Complexity: %s. Expected duration: %s.",
		t.Description, t.Category, t.Complexity, t.Complexity.Duration())
	return Section{Heading: "Overview", Body: body}
}
