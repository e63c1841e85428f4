package registry

import (
	"errors"

	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/task"
)

// ErrNoTemplate indicates no template matched the classification at all.
var ErrNoTemplate = errors.New("no template matches task")

// Selection is the outcome of template selection.
type Selection struct {
	Template *Template
	// EnvironmentFiltered is false when every candidate failed the
	// environment gate and selection fell back to the unfiltered set.
	EnvironmentFiltered bool
}

// Selector picks one template from a registry. Selection is
// deterministic: identical inputs always pick the same template.
type Selector struct {
	reg *Registry
}

func NewSelector(reg *Registry) *Selector {
	return &Selector{reg: reg}
}

// Select picks the best template for the classified task on the given
// environment. Tie-breaking: highest priority, then narrowest complexity
// range, then registry order.
func (s *Selector) Select(t *task.Task, p *environment.Profile) (*Selection, error) {
	candidates := s.reg.FindCandidates(t.Category, t.Complexity)
	return s.pick(candidates, p)
}

// SelectWidened broadens the search when a first selection produced a
// plan that failed validation: the environment gate and the complexity
// bounds are both dropped, so every template in the task's category
// (or tagged "any") is eligible. EnvironmentFiltered is false on the
// result because applicability was never consulted.
func (s *Selector) SelectWidened(t *task.Task) (*Selection, error) {
	candidates := s.reg.FindByCategory(t.Category)
	if len(candidates) == 0 {
		return nil, ErrNoTemplate
	}
	return &Selection{Template: best(candidates)}, nil
}

// SelectGeneric returns the always-available fallback.
func (s *Selector) SelectGeneric() *Selection {
	return &Selection{Template: s.reg.Generic(), EnvironmentFiltered: true}
}

func (s *Selector) pick(candidates []*Template, p *environment.Profile) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, ErrNoTemplate
	}

	filtered := make([]*Template, 0, len(candidates))
	for _, tpl := range candidates {
		if tpl.Applicable(p) {
			filtered = append(filtered, tpl)
		}
	}

	sel := &Selection{EnvironmentFiltered: true}
	pool := filtered
	if len(pool) == 0 {
		// Fall back to the unfiltered set and flag it.
		pool = candidates
		sel.EnvironmentFiltered = false
	}
	sel.Template = best(pool)
	return sel, nil
}

// best applies the tie-break order: highest priority, then narrowest
// complexity range, then registry order.
func best(pool []*Template) *Template {
	top := pool[0]
	for _, tpl := range pool[1:] {
		if tpl.Priority > top.Priority {
			top = tpl
			continue
		}
		if tpl.Priority == top.Priority && tpl.Range.Span() < top.Range.Span() {
			top = tpl
		}
	}
	return top
}
