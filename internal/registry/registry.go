package registry

import (
	"fmt"

	"github.com/joss/opius/internal/task"
)

// GenericID names the always-present fallback template.
const GenericID = "generic-fallback"

// Registry is an immutable template collection. Build it once with New;
// concurrent readers need no locking.
type Registry struct {
	templates []*Template
	byID      map[string]*Template
}

// New builds a registry from the built-in set plus extra templates,
// usually loaded from disk. An extra template with the ID of an earlier
// one replaces it, so user templates override built-ins. The generic
// fallback is always present.
func New(extra ...*Template) (*Registry, error) {
	r := &Registry{byID: map[string]*Template{}}

	for _, tpl := range append(Builtins(), extra...) {
		if err := tpl.Validate(); err != nil {
			return nil, err
		}
		if prev, ok := r.byID[tpl.ID]; ok {
			*prev = *tpl
			continue
		}
		r.templates = append(r.templates, tpl)
		r.byID[tpl.ID] = tpl
	}

	if _, ok := r.byID[GenericID]; !ok {
		return nil, fmt.Errorf("registry missing generic template %s", GenericID)
	}
	return r, nil
}

// All returns templates in registry order. Callers must not mutate.
func (r *Registry) All() []*Template {
	return r.templates
}

// Get looks a template up by ID.
func (r *Registry) Get(id string) (*Template, bool) {
	tpl, ok := r.byID[id]
	return tpl, ok
}

// Generic returns the fallback template.
func (r *Registry) Generic() *Template {
	return r.byID[GenericID]
}

// FindCandidates returns every template whose category matches (or is
// "any") and whose complexity range contains cx, in registry order.
func (r *Registry) FindCandidates(cat task.Category, cx task.Complexity) []*Template {
	var out []*Template
	for _, tpl := range r.templates {
		if tpl.Matches(cat, cx) {
			out = append(out, tpl)
		}
	}
	return out
}

// FindByCategory returns every template for a category (including "any"
// templates), ignoring complexity. Used when refinement widens the search.
func (r *Registry) FindByCategory(cat task.Category) []*Template {
	var out []*Template
	for _, tpl := range r.templates {
		if tpl.Category == cat || tpl.Category == CategoryAny {
			out = append(out, tpl)
		}
	}
	return out
}
