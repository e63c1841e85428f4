// Package validate checks finished plans for structural completeness and
// internal consistency. Findings are data, not errors; the refinement
// loop decides what to do with a failing report.
package validate

import (
	"fmt"
	"strings"

	"github.com/joss/opius/internal/plan"
)

// Violation is one failed check.
type Violation struct {
	RuleID  string `json:"rule_id"`
	Section string `json:"section,omitempty"`
	Message string `json:"message"`
}

// Report is the outcome of validating one plan.
type Report struct {
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations,omitempty"`
	Attempt    int         `json:"attempt"`
}

// Rule checks one aspect of a plan.
type Rule interface {
	ID() string
	Check(p *plan.Plan) []Violation
}

// RequiredSections are the headings every finished plan must carry, in
// canonical order.
var RequiredSections = []string{
	"Overview",
	"Context & Requirements",
	"Execution Plan",
	"Success Tracking",
	"Adaptation Notes",
	"Next Immediate Steps",
}

// requiredSectionsRule flags missing required sections and empty bodies.
// The emptiness check covers every section in the plan, not just the
// required six.
type requiredSectionsRule struct{}

func (requiredSectionsRule) ID() string { return "required-sections" }

func (r requiredSectionsRule) Check(p *plan.Plan) []Violation {
	var out []Violation
	for _, heading := range RequiredSections {
		if _, ok := p.Section(heading); !ok {
			out = append(out, Violation{
				RuleID:  r.ID(),
				Section: heading,
				Message: fmt.Sprintf("missing required section %q", heading),
			})
		}
	}
	for _, s := range p.Sections {
		if strings.TrimSpace(s.Body) == "" {
			out = append(out, Violation{
				RuleID:  r.ID(),
				Section: s.Heading,
				Message: fmt.Sprintf("section %q is empty", s.Heading),
			})
		}
	}
	return out
}

// actionableStepsRule requires at least one open checklist item in the
// execution plan, and at least one anywhere.
type actionableStepsRule struct{}

func (actionableStepsRule) ID() string { return "actionable-steps" }

func (r actionableStepsRule) Check(p *plan.Plan) []Violation {
	open := 0
	for _, s := range p.Sections {
		for _, item := range s.Checklist {
			if !item.Done {
				open++
			}
		}
	}
	if open == 0 {
		return []Violation{{
			RuleID:  r.ID(),
			Message: "plan has no open checklist items",
		}}
	}

	exec, ok := p.Section("Execution Plan")
	if ok && len(exec.Checklist) == 0 {
		return []Violation{{
			RuleID:  r.ID(),
			Section: "Execution Plan",
			Message: "execution plan has no checklist items",
		}}
	}
	return nil
}
