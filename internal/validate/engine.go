package validate

import (
	"github.com/joss/opius/internal/logging"
	"github.com/joss/opius/internal/plan"
)

var log = logging.New("validate")

// Engine runs an ordered rule set over a plan.
type Engine struct {
	rules []Rule
}

// NewEngine builds the default engine: section completeness, actionable
// steps, then tool-conflict detection.
func NewEngine() *Engine {
	return &Engine{rules: []Rule{
		requiredSectionsRule{},
		actionableStepsRule{},
		conflictingToolsRule{},
	}}
}

// Validate runs every rule and aggregates findings. It never returns an
// error; a malformed plan is a failed report, not a failure to validate.
func (e *Engine) Validate(p *plan.Plan, attempt int) *Report {
	report := &Report{Passed: true, Attempt: attempt}
	for _, rule := range e.rules {
		if vs := rule.Check(p); len(vs) > 0 {
			report.Passed = false
			report.Violations = append(report.Violations, vs...)
		}
	}

	if !report.Passed {
		log.Warn("validation_failed", map[string]any{
			"template":   p.Metadata.TemplateID,
			"attempt":    attempt,
			"violations": len(report.Violations),
		}, nil)
	}
	return report
}
