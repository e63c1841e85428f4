// Package pipeline wires analysis, environment profiling, template
// selection, rendering, and validation into one plan generation flow
// with a bounded refinement loop.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/logging"
	"github.com/joss/opius/internal/plan"
	"github.com/joss/opius/internal/registry"
	"github.com/joss/opius/internal/task"
	"github.com/joss/opius/internal/validate"
)

var log = logging.New("pipeline")

// Options tune one generation run.
type Options struct {
	// Category and Complexity bypass the corresponding analysis step.
	Category   *task.Category
	Complexity *task.Complexity

	// MaxAttempts caps render/validate cycles; zero uses the generator
	// default. The final attempt always uses the generic template.
	MaxAttempts int

	// RequestID correlates log lines; generated when empty.
	RequestID string
}

// Result is the outcome of a generation run. Plan and Report are always
// set together: after a failed run they hold the last attempt's output.
type Result struct {
	Plan     *plan.Plan
	Report   *validate.Report
	Task     *task.Task
	Profile  *environment.Profile
	Attempts int
}

// Generator runs the full pipeline. Safe for concurrent use.
type Generator struct {
	analyzer    *task.Analyzer
	cache       *environment.Cache
	selector    *registry.Selector
	renderer    *plan.Renderer
	engine      *validate.Engine
	maxAttempts int
	now         func() time.Time
}

// New builds a generator over a registry and profile cache.
func New(reg *registry.Registry, cache *environment.Cache, maxAttempts int) *Generator {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Generator{
		analyzer:    task.NewAnalyzer(),
		cache:       cache,
		selector:    registry.NewSelector(reg),
		renderer:    plan.NewRenderer(),
		engine:      validate.NewEngine(),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Generate turns a description into a validated plan. When every
// refinement attempt fails validation, the last plan and its failing
// report are returned without an error; callers decide how to present
// an imperfect plan. Cancellation between stages returns ctx.Err with
// no partial result.
func (g *Generator) Generate(ctx context.Context, description string, opts Options) (*Result, error) {
	requestID := opts.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	rlog := log.WithRequest(requestID)
	start := g.now()

	t, err := g.analyzer.AnalyzeWith(description, task.Overrides{
		Category:   opts.Category,
		Complexity: opts.Complexity,
	})
	if err != nil {
		return nil, err
	}
	rlog.Info("task_analyzed", map[string]any{
		"category":   string(t.Category),
		"complexity": t.Complexity.String(),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profile := g.cache.Current(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxAttempts := g.maxAttempts
	if opts.MaxAttempts > 0 {
		maxAttempts = opts.MaxAttempts
	}

	result := &Result{Task: t, Profile: profile}
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sel, selErr := g.selectFor(t, profile, attempt, maxAttempts)
		if selErr != nil {
			lastErr = selErr
			continue
		}

		p, renderErr := g.renderer.Render(sel.Template, t, profile)
		if renderErr != nil {
			rlog.Warn("render_failed", map[string]any{
				"template": sel.Template.ID,
				"attempt":  attempt,
			}, renderErr)
			lastErr = renderErr
			continue
		}

		p.Metadata.Attempts = attempt
		p.Metadata.EnvFiltered = sel.EnvironmentFiltered
		p.Metadata.RequestID = requestID
		p.Metadata.GeneratedAt = g.now().UTC()

		report := g.engine.Validate(p, attempt)
		result.Plan = p
		result.Report = report
		result.Attempts = attempt

		if report.Passed {
			rlog.TimedEvent("plan_generated", start, map[string]any{
				"template": sel.Template.ID,
				"attempts": attempt,
			})
			return result, nil
		}
		rlog.Info("refining_plan", map[string]any{
			"attempt":    attempt,
			"violations": len(report.Violations),
		})
	}

	if result.Plan == nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, registry.ErrNoTemplate
	}

	rlog.Warn("plan_generation_exhausted", map[string]any{
		"attempts": result.Attempts,
	}, nil)
	return result, nil
}

// selectFor maps an attempt number onto a refinement strategy: first the
// normal selection, then the widened category-wide search with the
// environment gate dropped, escalated complexity if attempts allow, and
// the generic fallback last.
func (g *Generator) selectFor(t *task.Task, p *environment.Profile, attempt, maxAttempts int) (*registry.Selection, error) {
	if attempt == maxAttempts && attempt > 1 {
		return g.selector.SelectGeneric(), nil
	}
	switch attempt {
	case 1:
		sel, err := g.selector.Select(t, p)
		if errors.Is(err, registry.ErrNoTemplate) {
			// Nothing matched at all; fall through to the widened search.
			return g.selector.SelectWidened(t)
		}
		return sel, err
	case 2:
		return g.selector.SelectWidened(t)
	default:
		escalated := *t
		escalated.Complexity = t.Complexity.Escalate()
		return g.selector.Select(&escalated, p)
	}
}
