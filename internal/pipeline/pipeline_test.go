package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/registry"
	"github.com/joss/opius/internal/task"
)

const gib = 1 << 30

func stubCache(p *environment.Profile, calls *atomic.Int32) *environment.Cache {
	probe := func(ctx context.Context, timeout time.Duration) *environment.Profile {
		if calls != nil {
			calls.Add(1)
		}
		snap := *p
		snap.CapturedAt = time.Now().UTC()
		return &snap
	}
	return environment.NewCache(probe, time.Hour, time.Second)
}

func standardProfile() *environment.Profile {
	return &environment.Profile{
		RAMTotal:     16 * gib,
		RAMAvailable: 8 * gib,
		CPUCores:     8,
		ActiveEditor: "nvim",
		Languages:    []string{"node", "python"},
	}
}

func TestGenerateHappyPath(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)

	var probes atomic.Int32
	gen := New(reg, stubCache(standardProfile(), &probes), 3)

	res, err := gen.Generate(context.Background(), "Build a React portfolio website", Options{})
	require.NoError(t, err)

	assert.True(t, res.Report.Passed)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, res.Plan.Metadata.Attempts)
	assert.Equal(t, "technical-web-app", res.Plan.Metadata.TemplateID)
	assert.Equal(t, task.CategoryTechnical, res.Task.Category)
	assert.Equal(t, int32(1), probes.Load())
	assert.NotEmpty(t, res.Plan.Metadata.RequestID)
	assert.False(t, res.Plan.Metadata.GeneratedAt.IsZero())
}

func TestGenerateIdempotentBody(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	first, err := gen.Generate(context.Background(), "Build a React portfolio website", Options{})
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), "Build a React portfolio website", Options{})
	require.NoError(t, err)

	// Timestamps and request IDs differ; everything else matches.
	assert.Equal(t, first.Plan.Title, second.Plan.Title)
	assert.Equal(t, first.Plan.Sections, second.Plan.Sections)
}

func TestGenerateFallsBackToGeneric(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	res, err := gen.Generate(context.Background(), "Reorganize the filing cabinet", Options{})
	require.NoError(t, err)

	// The generic template has category "any", so an unclassifiable task
	// matches it on the first attempt.
	assert.Equal(t, task.CategoryCustom, res.Task.Category)
	assert.Equal(t, registry.GenericID, res.Plan.Metadata.TemplateID)
	assert.True(t, res.Report.Passed)
	assert.Equal(t, 1, res.Attempts)
}

func TestGenerateRefinesIncompleteTemplate(t *testing.T) {
	// educational-default replaced by a template missing most required
	// sections, so attempt 1 fails validation.
	broken := mustParse(t, `---
id: educational-default
category: educational
priority: 5
---
## Overview
Thin plan with nothing actionable.
`)
	reg, err := registry.New(broken)
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	res, err := gen.Generate(context.Background(), "Learn Spanish before the autumn", Options{})
	require.NoError(t, err)

	assert.True(t, res.Report.Passed)
	assert.Equal(t, registry.GenericID, res.Plan.Metadata.TemplateID)
	assert.Greater(t, res.Attempts, 1)
}

func TestGenerateReachesGatedTemplateWhenWidening(t *testing.T) {
	// personal-default replaced by a template that cannot validate;
	// personal-rich is complete but gated on an AI tool the profile
	// lacks. The widened second attempt drops the environment gate and
	// must land on it instead of the generic fallback.
	broken := mustParse(t, `---
id: personal-default
category: personal
priority: 5
---
## Overview
Thin plan with nothing actionable.
`)
	rich := mustParse(t, `---
id: personal-rich
category: personal
priority: 50
requires_ai: [claude-api]
---
## Overview
A thorough personal plan.

## Context & Requirements
Decide what done looks like before starting.

## Execution Plan
- [ ] Break the work into weekly sessions

## Success Tracking
- [ ] Review progress at the end of each week

## Adaptation Notes
Trim scope if sessions keep running long.

## Next Immediate Steps
- [ ] Schedule the first session
`)
	reg, err := registry.New(broken, rich)
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	res, err := gen.Generate(context.Background(), "Plan my wedding in June", Options{})
	require.NoError(t, err)

	assert.True(t, res.Report.Passed)
	assert.Equal(t, "personal-rich", res.Plan.Metadata.TemplateID)
	assert.Equal(t, 2, res.Attempts)
	assert.False(t, res.Plan.Metadata.EnvFiltered)
}

func TestGenerateExhaustionReturnsLastPlan(t *testing.T) {
	broken := mustParse(t, `---
id: personal-default
category: personal
priority: 5
---
## Overview
Thin plan with nothing actionable.
`)
	reg, err := registry.New(broken)
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	res, err := gen.Generate(context.Background(), "Plan my wedding in June", Options{MaxAttempts: 1})
	require.NoError(t, err)

	require.NotNil(t, res.Plan)
	require.NotNil(t, res.Report)
	assert.False(t, res.Report.Passed)
	assert.Equal(t, 1, res.Attempts)
}

func TestGenerateOverrides(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	cat := task.CategoryBusiness
	cx := task.Expert
	res, err := gen.Generate(context.Background(), "Build a simple todo app", Options{
		Category:   &cat,
		Complexity: &cx,
	})
	require.NoError(t, err)

	assert.Equal(t, task.CategoryBusiness, res.Task.Category)
	assert.Equal(t, task.Expert, res.Task.Complexity)
	assert.Equal(t, "business-default", res.Plan.Metadata.TemplateID)
}

func TestGenerateEmptyDescription(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	_, err = gen.Generate(context.Background(), "   ", Options{})
	assert.ErrorIs(t, err, task.ErrEmptyDescription)
}

func TestGenerateCancelled(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := gen.Generate(ctx, "Build a React portfolio website", Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestGenerateRequestIDPropagates(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)
	gen := New(reg, stubCache(standardProfile(), nil), 3)

	res, err := gen.Generate(context.Background(), "Build a React portfolio website", Options{
		RequestID: "req-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "req-123", res.Plan.Metadata.RequestID)
}

func mustParse(t *testing.T, content string) *registry.Template {
	t.Helper()
	tpl, err := registry.Parse(content)
	require.NoError(t, err)
	return tpl
}
