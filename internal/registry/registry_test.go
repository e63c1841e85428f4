package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/task"
)

func mustTemplate(t *testing.T, content string) *Template {
	t.Helper()
	tpl, err := Parse(content)
	require.NoError(t, err)
	return tpl
}

func TestNewIncludesBuiltinsAndGeneric(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)

	assert.NotNil(t, reg.Generic())
	assert.Equal(t, GenericID, reg.Generic().ID)

	for _, id := range []string{
		"technical-default", "technical-web-app", "creative-writing",
		"business-default", "personal-default", "educational-default",
	} {
		_, ok := reg.Get(id)
		assert.True(t, ok, id)
	}
}

func TestNewUserTemplateOverridesBuiltin(t *testing.T) {
	override := mustTemplate(t, `---
id: technical-default
version: "9.0.0"
category: technical
priority: 99
---
## Overview
custom body
`)

	reg, err := New(override)
	require.NoError(t, err)

	got, ok := reg.Get("technical-default")
	require.True(t, ok)
	assert.Equal(t, "9.0.0", got.Version)
	assert.Equal(t, 99, got.Priority)

	// Overriding replaces in place; registry order and count unchanged.
	assert.Len(t, reg.All(), len(Builtins()))
}

func TestFindCandidatesIncludesAnyCategory(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)

	// The generic fallback has category "any", so it is a candidate for
	// every classification, including custom tasks with no other match.
	got := reg.FindCandidates(task.CategoryCustom, task.Moderate)
	require.Len(t, got, 1)
	assert.Equal(t, GenericID, got[0].ID)

	ids := make([]string, 0)
	for _, c := range reg.FindCandidates(task.CategoryTechnical, task.Moderate) {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, "technical-default")
	assert.Contains(t, ids, GenericID)
}

func TestFindCandidatesRespectsComplexityRange(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)

	// technical-web-app only serves moderate..complex.
	simple := reg.FindCandidates(task.CategoryTechnical, task.Simple)
	for _, c := range simple {
		assert.NotEqual(t, "technical-web-app", c.ID)
	}

	moderate := reg.FindCandidates(task.CategoryTechnical, task.Moderate)
	ids := make([]string, 0, len(moderate))
	for _, c := range moderate {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, "technical-default")
	assert.Contains(t, ids, "technical-web-app")
}

func TestSelectorPrefersPriorityThenSpan(t *testing.T) {
	wide := mustTemplate(t, `---
id: wide
category: technical
priority: 7
complexity:
  min: simple
  max: expert
---
## Overview
wide body
`)
	narrow := mustTemplate(t, `---
id: narrow
category: technical
priority: 7
complexity:
  min: moderate
  max: moderate
---
## Overview
narrow body
`)
	loud := mustTemplate(t, `---
id: loud
category: technical
priority: 50
complexity:
  min: simple
  max: expert
---
## Overview
loud body
`)

	reg, err := New(wide, narrow, loud)
	require.NoError(t, err)
	sel := NewSelector(reg)

	tk := &task.Task{Category: task.CategoryTechnical, Complexity: task.Moderate}
	p := &environment.Profile{RAMTotal: 16 << 30}

	got, err := sel.Select(tk, p)
	require.NoError(t, err)
	assert.Equal(t, "loud", got.Template.ID)
	assert.True(t, got.EnvironmentFiltered)

	// Same priority: the narrower range wins.
	reg2, err := New(wide, narrow)
	require.NoError(t, err)
	got2, err := NewSelector(reg2).Select(tk, p)
	require.NoError(t, err)
	assert.Equal(t, "narrow", got2.Template.ID)
}

func TestSelectorEnvironmentGateAndFallback(t *testing.T) {
	gated := mustTemplate(t, `---
id: gated
category: technical
priority: 80
min_ram_gb: 64
---
## Overview
heavy body
`)
	reg, err := New(gated)
	require.NoError(t, err)
	sel := NewSelector(reg)

	tk := &task.Task{Category: task.CategoryTechnical, Complexity: task.Moderate}

	// Small machine: the gated template is skipped.
	small := &environment.Profile{RAMTotal: 8 << 30, Languages: []string{"node"}}
	got, err := sel.Select(tk, small)
	require.NoError(t, err)
	assert.NotEqual(t, "gated", got.Template.ID)
	assert.True(t, got.EnvironmentFiltered)

	// Big machine: the gated template wins on priority.
	big := &environment.Profile{RAMTotal: 128 << 30, Languages: []string{"node"}}
	got, err = sel.Select(tk, big)
	require.NoError(t, err)
	assert.Equal(t, "gated", got.Template.ID)
}

func TestSelectWidenedIgnoresEnvironmentGate(t *testing.T) {
	gated := mustTemplate(t, `---
id: personal-rich
category: personal
priority: 50
requires_ai: [claude-api]
---
## Overview
body
`)
	reg, err := New(gated)
	require.NoError(t, err)
	sel := NewSelector(reg)

	tk := &task.Task{Category: task.CategoryPersonal, Complexity: task.Moderate}
	bare := &environment.Profile{RAMTotal: 16 << 30}

	// Normal selection skips the gated template.
	got, err := sel.Select(tk, bare)
	require.NoError(t, err)
	assert.NotEqual(t, "personal-rich", got.Template.ID)

	// The widened search never consults the gate, so the gated template
	// wins on priority.
	widened, err := sel.SelectWidened(tk)
	require.NoError(t, err)
	assert.Equal(t, "personal-rich", widened.Template.ID)
	assert.False(t, widened.EnvironmentFiltered)
}

func TestSelectorFallsBackWhenNothingApplicable(t *testing.T) {
	// Gate every personal candidate (including the generic fallback) on
	// AI tooling, so no candidate passes the environment filter.
	gatedDefault := mustTemplate(t, `---
id: personal-default
category: personal
priority: 5
requires_ai: [claude-api]
---
## Overview
body
`)
	gatedGeneric := mustTemplate(t, `---
id: generic-fallback
category: any
priority: 0
requires_ai: [claude-api]
---
## Overview
body
`)
	reg, err := New(gatedDefault, gatedGeneric)
	require.NoError(t, err)
	sel := NewSelector(reg)

	tk := &task.Task{Category: task.CategoryPersonal, Complexity: task.Moderate}
	bare := &environment.Profile{RAMTotal: 16 << 30}

	got, err := sel.Select(tk, bare)
	require.NoError(t, err)
	assert.Equal(t, "personal-default", got.Template.ID)
	assert.False(t, got.EnvironmentFiltered)
}

func TestSelectorRequiresAllAITools(t *testing.T) {
	gated := mustTemplate(t, `---
id: needs-two-tools
category: technical
priority: 90
requires_ai: [claude-api, ollama]
---
## Overview
body
`)
	reg, err := New(gated)
	require.NoError(t, err)
	sel := NewSelector(reg)

	tk := &task.Task{Category: task.CategoryTechnical, Complexity: task.Moderate}

	partial := &environment.Profile{RAMTotal: 16 << 30, AITools: []string{"claude-api"}}
	got, err := sel.Select(tk, partial)
	require.NoError(t, err)
	assert.NotEqual(t, "needs-two-tools", got.Template.ID)

	full := &environment.Profile{RAMTotal: 16 << 30, AITools: []string{"claude-api", "ollama"}}
	got, err = sel.Select(tk, full)
	require.NoError(t, err)
	assert.Equal(t, "needs-two-tools", got.Template.ID)
}

func TestSelectorCustomCategoryGetsGeneric(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)
	sel := NewSelector(reg)

	tk := &task.Task{Category: task.CategoryCustom, Complexity: task.Moderate}
	got, err := sel.Select(tk, environment.Default())
	require.NoError(t, err)
	assert.Equal(t, GenericID, got.Template.ID)

	generic := sel.SelectGeneric()
	assert.Equal(t, GenericID, generic.Template.ID)
}

func TestSelectorDeterministic(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)
	sel := NewSelector(reg)

	tk := &task.Task{Category: task.CategoryTechnical, Complexity: task.Complex}
	p := &environment.Profile{RAMTotal: 16 << 30, Languages: []string{"node"}}

	first, err := sel.Select(tk, p)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := sel.Select(tk, p)
		require.NoError(t, err)
		assert.Equal(t, first.Template.ID, again.Template.ID)
	}
}
