package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/opius/internal/history"
	"github.com/joss/opius/internal/registry"
	"github.com/joss/opius/internal/task"
	"github.com/joss/opius/internal/validate"
)

func TestReportPassed(t *testing.T) {
	out := New(false).Report(&validate.Report{Passed: true, Attempt: 1})
	assert.Contains(t, out, "plan valid")
	assert.Contains(t, out, "attempt 1")
}

func TestReportFailed(t *testing.T) {
	rep := &validate.Report{
		Passed:  false,
		Attempt: 2,
		Violations: []validate.Violation{
			{RuleID: "required-sections", Section: "Overview", Message: "missing required section \"Overview\""},
			{RuleID: "actionable-steps", Message: "plan has no open checklist items"},
		},
	}
	out := New(false).Report(rep)
	assert.Contains(t, out, "failed validation")
	assert.Contains(t, out, "required-sections")
	assert.Contains(t, out, "[Overview]")
	assert.Contains(t, out, "actionable-steps")
}

func TestTemplatesListing(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)

	out := New(false).Templates(reg.All())
	assert.Contains(t, out, "technical-web-app")
	assert.Contains(t, out, "generic-fallback")
	assert.Contains(t, out, "moderate..complex")

	assert.Equal(t, "No templates registered\n", New(false).Templates(nil))
}

func TestHistoryListing(t *testing.T) {
	entries := []*history.Entry{
		{
			ID:          "01ARZ3NDEKTSV4RRFFQ69G5FAV",
			Description: "Build a React portfolio website",
			Category:    task.CategoryTechnical,
			Passed:      true,
			CreatedAt:   time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC),
		},
	}
	out := New(false).History(entries)
	assert.Contains(t, out, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Contains(t, out, "technical")
	assert.Contains(t, out, "Build a React portfolio website")

	assert.Equal(t, "No plans generated yet\n", New(false).History(nil))
}
