package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/opius/internal/task"
)

const sampleTemplate = `---
id: sample
version: "2.0.0"
name: Sample
category: technical
complexity:
  min: moderate
  max: complex
priority: 7
estimated_hours: 12
requires_ai: [claude-api]
requires_languages: [python]
min_ram_gb: 8
slots:
  project_name:
    source: task
    key: project_name
  bundler:
    source: tier
    variants:
      constrained: esbuild
      standard: vite
      performance: webpack
---
## Overview
{{project_name}} overview text.

## Execution Plan
- [ ] First step with {{bundler}}
- [ ] Second step
`

func TestParseTemplate(t *testing.T) {
	tpl, err := Parse(sampleTemplate)
	require.NoError(t, err)

	assert.Equal(t, "sample", tpl.ID)
	assert.Equal(t, "2.0.0", tpl.Version)
	assert.Equal(t, task.CategoryTechnical, tpl.Category)
	assert.Equal(t, task.Moderate, tpl.Range.Min)
	assert.Equal(t, task.Complex, tpl.Range.Max)
	assert.Equal(t, 7, tpl.Priority)
	assert.Equal(t, 12.0, tpl.EstimatedHours)
	assert.Equal(t, []string{"claude-api"}, tpl.Requires.AITools)
	assert.Equal(t, []string{"python"}, tpl.Requires.Languages)
	assert.Equal(t, 8, tpl.Requires.MinRAMGB)

	require.Len(t, tpl.Sections, 2)
	assert.Equal(t, "Overview", tpl.Sections[0].Heading)
	assert.Contains(t, tpl.Sections[0].Body, "{{project_name}}")
	assert.Equal(t, "Execution Plan", tpl.Sections[1].Heading)

	require.Contains(t, tpl.Slots, "bundler")
	assert.Equal(t, SourceTier, tpl.Slots["bundler"].Source)
	assert.Equal(t, "vite", tpl.Slots["bundler"].Variants["standard"])
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no frontmatter", "## Overview\nplain body\n"},
		{"unterminated frontmatter", "---\nid: x\ncategory: technical\n"},
		{"bad yaml", "---\nid: [unclosed\n---\n## Overview\nbody\n"},
		{"unknown category", "---\nid: x\ncategory: astrology\n---\n## Overview\nbody\n"},
		{"min above max", "---\nid: x\ncategory: technical\ncomplexity:\n  min: expert\n  max: simple\n---\n## Overview\nbody\n"},
		{"missing id", "---\ncategory: technical\n---\n## Overview\nbody\n"},
		{"no sections", "---\nid: x\ncategory: technical\n---\nno headings here\n"},
		{"slot missing key", "---\nid: x\ncategory: technical\nslots:\n  a:\n    source: task\n---\n## Overview\nbody\n"},
		{"tier slot without variants", "---\nid: x\ncategory: technical\nslots:\n  a:\n    source: tier\n---\n## Overview\nbody\n"},
		{"unknown slot source", "---\nid: x\ncategory: technical\nslots:\n  a:\n    source: magic\n    key: k\n---\n## Overview\nbody\n"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.content)
		assert.Error(t, err, tc.name)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte(sampleTemplate), 0o644))

	nested := `---
id: nested-one
category: creative
---
## Overview
body text
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.md"), []byte(nested), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	tpls, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, tpls, 2)
	assert.Equal(t, "sample", tpls[0].ID)
	assert.Equal(t, "nested-one", tpls[1].ID)
	assert.NotEmpty(t, tpls[0].Source)
}

func TestLoadDirectoryFailFast(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.md")
	require.NoError(t, os.WriteFile(bad, []byte("no frontmatter at all"), 0o644))

	_, err := LoadDirectory(dir)
	require.Error(t, err)

	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, bad, lerr.File)
}

func TestSplitSectionsDropsPreamble(t *testing.T) {
	sections := splitSections("preamble text\n\n## First\nalpha\n\n## Second\nbeta\n")
	require.Len(t, sections, 2)
	assert.Equal(t, "First", sections[0].Heading)
	assert.Equal(t, "alpha", sections[0].Body)
	assert.Equal(t, "Second", sections[1].Heading)
	assert.Equal(t, "beta", sections[1].Body)
}
