package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDefaults(t *testing.T) {
	ResetEnv()
	t.Setenv("OPIUS_TEMPLATE_DIR", "")
	t.Setenv("OPIUS_CACHE_TTL_SECONDS", "")
	t.Setenv("OPIUS_PROBE_TIMEOUT_SECONDS", "")
	t.Setenv("OPIUS_MAX_REFINEMENT_ATTEMPTS", "")

	e := Env()
	assert.Equal(t, "", e.TemplateDir)
	assert.Equal(t, time.Hour, e.CacheTTL)
	assert.Equal(t, 3*time.Second, e.ProbeTimeout)
	assert.Equal(t, 3, e.MaxRefinementAttempts)
}

func TestEnvOverrides(t *testing.T) {
	ResetEnv()
	t.Setenv("OPIUS_TEMPLATE_DIR", "/tmp/templates")
	t.Setenv("OPIUS_CACHE_TTL_SECONDS", "120")
	t.Setenv("OPIUS_PROBE_TIMEOUT_SECONDS", "1")
	t.Setenv("OPIUS_MAX_REFINEMENT_ATTEMPTS", "5")

	e := Env()
	assert.Equal(t, "/tmp/templates", e.TemplateDir)
	assert.Equal(t, 2*time.Minute, e.CacheTTL)
	assert.Equal(t, time.Second, e.ProbeTimeout)
	assert.Equal(t, 5, e.MaxRefinementAttempts)

	// Garbage values fall back to defaults.
	ResetEnv()
	t.Setenv("OPIUS_CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("OPIUS_MAX_REFINEMENT_ATTEMPTS", "-2")
	e = Env()
	assert.Equal(t, DefaultCacheTTL, e.CacheTTL)
	assert.Equal(t, DefaultRefinementAttempts, e.MaxRefinementAttempts)
}

func TestGetPaths(t *testing.T) {
	p := GetPaths()
	require.NotNil(t, p)
	assert.Contains(t, p.Home, ".opius")
	assert.Contains(t, p.Data, "data")
	assert.Contains(t, p.Templates, "templates")
}
