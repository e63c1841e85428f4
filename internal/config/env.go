// Package config provides centralized configuration management.
// All recognized environment options are read here, once.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Defaults for options that are not set in the environment.
const (
	DefaultCacheTTL           = time.Hour
	DefaultProbeTimeout       = 3 * time.Second
	DefaultRefinementAttempts = 3
)

// OpiusEnv holds all opius environment variables.
type OpiusEnv struct {
	// TemplateDir is the directory scanned for template files (OPIUS_TEMPLATE_DIR).
	// Empty means built-in templates only.
	TemplateDir string

	// CacheTTL is the environment-profile cache lifetime (OPIUS_CACHE_TTL_SECONDS).
	CacheTTL time.Duration

	// ProbeTimeout bounds each system probe (OPIUS_PROBE_TIMEOUT_SECONDS).
	ProbeTimeout time.Duration

	// MaxRefinementAttempts caps re-render cycles after a failed validation
	// (OPIUS_MAX_REFINEMENT_ATTEMPTS).
	MaxRefinementAttempts int

	// NoColor disables colored CLI output (NO_COLOR, any value).
	NoColor bool
}

var (
	env     *OpiusEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *OpiusEnv {
	envOnce.Do(func() {
		env = &OpiusEnv{
			TemplateDir:           os.Getenv("OPIUS_TEMPLATE_DIR"),
			CacheTTL:              getEnvSeconds("OPIUS_CACHE_TTL_SECONDS", DefaultCacheTTL),
			ProbeTimeout:          getEnvSeconds("OPIUS_PROBE_TIMEOUT_SECONDS", DefaultProbeTimeout),
			MaxRefinementAttempts: getEnvInt("OPIUS_MAX_REFINEMENT_ATTEMPTS", DefaultRefinementAttempts),
			NoColor:               os.Getenv("NO_COLOR") != "",
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

// Paths holds standard opius directory paths.
type Paths struct {
	// Home is the opius home directory (~/.opius)
	Home string

	// Data is the data directory (~/.opius/data)
	Data string

	// Templates is the user template directory (~/.opius/templates)
	Templates string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		opiusHome := filepath.Join(home, ".opius")

		paths = &Paths{
			Home:      opiusHome,
			Data:      filepath.Join(opiusHome, "data"),
			Templates: filepath.Join(opiusHome, "templates"),
		}
	})
	return paths
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
