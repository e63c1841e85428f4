package main

import (
	"fmt"
	"os"

	"github.com/joss/opius/internal/config"
	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/history"
	"github.com/joss/opius/internal/pipeline"
	"github.com/joss/opius/internal/registry"
)

// fatalError prints the error and exits.
func fatalError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// buildRegistry loads built-ins plus any user template directory.
// OPIUS_TEMPLATE_DIR wins over ~/.opius/templates; a missing default
// directory is fine, a missing explicit one is not.
func buildRegistry() (*registry.Registry, error) {
	dir := config.Env().TemplateDir
	explicit := dir != ""
	if !explicit {
		dir = config.GetPaths().Templates
	}

	if _, err := os.Stat(dir); err != nil {
		if explicit {
			return nil, fmt.Errorf("template directory %s: %w", dir, err)
		}
		return registry.New()
	}

	extra, err := registry.LoadDirectory(dir)
	if err != nil {
		return nil, err
	}
	return registry.New(extra...)
}

// newGenerator wires the full pipeline from configuration.
func newGenerator() (*pipeline.Generator, error) {
	reg, err := buildRegistry()
	if err != nil {
		return nil, err
	}
	env := config.Env()
	cache := environment.NewCache(nil, env.CacheTTL, env.ProbeTimeout)
	return pipeline.New(reg, cache, env.MaxRefinementAttempts), nil
}

// openHistory opens the plan history store under the data directory.
func openHistory() (*history.Store, error) {
	return history.Open(config.GetPaths().Data)
}
