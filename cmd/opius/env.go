package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/opius/internal/config"
	"github.com/joss/opius/internal/environment"
	"github.com/joss/opius/internal/render"
)

func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the detected environment profile",
		Run: func(cmd *cobra.Command, args []string) {
			p := environment.Probe(context.Background(), config.Env().ProbeTimeout)

			w := render.Stdout()
			w.Println("tier:          %s", p.Tier())
			w.Println("ram total:     %d GiB", p.RAMTotalGB())
			w.Println("ram available: %.1f GiB", float64(p.RAMAvailable)/(1<<30))
			w.Println("cpu cores:     %d", p.CPUCores)
			w.Println("disk free:     %.1f GiB", float64(p.DiskFree)/(1<<30))
			w.Println("editor:        %s", p.ActiveEditor)
			w.Println("ai tools:      %s", orNone(p.AITools))
			w.Println("languages:     %s", orNone(p.Languages))
		},
	}
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none detected"
	}
	return strings.Join(items, ", ")
}
