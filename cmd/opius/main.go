// Package main provides the opius CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/opius/internal/config"
)

var (
	version = "0.1.0"
	pretty  = true
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "opius",
		Short: "Adaptive plan generation from free-text task descriptions",
		Long: `opius turns a one-line task description into a structured
markdown plan, adapted to the machine it runs on.

  opius generate "Build a React portfolio website"
  opius interactive
  opius templates list

Plans are selected from versioned templates, rendered against the local
environment, validated, and refined until they pass.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			pretty = !config.Env().NoColor && term.IsTerminal(int(os.Stdout.Fd()))
			color.NoColor = !pretty
		},
	}

	rootCmd.AddCommand(
		generateCmd(),
		templatesCmd(),
		envCmd(),
		historyCmd(),
		interactiveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the opius version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("opius %s\n", version)
		},
	}
}
