package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/opius/internal/pipeline"
	"github.com/joss/opius/internal/plan"
	"github.com/joss/opius/internal/render"
	"github.com/joss/opius/internal/task"
)

func generateCmd() *cobra.Command {
	var (
		categoryFlag   string
		complexityFlag string
		format         string
		output         string
		showReport     bool
		noSave         bool
	)

	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Generate a plan from a task description",
		Long: `Generate a structured markdown plan.

Examples:
  opius generate "Build a React portfolio website"
  opius generate --category creative "Document the garden redesign"
  opius generate --format frontmatter -o plan.md "Learn Rust basics"`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			description := strings.Join(args, " ")

			opts := pipeline.Options{}
			if categoryFlag != "" {
				cat, ok := task.ParseCategory(categoryFlag)
				if !ok {
					fatalError(fmt.Errorf("unknown category %q", categoryFlag))
				}
				opts.Category = &cat
			}
			if complexityFlag != "" {
				cx, ok := task.ParseComplexity(complexityFlag)
				if !ok {
					fatalError(fmt.Errorf("unknown complexity %q", complexityFlag))
				}
				opts.Complexity = &cx
			}

			gen, err := newGenerator()
			if err != nil {
				fatalError(err)
			}

			res, err := gen.Generate(context.Background(), description, opts)
			if err != nil {
				fatalError(err)
			}

			doc, err := formatResult(res, format)
			if err != nil {
				fatalError(err)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
					fatalError(err)
				}
				render.Stdout().Println("Plan written to %s", output)
			} else {
				fmt.Print(doc)
			}

			if showReport || !res.Report.Passed {
				fmt.Fprint(os.Stderr, render.New(pretty).Report(res.Report))
			}

			if !noSave {
				recordHistory(res)
			}
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "force the task category")
	cmd.Flags().StringVar(&complexityFlag, "complexity", "", "force the task complexity")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown, frontmatter, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the plan to a file instead of stdout")
	cmd.Flags().BoolVar(&showReport, "report", false, "print the validation report to stderr")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip recording the plan in history")
	return cmd
}

func formatResult(res *pipeline.Result, format string) (string, error) {
	switch format {
	case "markdown":
		return plan.Markdown(res.Plan, plan.MarkdownOptions{})
	case "frontmatter":
		return plan.Markdown(res.Plan, plan.MarkdownOptions{Frontmatter: true})
	case "json":
		raw, err := json.MarshalIndent(res.Plan, "", "  ")
		if err != nil {
			return "", err
		}
		return string(raw) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// recordHistory saves the run; history failures never fail generation.
func recordHistory(res *pipeline.Result) {
	store, err := openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	md, err := plan.Markdown(res.Plan, plan.MarkdownOptions{Frontmatter: true})
	if err != nil {
		return
	}
	if _, err := store.Record(context.Background(), res.Task, res.Plan, res.Report.Passed, md); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record plan: %v\n", err)
	}
}
