package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joss/opius/internal/registry"
	"github.com/joss/opius/internal/render"
	"github.com/joss/opius/internal/task"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and validate plan templates",
	}

	var (
		categoryFilter   string
		complexityFilter string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered templates, built-in and user",
		Run: func(cmd *cobra.Command, args []string) {
			reg, err := buildRegistry()
			if err != nil {
				fatalError(err)
			}

			tpls := reg.All()
			if categoryFilter != "" {
				cat, ok := task.ParseCategory(categoryFilter)
				if !ok {
					fatalError(fmt.Errorf("unknown category %q", categoryFilter))
				}
				tpls = filterTemplates(tpls, func(t *registry.Template) bool {
					return t.Category == cat
				})
			}
			if complexityFilter != "" {
				cx, ok := task.ParseComplexity(complexityFilter)
				if !ok {
					fatalError(fmt.Errorf("unknown complexity %q", complexityFilter))
				}
				tpls = filterTemplates(tpls, func(t *registry.Template) bool {
					return t.Range.Contains(cx)
				})
			}
			fmt.Print(render.New(pretty).Templates(tpls))
		},
	}
	listCmd.Flags().StringVar(&categoryFilter, "category", "", "only templates for this category")
	listCmd.Flags().StringVar(&complexityFilter, "complexity", "", "only templates covering this complexity")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one template's sections and slots",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			reg, err := buildRegistry()
			if err != nil {
				fatalError(err)
			}
			tpl, ok := reg.Get(args[0])
			if !ok {
				fatalError(fmt.Errorf("no template with id %q", args[0]))
			}

			w := render.Stdout()
			w.Println("%s (version %s)", tpl.ID, tpl.Version)
			w.Println("category: %s, complexity: %s..%s, priority: %d",
				tpl.Category, tpl.Range.Min, tpl.Range.Max, tpl.Priority)
			if tpl.Source != "" {
				w.Println("source: %s", tpl.Source)
			}
			if len(tpl.Slots) > 0 {
				names := make([]string, 0, len(tpl.Slots))
				for name := range tpl.Slots {
					names = append(names, name)
				}
				sort.Strings(names)

				w.Line()
				w.Println("slots:")
				for _, name := range names {
					w.Println("  %s (%s)", name, tpl.Slots[name].Source)
				}
			}
			w.Line()
			w.Println("sections:")
			for _, s := range tpl.Sections {
				w.Println("  %s", s.Heading)
			}
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Parse and validate every template file in a directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			tpls, err := registry.LoadDirectory(args[0])
			if err != nil {
				fatalError(err)
			}
			render.Stdout().Println("%d template(s) valid", len(tpls))
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

func filterTemplates(tpls []*registry.Template, keep func(*registry.Template) bool) []*registry.Template {
	var out []*registry.Template
	for _, t := range tpls {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
