// Package render formats command output for the terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/joss/opius/internal/history"
	"github.com/joss/opius/internal/registry"
	"github.com/joss/opius/internal/validate"
)

// Writer wraps an io.Writer with formatting helpers.
type Writer struct {
	out io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Stdout returns a Writer over os.Stdout.
func Stdout() *Writer {
	return NewWriter(os.Stdout)
}

// Stderr returns a Writer over os.Stderr.
func Stderr() *Writer {
	return NewWriter(os.Stderr)
}

func (w *Writer) Print(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

func (w *Writer) Println(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

func (w *Writer) Line() {
	fmt.Fprintln(w.out)
}

// Renderer formats domain values. With pretty disabled the output is
// plain text suitable for piping.
type Renderer struct {
	pretty bool
}

func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Report formats a validation report.
func (r *Renderer) Report(rep *validate.Report) string {
	var sb strings.Builder

	if rep.Passed {
		if r.pretty {
			sb.WriteString(color.GreenString("✓ plan valid"))
		} else {
			sb.WriteString("plan valid")
		}
		fmt.Fprintf(&sb, " (attempt %d)\n", rep.Attempt)
		return sb.String()
	}

	if r.pretty {
		sb.WriteString(color.RedString("✗ plan failed validation"))
	} else {
		sb.WriteString("plan failed validation")
	}
	fmt.Fprintf(&sb, " (attempt %d)\n", rep.Attempt)

	for _, v := range rep.Violations {
		rule := v.RuleID
		if r.pretty {
			rule = color.YellowString(rule)
		}
		if v.Section != "" {
			fmt.Fprintf(&sb, "  %s: %s [%s]\n", rule, v.Message, v.Section)
		} else {
			fmt.Fprintf(&sb, "  %s: %s\n", rule, v.Message)
		}
	}
	return sb.String()
}

// Templates formats the registry listing.
func (r *Renderer) Templates(tpls []*registry.Template) string {
	if len(tpls) == 0 {
		return "No templates registered\n"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Registered Templates\n"))
		sb.WriteString(strings.Repeat("─", 72) + "\n")
	}

	fmt.Fprintf(&sb, "%-24s %-8s %-12s %-18s %s\n", "ID", "VERSION", "CATEGORY", "COMPLEXITY", "PRIORITY")
	for _, tpl := range tpls {
		span := fmt.Sprintf("%s..%s", tpl.Range.Min, tpl.Range.Max)
		version := tpl.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(&sb, "%-24s %-8s %-12s %-18s %d\n",
			tpl.ID, version, tpl.Category, span, tpl.Priority)
	}
	return sb.String()
}

// History formats recent generation runs, newest first.
func (r *Renderer) History(entries []*history.Entry) string {
	if len(entries) == 0 {
		return "No plans generated yet\n"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Recent Plans\n"))
		sb.WriteString(strings.Repeat("─", 72) + "\n")
	}

	for _, e := range entries {
		status := "✗"
		if e.Passed {
			status = "✓"
		}
		if r.pretty {
			if e.Passed {
				status = color.GreenString(status)
			} else {
				status = color.RedString(status)
			}
		}
		desc := e.Description
		if len(desc) > 48 {
			desc = desc[:45] + "..."
		}
		fmt.Fprintf(&sb, "%s %s  %-10s %-48s %s\n",
			status, e.ID, e.Category, desc, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return sb.String()
}
