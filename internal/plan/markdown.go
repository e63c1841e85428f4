package plan

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MarkdownOptions controls document emission.
type MarkdownOptions struct {
	// Frontmatter prepends a YAML metadata block. The plan body itself
	// never carries metadata or timestamps.
	Frontmatter bool
}

type frontmatterDoc struct {
	Template        string   `yaml:"template"`
	TemplateVersion string   `yaml:"template_version,omitempty"`
	Category        string   `yaml:"category"`
	Complexity      string   `yaml:"complexity"`
	Tier            string   `yaml:"tier"`
	EstimatedHours  float64  `yaml:"estimated_hours"`
	ToolsRequired   []string `yaml:"tools_required,omitempty"`
	Attempts        int      `yaml:"attempts,omitempty"`
	RequestID       string   `yaml:"request_id,omitempty"`
	GeneratedAt     string   `yaml:"generated_at,omitempty"`
}

// Markdown renders the plan as a markdown document.
func Markdown(p *Plan, opts MarkdownOptions) (string, error) {
	var b strings.Builder

	if opts.Frontmatter {
		fm := frontmatterDoc{
			Template:        p.Metadata.TemplateID,
			TemplateVersion: p.Metadata.TemplateVersion,
			Category:        string(p.Metadata.Category),
			Complexity:      p.Metadata.Complexity.String(),
			Tier:            string(p.Metadata.Tier),
			EstimatedHours:  p.Metadata.EstimatedHours,
			ToolsRequired:   p.Metadata.ToolsRequired,
			Attempts:        p.Metadata.Attempts,
			RequestID:       p.Metadata.RequestID,
		}
		if !p.Metadata.GeneratedAt.IsZero() {
			fm.GeneratedAt = p.Metadata.GeneratedAt.UTC().Format(time.RFC3339)
		}
		raw, err := yaml.Marshal(fm)
		if err != nil {
			return "", fmt.Errorf("encoding plan metadata: %w", err)
		}
		b.WriteString("---\n")
		b.Write(raw)
		b.WriteString("---\n\n")
	}

	fmt.Fprintf(&b, "# %s\n", p.Title)
	for _, s := range p.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", s.Heading, s.Body)
	}
	return b.String(), nil
}
