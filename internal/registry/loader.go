package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/joss/opius/internal/logging"
	"github.com/joss/opius/internal/task"
)

var log = logging.New("registry")

// LoadError reports a template file that failed to parse or validate.
// Loading is fail-fast: one bad file aborts the whole load.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading template %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// frontmatter mirrors the YAML header of a template file.
type frontmatter struct {
	ID             string `yaml:"id"`
	Version        string `yaml:"version"`
	Name           string `yaml:"name"`
	Category       string `yaml:"category"`
	Complexity     struct {
		Min string `yaml:"min"`
		Max string `yaml:"max"`
	} `yaml:"complexity"`
	Priority       int                 `yaml:"priority"`
	EstimatedHours float64             `yaml:"estimated_hours"`
	RequiresAI     []string            `yaml:"requires_ai"`
	RequiresLangs  []string            `yaml:"requires_languages"`
	MinRAMGB       int                 `yaml:"min_ram_gb"`
	Slots          map[string]SlotSpec `yaml:"slots"`
}

// LoadDirectory discovers template files under dir (recursively, *.md) and
// parses each. Files sort lexically by path so registry order is stable.
func LoadDirectory(dir string) ([]*Template, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "**/*.md")
	if err != nil {
		return nil, &LoadError{File: dir, Err: err}
	}
	sort.Strings(matches)

	templates := make([]*Template, 0, len(matches))
	for _, rel := range matches {
		path := filepath.Join(dir, rel)
		tpl, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	log.Info("templates_loaded", map[string]any{"dir": dir, "count": len(templates)})
	return templates, nil
}

// LoadFile parses one template file.
func LoadFile(path string) (*Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}
	tpl, err := Parse(string(content))
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}
	tpl.Source = path
	return tpl, nil
}

// Parse builds a Template from markdown with YAML frontmatter.
func Parse(content string) (*Template, error) {
	if !strings.HasPrefix(content, "---") {
		return nil, errors.New("missing frontmatter")
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return nil, errors.New("unterminated frontmatter")
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}

	tpl, err := fromFrontmatter(fm)
	if err != nil {
		return nil, err
	}
	tpl.Sections = splitSections(parts[2])

	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return tpl, nil
}

func fromFrontmatter(fm frontmatter) (*Template, error) {
	cat, ok := task.ParseCategory(fm.Category)
	if !ok {
		if fm.Category != string(CategoryAny) {
			return nil, fmt.Errorf("unknown category %q", fm.Category)
		}
		cat = CategoryAny
	}

	rng := ComplexityRange{Min: task.Simple, Max: task.Expert}
	if fm.Complexity.Min != "" {
		if rng.Min, ok = task.ParseComplexity(fm.Complexity.Min); !ok {
			return nil, fmt.Errorf("unknown complexity %q", fm.Complexity.Min)
		}
	}
	if fm.Complexity.Max != "" {
		if rng.Max, ok = task.ParseComplexity(fm.Complexity.Max); !ok {
			return nil, fmt.Errorf("unknown complexity %q", fm.Complexity.Max)
		}
	}

	name := fm.Name
	if name == "" {
		name = fm.ID
	}
	return &Template{
		ID:             fm.ID,
		Version:        fm.Version,
		Name:           name,
		Category:       cat,
		Range:          rng,
		Priority:       fm.Priority,
		EstimatedHours: fm.EstimatedHours,
		Requires: Requirements{
			AITools:   fm.RequiresAI,
			Languages: fm.RequiresLangs,
			MinRAMGB:  fm.MinRAMGB,
		},
		Slots: fm.Slots,
	}, nil
}

// splitSections breaks the body on `##` headings. Text before the first
// heading is dropped; templates put all content under headings.
func splitSections(body string) []Section {
	var sections []Section
	var current *Section

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "## ") {
			if current != nil {
				current.Body = strings.TrimSpace(current.Body)
				sections = append(sections, *current)
			}
			current = &Section{Heading: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			continue
		}
		if current != nil {
			current.Body += line + "\n"
		}
	}
	if current != nil {
		current.Body = strings.TrimSpace(current.Body)
		sections = append(sections, *current)
	}
	return sections
}
