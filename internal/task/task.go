// Package task provides rule-based analysis of free-text task descriptions.
package task

import "fmt"

// Category classifies what kind of work a task describes.
type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryCreative    Category = "creative"
	CategoryBusiness    Category = "business"
	CategoryPersonal    Category = "personal"
	CategoryEducational Category = "educational"

	// CategoryCustom is assigned when no classification rule matches.
	CategoryCustom Category = "custom"
)

// Categories lists the fixed taxonomy in display order.
func Categories() []Category {
	return []Category{
		CategoryTechnical, CategoryCreative, CategoryBusiness,
		CategoryPersonal, CategoryEducational, CategoryCustom,
	}
}

// ParseCategory maps a string to a Category, or false if unknown.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Complexity is an ordered scale: Simple < Moderate < Complex < Expert.
type Complexity int

const (
	Simple Complexity = iota + 1
	Moderate
	Complex
	Expert
)

// String returns the lowercase name of the complexity level.
func (c Complexity) String() string {
	switch c {
	case Simple:
		return "simple"
	case Moderate:
		return "moderate"
	case Complex:
		return "complex"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("complexity(%d)", int(c))
	}
}

// ParseComplexity maps a string to a Complexity, or false if unknown.
func ParseComplexity(s string) (Complexity, bool) {
	for c := Simple; c <= Expert; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Escalate returns the next level up, clamped at Expert.
func (c Complexity) Escalate() Complexity {
	if c >= Expert {
		return Expert
	}
	return c + 1
}

// Duration returns the coarse duration estimate for the level.
func (c Complexity) Duration() string {
	switch c {
	case Simple:
		return "1-3 days"
	case Moderate:
		return "1-2 weeks"
	case Complex:
		return "2-6 weeks"
	default:
		return "2-6 months"
	}
}

// Well-known attribute keys produced by the analyzer.
const (
	AttrProjectName = "project_name"
	AttrDuration    = "estimated_duration"
	AttrWordCount   = "word_count"
)

// Task is the analyzed, immutable representation of a request.
// Create through Analyzer.Analyze; never mutate after analysis.
type Task struct {
	Description string
	Category    Category
	Complexity  Complexity

	// Attributes are extracted key/value facts (project name, estimates).
	Attributes map[string]string

	// Keywords are recognized domain/technology terms, lowercased,
	// deduplicated, insertion order preserved.
	Keywords []string

	// Skills are human-readable skill names inferred from the description.
	Skills []string
}

// Attribute returns the attribute value, or the fallback when absent.
func (t *Task) Attribute(key, fallback string) string {
	if v, ok := t.Attributes[key]; ok && v != "" {
		return v
	}
	return fallback
}
