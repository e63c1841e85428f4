package task

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrEmptyDescription indicates the description was empty or whitespace-only.
var ErrEmptyDescription = errors.New("task description is empty")

// ParsingError wraps ErrEmptyDescription with the offending input.
type ParsingError struct {
	Input string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("cannot analyze task: description is empty (input %q)", e.Input)
}

func (e *ParsingError) Unwrap() error {
	return ErrEmptyDescription
}

// categoryRule maps a pattern to a category. Rules are evaluated in order;
// the first match wins. Patterns match on word boundaries, case-insensitive.
type categoryRule struct {
	pattern  string
	category Category
}

// Rule order encodes priority: distinctive nouns before generic verbs, so
// "write a novel" classifies creative even though "write" alone is weak.
var categoryRules = []categoryRule{
	// Unambiguous creative artifacts.
	{"novel", CategoryCreative},
	{"story", CategoryCreative},
	{"poem", CategoryCreative},
	{"song", CategoryCreative},
	{"screenplay", CategoryCreative},
	{"painting", CategoryCreative},
	{"illustration", CategoryCreative},
	{"animation", CategoryCreative},
	{"photography", CategoryCreative},
	{"sculpture", CategoryCreative},

	// Learning-focused work.
	{"learn", CategoryEducational},
	{"study", CategoryEducational},
	{"course", CategoryEducational},
	{"tutorial", CategoryEducational},
	{"training", CategoryEducational},
	{"certification", CategoryEducational},
	{"curriculum", CategoryEducational},
	{"exam", CategoryEducational},

	// Life events and personal projects.
	{"wedding", CategoryPersonal},
	{"vacation", CategoryPersonal},
	{"trip", CategoryPersonal},
	{"party", CategoryPersonal},
	{"birthday", CategoryPersonal},
	{"fitness", CategoryPersonal},
	{"diet", CategoryPersonal},
	{"garden", CategoryPersonal},

	// Business work.
	{"marketing", CategoryBusiness},
	{"budget", CategoryBusiness},
	{"sales", CategoryBusiness},
	{"revenue", CategoryBusiness},
	{"proposal", CategoryBusiness},
	{"roi", CategoryBusiness},
	{"kpi", CategoryBusiness},
	{"stakeholder", CategoryBusiness},
	{"business plan", CategoryBusiness},
	{"market analysis", CategoryBusiness},

	// Software and systems.
	{"build", CategoryTechnical},
	{"develop", CategoryTechnical},
	{"code", CategoryTechnical},
	{"program", CategoryTechnical},
	{"app", CategoryTechnical},
	{"application", CategoryTechnical},
	{"website", CategoryTechnical},
	{"web", CategoryTechnical},
	{"software", CategoryTechnical},
	{"api", CategoryTechnical},
	{"database", CategoryTechnical},
	{"algorithm", CategoryTechnical},
	{"machine learning", CategoryTechnical},
	{"cli", CategoryTechnical},
	{"backend", CategoryTechnical},
	{"frontend", CategoryTechnical},
	{"server", CategoryTechnical},
	{"deploy", CategoryTechnical},

	// Weak creative verbs, after technical so "design a database" is
	// technical but "design a logo" lands here.
	{"write", CategoryCreative},
	{"design", CategoryCreative},
	{"compose", CategoryCreative},
	{"draw", CategoryCreative},
}

// Complexity signals. Positive weights push toward expert, negative toward
// simple. Scores map onto the four levels via fixed thresholds.
var complexitySignals = []struct {
	pattern string
	weight  int
}{
	{"simple", -2}, {"basic", -2}, {"easy", -2}, {"quick", -2},
	{"small", -2}, {"minimal", -2}, {"straightforward", -2},
	{"mvp", -1}, {"prototype", -1}, {"single", -1},

	{"enterprise", 2}, {"large-scale", 2}, {"distributed", 2},
	{"scalable", 2}, {"comprehensive", 2}, {"sophisticated", 2},
	{"advanced", 2}, {"complex", 2}, {"multi-tier", 2},

	{"research", 3}, {"phd", 3}, {"dissertation", 3}, {"thesis", 3},
	{"mission-critical", 3}, {"cutting-edge", 3}, {"revolutionary", 3},
}

// Complexity score thresholds (documented Open Question decision):
// score <= -1 -> simple, <= 1 -> moderate, <= 3 -> complex, else expert.
const (
	simpleMax   = -1
	moderateMax = 1
	complexMax  = 3
)

// techTerms are single-token technology keywords recognized during keyword
// extraction, in canonical lowercase form.
var techTerms = map[string]bool{
	"python": true, "javascript": true, "typescript": true, "react": true,
	"vue": true, "angular": true, "node": true, "flask": true,
	"django": true, "postgresql": true, "mysql": true, "mongodb": true,
	"docker": true, "kubernetes": true, "aws": true, "rust": true,
	"go": true, "java": true, "webpack": true, "vite": true,
	"esbuild": true, "sql": true, "graphql": true, "redis": true,
	"git": true, "api": true, "npm": true, "pnpm": true, "yarn": true,
}

// techPhrases are multi-token keywords checked after single tokens.
var techPhrases = []string{"machine learning", "web application", "data pipeline"}

// skillRules map skill names to trigger patterns, in fixed output order.
var skillRules = []struct {
	skill    string
	patterns []string
}{
	{"Web Development", []string{"web", "html", "css", "frontend", "backend", "website"}},
	{"JavaScript", []string{"javascript", "js", "node", "npm"}},
	{"React", []string{"react", "jsx", "redux"}},
	{"Python", []string{"python", "django", "flask", "pandas"}},
	{"Database Design", []string{"database", "sql", "postgresql", "mysql", "mongodb"}},
	{"DevOps", []string{"docker", "kubernetes", "ci/cd", "deploy"}},
	{"Machine Learning", []string{"machine learning", "neural", "model training"}},
	{"Testing", []string{"test", "testing", "tdd"}},
	{"Design", []string{"design", "ui", "ux", "visual"}},
	{"Writing", []string{"write", "writing", "novel", "story", "content"}},
	{"Project Management", []string{"project", "agile", "scrum", "milestone"}},
}

// Analyzer classifies task descriptions. It holds no mutable state; a
// single instance is safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates a task analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Overrides bypass the corresponding analysis step when set.
type Overrides struct {
	Category   *Category
	Complexity *Complexity
}

// Analyze classifies a description into an immutable Task.
// Identical input always yields an identical Task.
func (a *Analyzer) Analyze(description string) (*Task, error) {
	return a.AnalyzeWith(description, Overrides{})
}

// AnalyzeWith is Analyze with explicit category/complexity overrides.
func (a *Analyzer) AnalyzeWith(description string, ov Overrides) (*Task, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return nil, &ParsingError{Input: description}
	}

	lower := strings.ToLower(trimmed)
	words := strings.Fields(lower)

	category := classify(lower)
	if ov.Category != nil {
		category = *ov.Category
	}

	complexity := scoreComplexity(lower, len(words))
	if ov.Complexity != nil {
		complexity = *ov.Complexity
	}

	keywords := extractKeywords(lower)
	skills := identifySkills(lower)

	attrs := map[string]string{
		AttrProjectName: projectName(trimmed),
		AttrDuration:    complexity.Duration(),
		AttrWordCount:   strconv.Itoa(len(words)),
	}

	return &Task{
		Description: trimmed,
		Category:    category,
		Complexity:  complexity,
		Attributes:  attrs,
		Keywords:    keywords,
		Skills:      skills,
	}, nil
}

var wordBoundaryCache = map[string]*regexp.Regexp{}

func init() {
	for _, r := range categoryRules {
		wordBoundaryCache[r.pattern] = boundaryPattern(r.pattern)
	}
	for _, s := range complexitySignals {
		wordBoundaryCache[s.pattern] = boundaryPattern(s.pattern)
	}
}

func boundaryPattern(p string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
}

func matchWord(lower, pattern string) bool {
	re, ok := wordBoundaryCache[pattern]
	if !ok {
		re = boundaryPattern(pattern)
	}
	return re.MatchString(lower)
}

// classify runs the ordered rule table; first match wins, no match is custom.
func classify(lower string) Category {
	for _, r := range categoryRules {
		if matchWord(lower, r.pattern) {
			return r.category
		}
	}
	return CategoryCustom
}

func scoreComplexity(lower string, wordCount int) Complexity {
	score := 0
	for _, s := range complexitySignals {
		if matchWord(lower, s.pattern) {
			score += s.weight
		}
	}

	// Longer descriptions tend to describe bigger scopes.
	if wordCount >= 30 {
		score++
	}
	if wordCount >= 60 {
		score++
	}

	// A pile of named technologies signals integration work.
	if n := len(extractKeywords(lower)); n >= 3 {
		score++
	}

	switch {
	case score <= simpleMax:
		return Simple
	case score <= moderateMax:
		return Moderate
	case score <= complexMax:
		return Complex
	default:
		return Expert
	}
}

// extractKeywords scans tokens left to right so insertion order follows the
// description, deduplicated.
func extractKeywords(lower string) []string {
	var out []string
	seen := map[string]bool{}

	for _, raw := range strings.Fields(lower) {
		tok := strings.Trim(raw, ".,;:!?()[]{}\"'")
		if techTerms[tok] && !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	for _, phrase := range techPhrases {
		if strings.Contains(lower, phrase) && !seen[phrase] {
			seen[phrase] = true
			out = append(out, phrase)
		}
	}
	return out
}

func identifySkills(lower string) []string {
	var out []string
	for _, rule := range skillRules {
		for _, p := range rule.patterns {
			if matchWord(lower, p) {
				out = append(out, rule.skill)
				break
			}
		}
	}
	return out
}

// projectName picks the first proper-noun-like phrase: a run of capitalized
// words excluding the leading verb. Falls back to a placeholder.
func projectName(trimmed string) string {
	words := strings.Fields(trimmed)
	var run []string
	for i, w := range words {
		if i == 0 {
			continue // leading word is capitalized by convention, not a name
		}
		r := []rune(w)
		if unicode.IsUpper(r[0]) {
			run = append(run, strings.Trim(w, ".,;:!?"))
			continue
		}
		if len(run) > 0 {
			break
		}
	}
	if len(run) > 0 {
		return strings.Join(run, " ")
	}
	return "Untitled Project"
}
