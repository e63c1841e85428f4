package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joss/opius/internal/plan"
)

// conflictPair names two tools that should not both be recommended as
// primary choices in the same plan.
type conflictPair struct {
	a, b string
}

var conflictPairs = []conflictPair{
	{"webpack", "vite"},
	{"webpack", "esbuild"},
	{"npm", "yarn"},
	{"npm", "pnpm"},
	{"yarn", "pnpm"},
	{"postgresql", "mongodb"},
	{"mysql", "postgresql"},
}

// conflictingToolsRule flags plans that recommend two mutually exclusive
// tools anywhere in the document, including across sections. Matching is
// word-bounded so "vitest" does not count as "vite".
type conflictingToolsRule struct{}

func (conflictingToolsRule) ID() string { return "conflicting-tools" }

func (r conflictingToolsRule) Check(p *plan.Plan) []Violation {
	var b strings.Builder
	for _, s := range p.Sections {
		b.WriteString(s.Body)
		b.WriteByte('\n')
	}
	body := strings.ToLower(b.String())

	var out []Violation
	for _, pair := range conflictPairs {
		if mentions(body, pair.a) && mentions(body, pair.b) {
			out = append(out, Violation{
				RuleID:  r.ID(),
				Message: fmt.Sprintf("plan recommends both %s and %s", pair.a, pair.b),
			})
		}
	}
	return out
}

var mentionCache = map[string]*regexp.Regexp{}

func init() {
	for _, pair := range conflictPairs {
		for _, tool := range []string{pair.a, pair.b} {
			if _, ok := mentionCache[tool]; !ok {
				mentionCache[tool] = regexp.MustCompile(`\b` + regexp.QuoteMeta(tool) + `\b`)
			}
		}
	}
}

func mentions(body, tool string) bool {
	return mentionCache[tool].MatchString(body)
}
