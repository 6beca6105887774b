package rag

import (
	"regexp"
	"strconv"
	"strings"

	"document-tutor/internal/config"
)

var greetings = map[string]bool{
	"hi": true, "hi!": true,
	"hi there": true, "hi there!": true,
	"hello": true, "hello!": true,
	"hey": true, "hey!": true,
}

// IsGreeting reports whether q is a bare greeting that needs no retrieval.
func IsGreeting(q string) bool {
	return greetings[strings.ToLower(strings.TrimSpace(q))]
}

// BudgetRule resolves a word budget from a lower-cased question. ok is false
// when the rule does not apply.
type BudgetRule struct {
	Name    string
	Pattern *regexp.Regexp
	Resolve func(match []string) (budget int, ok bool)
}

func fixed(n int) func([]string) (int, bool) {
	return func([]string) (int, bool) { return n, true }
}

// WordBudgetRules are evaluated in order; the first rule that matches and
// resolves wins.
var WordBudgetRules = []BudgetRule{
	{
		Name:    "explicit",
		Pattern: regexp.MustCompile(`(?:in|under|less than|at most|<=|≤)\s*(\d+)\s*words?`),
		Resolve: func(m []string) (int, bool) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, false
			}
			return max(config.MinWordBudget, n), true
		},
	},
	{Name: "one line", Pattern: regexp.MustCompile(`\b(?:one|1)[ -]line`), Resolve: fixed(20)},
	{Name: "brief", Pattern: regexp.MustCompile(`\b(?:brief|short|concise)`), Resolve: fixed(60)},
	{Name: "detailed", Pattern: regexp.MustCompile(`\b(?:detail|long|elaborat)`), Resolve: fixed(180)},
}

// ParseWordLimit extracts the answer length asked for in q, or returns def.
func ParseWordLimit(q string, def int) int {
	low := strings.ToLower(q)
	for _, rule := range WordBudgetRules {
		m := rule.Pattern.FindStringSubmatch(low)
		if m == nil {
			continue
		}
		if n, ok := rule.Resolve(m); ok {
			return n
		}
	}
	return def
}
