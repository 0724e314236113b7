package mindshare

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"mindshare/internal/domain/catalog"
)

// maxTickerLen is the longest handle/short name still treated as a
// ticker-like token. Longer names only match as explicit @mentions to
// avoid spurious substring hits.
const maxTickerLen = 10

// rule is one compiled matching pattern. Identical pattern sources across
// projects are merged into a single rule so a generic shared ticker is
// evaluated once per text instead of once per project.
type rule struct {
	re       *regexp.Regexp
	projects []uuid.UUID
}

// Matcher attributes free text to catalog projects using mention,
// bare-handle and cashtag patterns.
type Matcher struct {
	rules []rule
}

// NewMatcher compiles matching rules for the given projects. Projects with
// an empty handle are skipped; they cannot produce patterns but must not
// fail the whole batch.
func NewMatcher(projects []catalog.Project) *Matcher {
	targets := make(map[string][]uuid.UUID)
	var order []string

	add := func(source string, id uuid.UUID) {
		if _, ok := targets[source]; !ok {
			order = append(order, source)
		}
		targets[source] = append(targets[source], id)
	}

	for _, p := range projects {
		if !p.Valid() {
			continue
		}

		handle := strings.ToLower(strings.TrimSpace(p.Handle))
		quoted := regexp.QuoteMeta(handle)

		// Mention pattern, always created
		add(`@`+quoted+`\b`, p.ID)

		// Bare handle only for short, ticker-like handles
		if len(handle) <= maxTickerLen {
			add(quoted+`\b`, p.ID)
		}

		short := strings.ToLower(strings.TrimSpace(p.ShortName))
		if short != "" && len(short) <= maxTickerLen && short != handle {
			add(`\$`+regexp.QuoteMeta(short)+`\b`, p.ID)
		}
	}

	m := &Matcher{rules: make([]rule, 0, len(order))}
	for _, source := range order {
		re, err := regexp.Compile(source)
		if err != nil {
			// QuoteMeta makes this unreachable; skip rather than fail
			continue
		}
		m.rules = append(m.rules, rule{re: re, projects: targets[source]})
	}

	return m
}

// Match returns the ids of every project the text mentions, deduplicated,
// in first-pattern-match order. The text is lowercased once; all pattern
// sources are lowercase already.
func (m *Matcher) Match(text string) []uuid.UUID {
	lower := strings.ToLower(text)

	var matched []uuid.UUID
	seen := make(map[uuid.UUID]struct{})

	for _, r := range m.rules {
		if !r.re.MatchString(lower) {
			continue
		}
		for _, id := range r.projects {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			matched = append(matched, id)
		}
	}

	return matched
}

// RuleCount returns the number of compiled (merged) rules.
func (m *Matcher) RuleCount() int {
	return len(m.rules)
}
