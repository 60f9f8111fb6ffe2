package report

import (
	"strings"
	"time"
)

// StaleAfter is the maximum message age accepted by the pipeline. Older messages are
// typically backlog replayed by the transport after a reconnect.
const StaleAfter = 60 * time.Second

// Rule maps a prefix to a category and optional subcategory.
type Rule struct {
	Prefix      string
	Category    string
	SubCategory string
}

// Table is the immutable prefix classification table.
type Table struct {
	rules []Rule
}

func NewTable(rules ...Rule) *Table {
	return &Table{rules: append([]Rule(nil), rules...)}
}

// Match finds the rule whose prefix, compared case-insensitively and followed by a
// space, starts body. It returns the rule and the remaining text, trimmed.
func (t *Table) Match(body string) (Rule, string, bool) {
	for _, r := range t.rules {
		n := len(r.Prefix)
		if n == 0 || len(body) <= n || body[n] != ' ' {
			continue
		}
		if strings.EqualFold(body[:n], r.Prefix) {
			return r, strings.TrimSpace(body[n+1:]), true
		}
	}
	return Rule{}, "", false
}

// IsStale reports whether a message sent at ts is too old to be reported at now.
func IsStale(now, ts time.Time) bool {
	return now.Sub(ts) > StaleAfter
}
