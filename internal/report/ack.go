package report

import (
	"math/rand/v2"

	"github.com/Vovarama1992/wa-report-bridge/internal/template"
)

// DefaultAckPool names the pool used for categories without their own.
const DefaultAckPool = "default"

// AckPools holds acknowledgement candidates per category.
type AckPools struct {
	pools map[string][]string
	pick  func(n int) int
}

func NewAckPools(pools map[string][]string) *AckPools {
	m := make(map[string][]string, len(pools))
	for k, v := range pools {
		m[k] = append([]string(nil), v...)
	}
	return &AckPools{pools: m, pick: rand.IntN}
}

// WithPicker replaces the uniform random index source. Used in tests.
func (a *AckPools) WithPicker(pick func(n int) int) *AckPools {
	a.pick = pick
	return a
}

// Pool returns the candidates for category, or the default pool.
func (a *AckPools) Pool(category string) []string {
	if p, ok := a.pools[category]; ok && len(p) > 0 {
		return p
	}
	return a.pools[DefaultAckPool]
}

// Select picks one acknowledgement for category and fills in {name}.
// It returns "" when no pool applies.
func (a *AckPools) Select(category, name string) string {
	pool := a.Pool(category)
	if len(pool) == 0 {
		return ""
	}
	entry := pool[a.pick(len(pool))]
	return template.RenderString(entry, map[string]any{"name": name})
}
