package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAckPoolsSelect(t *testing.T) {
	t.Parallel()

	src := map[string][]string{
		DefaultAckPool: {"Terima kasih {name}", "Siap {name}, laporan dicatat"},
		"CM":           {"CM: {name}"},
		"PM":           {},
	}
	pools := NewAckPools(src).WithPicker(func(n int) int { return n - 1 })

	assert.Equal(t, "CM: Budi", pools.Select("CM", "Budi"))
	assert.Equal(t, "Siap Budi, laporan dicatat", pools.Select("PM", "Budi"), "empty pool falls back to default")
	assert.Equal(t, "Siap Ani, laporan dicatat", pools.Select("XX", "Ani"))

	src["CM"][0] = "mutated"
	assert.Equal(t, "CM: Budi", pools.Select("CM", "Budi"), "pools are copied on construction")
}

func TestAckPoolsSelectWithoutPools(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", NewAckPools(nil).Select("CM", "Budi"))
}

func TestAckPoolsRandomPickStaysInPool(t *testing.T) {
	t.Parallel()

	pool := []string{"a {name}", "b {name}", "c {name}"}
	pools := NewAckPools(map[string][]string{DefaultAckPool: pool})
	allowed := map[string]bool{"a x": true, "b x": true, "c x": true}
	for i := 0; i < 100; i++ {
		assert.True(t, allowed[pools.Select("CM", "x")])
	}
}
