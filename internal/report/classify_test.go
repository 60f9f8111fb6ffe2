package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableMatch(t *testing.T) {
	t.Parallel()

	table := NewTable(
		Rule{Prefix: ".l1", Category: "CM"},
		Rule{Prefix: ".l3", Category: "PM"},
	)

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCat  string
		wantDesc string
	}{
		{name: "basic", body: ".l1 Lampu mati", wantOK: true, wantCat: "CM", wantDesc: "Lampu mati"},
		{name: "upper case prefix", body: ".L3 AC bocor", wantOK: true, wantCat: "PM", wantDesc: "AC bocor"},
		{name: "remainder is trimmed", body: ".l1    Pintu rusak  \n", wantOK: true, wantCat: "CM", wantDesc: "Pintu rusak"},
		{name: "prefix only", body: ".l1", wantOK: false},
		{name: "prefix and space only", body: ".l1 ", wantOK: true, wantCat: "CM", wantDesc: ""},
		{name: "no separating space", body: ".l1Lampu", wantOK: false},
		{name: "longer token", body: ".l10 Lampu", wantOK: false},
		{name: "not at start", body: "tolong .l1 Lampu", wantOK: false},
		{name: "ordinary chat", body: "selamat pagi", wantOK: false},
		{name: "empty body", body: "", wantOK: false},
		{name: "multibyte body", body: "éé Lampu", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rule, desc, ok := table.Match(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantCat, rule.Category)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestTableRulesAreCopied(t *testing.T) {
	t.Parallel()

	rules := []Rule{{Prefix: ".l1", Category: "CM"}}
	table := NewTable(rules...)
	rules[0].Category = "changed"

	r, _, ok := table.Match(".l1 x")
	assert.True(t, ok)
	assert.Equal(t, "CM", r.Category)
}

func TestIsStale(t *testing.T) {
	t.Parallel()

	assert.False(t, IsStale(testNow, testNow))
	assert.False(t, IsStale(testNow, testNow.Add(-60*time.Second)))
	assert.True(t, IsStale(testNow, testNow.Add(-61*time.Second)))
	assert.False(t, IsStale(testNow, testNow.Add(time.Minute)), "clock skew into the future is not stale")
}
