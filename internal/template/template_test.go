package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		data   map[string]any
		want   string
	}{
		{
			name:   "unresolved keys stay literal",
			format: "Hi {name}, due {due}",
			data:   map[string]any{"name": "Budi"},
			want:   "Hi Budi, due {due}",
		},
		{
			name:   "every occurrence is replaced",
			format: "{name} / {name} / {name}",
			data:   map[string]any{"name": "Sari"},
			want:   "Sari / Sari / Sari",
		},
		{
			name:   "numbers and bools are stringified",
			format: "Floor {floor}, urgent={urgent}, ratio {ratio}",
			data:   map[string]any{"floor": 3, "urgent": true, "ratio": 0.5},
			want:   "Floor 3, urgent=true, ratio 0.5",
		},
		{
			name:   "json numbers render without decimals",
			format: "Ticket #{id}",
			data:   map[string]any{"id": float64(42)},
			want:   "Ticket #42",
		},
		{
			name:   "large and small floats keep plain notation",
			format: "Laporan {id} biaya {amount} rasio {small}",
			data:   map[string]any{"id": float64(1000000), "amount": 25000000.0, "small": 0.00001},
			want:   "Laporan 1000000 biaya 25000000 rasio 0.00001",
		},
		{
			name:   "json.Number keeps the literal text",
			format: "Ticket #{id}, ratio {small}",
			data:   map[string]any{"id": json.Number("1000000"), "small": json.Number("0.00001")},
			want:   "Ticket #1000000, ratio 0.00001",
		},
		{
			name:   "nil data is a no-op",
			format: "Hello {name}",
			data:   nil,
			want:   "Hello {name}",
		},
		{
			name:   "extra keys are ignored",
			format: "Hello",
			data:   map[string]any{"name": "x"},
			want:   "Hello",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Render(Template{Format: tt.format}, tt.data)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	data := map[string]any{"a": "{b}", "b": "B"}
	first := RenderString("{a}-{b}", data)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, RenderString("{a}-{b}", data))
	}
	assert.Equal(t, "B-B", first)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	src := map[string]Template{
		"maintenance": {Title: "Maintenance", Format: "Maintenance on {date} at {site}"},
	}
	reg := NewRegistry(src)
	src["maintenance"] = Template{Format: "mutated"}

	got, err := reg.Render("maintenance", map[string]any{"date": "Monday"})
	require.NoError(t, err)
	assert.Equal(t, "Maintenance on Monday at {site}", got)

	_, err = reg.Get("missing")
	require.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Equal(t, []string{"maintenance"}, reg.Names())
}
