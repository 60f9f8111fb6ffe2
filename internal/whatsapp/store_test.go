package whatsapp

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "postgres", dialect("postgres://wa:wa@localhost:5432/wa?sslmode=disable"))
	assert.Equal(t, "postgres", dialect("postgresql://localhost/wa"))
	assert.Equal(t, "sqlite3", dialect("file:session/whatsapp.db?_foreign_keys=on"))
	assert.Equal(t, "sqlite3", dialect("whatsapp.db"))
}

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), "client")
	l.Sub("socket").Warnf("frame %d dropped", 7)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="frame 7 dropped"`)
	assert.Contains(t, out, "module=client")
	assert.Contains(t, out, "sub=socket")
}
