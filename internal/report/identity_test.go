package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "6281234@lid", want: "6281234"},
		{in: "6281234@c.us", want: "6281234"},
		{in: "6281234@s.whatsapp.net", want: "6281234"},
		{in: "6281234:12@s.whatsapp.net", want: "6281234"},
		{in: "whatsapp:+6281234@c.us", want: "6281234"},
		{in: "whatsapp:6281234", want: "6281234"},
		{in: " 6281234@c.us ", want: "6281234"},
		{in: "", want: UnknownPhone},
		{in: "status@broadcast", want: UnknownPhone},
		{in: "@c.us", want: UnknownPhone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestSenderPhone(t *testing.T) {
	t.Parallel()

	group := InboundMessage{From: "120363012345@g.us", Participant: "6281234@lid"}
	assert.True(t, group.IsGroup())
	assert.Equal(t, "6281234", SenderPhone(group))

	noParticipant := InboundMessage{From: "120363012345@g.us"}
	assert.Equal(t, UnknownPhone, SenderPhone(noParticipant))

	direct := InboundMessage{From: "6281234@c.us", Participant: "999@lid"}
	assert.False(t, direct.IsGroup())
	assert.Equal(t, "6281234", SenderPhone(direct))
}

func TestContactResolvedName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Budi Kontak", Contact{ContactName: "Budi Kontak", PushName: "budi"}.ResolvedName())
	assert.Equal(t, "budi", Contact{ContactName: "  ", PushName: "budi"}.ResolvedName())
	assert.Equal(t, UnknownUser, Contact{}.ResolvedName())
}
