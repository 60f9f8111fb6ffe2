package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/Vovarama1992/wa-report-bridge/internal/template"
)

func newTestService(tr *fakeTransport) *service {
	reg := template.NewRegistry(map[string]template.Template{
		"maintenance": {Title: "Maintenance", Format: "Perbaikan {area} pada {date}"},
	})
	svc := NewService(tr, reg, nil, discardLogger()).(*service)
	svc.now = func() time.Time { return sentAt }
	return svc
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{ready: true}
	res, err := newTestService(tr).SendMessage(context.Background(), "+62 812-34", "halo")
	require.NoError(t, err)

	assert.Equal(t, Result{Success: true, MessageID: "true_+62 812-34_3EB0ABC", Timestamp: sentAt.Unix()}, res)
	assert.Equal(t, []call{{op: "direct", to: "+62 812-34", text: "halo"}}, tr.calls)
}

func TestSendMessageRejectsPhoneWithoutDigits(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{ready: true}
	_, err := newTestService(tr).SendMessage(context.Background(), "abc", "halo")
	assert.ErrorIs(t, err, ErrInvalidRecipient)
	assert.Empty(t, tr.calls)
}

func TestNotReady(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{}
	svc := newTestService(tr)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "628", "x")
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = svc.SendGroupMessage(ctx, "1203@g.us", "x")
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = svc.GetGroups(ctx)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = svc.EditMessage(ctx, "true_628@s.whatsapp.net_ID", "x")
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = svc.DeleteMessage(ctx, "true_628@s.whatsapp.net_ID")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, StatusInitializing, svc.Status())
	assert.Empty(t, tr.calls)
}

func TestSendTemplateMessage(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{ready: true}
	svc := newTestService(tr)

	res, err := svc.SendTemplateMessage(context.Background(), "maintenance",
		map[string]any{"area": "Lift B", "date": "Senin", "unused": 1}, "120363@g.us")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []call{{op: "group", to: "120363@g.us", text: "Perbaikan Lift B pada Senin"}}, tr.calls)

	_, err = svc.SendTemplateMessage(context.Background(), "missing", map[string]any{}, "120363@g.us")
	assert.ErrorIs(t, err, template.ErrTemplateNotFound)
	assert.Len(t, tr.calls, 1)
}

func TestEditAndDelete(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{ready: true}
	svc := newTestService(tr)
	ctx := context.Background()
	ref := "true_120363@g.us_3EB0FF"

	res, err := svc.EditMessage(ctx, ref, "baru")
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, MessageID: ref, Timestamp: sentAt.Unix(), NewText: "baru"}, res)

	res, err = svc.EditMessageWithTemplate(ctx, ref, "maintenance", map[string]any{"area": "Lobby"})
	require.NoError(t, err)
	assert.Equal(t, "Perbaikan Lobby pada {date}", res.NewText)
	assert.Equal(t, "maintenance", res.TemplateUsed)

	res, err = svc.DeleteMessage(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, MessageID: ref, Timestamp: sentAt.UnixMilli()}, res)

	require.Len(t, tr.calls, 3)
	assert.Equal(t, "revoke", tr.calls[2].op)
}

func TestTransportErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{ready: true, err: ErrInvalidMessageID}
	_, err := newTestService(tr).EditMessage(context.Background(), "garbage", "x")
	assert.ErrorIs(t, err, ErrInvalidMessageID)

	boom := errors.New("boom")
	tr = &fakeTransport{ready: true, err: boom}
	_, err = newTestService(tr).GetGroups(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGetGroupsNeverNil(t *testing.T) {
	t.Parallel()

	groups, err := newTestService(&fakeTransport{ready: true}).GetGroups(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestRateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{ready: true}
	lim := rate.NewLimiter(rate.Every(time.Hour), 1)
	svc := NewService(tr, nil, lim, discardLogger())

	_, err := svc.SendMessage(context.Background(), "628", "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.SendMessage(ctx, "628", "second")
	require.Error(t, err)
	assert.Len(t, tr.calls, 1, "limited send never reaches the transport")
}
