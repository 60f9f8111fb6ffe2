package messaging

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

var sentAt = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type call struct {
	op   string
	to   string
	text string
}

type fakeTransport struct {
	mu      sync.Mutex
	ready   bool
	err     error
	groups  []Group
	calls   []call
	nextRef string
}

func (f *fakeTransport) IsReady() bool { return f.ready }

func (f *fakeTransport) record(op, to, text string) (Sent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: op, to: to, text: text})
	if f.err != nil {
		return Sent{}, f.err
	}
	ref := f.nextRef
	if ref == "" {
		ref = "true_" + to + "_3EB0ABC"
	}
	return Sent{Ref: ref, Timestamp: sentAt}, nil
}

func (f *fakeTransport) SendDirect(_ context.Context, phone, text string) (Sent, error) {
	return f.record("direct", phone, text)
}

func (f *fakeTransport) SendGroup(_ context.Context, groupID, text string) (Sent, error) {
	return f.record("group", groupID, text)
}

func (f *fakeTransport) EditText(_ context.Context, ref, text string) (Sent, error) {
	f.nextRef = ref
	return f.record("edit", ref, text)
}

func (f *fakeTransport) Revoke(_ context.Context, ref string) error {
	_, err := f.record("revoke", ref, "")
	return err
}

func (f *fakeTransport) ListGroups(context.Context) ([]Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.groups, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
