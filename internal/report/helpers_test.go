package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTransport struct {
	mu         sync.Mutex
	contact    Contact
	contactErr error
	group      GroupInfo
	groupErr   error
	groupCalls int
	replyErr   error
	replies    []string
}

func (f *fakeTransport) Contact(context.Context, InboundMessage) (Contact, error) {
	return f.contact, f.contactErr
}

func (f *fakeTransport) GroupInfo(_ context.Context, chatID string) (GroupInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupCalls++
	if f.groupErr != nil {
		return GroupInfo{}, f.groupErr
	}
	g := f.group
	g.ID = chatID
	return g, nil
}

func (f *fakeTransport) Reply(_ context.Context, _ InboundMessage, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replyErr != nil {
		return f.replyErr
	}
	f.replies = append(f.replies, text)
	return nil
}

type fakeOutbound struct {
	mu      sync.Mutex
	err     error
	reports []Report
}

func (f *fakeOutbound) Deliver(_ context.Context, r Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, r)
	return nil
}

type fakeUploader struct {
	url   string
	err   error
	calls int
	types []string
}

func (f *fakeUploader) Upload(_ context.Context, data []byte, resourceType string) (string, error) {
	f.calls++
	f.types = append(f.types, resourceType)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeMedia struct {
	mime      string
	data      []byte
	err       error
	downloads int
}

func (f *fakeMedia) MimeType() string { return f.mime }

func (f *fakeMedia) Download(context.Context) ([]byte, error) {
	f.downloads++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

var errBoom = errors.New("boom")

var testNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func directMessage(body string) InboundMessage {
	return InboundMessage{
		ID:        "MSG-1",
		From:      "6281234@c.us",
		Body:      body,
		Timestamp: testNow.Add(-5 * time.Second),
	}
}
