package messaging

import (
	"context"
	"time"
)

const (
	StatusReady        = "ready"
	StatusInitializing = "initializing"
)

// Sent is what the transport reports back for an outgoing or edited message.
// Ref is an opaque id that EditText and Revoke accept later.
type Sent struct {
	Ref       string
	Timestamp time.Time
}

// Group is a chat group the linked account belongs to.
type Group struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ParticipantsCount int    `json:"participantsCount"`
	Description       string `json:"description"`
	Owner             string `json:"owner"`
	CreatedAt         *int64 `json:"createdAt"`
}

// Result is returned to operators by every send, edit and delete.
type Result struct {
	Success      bool   `json:"success"`
	MessageID    string `json:"messageId"`
	Timestamp    int64  `json:"timestamp"`
	NewText      string `json:"newText,omitempty"`
	TemplateUsed string `json:"templateUsed,omitempty"`
}

// Transport is the chat client as seen by the operator API.
type Transport interface {
	IsReady() bool
	SendDirect(ctx context.Context, phone, text string) (Sent, error)
	SendGroup(ctx context.Context, groupID, text string) (Sent, error)
	EditText(ctx context.Context, ref, text string) (Sent, error)
	Revoke(ctx context.Context, ref string) error
	ListGroups(ctx context.Context) ([]Group, error)
}

type Service interface {
	SendMessage(ctx context.Context, phone, text string) (Result, error)
	SendGroupMessage(ctx context.Context, groupID, text string) (Result, error)
	SendTemplateMessage(ctx context.Context, name string, data map[string]any, groupID string) (Result, error)
	GetGroups(ctx context.Context) ([]Group, error)
	Status() string
	EditMessage(ctx context.Context, id, newText string) (Result, error)
	DeleteMessage(ctx context.Context, id string) (Result, error)
	EditMessageWithTemplate(ctx context.Context, id, name string, data map[string]any) (Result, error)
}
