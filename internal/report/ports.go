package report

import (
	"context"
	"strings"
	"time"
)

const groupSuffix = "@g.us"

// MediaSource is the media attached to an inbound message. The MIME type is known
// before the bytes are fetched.
type MediaSource interface {
	MimeType() string
	Download(ctx context.Context) ([]byte, error)
}

// InboundMessage is one chat event as delivered by the transport. The pipeline reads it
// and never mutates it.
type InboundMessage struct {
	ID          string
	From        string // chat address; ends with @g.us for groups
	Participant string // sender address inside a group, empty for direct chats
	Body        string
	Timestamp   time.Time
	Media       MediaSource

	// Raw is the transport's own event, used by the transport when replying.
	Raw any
}

func (m InboundMessage) IsGroup() bool {
	return strings.HasSuffix(m.From, groupSuffix)
}

func (m InboundMessage) HasMedia() bool {
	return m.Media != nil
}

// Contact is what the transport knows about a sender.
type Contact struct {
	ContactName string // name saved in the address book
	PushName    string // name the user set for themselves
}

// ResolvedName applies the contact name, push name, fallback precedence.
func (c Contact) ResolvedName() string {
	if n := strings.TrimSpace(c.ContactName); n != "" {
		return n
	}
	if n := strings.TrimSpace(c.PushName); n != "" {
		return n
	}
	return UnknownUser
}

type GroupInfo struct {
	ID   string
	Name string
}

// Report is the payload posted to the reporting webhook.
type Report struct {
	Evidence    string `json:"evidence"`
	Description string `json:"description"`
	Pelapor     string `json:"pelapor"`
	Phone       string `json:"phone"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory,omitempty"`
}

// Transport is the messaging client as seen by the pipeline.
type Transport interface {
	Contact(ctx context.Context, msg InboundMessage) (Contact, error)
	GroupInfo(ctx context.Context, chatID string) (GroupInfo, error)
	Reply(ctx context.Context, msg InboundMessage, text string) error
}

// Uploader stores evidence bytes and returns a durable public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, resourceType string) (string, error)
}

// Outbound delivers a composed report.
type Outbound interface {
	Deliver(ctx context.Context, r Report) error
}

// Outcome says how far a message got through the pipeline.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeStale
	OutcomeFailed
	OutcomeDelivered
	OutcomeAcknowledged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeStale:
		return "stale"
	case OutcomeFailed:
		return "failed"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeAcknowledged:
		return "acknowledged"
	default:
		return "unknown"
	}
}

// Service runs the classification and dispatch pipeline for one message.
type Service interface {
	HandleIncoming(ctx context.Context, msg InboundMessage) (Outcome, error)
}
