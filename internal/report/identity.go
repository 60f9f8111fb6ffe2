package report

import (
	"context"
	"log/slog"
	"strings"
)

const (
	UnknownUser  = "Unknown User"
	UnknownPhone = "unknown"
)

// Identity is the resolved sender of a report. Group is only used for logging.
type Identity struct {
	Name  string
	Phone string
	Group *GroupInfo
}

func (s *service) resolveIdentity(ctx context.Context, msg InboundMessage, log *slog.Logger) Identity {
	contact, err := s.transport.Contact(ctx, msg)
	if err != nil {
		log.Warn("contact lookup failed", slog.Any("error", err))
		contact = Contact{}
	}

	id := Identity{
		Name:  contact.ResolvedName(),
		Phone: SenderPhone(msg),
	}

	if msg.IsGroup() {
		g, err := s.transport.GroupInfo(ctx, msg.From)
		if err != nil {
			log.Warn("group lookup failed", slog.String("chat", msg.From), slog.Any("error", err))
		} else {
			id.Group = &g
		}
	}

	log.Info("sender resolved",
		slog.String("contact_name", orDefault(contact.ContactName, "Not in contacts")),
		slog.String("push_name", orDefault(contact.PushName, "No push name")),
		slog.String("pelapor", id.Name),
		slog.String("phone", id.Phone),
	)
	if id.Group != nil {
		log.Info("group message", slog.String("group_name", id.Group.Name), slog.String("group_id", id.Group.ID))
	}
	return id
}

// SenderPhone picks the participant address for group messages and the chat address
// otherwise, and normalizes it with NormalizePhone.
func SenderPhone(msg InboundMessage) string {
	if msg.IsGroup() {
		return NormalizePhone(msg.Participant)
	}
	return NormalizePhone(msg.From)
}

// NormalizePhone strips the whatsapp: scheme, the @domain and :device parts of a
// transport address and keeps only digits. It returns UnknownPhone when nothing is left.
func NormalizePhone(addr string) string {
	addr = strings.TrimSpace(addr)
	addr = strings.TrimPrefix(addr, "whatsapp:")
	if i := strings.IndexByte(addr, '@'); i >= 0 {
		addr = addr[:i]
	}
	if i := strings.IndexByte(addr, ':'); i >= 0 {
		addr = addr[:i]
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, addr)
	if digits == "" {
		return UnknownPhone
	}
	return digits
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
