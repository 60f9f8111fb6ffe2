package whatsapp

import (
	"fmt"
	"strings"

	"go.mau.fi/whatsmeow/types"

	"github.com/Vovarama1992/wa-report-bridge/internal/messaging"
)

// UserJID addresses a direct chat. Everything but digits is dropped from phone.
func UserJID(phone string) (types.JID, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return types.EmptyJID, fmt.Errorf("%w: phone number %q", messaging.ErrInvalidRecipient, phone)
	}
	return types.NewJID(digits, types.DefaultUserServer), nil
}

// GroupJID addresses a group chat, appending @g.us when the id is bare.
func GroupJID(id string) (types.JID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.EmptyJID, fmt.Errorf("%w: empty group id", messaging.ErrInvalidRecipient)
	}
	if !strings.Contains(id, "@") {
		id += "@" + types.GroupServer
	}
	jid, err := types.ParseJID(id)
	if err != nil || jid.Server != types.GroupServer || jid.User == "" {
		return types.EmptyJID, fmt.Errorf("%w: group id %q", messaging.ErrInvalidRecipient, id)
	}
	return jid, nil
}

// MessageRef identifies a sent message by chat and id, serialized as
// "<fromMe>_<chat>_<id>" so it can be edited or revoked later without a lookup.
type MessageRef struct {
	FromMe bool
	Chat   types.JID
	ID     types.MessageID
}

func (r MessageRef) String() string {
	return fmt.Sprintf("%t_%s_%s", r.FromMe, r.Chat.String(), r.ID)
}

// ParseMessageRef accepts "<fromMe>_<chat>_<id>" and the short "<chat>_<id>" form,
// which is taken as our own message.
func ParseMessageRef(s string) (MessageRef, error) {
	parts := strings.Split(strings.TrimSpace(s), "_")

	ref := MessageRef{FromMe: true}
	var chat string
	switch len(parts) {
	case 3:
		switch parts[0] {
		case "true":
		case "false":
			ref.FromMe = false
		default:
			return MessageRef{}, fmt.Errorf("%w: %q", messaging.ErrInvalidMessageID, s)
		}
		chat, ref.ID = parts[1], parts[2]
	case 2:
		chat, ref.ID = parts[0], parts[1]
	default:
		return MessageRef{}, fmt.Errorf("%w: %q", messaging.ErrInvalidMessageID, s)
	}

	jid, err := types.ParseJID(chat)
	if err != nil || jid.Server == "" || jid.User == "" || ref.ID == "" {
		return MessageRef{}, fmt.Errorf("%w: %q", messaging.ErrInvalidMessageID, s)
	}
	ref.Chat = jid
	return ref, nil
}
