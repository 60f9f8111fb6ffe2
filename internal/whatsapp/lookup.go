package whatsapp

import (
	"context"
	"fmt"
	"log/slog"

	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/Vovarama1992/wa-report-bridge/internal/messaging"
	"github.com/Vovarama1992/wa-report-bridge/internal/report"
)

const unknownGroup = "Unknown Group"

// Contact returns the address book name of the sender and the push name carried by
// the event. A failed store lookup still yields the push name.
func (c *Client) Contact(ctx context.Context, msg report.InboundMessage) (report.Contact, error) {
	var out report.Contact
	if evt, ok := msg.Raw.(*events.Message); ok {
		out.PushName = evt.Info.PushName
	}

	jid, err := senderJID(msg)
	if err != nil {
		return out, fmt.Errorf("parse sender: %w", err)
	}
	info, err := c.wa.Store.Contacts.GetContact(ctx, jid.ToNonAD())
	if err != nil {
		c.logger.Debug("contact store lookup failed", slog.String("jid", jid.String()), slog.Any("error", err))
		return out, nil
	}
	out.ContactName = info.FullName
	if out.PushName == "" {
		out.PushName = info.PushName
	}
	return out, nil
}

func (c *Client) GroupInfo(ctx context.Context, chatID string) (report.GroupInfo, error) {
	jid, err := types.ParseJID(chatID)
	if err != nil {
		return report.GroupInfo{}, fmt.Errorf("parse group %q: %w", chatID, err)
	}
	info, err := c.wa.GetGroupInfo(ctx, jid)
	if err != nil {
		return report.GroupInfo{}, fmt.Errorf("group info %s: %w", jid, err)
	}
	return report.GroupInfo{ID: info.JID.String(), Name: info.Name}, nil
}

func (c *Client) ListGroups(ctx context.Context) ([]messaging.Group, error) {
	if !c.IsReady() {
		return nil, messaging.ErrNotReady
	}
	groups, err := c.wa.GetJoinedGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("joined groups: %w", err)
	}
	out := make([]messaging.Group, 0, len(groups))
	for _, g := range groups {
		if g == nil {
			continue
		}
		out = append(out, groupSummary(g))
	}
	c.logger.Info("groups listed", slog.Int("count", len(out)))
	return out, nil
}

func groupSummary(g *types.GroupInfo) messaging.Group {
	s := messaging.Group{
		ID:                g.JID.String(),
		Name:              g.Name,
		ParticipantsCount: len(g.Participants),
		Description:       g.Topic,
	}
	if s.Name == "" {
		s.Name = unknownGroup
	}
	if !g.OwnerJID.IsEmpty() {
		s.Owner = g.OwnerJID.String()
	}
	if !g.GroupCreated.IsZero() {
		created := g.GroupCreated.Unix()
		s.CreatedAt = &created
	}
	return s
}
