package whatsapp

import (
	"context"
	"fmt"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"

	"github.com/Vovarama1992/wa-report-bridge/internal/messaging"
	"github.com/Vovarama1992/wa-report-bridge/internal/report"
)

func textMessage(text string) *waE2E.Message {
	return &waE2E.Message{Conversation: proto.String(text)}
}

func (c *Client) send(ctx context.Context, chat types.JID, m *waE2E.Message) (messaging.Sent, error) {
	if !c.IsReady() {
		return messaging.Sent{}, messaging.ErrNotReady
	}
	resp, err := c.wa.SendMessage(ctx, chat, m)
	if err != nil {
		return messaging.Sent{}, fmt.Errorf("send to %s: %w", chat, err)
	}
	ref := MessageRef{FromMe: true, Chat: chat, ID: resp.ID}
	return messaging.Sent{Ref: ref.String(), Timestamp: resp.Timestamp}, nil
}

func (c *Client) SendDirect(ctx context.Context, phone, text string) (messaging.Sent, error) {
	jid, err := UserJID(phone)
	if err != nil {
		return messaging.Sent{}, err
	}
	return c.send(ctx, jid, textMessage(text))
}

func (c *Client) SendGroup(ctx context.Context, groupID, text string) (messaging.Sent, error) {
	jid, err := GroupJID(groupID)
	if err != nil {
		return messaging.Sent{}, err
	}
	return c.send(ctx, jid, textMessage(text))
}

func (c *Client) EditText(ctx context.Context, ref, text string) (messaging.Sent, error) {
	r, err := ownRef(ref)
	if err != nil {
		return messaging.Sent{}, err
	}
	sent, err := c.send(ctx, r.Chat, c.wa.BuildEdit(r.Chat, r.ID, textMessage(text)))
	if err != nil {
		return messaging.Sent{}, err
	}
	sent.Ref = r.String()
	return sent, nil
}

// Revoke deletes one of our messages for everyone.
func (c *Client) Revoke(ctx context.Context, ref string) error {
	r, err := ownRef(ref)
	if err != nil {
		return err
	}
	_, err = c.send(ctx, r.Chat, c.wa.BuildRevoke(r.Chat, types.EmptyJID, r.ID))
	return err
}

// Reply answers msg in its chat, quoting it.
func (c *Client) Reply(ctx context.Context, msg report.InboundMessage, text string) error {
	chat, err := types.ParseJID(msg.From)
	if err != nil {
		return fmt.Errorf("parse chat %q: %w", msg.From, err)
	}
	_, err = c.send(ctx, chat, quotedReply(msg, text))
	return err
}

func ownRef(ref string) (MessageRef, error) {
	r, err := ParseMessageRef(ref)
	if err != nil {
		return MessageRef{}, err
	}
	if !r.FromMe {
		return MessageRef{}, fmt.Errorf("%w: %q was not sent by this device", messaging.ErrInvalidMessageID, ref)
	}
	return r, nil
}
