package whatsapp

import (
	"context"
	"strings"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"github.com/Vovarama1992/wa-report-bridge/internal/report"
)

type downloader interface {
	Download(ctx context.Context, msg whatsmeow.DownloadableMessage) ([]byte, error)
}

// media defers the download of an attachment until the pipeline asks for it.
type media struct {
	mime string
	msg  whatsmeow.DownloadableMessage
	dl   downloader
}

func (m *media) MimeType() string { return m.mime }

func (m *media) Download(ctx context.Context) ([]byte, error) {
	return m.dl.Download(ctx, m.msg)
}

// toInbound converts a message event. Our own messages, status broadcasts and
// events without content are skipped.
func toInbound(evt *events.Message, dl downloader) (report.InboundMessage, bool) {
	if evt == nil || evt.Message == nil || evt.Info.IsFromMe {
		return report.InboundMessage{}, false
	}
	if evt.Info.Chat.Server == types.BroadcastServer {
		return report.InboundMessage{}, false
	}

	msg := report.InboundMessage{
		ID:        evt.Info.ID,
		From:      evt.Info.Chat.String(),
		Body:      messageText(evt.Message),
		Timestamp: evt.Info.Timestamp,
		Raw:       evt,
	}
	if evt.Info.IsGroup {
		msg.Participant = evt.Info.Sender.ToNonAD().String()
	}
	if m := mediaOf(evt.Message, dl); m != nil {
		msg.Media = m
	}
	return msg, true
}

func messageText(m *waE2E.Message) string {
	switch {
	case m.GetConversation() != "":
		return m.GetConversation()
	case m.GetExtendedTextMessage().GetText() != "":
		return m.GetExtendedTextMessage().GetText()
	case m.GetImageMessage().GetCaption() != "":
		return m.GetImageMessage().GetCaption()
	case m.GetVideoMessage().GetCaption() != "":
		return m.GetVideoMessage().GetCaption()
	case m.GetDocumentMessage().GetCaption() != "":
		return m.GetDocumentMessage().GetCaption()
	}
	return ""
}

func mediaOf(m *waE2E.Message, dl downloader) *media {
	switch {
	case m.GetImageMessage() != nil:
		return &media{mime: m.GetImageMessage().GetMimetype(), msg: m.GetImageMessage(), dl: dl}
	case m.GetVideoMessage() != nil:
		return &media{mime: m.GetVideoMessage().GetMimetype(), msg: m.GetVideoMessage(), dl: dl}
	case m.GetAudioMessage() != nil:
		return &media{mime: m.GetAudioMessage().GetMimetype(), msg: m.GetAudioMessage(), dl: dl}
	case m.GetDocumentMessage() != nil:
		return &media{mime: m.GetDocumentMessage().GetMimetype(), msg: m.GetDocumentMessage(), dl: dl}
	case m.GetStickerMessage() != nil:
		return &media{mime: m.GetStickerMessage().GetMimetype(), msg: m.GetStickerMessage(), dl: dl}
	}
	return nil
}

// senderJID is the author of msg: the participant in groups, the chat otherwise.
func senderJID(msg report.InboundMessage) (types.JID, error) {
	addr := msg.From
	if msg.IsGroup() {
		addr = msg.Participant
	}
	return types.ParseJID(strings.TrimSpace(addr))
}

// quotedReply builds a text message that quotes msg.
func quotedReply(msg report.InboundMessage, text string) *waE2E.Message {
	ctxInfo := &waE2E.ContextInfo{
		StanzaID: proto.String(msg.ID),
	}
	if p, err := senderJID(msg); err == nil && !p.IsEmpty() {
		ctxInfo.Participant = proto.String(p.String())
	}
	if evt, ok := msg.Raw.(*events.Message); ok && evt.Message != nil {
		ctxInfo.QuotedMessage = evt.Message
	}
	return &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text:        proto.String(text),
			ContextInfo: ctxInfo,
		},
	}
}
