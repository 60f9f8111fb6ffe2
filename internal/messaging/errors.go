package messaging

import "errors"

var (
	// ErrNotReady is returned while the chat client is not connected and paired.
	ErrNotReady = errors.New("whatsapp client is not ready, scan the QR code first")
	// ErrInvalidRecipient is returned for a phone number or group id that cannot be addressed.
	ErrInvalidRecipient = errors.New("invalid recipient")
	// ErrInvalidMessageID is returned for a message id the transport did not issue.
	ErrInvalidMessageID = errors.New("invalid message id")
)
