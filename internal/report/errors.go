package report

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMessage indicates an inbound event without an id, chat or timestamp.
	ErrMalformedMessage = errors.New("malformed inbound message")
	// ErrEvidenceTooLarge indicates downloaded media above the configured size cap.
	ErrEvidenceTooLarge = errors.New("evidence too large")
	// ErrAcknowledge indicates the report was delivered but the reply could not be sent.
	ErrAcknowledge = errors.New("acknowledgement not sent")
	// ErrDispatcherStopped is returned by Submit after Stop.
	ErrDispatcherStopped = errors.New("dispatcher stopped")
)

// DeliveryError describes a failed webhook call: either a transport error or a non-2xx status.
type DeliveryError struct {
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return "webhook delivery failed: " + e.Err.Error()
	}
	return fmt.Sprintf("webhook delivery failed: %s body=%s", e.Status, e.Body)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
