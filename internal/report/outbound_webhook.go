package report

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

type WebhookOutbound struct {
	url     string
	headers map[string]string
	client  *resty.Client
}

func NewWebhookOutbound(url string, timeout time.Duration, headers map[string]string) *WebhookOutbound {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookOutbound{
		url:     url,
		headers: headers,
		client:  resty.New().SetTimeout(timeout),
	}
}

// Deliver posts r as JSON. Anything but a 2xx answer is a *DeliveryError. No retries.
func (w *WebhookOutbound) Deliver(ctx context.Context, r Report) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeaders(w.headers).
		SetHeader("Content-Type", "application/json").
		SetBody(r).
		Post(w.url)
	if err != nil {
		return &DeliveryError{Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &DeliveryError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       short(resp.String()),
		}
	}
	return nil
}

const maxLoggedBody = 180

// short truncates s to at most maxLoggedBody bytes without splitting a rune.
func short(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	cut := maxLoggedBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
