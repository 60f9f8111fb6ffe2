package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const evidenceResourceType = "image"

// acquireEvidence returns the uploaded image URL for msg, or the configured default.
// Only image/* media is ever fetched; failures are logged and fall back to the default.
func (s *service) acquireEvidence(ctx context.Context, msg InboundMessage, log *slog.Logger) string {
	if !msg.HasMedia() {
		return s.defaultEvidence
	}

	mime := msg.Media.MimeType()
	if !strings.HasPrefix(strings.ToLower(mime), "image/") {
		log.Debug("media is not an image, skipping evidence", slog.String("mime", mime))
		return s.defaultEvidence
	}
	if s.uploader == nil {
		log.Debug("no uploader configured, using default evidence")
		return s.defaultEvidence
	}

	url, err := s.uploadEvidence(ctx, msg.Media)
	if err != nil {
		log.Warn("evidence upload failed, using default", slog.String("mime", mime), slog.Any("error", err))
		return s.defaultEvidence
	}
	log.Info("evidence uploaded", slog.String("url", url))
	return url
}

func (s *service) uploadEvidence(ctx context.Context, media MediaSource) (string, error) {
	data, err := media.Download(ctx)
	if err != nil {
		return "", fmt.Errorf("download media: %w", err)
	}
	if s.maxEvidenceBytes > 0 && int64(len(data)) > s.maxEvidenceBytes {
		return "", fmt.Errorf("%w: %d bytes, max %d", ErrEvidenceTooLarge, len(data), s.maxEvidenceBytes)
	}
	url, err := s.uploader.Upload(ctx, data, evidenceResourceType)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("upload media: empty url")
	}
	return url, nil
}
