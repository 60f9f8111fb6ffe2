package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Vovarama1992/wa-report-bridge/internal/template"
)

type service struct {
	transport Transport
	templates *template.Registry
	limiter   *rate.Limiter
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(transport Transport, templates *template.Registry, limiter *rate.Limiter, logger *slog.Logger) Service {
	if templates == nil {
		templates = template.NewRegistry(nil)
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		transport: transport,
		templates: templates,
		limiter:   limiter,
		now:       time.Now,
		logger:    logger.With(slog.String("service", "messaging")),
	}
}

type sendFunc func(ctx context.Context) (Sent, error)

// withRateLimit delays next until the outbound limiter admits it.
func withRateLimit(lim *rate.Limiter, next sendFunc) sendFunc {
	return func(ctx context.Context) (Sent, error) {
		if err := lim.Wait(ctx); err != nil {
			return Sent{}, err
		}
		return next(ctx)
	}
}

func (s *service) ready() error {
	if !s.transport.IsReady() {
		return ErrNotReady
	}
	return nil
}

func (s *service) send(ctx context.Context, next sendFunc) (Sent, error) {
	if err := s.ready(); err != nil {
		return Sent{}, err
	}
	return withRateLimit(s.limiter, next)(ctx)
}

func (s *service) SendMessage(ctx context.Context, phone, text string) (Result, error) {
	if digitsOnly(phone) == "" {
		return Result{}, fmt.Errorf("%w: phone number %q has no digits", ErrInvalidRecipient, phone)
	}
	sent, err := s.send(ctx, func(ctx context.Context) (Sent, error) {
		return s.transport.SendDirect(ctx, phone, text)
	})
	if err != nil {
		return Result{}, fmt.Errorf("send message: %w", err)
	}
	s.logger.Info("message sent", slog.String("message_id", sent.Ref))
	return sentResult(sent), nil
}

func (s *service) SendGroupMessage(ctx context.Context, groupID, text string) (Result, error) {
	if strings.TrimSpace(groupID) == "" {
		return Result{}, fmt.Errorf("%w: empty group id", ErrInvalidRecipient)
	}
	sent, err := s.send(ctx, func(ctx context.Context) (Sent, error) {
		return s.transport.SendGroup(ctx, groupID, text)
	})
	if err != nil {
		return Result{}, fmt.Errorf("send group message: %w", err)
	}
	s.logger.Info("group message sent", slog.String("group_id", groupID), slog.String("message_id", sent.Ref))
	return sentResult(sent), nil
}

func (s *service) SendTemplateMessage(ctx context.Context, name string, data map[string]any, groupID string) (Result, error) {
	text, err := s.templates.Render(name, data)
	if err != nil {
		return Result{}, err
	}
	res, err := s.SendGroupMessage(ctx, groupID, text)
	if err != nil {
		return Result{}, fmt.Errorf("template %q: %w", name, err)
	}
	return res, nil
}

func (s *service) GetGroups(ctx context.Context) ([]Group, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	groups, err := s.transport.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	s.logger.Debug("groups listed", slog.Int("count", len(groups)))
	if groups == nil {
		groups = []Group{}
	}
	return groups, nil
}

func (s *service) Status() string {
	if s.transport.IsReady() {
		return StatusReady
	}
	return StatusInitializing
}

func (s *service) EditMessage(ctx context.Context, id, newText string) (Result, error) {
	sent, err := s.send(ctx, func(ctx context.Context) (Sent, error) {
		return s.transport.EditText(ctx, id, newText)
	})
	if err != nil {
		return Result{}, fmt.Errorf("edit message: %w", err)
	}
	res := sentResult(sent)
	res.NewText = newText
	return res, nil
}

func (s *service) DeleteMessage(ctx context.Context, id string) (Result, error) {
	_, err := s.send(ctx, func(ctx context.Context) (Sent, error) {
		return Sent{}, s.transport.Revoke(ctx, id)
	})
	if err != nil {
		return Result{}, fmt.Errorf("delete message: %w", err)
	}
	s.logger.Info("message deleted", slog.String("message_id", id))
	return Result{Success: true, MessageID: id, Timestamp: s.now().UnixMilli()}, nil
}

func (s *service) EditMessageWithTemplate(ctx context.Context, id, name string, data map[string]any) (Result, error) {
	text, err := s.templates.Render(name, data)
	if err != nil {
		return Result{}, err
	}
	res, err := s.EditMessage(ctx, id, text)
	if err != nil {
		return Result{}, fmt.Errorf("template %q: %w", name, err)
	}
	res.TemplateUsed = name
	return res, nil
}

func sentResult(sent Sent) Result {
	return Result{Success: true, MessageID: sent.Ref, Timestamp: sent.Timestamp.Unix()}
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
