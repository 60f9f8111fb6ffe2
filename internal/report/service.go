package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type service struct {
	table            *Table
	transport        Transport
	uploader         Uploader
	outbound         Outbound
	acks             *AckPools
	defaultEvidence  string
	maxEvidenceBytes int64
	now              func() time.Time
	logger           *slog.Logger
}

// Deps are the collaborators of the pipeline. Uploader may be nil, in which case
// every report carries the default evidence.
type Deps struct {
	Table            *Table
	Transport        Transport
	Uploader         Uploader
	Outbound         Outbound
	Acks             *AckPools
	DefaultEvidence  string
	MaxEvidenceBytes int64
	Now              func() time.Time
	Logger           *slog.Logger
}

func NewService(d Deps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Acks == nil {
		d.Acks = NewAckPools(nil)
	}
	return &service{
		table:            d.Table,
		transport:        d.Transport,
		uploader:         d.Uploader,
		outbound:         d.Outbound,
		acks:             d.Acks,
		defaultEvidence:  d.DefaultEvidence,
		maxEvidenceBytes: d.MaxEvidenceBytes,
		now:              d.Now,
		logger:           d.Logger.With(slog.String("service", "report")),
	}
}

func (s *service) HandleIncoming(ctx context.Context, msg InboundMessage) (Outcome, error) {
	rule, description, ok := s.table.Match(msg.Body)
	if !ok {
		return OutcomeIgnored, nil
	}

	log := s.logger.With(
		slog.String("run_id", uuid.NewString()),
		slog.String("message_id", msg.ID),
		slog.String("prefix", rule.Prefix),
	)

	if msg.ID == "" || msg.From == "" || msg.Timestamp.IsZero() {
		log.Error("dropping malformed message", slog.String("from", msg.From), slog.Time("timestamp", msg.Timestamp))
		return OutcomeFailed, fmt.Errorf("%w: id=%q from=%q", ErrMalformedMessage, msg.ID, msg.From)
	}

	if IsStale(s.now(), msg.Timestamp) {
		log.Debug("skipping stale message", slog.Time("timestamp", msg.Timestamp))
		return OutcomeStale, nil
	}

	id := s.resolveIdentity(ctx, msg, log)
	evidence := s.acquireEvidence(ctx, msg, log)
	rep := Compose(description, id, rule, evidence)

	if log.Enabled(ctx, slog.LevelDebug) {
		payload, _ := json.MarshalIndent(rep, "", "  ")
		log.Debug("report composed", slog.String("payload", string(payload)))
	}

	if err := s.outbound.Deliver(ctx, rep); err != nil {
		log.Error("forward report failed",
			slog.Any("error", err),
			slog.String("body", msg.Body),
		)
		return OutcomeFailed, err
	}

	log.Info("report forwarded",
		slog.String("category", rep.Category),
		slog.String("sub_category", rep.SubCategory),
		slog.String("pelapor", rep.Pelapor),
		slog.String("description", rep.Description),
	)

	ack := s.acks.Select(rep.Category, id.Name)
	if ack == "" {
		log.Warn("no acknowledgement configured", slog.String("category", rep.Category))
		return OutcomeDelivered, nil
	}
	if err := s.transport.Reply(ctx, msg, ack); err != nil {
		log.Error("acknowledgement failed", slog.Any("error", err))
		return OutcomeDelivered, errors.Join(ErrAcknowledge, err)
	}
	return OutcomeAcknowledged, nil
}
