package report

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher runs one pipeline per inbound message on a fixed pool of workers fed by a
// bounded queue. There is no ordering between messages.
type Dispatcher struct {
	svc     Service
	workers int
	timeout time.Duration
	logger  *slog.Logger

	inCh     chan InboundMessage
	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool
	cancel  context.CancelFunc
}

func NewDispatcher(svc Service, workers, queue int, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		svc:     svc,
		workers: workers,
		timeout: timeout,
		logger:  logger.With(slog.String("service", "dispatcher")),
		inCh:    make(chan InboundMessage, queue),
		quit:    make(chan struct{}),
	}
}

// Start launches the workers. Pipelines inherit ctx; cancelling it aborts in-flight runs.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for msg := range d.inCh {
				d.run(ctx, msg)
			}
		}()
	}
	d.logger.Info("dispatcher started", slog.Int("workers", d.workers), slog.Int("queue", cap(d.inCh)))
}

// Submit queues msg, blocking while the queue is full.
func (d *Dispatcher) Submit(ctx context.Context, msg InboundMessage) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherStopped
	}
	select {
	case d.inCh <- msg:
		return nil
	case <-d.quit:
		return ErrDispatcherStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new messages, lets the workers drain the queue and waits for them.
// If ctx expires first, in-flight pipelines are cancelled.
func (d *Dispatcher) Stop(ctx context.Context) error {
	// Release blocked submitters before taking the write lock they hold readers on.
	d.quitOnce.Do(func() { close(d.quit) })

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.inCh)
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context, msg InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("pipeline panic", slog.String("message_id", msg.ID), slog.Any("panic", r))
		}
	}()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	outcome, err := d.svc.HandleIncoming(ctx, msg)
	if err != nil && errors.Is(err, context.Canceled) {
		d.logger.Warn("pipeline cancelled", slog.String("message_id", msg.ID))
		return
	}
	if outcome != OutcomeIgnored {
		d.logger.Debug("pipeline finished", slog.String("message_id", msg.ID), slog.String("outcome", outcome.String()))
	}
}
