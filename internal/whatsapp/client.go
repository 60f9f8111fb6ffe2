// Package whatsapp adapts a whatsmeow multi-device session to the report pipeline and
// the operator API.
package whatsapp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/mdp/qrterminal/v3"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/Vovarama1992/wa-report-bridge/internal/messaging"
	"github.com/Vovarama1992/wa-report-bridge/internal/report"
)

const qrFileName = "qr.png"

var (
	ErrAlreadyPaired = errors.New("device is already paired")
	errQRTimeout     = errors.New("qr code expired before it was scanned")
)

var (
	_ report.Transport    = (*Client)(nil)
	_ messaging.Transport = (*Client)(nil)
)

type Options struct {
	SessionDir    string
	DSN           string
	CleanupOnExit bool

	// Rules and WebhookURL are only logged once the session is ready.
	Rules      []report.Rule
	WebhookURL string
}

// Client owns one linked device. It is safe for concurrent use.
type Client struct {
	wa     *whatsmeow.Client
	db     *sql.DB
	opts   Options
	logger *slog.Logger

	// ctx outlives the start hook so the QR channel keeps running while the operator scans.
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	onMessage func(report.InboundMessage)

	ready      atomic.Bool
	pairResult chan error
	pairOnce   sync.Once
}

func New(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("service", "whatsapp"))

	container, db, err := OpenStore(ctx, opts.DSN, NewLogger(logger, "store"))
	if err != nil {
		return nil, err
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load device: %w", err)
	}

	wa := whatsmeow.NewClient(device, NewLogger(logger, "client"))
	wa.EnableAutoReconnect = true

	runCtx, cancel := context.WithCancel(context.Background())
	c := &Client{
		wa:         wa,
		db:         db,
		opts:       opts,
		logger:     logger,
		ctx:        runCtx,
		cancel:     cancel,
		pairResult: make(chan error, 1),
	}
	wa.AddEventHandler(c.handleEvent)
	return c, nil
}

// OnMessage registers the callback for inbound messages. It runs on the event loop.
func (c *Client) OnMessage(fn func(report.InboundMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}

func (c *Client) Paired() bool {
	return c.wa.Store.ID != nil
}

// Start connects the session. An unpaired device shows a QR code and Start returns
// while the operator scans it; IsReady turns true once the session is established.
func (c *Client) Start(context.Context) error {
	if c.Paired() {
		if err := c.wa.Connect(); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		return nil
	}

	qrCh, err := c.wa.GetQRChannel(c.ctx)
	if err != nil {
		return fmt.Errorf("qr channel: %w", err)
	}
	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	go c.watchQR(qrCh)
	return nil
}

// Pair links a new device and blocks until the QR code is scanned or expires.
func (c *Client) Pair(ctx context.Context) error {
	if c.Paired() {
		return ErrAlreadyPaired
	}
	if err := c.Start(ctx); err != nil {
		return err
	}
	select {
	case err := <-c.pairResult:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Stop(context.Context) error {
	c.cancel()
	c.ready.Store(false)
	c.wa.Disconnect()

	if c.opts.CleanupOnExit {
		c.removeQR()
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close session db: %w", err)
	}
	c.logger.Info("whatsapp client stopped")
	return nil
}

func (c *Client) IsReady() bool {
	return c.ready.Load() && c.wa.IsConnected() && c.wa.IsLoggedIn()
}

func (c *Client) watchQR(ch <-chan whatsmeow.QRChannelItem) {
	for item := range ch {
		switch item.Event {
		case "code":
			c.showQR(item.Code)
		case "success":
			c.logger.Info("device paired")
			c.removeQR()
			c.pairDone(nil)
		case "timeout":
			c.logger.Warn("qr code expired, restart to pair again")
			c.removeQR()
			c.pairDone(errQRTimeout)
		default:
			c.logger.Error("pairing failed", slog.String("event", item.Event), slog.Any("error", item.Error))
			c.pairDone(pairError(item))
		}
	}
}

// pairError describes a failed QR event. err-* events carry no error value.
func pairError(item whatsmeow.QRChannelItem) error {
	if item.Error == nil {
		return fmt.Errorf("pairing failed: %s", item.Event)
	}
	return fmt.Errorf("pairing failed: %s: %w", item.Event, item.Error)
}

func (c *Client) pairDone(err error) {
	c.pairOnce.Do(func() { c.pairResult <- err })
}

func (c *Client) showQR(code string) {
	c.logger.Info("scan the qr code with the whatsapp app to link this device")
	qrterminal.GenerateHalfBlock(code, qrterminal.L, os.Stdout)

	path := c.qrPath()
	if err := qrcode.WriteFile(code, qrcode.Medium, 256, path); err != nil {
		c.logger.Warn("write qr png failed", slog.String("path", path), slog.Any("error", err))
		return
	}
	c.logger.Info("qr code written", slog.String("path", path))
}

func (c *Client) qrPath() string {
	return filepath.Join(c.opts.SessionDir, qrFileName)
}

func (c *Client) removeQR() {
	if err := os.Remove(c.qrPath()); err != nil && !os.IsNotExist(err) {
		c.logger.Warn("remove qr png failed", slog.Any("error", err))
	}
}

func (c *Client) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		msg, ok := toInbound(v, c.wa)
		if !ok {
			return
		}
		c.mu.RLock()
		fn := c.onMessage
		c.mu.RUnlock()
		if fn != nil {
			fn(msg)
		}
	case *events.Connected:
		c.ready.Store(true)
		c.logReady()
	case *events.Disconnected:
		c.ready.Store(false)
		c.logger.Warn("whatsapp disconnected")
	case *events.StreamReplaced:
		c.ready.Store(false)
		c.logger.Warn("session opened elsewhere, this client was disconnected")
	case *events.LoggedOut:
		c.ready.Store(false)
		c.logger.Error("session logged out, run pair to link the device again", slog.String("reason", v.Reason.String()))
	case *events.ConnectFailure:
		c.ready.Store(false)
		c.logger.Error("whatsapp connection failed", slog.String("reason", v.Reason.String()), slog.String("message", v.Message))
	}
}

func (c *Client) logReady() {
	attrs := []any{slog.String("webhook_url", c.opts.WebhookURL)}
	if c.wa.Store.ID != nil {
		attrs = append(attrs, slog.String("device", c.wa.Store.ID.String()))
	}
	c.logger.Info("whatsapp client ready", attrs...)
	for _, r := range c.opts.Rules {
		c.logger.Info("monitoring prefix",
			slog.String("prefix", r.Prefix),
			slog.String("category", r.Category),
			slog.String("sub_category", r.SubCategory),
		)
	}
}
