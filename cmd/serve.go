package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"golang.org/x/time/rate"

	"github.com/Vovarama1992/wa-report-bridge/internal/blob"
	"github.com/Vovarama1992/wa-report-bridge/internal/config"
	"github.com/Vovarama1992/wa-report-bridge/internal/logger"
	"github.com/Vovarama1992/wa-report-bridge/internal/messaging"
	"github.com/Vovarama1992/wa-report-bridge/internal/report"
	"github.com/Vovarama1992/wa-report-bridge/internal/template"
	"github.com/Vovarama1992/wa-report-bridge/internal/version"
	"github.com/Vovarama1992/wa-report-bridge/internal/whatsapp"
)

// submitTimeout bounds how long a full pipeline queue may stall the whatsmeow event loop.
const submitTimeout = 2 * time.Second

type configPath string

func newServeCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the report pipeline and the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			runServe(*path)
		},
	}
}

func runServe(path string) {
	fx.New(
		fx.Supply(configPath(path)),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideWhatsApp,
			provideUploader,
			provideWebhook,
			provideReportService,
			provideDispatcher,
			provideMessagingService,
			provideRouter,
			provideServer,
		),
		fx.Invoke(
			startWhatsApp,
			startDispatcher,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig(path configPath) (config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := os.MkdirAll(cfg.Session.Dir, 0o750); err != nil {
		return config.Config{}, fmt.Errorf("create session dir: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	l := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(l)
	return l
}

func reportRules(cfg config.Config) []report.Rule {
	rules := make([]report.Rule, 0, len(cfg.Prefixes))
	for _, p := range cfg.Prefixes {
		rules = append(rules, report.Rule{Prefix: p.Prefix, Category: p.Category, SubCategory: p.SubCategory})
	}
	return rules
}

func whatsappOptions(cfg config.Config) whatsapp.Options {
	return whatsapp.Options{
		SessionDir:    cfg.Session.Dir,
		DSN:           cfg.Session.DSN,
		CleanupOnExit: cfg.Session.CleanupOnExit,
		Rules:         reportRules(cfg),
		WebhookURL:    cfg.Webhook.URL,
	}
}

func provideWhatsApp(cfg config.Config, log *slog.Logger) (*whatsapp.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return whatsapp.New(ctx, whatsappOptions(cfg), log)
}

func provideUploader(cfg config.Config, log *slog.Logger) (report.Uploader, error) {
	if !cfg.Cloudinary.Enabled() {
		log.Warn("cloudinary is not configured, reports will carry the default evidence")
		return nil, nil
	}
	up, err := blob.New(cfg.Cloudinary)
	if err != nil {
		return nil, err
	}
	return up, nil
}

func provideWebhook(cfg config.Config) report.Outbound {
	return report.NewWebhookOutbound(cfg.Webhook.URL, cfg.Webhook.Timeout, cfg.Webhook.Headers)
}

func provideReportService(cfg config.Config, wa *whatsapp.Client, up report.Uploader, out report.Outbound, log *slog.Logger) report.Service {
	log.Info("report taxonomy loaded",
		slog.Int("prefixes", len(cfg.Prefixes)),
		slog.Bool("sub_categories", cfg.HasSubCategories()),
	)
	return report.NewService(report.Deps{
		Table:            report.NewTable(reportRules(cfg)...),
		Transport:        wa,
		Uploader:         up,
		Outbound:         out,
		Acks:             report.NewAckPools(cfg.Acknowledgements),
		DefaultEvidence:  cfg.Evidence.DefaultURL,
		MaxEvidenceBytes: cfg.Evidence.MaxBytes,
		Logger:           log,
	})
}

func provideDispatcher(cfg config.Config, svc report.Service, log *slog.Logger) *report.Dispatcher {
	return report.NewDispatcher(svc, cfg.Pipeline.Workers, cfg.Pipeline.Queue, cfg.Pipeline.Timeout, log)
}

func provideMessagingService(cfg config.Config, wa *whatsapp.Client, log *slog.Logger) messaging.Service {
	limiter := rate.NewLimiter(rate.Limit(cfg.Send.RatePerSec), cfg.Send.Burst)
	templates := template.NewRegistry(cfg.Templates)
	log.Info("message templates loaded", slog.Any("names", templates.Names()))
	return messaging.NewService(wa, templates, limiter, log)
}

func provideRouter(svc messaging.Service, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	messaging.RegisterRoutes(r, messaging.NewHandler(svc, log))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	return r
}

func provideServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func startWhatsApp(lc fx.Lifecycle, wa *whatsapp.Client, d *report.Dispatcher, log *slog.Logger) {
	wa.OnMessage(submitInbound(d, submitTimeout, log))
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !wa.Paired() {
				log.Warn("no linked device, scan the qr code to pair")
			}
			return wa.Start(ctx)
		},
		OnStop: wa.Stop,
	})
}

// submitInbound runs on the whatsmeow event loop, so a full queue may hold it for at
// most timeout before the message is dropped.
func submitInbound(d *report.Dispatcher, timeout time.Duration, log *slog.Logger) func(report.InboundMessage) {
	return func(msg report.InboundMessage) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := d.Submit(ctx, msg); err != nil {
			log.Warn("inbound message dropped", slog.String("message_id", msg.ID), slog.Any("error", err))
		}
	}
}

func startDispatcher(lc fx.Lifecycle, d *report.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Start(context.Background())
			return nil
		},
		OnStop: d.Stop,
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *http.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting", slog.String("version", version.Get().String()), slog.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
