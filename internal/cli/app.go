package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/amfb-notifier/amfb-notifier/internal/config"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/metrics"
	"github.com/amfb-notifier/amfb-notifier/internal/notify"
	"github.com/amfb-notifier/amfb-notifier/internal/scraper"
	"github.com/amfb-notifier/amfb-notifier/internal/storage"
	"github.com/amfb-notifier/amfb-notifier/internal/storage/redisstore"
	"github.com/amfb-notifier/amfb-notifier/internal/subscription"
	"github.com/amfb-notifier/amfb-notifier/internal/telegram"
	"github.com/amfb-notifier/amfb-notifier/internal/tracker"
)

// app holds the components built from configuration for one command.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   storage.Store
	scraper *scraper.Scraper
	metrics *metrics.Recorder
	closers []io.Closer
}

// loadApp reads configuration, applies command-line overrides and opens the
// configured stores.
func loadApp(ctx context.Context, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, stderr)
	logger.SetDefault(log)

	a := &app{cfg: cfg, log: log, metrics: metrics.NewRecorder()}
	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.scraper = scraper.New(scraper.Config{
		URL:            cfg.Source.URL,
		UserAgent:      cfg.Source.UserAgent,
		Timeout:        cfg.Source.Timeout,
		MaxRetries:     cfg.Source.MaxRetries,
		IncludeUndated: cfg.Extract.IncludeUndated,
		SplitFallback:  cfg.Extract.SplitFallback,
	}).WithLogger(log)

	log.Debug("configuration loaded", logger.Fields{
		"backend":  cfg.Storage.Backend,
		"data_dir": cfg.DataDir,
		"gist":     cfg.Storage.Gist.ID != "",
	})
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	var (
		snapshots storage.SnapshotStore
		subs      storage.SubscriptionStore
	)

	switch a.cfg.Storage.Backend {
	case config.BackendRedis:
		rs, err := redisstore.Open(ctx, a.cfg.Storage.RedisURL, a.cfg.Storage.RedisPrefix)
		if err != nil {
			return fmt.Errorf("opening redis store: %w", err)
		}
		a.closers = append(a.closers, rs)
		snapshots, subs = rs, rs
	default:
		fs, err := storage.New(a.cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		snapshots, subs = fs, fs
	}

	if gist := a.cfg.Storage.Gist; gist.ID != "" {
		gs, err := subscription.NewGistStore(gist.ID, gist.Token, gist.EncryptionKey)
		if err != nil {
			return fmt.Errorf("initializing gist store: %w", err)
		}
		subs = gs
	}

	a.store = storage.Combine(snapshots, subs)
	return nil
}

// channels builds the notification channels. A dry run prints everything to
// out. Without any configured channel, notifications are printed to stderr
// and no confirmer is returned.
func (a *app) channels(dryRun bool, out io.Writer) (tracker.Notifier, tracker.StatusReporter, notify.Confirmer, error) {
	if dryRun {
		d := notify.NewDryRunNotifier(out)
		return d, d, d, nil
	}

	var (
		notifiers notify.MultiNotifier
		reporters notify.MultiReporter
		confirmer notify.Confirmer
	)

	if a.cfg.Email.ResendAPIKey != "" {
		email, err := notify.NewEmailNotifier(a.emailConfig())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initializing email: %w", err)
		}
		notifiers = append(notifiers, email)
		reporters = append(reporters, email)
		confirmer = email
	}

	if a.cfg.Telegram.BotToken != "" {
		client, err := telegram.NewClient(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initializing telegram: %w", err)
		}
		tr := notify.NewTelegramReporter(client)
		tr.Quiet = a.cfg.Telegram.Quiet
		reporters = append(reporters, tr)
	}

	if a.cfg.RabbitMQ.URL != "" {
		pub, err := notify.NewAMQPPublisher(notify.AMQPConfig{
			URL:        a.cfg.RabbitMQ.URL,
			Exchange:   a.cfg.RabbitMQ.Exchange,
			RoutingKey: a.cfg.RabbitMQ.RoutingKey,
			QueueName:  a.cfg.RabbitMQ.QueueName,
		}, a.log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initializing rabbitmq: %w", err)
		}
		a.closers = append(a.closers, pub)
		notifiers = append(notifiers, pub)
		reporters = append(reporters, pub)
	}

	if len(notifiers) == 0 {
		a.log.Warn("no notification channel configured, printing notifications", nil)
		d := notify.NewDryRunNotifier(os.Stderr)
		notifiers = append(notifiers, d)
		if len(reporters) == 0 {
			reporters = append(reporters, d)
		}
	}
	return notifiers, reporters, confirmer, nil
}

func (a *app) emailConfig() notify.EmailConfig {
	return notify.EmailConfig{
		APIKey:     a.cfg.Email.ResendAPIKey,
		From:       a.cfg.Email.From,
		AdminEmail: a.cfg.Email.AdminEmail,
		PageURL:    a.cfg.Email.PageURL,
		SiteURL:    a.cfg.Email.SiteURL,
	}
}

// confirm sends a subscription confirmation when email is configured.
// Failures are logged only.
func (a *app) confirm(ctx context.Context, send func(context.Context, notify.Confirmer) error) {
	if a.cfg.Email.ResendAPIKey == "" {
		return
	}
	email, err := notify.NewEmailNotifier(a.emailConfig())
	if err != nil {
		a.log.Warn("email unavailable", logger.Fields{"error": err.Error()})
		return
	}
	if err := send(ctx, email); err != nil {
		a.log.Warn("confirmation failed", logger.Fields{"error": err.Error()})
	}
}

// tracker builds a Tracker over the app's source and store.
func (a *app) tracker(n tracker.Notifier, r tracker.StatusReporter) *tracker.Tracker {
	return tracker.New(a.scraper, a.store, a.store, n, r).
		WithLogger(a.log).
		WithMetrics(a.metrics)
}

// Close releases connections opened by loadApp and channels.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("closing resource", logger.Fields{"error": err.Error()})
		}
	}
	a.closers = nil
}
