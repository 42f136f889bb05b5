// Package app wires configuration into a running set of services. The HTTP
// server and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Harikrish-25/period-care/internal/auth"
	"github.com/Harikrish-25/period-care/internal/cache"
	"github.com/Harikrish-25/period-care/internal/config"
	"github.com/Harikrish-25/period-care/internal/handlers"
	"github.com/Harikrish-25/period-care/internal/jobs"
	"github.com/Harikrish-25/period-care/internal/notify"
	"github.com/Harikrish-25/period-care/internal/shop"
	"github.com/Harikrish-25/period-care/internal/store"
	"github.com/Harikrish-25/period-care/internal/store/docstore"
)

const (
	redisPrefix = "periodcare:"
	uploadsURL  = "/uploads"
)

var (
	_ shop.Repository = (*store.Store)(nil)
	_ shop.Repository = (*docstore.Store)(nil)
)

type App struct {
	Config *config.Config
	Logger *slog.Logger

	Repo      shop.Repository
	Catalog   *shop.Catalog
	Orders    *shop.Orders
	Reminders *shop.Reminders
	Accounts  *shop.Accounts
	Admin     *shop.Admin
	CMS       *shop.CMS
	Tokens    *auth.Tokens
	Notifier  *notify.Notifier

	limiter cache.Limiter
	locker  cache.Locker
	store   cache.Store
	ping    func(ctx context.Context) error
	closers []func() error
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// New opens the configured backend and builds every service. Callers must
// Close the result.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg, logger := a.Config, a.Logger
	if err := a.openRepository(ctx); err != nil {
		return err
	}
	a.openCache()

	n, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}
	a.Notifier = n
	policy, err := shop.ParseAddOnPolicy(cfg.AddOnPolicy)
	if err != nil {
		return err
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := func() time.Time { return time.Now().In(loc) }

	a.Tokens = auth.NewTokens(cfg.JWTKey, cfg.AccessTTL, cfg.RefreshTTL)
	a.Catalog = shop.NewCatalog(a.Repo, a.store, logger)
	a.Orders = shop.NewOrders(a.Repo, shop.NewCalculator(a.Repo, policy), n, logger)
	a.Orders.Now = now
	a.Reminders = shop.NewReminders(a.Repo, n, shop.ReminderPolicy{
		OffsetDays:  cfg.ReminderOffsetDays,
		CatchUpDays: cfg.ReminderCatchUpDays,
	}, logger)
	a.Reminders.Now = now
	a.Accounts = shop.NewAccounts(a.Repo, a.Tokens, n, logger)
	a.Admin = shop.NewAdmin(a.Repo, a.Reminders)
	a.Admin.Now = now
	a.CMS = shop.NewCMS(a.Repo)
	return nil
}

func (a *App) openRepository(ctx context.Context) error {
	cfg := a.Config
	switch cfg.DBBackend {
	case "mongo":
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		ds, err := docstore.Open(openCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("open mongo: %w", err)
		}
		a.Repo, a.ping = ds, ds.Ping
		a.closers = append(a.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return ds.Close(ctx)
		})
		a.Logger.Info("Using MongoDB", "database", cfg.MongoDatabase)
	default:
		db, err := store.NewStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		a.Repo, a.ping = db, db.Ping
		a.Logger.Info("Using SQLite", "path", cfg.DBPath)
	}
	return nil
}

// openCache uses Redis when configured and reachable, otherwise
// process-local fallbacks.
func (a *App) openCache() {
	cfg := a.Config
	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(cfg.RedisAddr, redisPrefix)
		if err == nil {
			a.store, a.locker = client, client
			a.limiter = cache.RedisLimiter{Client: client, Max: cfg.RateLimit, Window: cfg.RateLimitWindow}
			a.closers = append(a.closers, client.Close)
			a.Logger.Info("Using Redis for cache, locks and rate limits", "addr", cfg.RedisAddr)
			return
		}
		a.Logger.Warn("Redis unavailable, falling back to in-memory cache", "addr", cfg.RedisAddr, "error", err)
	}
	mem := cache.NewMemory()
	limiter := cache.NewMemoryLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	a.store, a.locker, a.limiter = mem, mem, limiter
	a.closers = append(a.closers, func() error { limiter.Close(); return nil })
}

func newNotifier(cfg *config.Config, logger *slog.Logger) (*notify.Notifier, error) {
	var mailer notify.Mailer = notify.LogMailer{Logger: logger}
	if cfg.SMTPConfigured() {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		logger.Warn("SMTP credentials not set, emails will only be logged")
	}
	chat := notify.NewWhatsApp(notify.WhatsAppConfig{
		AdminNumber:  cfg.AdminWhatsApp,
		WebhookURL:   cfg.ChatWebhookURL,
		WebhookToken: cfg.ChatWebhookToken,
	}, logger)
	return notify.New(mailer, chat, cfg.FrontendURL, logger)
}

// API assembles the HTTP surface over the app's services.
func (a *App) API() (*handlers.API, error) {
	if err := os.MkdirAll(a.Config.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &handlers.API{
		Catalog:   a.Catalog,
		Orders:    a.Orders,
		Reminders: a.Reminders,
		Accounts:  a.Accounts,
		Admin:     a.Admin,
		CMS:       a.CMS,
		Auth:      auth.NewMiddleware(a.Tokens, a.Accounts.ByEmail),
		Limiter:   a.limiter,
		Chat:      a.Notifier,
		Uploads:   &handlers.Uploads{Dir: a.Config.UploadDir, URLPrefix: uploadsURL},
		Ping:      a.ping,
		Logger:    a.Logger,
	}, nil
}

func (a *App) Scheduler() (*jobs.Scheduler, error) {
	hour, minute, err := a.Config.ReminderClock()
	if err != nil {
		return nil, err
	}
	return jobs.NewScheduler(a.Reminders, a.locker, jobs.Options{
		Hour:          hour,
		Minute:        minute,
		Location:      a.Config.Location,
		RetentionDays: a.Config.ReminderRetentionDays,
	}, a.Logger), nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
