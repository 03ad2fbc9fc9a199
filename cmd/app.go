package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/killallgit/telehotels/api"
	"github.com/killallgit/telehotels/api/types"
	"github.com/killallgit/telehotels/internal/bot"
	"github.com/killallgit/telehotels/internal/services/cache"
	"github.com/killallgit/telehotels/internal/services/cleanup"
	"github.com/killallgit/telehotels/internal/services/dialogue"
	"github.com/killallgit/telehotels/internal/services/history"
	"github.com/killallgit/telehotels/internal/services/hotels"
	"github.com/killallgit/telehotels/internal/services/locale"
	"github.com/killallgit/telehotels/internal/services/results"
	"github.com/killallgit/telehotels/internal/services/workers"
	"github.com/killallgit/telehotels/internal/telegram"
	"github.com/killallgit/telehotels/pkg/config"
)

// app is the fully wired bot process
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend storeBackend
	cache   *cache.MemoryCache
	pool    *workers.Pool
	sweeper *cleanup.Service
	server  *api.Server

	dispatcher *bot.Dispatcher
	poller     *telegram.Poller
	webhook    *telegram.Webhook
}

// newBotAPI connects to the Bot API and verifies the token
func newBotAPI(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	botAPI, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	botAPI.Debug = cfg.Debug
	return botAPI, nil
}

// webhookURL is the public address Telegram pushes updates to
func webhookURL(cfg config.TelegramConfig) string {
	return strings.TrimRight(cfg.WebhookURL, "/") + "/telegram/" + cfg.WebhookSecret
}

func newApp(ctx context.Context, cfg *config.Config, botAPI *tgbotapi.BotAPI, logger *slog.Logger) (*app, error) {
	apiLocale, err := locale.Parse(cfg.HotelsAPI.Locale)
	if err != nil {
		return nil, fmt.Errorf("hotels_api.locale: %w", err)
	}

	backend, err := openBackend(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := backend.Migrate(ctx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	store := history.NewService(backend.Repository(), logger)

	memCache := cache.NewMemoryCache(cfg.Cache.MaxEntries, time.Minute)
	client := hotels.NewClient(hotels.Config{
		APIKey:            cfg.HotelsAPI.APIKey,
		Host:              cfg.HotelsAPI.Host,
		BaseURL:           cfg.HotelsAPI.BaseURL,
		Timeout:           cfg.HotelsAPI.Timeout,
		RequestsPerMinute: cfg.HotelsAPI.RequestsPerMinute,
		Locale:            apiLocale.String(),
		Currency:          cfg.HotelsAPI.Currency,
		UserAgent:         "telehotels/" + Version,
	}, logger)
	search := hotels.NewCachedClient(client, memCache, cfg.Cache.DestinationTTL, cfg.Cache.PhotoTTL)

	pacer := telegram.NewPacer(cfg.Telegram.SendDelay)
	messenger := telegram.NewMessenger(botAPI, pacer, logger)
	formatter := results.NewFormatter(search, cfg.HotelsAPI.DetailBaseURL, logger)
	controller := dialogue.NewController(messenger, search, formatter, store,
		dialogue.Config{BestDealPageSize: cfg.HotelsAPI.BestDealPageSize}, logger)

	pool := workers.NewPool(cfg.Dispatch.Workers, cfg.Dispatch.QueueSize, logger)
	dispatcher := bot.NewDispatcher(controller, messenger, store, pool,
		bot.Config{HistoryLimit: cfg.History.DisplayLimit}, logger)

	logger.Info("bot components ready",
		"store", cfg.Database.Driver,
		"language", apiLocale.Tag().String(),
		"workers", pool.Size(),
		"send_delay", pacer.Delay())

	a := &app{
		cfg:        cfg,
		logger:     logger,
		backend:    backend,
		cache:      memCache,
		pool:       pool,
		sweeper:    cleanup.NewService(controller, cfg.Sessions.IdleTimeout, cfg.Sessions.SweepInterval, logger),
		server:     api.NewServer(cfg.Server, logger),
		dispatcher: dispatcher,
	}

	deps := &types.Dependencies{
		DB:       backend.Health(),
		Sessions: controller,
		Version:  versionInfo(),
	}
	if cfg.Telegram.Mode == "webhook" {
		a.webhook = telegram.NewWebhook(botAPI, webhookURL(cfg.Telegram), logger)
		deps.Webhook = a.webhook
		deps.Updates = dispatcher
		deps.WebhookSecret = cfg.Telegram.WebhookSecret
	} else {
		a.poller = telegram.NewPoller(botAPI, cfg.Telegram.PollTimeout, logger)
	}

	a.server.SetDependencies(deps)
	if err := a.server.Initialize(); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize http server: %w", err)
	}
	return a, nil
}

// run serves until ctx is cancelled or a component fails, then shuts down
func (a *app) run(ctx context.Context) error {
	a.pool.Start(ctx)
	a.sweeper.Start(ctx)

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.server.Start()
	}()

	if a.webhook != nil {
		if err := a.webhook.Register(); err != nil {
			a.shutdown()
			return err
		}
	} else {
		go func() {
			if err := a.poller.Run(ctx, a.dispatcher); err != nil {
				errCh <- err
			}
		}()
	}

	a.logger.Info("bot is running", "mode", a.cfg.Telegram.Mode, "addr", a.server.Addr())

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case runErr = <-errCh:
		if runErr != nil {
			a.logger.Error("component failed, shutting down", "error", runErr)
		}
	}

	a.shutdown()
	return runErr
}

func (a *app) shutdown() {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("server forced to shutdown", "error", err)
	}
	if a.webhook != nil {
		if err := a.webhook.Unregister(); err != nil {
			a.logger.Warn("failed to delete webhook", "error", err)
		}
	}
	a.pool.Stop()
	a.sweeper.Stop()
	a.close()
}

// close releases the cache and the database
func (a *app) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close cache", "error", err)
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}
