package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateHandler consumes incoming updates
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// updateAPI is the subset of *tgbotapi.BotAPI used for receiving
type updateAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// Poller receives updates with long polling
type Poller struct {
	api     updateAPI
	timeout int
	logger  *slog.Logger
}

// NewPoller creates a long-polling update source
func NewPoller(api updateAPI, timeoutSeconds int, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{api: api, timeout: timeoutSeconds, logger: logger.With("component", "poller")}
}

// Run feeds updates to handler until ctx is done or the channel closes
func (p *Poller) Run(ctx context.Context, handler UpdateHandler) error {
	// a leftover webhook makes getUpdates fail
	if _, err := p.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook before polling: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.timeout
	updates := p.api.GetUpdatesChan(u)
	p.logger.Info("polling for updates", "timeout", p.timeout)

	for {
		select {
		case <-ctx.Done():
			p.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handler.HandleUpdate(ctx, update)
		}
	}
}

// Webhook receives updates pushed by Telegram to the HTTP server
type Webhook struct {
	api    updateAPI
	url    string
	logger *slog.Logger
}

// NewWebhook creates a webhook update source for the public url
func NewWebhook(api updateAPI, url string, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Webhook{api: api, url: url, logger: logger.With("component", "webhook")}
}

// Register tells Telegram where to deliver updates
func (w *Webhook) Register() error {
	cfg, err := tgbotapi.NewWebhook(w.url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := w.api.Request(cfg); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	w.logger.Info("webhook registered")
	return nil
}

// Unregister removes the webhook
func (w *Webhook) Unregister() error {
	if _, err := w.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	w.logger.Info("webhook deleted")
	return nil
}

// Parse decodes an update from a webhook request
func (w *Webhook) Parse(r *http.Request) (*tgbotapi.Update, error) {
	return w.api.HandleUpdate(r)
}
