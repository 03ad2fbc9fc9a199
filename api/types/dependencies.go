package types

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/killallgit/telehotels/internal/database"
	"github.com/killallgit/telehotels/internal/telegram"
)

// WebhookParser decodes a pushed Telegram update. *telegram.Webhook satisfies it.
type WebhookParser interface {
	Parse(r *http.Request) (*tgbotapi.Update, error)
}

// SessionCounter reports how many dialogues are in flight
type SessionCounter interface {
	ActiveSessions() int
}

// VersionInfo describes the running build
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildTime string
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB       database.HealthChecker
	Sessions SessionCounter
	Version  VersionInfo

	// Webhook mode only
	Webhook       WebhookParser
	Updates       telegram.UpdateHandler
	WebhookSecret string
}

// WebhookEnabled reports whether the webhook route can serve updates
func (d *Dependencies) WebhookEnabled() bool {
	return d != nil && d.Webhook != nil && d.Updates != nil && d.WebhookSecret != ""
}
