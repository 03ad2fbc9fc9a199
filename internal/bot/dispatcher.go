package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/killallgit/telehotels/internal/models"
	"github.com/killallgit/telehotels/internal/services/history"
	"github.com/killallgit/telehotels/internal/services/workers"
)

const defaultHistoryLimit = 10

const (
	msgGreetingFmt  = "Hi, %s! I search for hotels on Hotels.com.\nSee /help for what I can do."
	msgHelp         = "/lowprice - cheapest hotels in a city\n/highprice - most expensive hotels in a city\n/bestdeal - hotels in a price range close to the city center\n/history - your recent searches\n/cancel - stop the current search\n/help - this message"
	msgUnknown      = "I don't understand you. See /help"
	msgCancelled    = "Search cancelled."
	msgNothingToEnd = "There is no search to cancel."
	msgNoHistory    = "You have no searches yet."
	msgHistoryTitle = "<b>Your recent searches:</b>"
	msgHistoryError = "Could not load your history. Try again later."
)

// Dialogue is the dialogue capability the dispatcher drives
type Dialogue interface {
	Start(ctx context.Context, chatID, userID int64, username string, flow models.Flow) error
	HandleReply(ctx context.Context, chatID int64, text string) bool
	Cancel(chatID int64) bool
}

// Sender sends plain replies
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
}

// Submitter queues work for a chat. *workers.Pool satisfies it.
type Submitter interface {
	Submit(ctx context.Context, key int64, task workers.Task) error
}

// Config tunes the dispatcher
type Config struct {
	// HistoryLimit is how many entries /history shows
	HistoryLimit int
}

// Dispatcher routes Telegram updates to commands and dialogues
type Dispatcher struct {
	dialogue Dialogue
	sender   Sender
	store    history.Store
	pool     Submitter
	cfg      Config
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. With a nil pool updates are handled
// on the caller's goroutine.
func NewDispatcher(dialogue Dialogue, sender Sender, store history.Store, pool Submitter, cfg Config, logger *slog.Logger) *Dispatcher {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		dialogue: dialogue,
		sender:   sender,
		store:    store,
		pool:     pool,
		cfg:      cfg,
		logger:   logger.With("component", "dispatcher"),
	}
}

// HandleUpdate queues a message update on the worker owning its chat
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	if d.pool == nil {
		d.handleMessage(ctx, msg)
		return
	}

	if err := d.pool.Submit(ctx, msg.Chat.ID, func(ctx context.Context) {
		d.handleMessage(ctx, msg)
	}); err != nil {
		d.logger.Error("failed to queue update", "update_id", update.UpdateID, "chat_id", msg.Chat.ID, "error", err)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID, username := author(msg)

	if !msg.IsCommand() {
		if d.dialogue.HandleReply(ctx, chatID, msg.Text) {
			return
		}
		d.reply(ctx, chatID, msgUnknown)
		return
	}

	command := msg.Command()
	d.logger.Info("command received", "chat_id", chatID, "user_id", userID, "command", command)

	if flow := models.Flow(command); flow.Valid() {
		if err := d.dialogue.Start(ctx, chatID, userID, username, flow); err != nil {
			d.logger.Error("failed to start dialogue", "chat_id", chatID, "flow", flow, "error", err)
		}
		return
	}

	switch command {
	case "start":
		if err := d.store.UpsertUser(ctx, userID, username); err != nil {
			d.logger.Error("failed to upsert user", "user_id", userID, "error", err)
		}
		d.reply(ctx, chatID, greeting(msg.From))
	case "help":
		d.reply(ctx, chatID, msgHelp)
	case "history":
		d.showHistory(ctx, chatID, userID)
	case "cancel":
		if d.dialogue.Cancel(chatID) {
			d.reply(ctx, chatID, msgCancelled)
		} else {
			d.reply(ctx, chatID, msgNothingToEnd)
		}
	default:
		d.reply(ctx, chatID, msgUnknown)
	}
}

func (d *Dispatcher) showHistory(ctx context.Context, chatID, userID int64) {
	entries, err := d.store.QueryHistory(ctx, userID, d.cfg.HistoryLimit)
	if err != nil {
		d.logger.Error("failed to query history", "user_id", userID, "error", err)
		d.reply(ctx, chatID, msgHistoryError)
		return
	}
	d.reply(ctx, chatID, RenderHistory(entries))
}

// RenderHistory formats entries as an HTML listing, oldest first
func RenderHistory(entries []models.HistoryEntry) string {
	if len(entries) == 0 {
		return msgNoHistory
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, msgHistoryTitle)
	for _, e := range entries {
		line := html.EscapeString(e.String())
		if !e.CreatedAt.IsZero() {
			line = e.CreatedAt.Format("2006-01-02 15:04") + " " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) {
	if _, err := d.sender.SendText(ctx, chatID, text); err != nil {
		d.logger.Error("failed to reply", "chat_id", chatID, "error", err)
	}
}

func author(msg *tgbotapi.Message) (int64, string) {
	if msg.From == nil {
		// channel posts carry no author
		return msg.Chat.ID, msg.Chat.UserName
	}
	return msg.From.ID, msg.From.UserName
}

func greeting(from *tgbotapi.User) string {
	name := "there"
	if from != nil {
		switch {
		case from.FirstName != "":
			name = from.FirstName
		case from.UserName != "":
			name = from.UserName
		}
	}
	return fmt.Sprintf(msgGreetingFmt, html.EscapeString(name))
}
