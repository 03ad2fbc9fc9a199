package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/killallgit/telehotels/internal/services/results"
	apperrors "github.com/killallgit/telehotels/pkg/errors"
)

// maxAlbumSize is the Telegram limit for one media group
const maxAlbumSize = 10

// botAPI is the subset of *tgbotapi.BotAPI used for sending
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger sends paced HTML messages to chats
type Messenger struct {
	api    botAPI
	pacer  *Pacer
	logger *slog.Logger
}

// NewMessenger wraps a bot API client
func NewMessenger(api botAPI, pacer *Pacer, logger *slog.Logger) *Messenger {
	if pacer == nil {
		pacer = NewPacer(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Messenger{
		api:    api,
		pacer:  pacer,
		logger: logger.With("component", "telegram"),
	}
}

// SendText sends an HTML message with link previews disabled and returns its id
func (m *Messenger) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	if err := m.pacer.Wait(ctx); err != nil {
		return 0, apperrors.DeliveryError(chatID, err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	sent, err := m.api.Send(msg)
	if err != nil {
		return 0, apperrors.DeliveryError(chatID, err)
	}
	return sent.MessageID, nil
}

// SendPhotoGroup sends photos as one album. A single photo is sent on its own
// since albums need at least two items.
func (m *Messenger) SendPhotoGroup(ctx context.Context, chatID int64, photos []results.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	if len(photos) > maxAlbumSize {
		photos = photos[:maxAlbumSize]
	}

	if err := m.pacer.Wait(ctx); err != nil {
		return apperrors.DeliveryError(chatID, err)
	}

	if len(photos) == 1 {
		single := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photos[0].URL))
		single.Caption = photos[0].Caption
		if _, err := m.api.Send(single); err != nil {
			return apperrors.DeliveryError(chatID, err)
		}
		return nil
	}

	media := make([]interface{}, 0, len(photos))
	for _, p := range photos {
		item := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(p.URL))
		item.Caption = p.Caption
		media = append(media, item)
	}

	if _, err := m.api.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media)); err != nil {
		return apperrors.DeliveryError(chatID, err).WithDetail("photos", len(photos))
	}
	return nil
}

// DeleteMessage removes a message the bot sent earlier
func (m *Messenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := m.pacer.Wait(ctx); err != nil {
		return apperrors.DeliveryError(chatID, err)
	}

	if _, err := m.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return apperrors.DeliveryError(chatID, err).WithDetail("message_id", messageID)
	}
	return nil
}
