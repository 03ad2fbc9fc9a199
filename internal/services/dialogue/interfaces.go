package dialogue

import (
	"context"

	"github.com/killallgit/telehotels/internal/services/hotels"
	"github.com/killallgit/telehotels/internal/services/results"
)

// Messenger sends messages to a chat
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
	SendPhotoGroup(ctx context.Context, chatID int64, photos []results.Photo) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// SearchClient is the subset of the hotels API the dialogue needs
type SearchClient interface {
	ResolveDestination(ctx context.Context, city, locale string) (string, error)
	SearchByPrice(ctx context.Context, destinationID string, order hotels.SortOrder, pageSize int) ([]hotels.Hotel, error)
	SearchBestDeal(ctx context.Context, destinationID string, pageSize, priceMin, priceMax int) ([]hotels.Hotel, error)
}

// Formatter renders search results
type Formatter interface {
	Build(ctx context.Context, list []hotels.Hotel, photoCount int) []results.DisplayUnit
}
