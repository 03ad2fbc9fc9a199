package history

import (
	"context"

	"github.com/killallgit/telehotels/internal/models"
)

// Store is the history capability consumed by the dialogue and bot layers
type Store interface {
	// UpsertUser records the user, updating the username if it changed
	UpsertUser(ctx context.Context, userID int64, username string) error

	// AppendHistory adds one completed search
	AppendHistory(ctx context.Context, entry *models.HistoryEntry) error

	// QueryHistory returns up to limit most recent entries in insertion order.
	// A limit <= 0 returns every entry.
	QueryHistory(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error)
}

// Repository defines raw data access for users and history rows
type Repository interface {
	UpsertUser(ctx context.Context, user *models.User) error
	InsertHistory(ctx context.Context, entry *models.HistoryEntry) error
	ListHistory(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error)
}
