package history

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/killallgit/telehotels/internal/models"
	apperrors "github.com/killallgit/telehotels/pkg/errors"
)

// service implements Store over a Repository
type service struct {
	repo   Repository
	logger *slog.Logger

	// one writer at a time per store
	mu sync.Mutex
}

// NewService creates a new history store
func NewService(repo Repository, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:   repo,
		logger: logger.With("component", "history"),
	}
}

// UpsertUser records the user, updating the username if it changed
func (s *service) UpsertUser(ctx context.Context, userID int64, username string) error {
	if userID == 0 {
		return apperrors.ValidationError("user_id", "must be set")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.UpsertUser(ctx, &models.User{ID: userID, Username: username}); err != nil {
		return apperrors.DatabaseError("upsert user", err)
	}
	return nil
}

// AppendHistory adds one completed search
func (s *service) AppendHistory(ctx context.Context, entry *models.HistoryEntry) error {
	if entry == nil {
		return apperrors.ValidationError("entry", "is required")
	}
	if !models.Flow(entry.Command).Valid() {
		return apperrors.ValidationError("command", "must be one of lowprice, highprice, bestdeal").
			WithDetail("command", entry.Command)
	}
	if strings.TrimSpace(entry.City) == "" {
		return apperrors.ValidationError("city", "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.InsertHistory(ctx, entry); err != nil {
		return apperrors.DatabaseError("append history", err)
	}

	s.logger.Debug("history appended", "user_id", entry.UserID, "command", entry.Command, "city", entry.City)
	return nil
}

// QueryHistory returns up to limit most recent entries in insertion order
func (s *service) QueryHistory(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	entries, err := s.repo.ListHistory(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("query history", err)
	}
	return entries, nil
}
