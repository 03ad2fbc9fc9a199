package history

import (
	"context"

	"github.com/killallgit/telehotels/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repository implements Repository on gorm
type repository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed history repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// UpsertUser inserts the user or refreshes its username
func (r *repository) UpsertUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username"}),
		}).
		Create(user).Error
}

// InsertHistory appends one row
func (r *repository) InsertHistory(ctx context.Context, entry *models.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListHistory returns the newest limit rows for a user, oldest first
func (r *repository) ListHistory(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	reverse(entries)
	return entries, nil
}

func reverse(entries []models.HistoryEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
