package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/killallgit/telehotels/internal/models"
)

const (
	postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT PRIMARY KEY,
	username TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS history (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	command TEXT NOT NULL,
	city TEXT NOT NULL,
	results_count INTEGER NOT NULL DEFAULT 0,
	photos_count INTEGER NOT NULL DEFAULT 0,
	price_range TEXT NOT NULL DEFAULT '',
	distance_range TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_user_id ON history (user_id);`

	sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	username TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	command TEXT NOT NULL,
	city TEXT NOT NULL,
	results_count INTEGER NOT NULL DEFAULT 0,
	photos_count INTEGER NOT NULL DEFAULT 0,
	price_range TEXT NOT NULL DEFAULT '',
	distance_range TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_user_id ON history (user_id);`
)

// sqlxRepository implements Repository with hand-written SQL. It serves the
// postgres deployment; sqlite is accepted too so both share one code path.
type sqlxRepository struct {
	db *sqlx.DB
}

// NewSQLXRepository creates a Repository over an open sqlx handle
func NewSQLXRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

// Schema returns the DDL for the handle's driver
func Schema(driverName string) (string, error) {
	switch driverName {
	case "postgres":
		return postgresSchema, nil
	case "sqlite3":
		return sqliteSchema, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driverName)
	}
}

// Migrate creates the users and history tables
func Migrate(ctx context.Context, db *sqlx.DB) error {
	ddl, err := Schema(db.DriverName())
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, ddl)
	return err
}

// Drop removes both tables
func Drop(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS history; DROP TABLE IF EXISTS users;")
	return err
}

// HasTable reports whether table exists on the handle. On postgres only the
// connection's current schema is searched.
func HasTable(ctx context.Context, db *sqlx.DB, table string) (bool, error) {
	query, err := tableExistsQuery(db.DriverName())
	if err != nil {
		return false, err
	}

	var count int
	if err := db.GetContext(ctx, &count, db.Rebind(query), table); err != nil {
		return false, err
	}
	return count > 0, nil
}

func tableExistsQuery(driverName string) (string, error) {
	switch driverName {
	case "postgres":
		return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?", nil
	case "sqlite3":
		return "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driverName)
	}
}

func (r *sqlxRepository) UpsertUser(ctx context.Context, user *models.User) error {
	query := r.db.Rebind(`INSERT INTO users (id, username) VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET username = excluded.username`)
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username)
	return err
}

func (r *sqlxRepository) InsertHistory(ctx context.Context, entry *models.HistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`INSERT INTO history
	(user_id, command, city, results_count, photos_count, price_range, distance_range, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`)

	return r.db.QueryRowxContext(ctx, query,
		entry.UserID, entry.Command, entry.City,
		entry.ResultsCount, entry.PhotosCount,
		entry.PriceRange, entry.DistanceRange, entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *sqlxRepository) ListHistory(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	query := `SELECT id, user_id, command, city, results_count, photos_count, price_range, distance_range, created_at
FROM history WHERE user_id = ? ORDER BY id DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	entries := []models.HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	reverse(entries)
	return entries, nil
}
