package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/killallgit/telehotels/internal/database"
	"github.com/killallgit/telehotels/internal/services/history"
	"github.com/killallgit/telehotels/pkg/config"
)

// storeBackend is the configured history database, sqlite through gorm or
// postgres through sqlx
type storeBackend interface {
	Repository() history.Repository
	Health() database.HealthChecker
	Migrate(ctx context.Context) error
	Drop(ctx context.Context) error
	Status(ctx context.Context) (map[string]bool, error)
	Close() error
}

func openBackend(ctx context.Context, cfg config.DatabaseConfig) (storeBackend, error) {
	switch cfg.Driver {
	case "", "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path is not configured")
		}
		db, err := database.Initialize(cfg.Path, cfg.Verbose)
		if err != nil {
			return nil, err
		}
		return &gormBackend{db: db}, nil
	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &sqlxBackend{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

type gormBackend struct {
	db *database.DB
}

func (b *gormBackend) Repository() history.Repository { return history.NewRepository(b.db.DB) }
func (b *gormBackend) Health() database.HealthChecker { return b.db }
func (b *gormBackend) Close() error                   { return b.db.Close() }

func (b *gormBackend) Migrate(ctx context.Context) error {
	return b.db.AutoMigrate(database.Models()...)
}

func (b *gormBackend) Drop(ctx context.Context) error {
	return b.db.DropAll()
}

func (b *gormBackend) Status(ctx context.Context) (map[string]bool, error) {
	return b.db.TableStatus(), nil
}

type sqlxBackend struct {
	db *sqlx.DB
}

func (b *sqlxBackend) Repository() history.Repository { return history.NewSQLXRepository(b.db) }
func (b *sqlxBackend) Health() database.HealthChecker { return database.SQLXChecker{DB: b.db} }
func (b *sqlxBackend) Close() error                   { return b.db.Close() }

func (b *sqlxBackend) Migrate(ctx context.Context) error {
	return history.Migrate(ctx, b.db)
}

func (b *sqlxBackend) Drop(ctx context.Context) error {
	return history.Drop(ctx, b.db)
}

func (b *sqlxBackend) Status(ctx context.Context) (map[string]bool, error) {
	status := make(map[string]bool, 2)
	for _, table := range []string{"users", "history"} {
		ok, err := history.HasTable(ctx, b.db, table)
		if err != nil {
			return nil, err
		}
		status[table] = ok
	}
	return status, nil
}
