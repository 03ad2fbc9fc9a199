package history

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/killallgit/telehotels/internal/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGormRepo(t *testing.T) Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.HistoryEntry{}))
	return NewRepository(db)
}

func setupSQLXRepo(t *testing.T) Repository {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return NewSQLXRepository(db)
}

var repoFactories = map[string]func(t *testing.T) Repository{
	"gorm": setupGormRepo,
	"sqlx": setupSQLXRepo,
}

func TestRepository_UpsertUser(t *testing.T) {
	for name, setup := range repoFactories {
		t.Run(name, func(t *testing.T) {
			repo := setup(t)
			ctx := context.Background()

			require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: 42, Username: "alice"}))
			// second upsert is idempotent and refreshes the username
			require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: 42, Username: "alice_new"}))
			require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: 7, Username: "bob"}))

			switch r := repo.(type) {
			case *repository:
				var users []models.User
				require.NoError(t, r.db.Order("id").Find(&users).Error)
				assert.Equal(t, []models.User{{ID: 7, Username: "bob"}, {ID: 42, Username: "alice_new"}}, users)
			case *sqlxRepository:
				var users []models.User
				require.NoError(t, r.db.Select(&users, "SELECT id, username FROM users ORDER BY id"))
				assert.Equal(t, []models.User{{ID: 7, Username: "bob"}, {ID: 42, Username: "alice_new"}}, users)
			}
		})
	}
}

func TestRepository_History(t *testing.T) {
	for name, setup := range repoFactories {
		t.Run(name, func(t *testing.T) {
			repo := setup(t)
			ctx := context.Background()

			cities := []string{"Moscow", "Paris", "Rome", "Berlin"}
			for _, city := range cities {
				entry := &models.HistoryEntry{UserID: 1, Command: "lowprice", City: city, ResultsCount: 2}
				require.NoError(t, repo.InsertHistory(ctx, entry))
				assert.NotZero(t, entry.ID)
			}
			require.NoError(t, repo.InsertHistory(ctx, &models.HistoryEntry{
				UserID: 2, Command: "bestdeal", City: "Tokyo",
				PriceRange: "100-500", DistanceRange: "0.5-3",
			}))

			t.Run("all entries in insertion order", func(t *testing.T) {
				entries, err := repo.ListHistory(ctx, 1, 0)
				require.NoError(t, err)
				require.Len(t, entries, 4)
				for i, city := range cities {
					assert.Equal(t, city, entries[i].City)
					assert.False(t, entries[i].CreatedAt.IsZero())
				}
			})

			t.Run("limit keeps the most recent", func(t *testing.T) {
				entries, err := repo.ListHistory(ctx, 1, 2)
				require.NoError(t, err)
				require.Len(t, entries, 2)
				assert.Equal(t, "Rome", entries[0].City)
				assert.Equal(t, "Berlin", entries[1].City)
			})

			t.Run("best-deal labels round trip", func(t *testing.T) {
				entries, err := repo.ListHistory(ctx, 2, 10)
				require.NoError(t, err)
				require.Len(t, entries, 1)
				assert.Equal(t, "100-500", entries[0].PriceRange)
				assert.Equal(t, "0.5-3", entries[0].DistanceRange)
			})

			t.Run("unknown user", func(t *testing.T) {
				entries, err := repo.ListHistory(ctx, 999, 10)
				require.NoError(t, err)
				assert.Empty(t, entries)
			})
		})
	}
}

func TestSQLXSchemaHelpers(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()
	ctx := context.Background()

	exists, err := HasTable(ctx, db, "history")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, Migrate(ctx, db))
	// running twice is harmless
	require.NoError(t, Migrate(ctx, db))

	for _, table := range []string{"users", "history"} {
		exists, err := HasTable(ctx, db, table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}

	require.NoError(t, Drop(ctx, db))
	exists, err = HasTable(ctx, db, "users")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = Schema("mysql")
	assert.Error(t, err)
}

func TestTableExistsQuery(t *testing.T) {
	query, err := tableExistsQuery("postgres")
	require.NoError(t, err)
	assert.Contains(t, query, "table_schema = current_schema()")

	query, err = tableExistsQuery("sqlite3")
	require.NoError(t, err)
	assert.Contains(t, query, "sqlite_master")

	_, err = tableExistsQuery("mysql")
	assert.Error(t, err)
}
