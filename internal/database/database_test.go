package database

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/killallgit/telehotels/internal/models"
	"github.com/killallgit/telehotels/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: ":memory:"},
		{name: "file database in nested directory", dbPath: filepath.Join(t.TempDir(), "data", "test.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false)
			require.NoError(t, err)
			require.NotNil(t, conn)
			defer conn.Close()

			assert.NoError(t, conn.HealthCheck())
		})
	}
}

func TestDB_HealthCheck(t *testing.T) {
	t.Run("closed connection", func(t *testing.T) {
		conn, err := Initialize(":memory:", false)
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		assert.Error(t, conn.HealthCheck(), "HealthCheck should fail after database is closed")
	})

	t.Run("nil connection", func(t *testing.T) {
		var conn *DB
		assert.Error(t, conn.HealthCheck())
	})
}

func TestInitializeWithMigrations(t *testing.T) {
	t.Run("creates both tables", func(t *testing.T) {
		db, err := InitializeWithMigrations(config.DatabaseConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, map[string]bool{"users": true, "history": true}, db.TableStatus())
	})

	t.Run("missing path", func(t *testing.T) {
		db, err := InitializeWithMigrations(config.DatabaseConfig{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database path is not configured")
		assert.Nil(t, db)
	})
}

func TestDB_DropAll(t *testing.T) {
	db, err := InitializeWithMigrations(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Create(&models.User{ID: 42, Username: "alice"}).Error)
	require.NoError(t, db.DropAll())

	assert.Equal(t, map[string]bool{"users": false, "history": false}, db.TableStatus())

	// migrating again after a drop is allowed
	require.NoError(t, db.AutoMigrate(Models()...))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHistoryTableName(t *testing.T) {
	db, err := InitializeWithMigrations(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	var count int64
	err = db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='history'").Scan(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "without credentials",
			cfg:  config.DatabaseConfig{Host: "localhost", Port: 5432, Name: "telehotels", SSLMode: "disable"},
			want: "host=localhost port=5432 dbname=telehotels sslmode=disable",
		},
		{
			name: "with credentials",
			cfg:  config.DatabaseConfig{Host: "db", Port: 5433, Name: "bot", SSLMode: "require", User: "bot", Password: "secret"},
			want: "host=db port=5433 dbname=bot sslmode=require user=bot password=secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostgresDSN(tt.cfg))
		})
	}
}

func TestSQLXChecker(t *testing.T) {
	assert.Error(t, SQLXChecker{}.HealthCheck())

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	checker := SQLXChecker{DB: db}
	assert.NoError(t, checker.HealthCheck())

	require.NoError(t, db.Close())
	assert.Error(t, checker.HealthCheck())
}
