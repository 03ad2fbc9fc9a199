package cmd

import (
	"context"
	"testing"

	"github.com/killallgit/telehotels/internal/models"
	"github.com/killallgit/telehotels/internal/services/history"
	"github.com/killallgit/telehotels/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCommand(t *testing.T) {
	path := useTempStore(t)
	ctx := context.Background()

	backend, err := openBackend(ctx, config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	require.NoError(t, backend.Migrate(ctx))

	store := history.NewService(backend.Repository(), nil)
	require.NoError(t, store.UpsertUser(ctx, 42, "alice"))
	for _, city := range []string{"Moscow", "Paris", "Rome"} {
		require.NoError(t, store.AppendHistory(ctx, &models.HistoryEntry{
			UserID: 42, Command: "lowprice", City: city, ResultsCount: 2,
		}))
	}
	require.NoError(t, backend.Close())

	out, err := execute(t, "", "history", "--user", "42", "--limit", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "Moscow")
	assert.Contains(t, out, "/lowprice: Paris; results: 2; photos: 0")
	assert.Contains(t, out, "/lowprice: Rome")

	out, err = execute(t, "", "history", "--user", "7", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "No searches for user 7")
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	_, err := openBackend(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)

	_, err = openBackend(context.Background(), config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err)
}
