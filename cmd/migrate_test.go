package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCommandHelp(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
	}{
		{
			name:           "migrate command with help",
			args:           []string{"migrate", "--help"},
			expectedOutput: "Manage database migrations",
		},
		{
			name:           "migrate up subcommand",
			args:           []string{"migrate", "up", "--help"},
			expectedOutput: "Create the users and history tables",
		},
		{
			name:           "migrate down subcommand",
			args:           []string{"migrate", "down", "--help"},
			expectedOutput: "Drop the history and users tables",
		},
		{
			name:           "migrate status subcommand",
			args:           []string{"migrate", "status", "--help"},
			expectedOutput: "Display the current status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.expectedOutput)
		})
	}
}

func TestMigrateCommandSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	migrateCmd, _, err := cmd.Find([]string{"migrate"})
	require.NoError(t, err)

	names := make([]string, 0)
	for _, child := range migrateCmd.Commands() {
		names = append(names, child.Name())
	}
	assert.Subset(t, names, []string{"up", "down", "status"})
}

func TestMigrateLifecycle(t *testing.T) {
	useTempStore(t)

	out, err := execute(t, "", "migrate", "status", "--dry-run=false")
	require.NoError(t, err)
	assert.Contains(t, out, "history    missing")

	out, err = execute(t, "", "migrate", "up", "--dry-run=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Tables created")

	out, err = execute(t, "", "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "history    present")
	assert.Contains(t, out, "users      present")

	out, err = execute(t, "n\n", "migrate", "down", "--yes=false", "--dry-run=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Migration rollback cancelled")

	out, err = execute(t, "", "migrate", "down", "--yes", "--dry-run=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Tables dropped")

	out, err = execute(t, "", "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "users      missing")
}

func TestMigrateDryRun(t *testing.T) {
	useTempStore(t)

	out, err := execute(t, "", "migrate", "up", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run mode")

	out, err = execute(t, "", "migrate", "status", "--dry-run=false")
	require.NoError(t, err)
	assert.Contains(t, out, "history    missing")
}
