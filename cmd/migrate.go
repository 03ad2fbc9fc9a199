package cmd

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the history database schema",
	Long: `Manage database migrations for TeleHotels.

The bot keeps two tables, users and history. These subcommands create,
drop and inspect them on the configured store (sqlite or postgres).

Available subcommands:
  up      - Create the tables
  down    - Drop the tables
  status  - Show which tables exist`,
}

// migrateUpCmd creates the tables
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create the tables",
	Long: `Create the users and history tables.

Existing tables are kept, so running this twice is harmless.`,
	RunE: runMigrateUp,
}

// migrateDownCmd drops the tables
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop the tables",
	Long: `Drop the history and users tables.

Every stored search is lost. You are asked to confirm unless --yes is given.`,
	RunE: runMigrateDown,
}

// migrateStatusCmd shows which tables exist
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of the database schema.

This command shows whether the users and history tables exist
on the configured store.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateDownCmd.Flags().BoolP("yes", "y", false, "drop without asking for confirmation")
	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(out, "Dry run mode - would create tables on %s store\n", cfg.Database.Driver)
		return nil
	}

	backend, err := openBackend(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Fprintln(out, "Tables created")
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(out, "Dry run mode - would drop tables on %s store\n", cfg.Database.Driver)
		return nil
	}

	// Confirmation prompt for destructive action
	if !yes {
		fmt.Fprint(out, "WARNING: This will drop every stored search. Continue? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Migration rollback cancelled")
			return nil
		}
	}

	backend, err := openBackend(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Drop(cmd.Context()); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	fmt.Fprintln(out, "Tables dropped")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	backend, err := openBackend(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer backend.Close()

	status, err := backend.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Driver: %s\n", cfg.Database.Driver)

	tables := make([]string, 0, len(status))
	for table := range status {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		state := "missing"
		if status[table] {
			state = "present"
		}
		fmt.Fprintf(out, "  %-10s %s\n", table, state)
	}
	return nil
}
