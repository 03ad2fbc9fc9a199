package cmd

import (
	"fmt"

	"github.com/killallgit/telehotels/internal/services/history"
	"github.com/spf13/cobra"
)

// historyCmd prints the stored searches of one user
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a user's search history",
	Long: `Print the most recent searches of a Telegram user, oldest first.

Example:
  telehotels history --user 123456789
  telehotels history --user 123456789 --limit 20`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int64("user", 0, "Telegram user id")
	historyCmd.Flags().Int("limit", 0, "number of entries to show (0 = history.display_limit)")
	_ = historyCmd.MarkFlagRequired("user")
}

func runHistory(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetInt64("user")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = cfg.History.DisplayLimit
	}

	backend, err := openBackend(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer backend.Close()

	store := history.NewService(backend.Repository(), nil)
	entries, err := store.QueryHistory(cmd.Context(), userID, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No searches for user %d\n", userID)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.String())
	}
	return nil
}
