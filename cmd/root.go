package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/killallgit/telehotels/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "telehotels",
	Short: "TeleHotels Telegram bot",
	Long: `TeleHotels - a Telegram bot that searches hotels through the Hotels.com API

The bot walks each chat through a short dialogue and replies with a list of
hotels, photos included when asked for.

Commands understood by the bot:
  • /lowprice  - cheapest hotels in a city
  • /highprice - most expensive hotels in a city
  • /bestdeal  - hotels in a price range close to the city center
  • /history   - recent searches of the user`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initLogging)

	// Add persistent flags for logging configuration
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// initLogging installs the default logger from the flags alone. loadConfig
// refines it once the configuration is known.
func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonLogs, _ := rootCmd.PersistentFlags().GetBool("json-logs")
	slog.SetDefault(newLogger(os.Stderr, level, jsonLogs))
}

// loadConfig loads the configuration for commands that need it.
// Explicit logging flags win over the logging section of the config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("error initializing config: %w", err)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Root().PersistentFlags()
	level := cfg.Logging.Level
	if flags.Changed("log-level") || level == "" {
		level, _ = flags.GetString("log-level")
	}
	jsonLogs := strings.EqualFold(cfg.Logging.Format, "json")
	if flags.Changed("json-logs") {
		jsonLogs, _ = flags.GetBool("json-logs")
	}
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), level, jsonLogs))

	return cfg, nil
}

// newLogger builds a text or JSON slog logger at the named level
func newLogger(w io.Writer, level string, jsonLogs bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
