package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot",
	Long: `Run the TeleHotels bot with the configured settings.

Updates arrive by long polling or, with telegram.mode=webhook, through
the HTTP server, which also serves /health and /docs.

Example:
  telehotels serve
  telehotels serve --port 9090
  telehotels serve --host 0.0.0.0 --port 8443`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Use config values if flags not provided
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	botAPI, err := newBotAPI(cfg.Telegram)
	if err != nil {
		return err
	}
	logger.Info("authorized on telegram", "bot", botAPI.Self.UserName)

	a, err := newApp(ctx, cfg, botAPI, logger)
	if err != nil {
		return err
	}
	return a.run(ctx)
}
