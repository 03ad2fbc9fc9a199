package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	apperrors "github.com/killallgit/telehotels/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultPath is where the optional settings file lives
const DefaultPath = "./config/settings.yaml"

// EnvPrefix is prepended to every environment override, e.g. TELEHOTELS_TELEGRAM_TOKEN
const EnvPrefix = "TELEHOTELS"

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system once per process
func Init() error {
	once.Do(func() {
		initErr = Load(DefaultPath)
	})
	return initErr
}

// Load reads .env, defaults, environment and the settings file at path into viper.
// Unlike Init it can be called repeatedly, which the tests rely on.
func Load(path string) error {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env: %w", err)
	}

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPath := filepath.Clean(path)
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
func GetConfig() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

var placeholders = []string{
	"",
	"YOUR_TOKEN_HERE",
	"YOUR_KEY_HERE",
	"YOUR_API_KEY",
	"changeme",
	"CHANGEME",
}

func isPlaceholder(v string) bool {
	for _, p := range placeholders {
		if v == p {
			return true
		}
	}
	return false
}

func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("invalid port %d", port))
	}

	switch mode := viper.GetString("telegram.mode"); mode {
	case "polling":
	case "webhook":
		if viper.GetString("telegram.webhook_url") == "" {
			return apperrors.ConfigError("telegram.webhook_url", "required in webhook mode")
		}
		if viper.GetString("telegram.webhook_secret") == "" {
			return apperrors.ConfigError("telegram.webhook_secret", "required in webhook mode")
		}
	default:
		return apperrors.ConfigError("telegram.mode", fmt.Sprintf("unknown mode %q", mode))
	}

	switch driver := viper.GetString("database.driver"); driver {
	case "sqlite":
		if viper.GetString("database.path") == "" {
			return apperrors.ConfigError("database.path", "required for sqlite")
		}
	case "postgres":
		if viper.GetString("database.name") == "" {
			return apperrors.ConfigError("database.name", "required for postgres")
		}
	default:
		return apperrors.ConfigError("database.driver", fmt.Sprintf("unknown driver %q", driver))
	}

	if err := validateSecrets(); err != nil {
		return err
	}

	if viper.GetInt("dispatch.workers") <= 0 {
		viper.Set("dispatch.workers", 4)
	}
	if viper.GetInt("dispatch.queue_size") <= 0 {
		viper.Set("dispatch.queue_size", 64)
	}
	if viper.GetInt("history.display_limit") <= 0 {
		viper.Set("history.display_limit", 10)
	}

	return nil
}

// validateSecrets rejects placeholder credentials in production and warns elsewhere
func validateSecrets() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	secrets := map[string]string{
		"telegram.token":     "Telegram bot token",
		"hotels_api.api_key": "RapidAPI key",
	}
	for key, label := range secrets {
		if !isPlaceholder(viper.GetString(key)) {
			continue
		}
		if isProduction {
			return apperrors.ConfigError(key, "cannot use placeholder values in production")
		}
		fmt.Fprintf(os.Stderr, "Warning: %s is not set or uses a placeholder value\n", label)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")

	// Telegram
	viper.SetDefault("telegram.mode", "polling")
	viper.SetDefault("telegram.api_endpoint", "https://api.telegram.org/bot%s/%s")
	viper.SetDefault("telegram.send_delay", 3*time.Second)
	viper.SetDefault("telegram.poll_timeout", 60)
	viper.SetDefault("telegram.debug", false)

	// Hotels API
	viper.SetDefault("hotels_api.host", "hotels4.p.rapidapi.com")
	viper.SetDefault("hotels_api.base_url", "https://hotels4.p.rapidapi.com")
	viper.SetDefault("hotels_api.timeout", 15*time.Second)
	viper.SetDefault("hotels_api.requests_per_minute", 60)
	viper.SetDefault("hotels_api.locale", "ru_RU")
	viper.SetDefault("hotels_api.currency", "RUB")
	viper.SetDefault("hotels_api.detail_base_url", "https://ru.hotels.com/ho")
	viper.SetDefault("hotels_api.best_deal_page_size", 25)

	// Database
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/telehotels.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.verbose", false)

	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8443)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Dispatch
	viper.SetDefault("dispatch.workers", 4)
	viper.SetDefault("dispatch.queue_size", 64)

	// Sessions
	viper.SetDefault("sessions.idle_timeout", 30*time.Minute)
	viper.SetDefault("sessions.sweep_interval", 5*time.Minute)

	// Cache
	viper.SetDefault("cache.destination_ttl", 24*time.Hour)
	viper.SetDefault("cache.photo_ttl", 6*time.Hour)
	viper.SetDefault("cache.max_entries", 1000)

	// History
	viper.SetDefault("history.display_limit", 10)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
