package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	Telegram    TelegramConfig  `mapstructure:"telegram"`
	HotelsAPI   HotelsAPIConfig `mapstructure:"hotels_api"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Server      ServerConfig    `mapstructure:"server"`
	Dispatch    DispatchConfig  `mapstructure:"dispatch"`
	Sessions    SessionsConfig  `mapstructure:"sessions"`
	Cache       CacheConfig     `mapstructure:"cache"`
	History     HistoryConfig   `mapstructure:"history"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// TelegramConfig contains bot transport settings
type TelegramConfig struct {
	Token         string        `mapstructure:"token"`
	APIEndpoint   string        `mapstructure:"api_endpoint"` // Bot API URL template, token then method
	Mode          string        `mapstructure:"mode"`         // polling or webhook
	WebhookURL    string        `mapstructure:"webhook_url"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	SendDelay     time.Duration `mapstructure:"send_delay"`
	PollTimeout   int           `mapstructure:"poll_timeout"`
	Debug         bool          `mapstructure:"debug"`
}

// HotelsAPIConfig contains RapidAPI hotels4 settings
type HotelsAPIConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	Host              string        `mapstructure:"host"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Locale            string        `mapstructure:"locale"`
	Currency          string        `mapstructure:"currency"`
	DetailBaseURL     string        `mapstructure:"detail_base_url"`
	BestDealPageSize  int           `mapstructure:"best_deal_page_size"`
}

// DatabaseConfig contains history store settings
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // sqlite or postgres
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Verbose  bool   `mapstructure:"verbose"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DispatchConfig sizes the update worker pool
type DispatchConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

// SessionsConfig controls dialogue abandonment
type SessionsConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// CacheConfig contains destination/photo cache settings
type CacheConfig struct {
	DestinationTTL time.Duration `mapstructure:"destination_ttl"`
	PhotoTTL       time.Duration `mapstructure:"photo_ttl"`
	MaxEntries     int           `mapstructure:"max_entries"`
}

// HistoryConfig contains /history display settings
type HistoryConfig struct {
	DisplayLimit int `mapstructure:"display_limit"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}
