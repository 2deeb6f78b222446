package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrMissingTelegramToken        = errors.New("missing TELEGRAM_API_TOKEN")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env"` // current application environment (local, dev, production)
	TelegramAPIToken string     `mapstructure:"-"`   // Telegram API token loaded from environment
	DB               DB         `mapstructure:"database"`
	HTTP             HTTP       `mapstructure:"http"`
	Corpus           Corpus     `mapstructure:"corpus"`
	Search           Search     `mapstructure:"search"`
	Similarity       Similarity `mapstructure:"similarity"`
	Quiz             Quiz       `mapstructure:"quiz"`
	Bot              Bot        `mapstructure:"bot"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// HTTP configures the JSON API.
type HTTP struct {
	Enabled        bool          `mapstructure:"enabled"`
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// Corpus locates the verse CSV and schedules snapshot refreshes.
type Corpus struct {
	CSVPath     string `mapstructure:"csv_path"`     // imported when the database is empty
	RefreshSpec string `mapstructure:"refresh_spec"` // cron spec, empty disables refreshing
}

type Search struct {
	DefaultLimit      int     `mapstructure:"default_limit"`
	FallbackThreshold float64 `mapstructure:"fallback_threshold"`
}

type Similarity struct {
	Workers int `mapstructure:"workers"`
}

type Quiz struct {
	MinTruncatedCoverage float64 `mapstructure:"min_truncated_coverage"`
}

// Bot tunes the Telegram front end.
type Bot struct {
	Enabled          bool          `mapstructure:"enabled"`
	Debug            bool          `mapstructure:"debug"`
	PendingTTL       time.Duration `mapstructure:"pending_ttl"`
	SearchResults    int           `mapstructure:"search_results"`
	SimilarPageSize  int           `mapstructure:"similar_page_size"`
	SimilarThreshold float64       `mapstructure:"similar_threshold"`
	WordMatches      int           `mapstructure:"word_matches"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Token returns the Telegram API token if it is configured.
func (c *Config) Token() (string, error) {
	if c.TelegramAPIToken == "" {
		return "", ErrMissingTelegramToken
	}
	return c.TelegramAPIToken, nil
}

// Load reads configuration from config files, an optional .env file and
// environment variables. Secrets are checked when they are used.
func Load() (*Config, error) {
	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "60s")
	v.SetDefault("http.request_timeout", "30s")
	v.SetDefault("http.allowed_origins", []string{"*"})

	v.SetDefault("corpus.csv_path", "assets/quran.csv")
	v.SetDefault("corpus.refresh_spec", "@every 1h")

	v.SetDefault("search.default_limit", 20)
	v.SetDefault("search.fallback_threshold", 0.7)

	v.SetDefault("similarity.workers", 0)

	v.SetDefault("quiz.min_truncated_coverage", 0.8)

	v.SetDefault("bot.enabled", true)
	v.SetDefault("bot.debug", false)
	v.SetDefault("bot.pending_ttl", "30m")
	v.SetDefault("bot.search_results", 10)
	v.SetDefault("bot.similar_page_size", 5)
	v.SetDefault("bot.similar_threshold", 0.4)
	v.SetDefault("bot.word_matches", 5)
}
