package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	StorageDriver  string
	MigrationsPath string
	LogLevel       slog.Level
	Location       *time.Location

	// Recurring projection
	RecurringMaxCatchUp int
	RecurringCron       string

	// Reference exchange rates
	RatesSourceURL string
	RatesSyncCron  string

	// RatesBridgeCurrency is converted through when the feed lacks the base currency
	// (ECB does not publish UZS).
	RatesBridgeCurrency string

	// HTTP
	RateLimit          string
	CORSAllowedOrigins []string

	PosthogAPIKey    string
	MetricsCacheSize int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Asia/Tashkent")
	v.SetDefault("RECURRING_MAX_CATCHUP", 3)
	v.SetDefault("RECURRING_CRON", "0 5 0 * * *")
	v.SetDefault("RATES_SOURCE_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml")
	v.SetDefault("RATES_SYNC_CRON", "")
	v.SetDefault("RATES_BRIDGE_CURRENCY", "USD")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("METRICS_CACHE_SIZE", 256)

	// Environment variables override .env values, which override the defaults above.
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		StorageDriver:       strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		RecurringMaxCatchUp: v.GetInt("RECURRING_MAX_CATCHUP"),
		RecurringCron:       v.GetString("RECURRING_CRON"),
		RatesSourceURL:      v.GetString("RATES_SOURCE_URL"),
		RatesSyncCron:       v.GetString("RATES_SYNC_CRON"),
		RatesBridgeCurrency: strings.ToUpper(v.GetString("RATES_BRIDGE_CURRENCY")),
		RateLimit:           v.GetString("RATE_LIMIT"),
		PosthogAPIKey:       v.GetString("POSTHOG_API_KEY"),
		MetricsCacheSize:    v.GetInt("METRICS_CACHE_SIZE"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: using in-memory storage, data is lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.RecurringMaxCatchUp < 1 {
		log.Printf("Warning: RECURRING_MAX_CATCHUP must be positive, got %d. Defaulting to 3.\n", cfg.RecurringMaxCatchUp)
		cfg.RecurringMaxCatchUp = 3
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// Now returns the current time in the configured location.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}
