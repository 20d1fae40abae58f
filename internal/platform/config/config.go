package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers selectable with STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	StoreDriver   string
	RunMigrations bool

	// Optional Redis adapter. Empty RedisURL disables events and the report cache.
	RedisURL       string
	ReportCacheTTL time.Duration

	// Chart codes used by sales postings
	SalesJournalCode        string
	ReceivableAccountCode   string
	RevenueAccountCode      string
	TaxCollectedAccountCode string

	// Caller-side retry of transactions aborted by lock conflicts
	TxMaxRetries           int
	TxRetryInitialInterval time.Duration

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REPORT_CACHE_TTL", "5m")
	v.SetDefault("SALES_JOURNAL_CODE", "VE")
	v.SetDefault("RECEIVABLE_ACCOUNT_CODE", "411000")
	v.SetDefault("REVENUE_ACCOUNT_CODE", "701000")
	v.SetDefault("TAX_COLLECTED_ACCOUNT_CODE", "443000")
	v.SetDefault("TX_MAX_RETRIES", 3)
	v.SetDefault("TX_RETRY_INITIAL_INTERVAL", "50ms")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Actual environment variables override both defaults and .env values.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:             v.GetString("PGSQL_URL"),
		Port:                    v.GetString("PORT"),
		IsProduction:            v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:           v.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:             strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		RunMigrations:           v.GetBool("RUN_MIGRATIONS"),
		RedisURL:                v.GetString("REDIS_URL"),
		SalesJournalCode:        v.GetString("SALES_JOURNAL_CODE"),
		ReceivableAccountCode:   v.GetString("RECEIVABLE_ACCOUNT_CODE"),
		RevenueAccountCode:      v.GetString("REVENUE_ACCOUNT_CODE"),
		TaxCollectedAccountCode: v.GetString("TAX_COLLECTED_ACCOUNT_CODE"),
		TxMaxRetries:            v.GetInt("TX_MAX_RETRIES"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT not set, using default", slog.String("port", cfg.Port))
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
	case StoreDriverMemory:
		slog.Warn("Using the in-memory store, data will not survive a restart")
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: expected %q or %q", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	var err error
	if cfg.ReportCacheTTL, err = parseDuration(v, "REPORT_CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.TxRetryInitialInterval, err = parseDuration(v, "TX_RETRY_INITIAL_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.TxMaxRetries < 0 {
		return nil, fmt.Errorf("invalid TX_MAX_RETRIES %d: must not be negative", cfg.TxMaxRetries)
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid value for %s (%q): must not be negative", key, raw)
	}
	return d, nil
}
