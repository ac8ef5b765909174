package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIBaseURL = "https://dev.backend-api.goldady.com/user-api"

type Config struct {
	Port           string
	APIBaseURL     string
	RequestTimeout time.Duration
	StorageDSN     string
	PollInterval   time.Duration
	TemplatesDir   string
	StaticDir      string
	LogFile        string
	LogLevel       string

	// Stale-data policy for failed fetches. Both default to false, which
	// clears the catalog and zeroes the summary when a fetch fails.
	KeepStaleProducts bool
	KeepStaleSummary  bool
}

func Load() Config {
	// .env is optional
	_ = godotenv.Load()

	cfg := Config{
		Port:              env("PORT", "8080"),
		APIBaseURL:        strings.TrimRight(env("API_BASE_URL", DefaultAPIBaseURL), "/"),
		RequestTimeout:    duration("REQUEST_TIMEOUT", 15*time.Second),
		StorageDSN:        env("STORAGE_DSN", "barstore.db"), // sqlite file in project root
		PollInterval:      duration("POLL_INTERVAL", 30*time.Second),
		TemplatesDir:      env("TEMPLATES_DIR", "./web/templates"),
		StaticDir:         env("STATIC_DIR", "./web/static"),
		LogFile:           env("LOG_FILE", "./barstore.log"),
		LogLevel:          env("LOG_LEVEL", "info"),
		KeepStaleProducts: flag("KEEP_STALE_PRODUCTS"),
		KeepStaleSummary:  flag("KEEP_STALE_SUMMARY"),
	}
	return cfg
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// duration accepts Go durations ("15s") or a bare number of seconds.
func duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func flag(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && b
}
