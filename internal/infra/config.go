package infra

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/roach88/donobot/internal/ledger"
)

// ErrMissingCredential is returned when BOT_TOKEN is not set.
var ErrMissingCredential = errors.New("BOT_TOKEN is missing: set it in the environment or a .env file")

// Config represents bot configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	BotToken       string
	GuildID        string
	LedgerBackend  string
	LedgerPath     string
	CurrencySymbol string
	Locale         language.Tag
}

// LoadDotEnv reads .env.local then .env into the process environment.
// Variables already set are never overridden, so .env.local wins over .env
// and the real environment wins over both. Missing files are ignored.
func LoadDotEnv() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg, err := LoadLedgerConfig()
	if err != nil {
		return nil, err
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, ErrMissingCredential
	}
	return cfg, nil
}

// LoadLedgerConfig loads everything except the bot credential. Offline CLI
// commands use it so they work without a token.
func LoadLedgerConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "production"),
		GuildID:        os.Getenv("GUILD_ID"),
		LedgerBackend:  getEnv("LEDGER_BACKEND", ledger.BackendJSON),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "£"),
	}

	path, ok := DefaultLedgerPath(cfg.LedgerBackend)
	if !ok {
		return nil, fmt.Errorf("LEDGER_BACKEND %q is not supported: use %q or %q",
			cfg.LedgerBackend, ledger.BackendJSON, ledger.BackendSQLite)
	}
	cfg.LedgerPath = getEnv("LEDGER_PATH", path)

	tag, err := language.Parse(getEnv("LOCALE", "en-GB"))
	if err != nil {
		return nil, fmt.Errorf("LOCALE: %w", err)
	}
	cfg.Locale = tag

	return cfg, nil
}

// DefaultLedgerPath returns the ledger path used for backend when
// LEDGER_PATH is unset. ok is false for an unknown backend.
func DefaultLedgerPath(backend string) (path string, ok bool) {
	switch backend {
	case ledger.BackendJSON:
		return "donations.json", true
	case ledger.BackendSQLite:
		return "donations.db", true
	default:
		return "", false
	}
}

// Development reports whether APP_ENV is "development".
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
