package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config is loaded from the environment at startup. Business parameters that
// historical calculators hardcoded (profit percent in particular) live here.
type Config struct {
	Addr       string `env:"APP_ADDR" envDefault:":8080"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"slabquote.db"`

	// PriceSheetURL is the external tabular price list. Empty means serve
	// from the bundled snapshot.
	PriceSheetURL     string        `env:"PRICE_SHEET_URL"`
	PriceFetchTimeout time.Duration `env:"PRICE_FETCH_TIMEOUT" envDefault:"15s"`
	PriceFetchRetries uint64        `env:"PRICE_FETCH_RETRIES" envDefault:"3"`

	// IntakeURL is the third-party form endpoint completed quotes are
	// POSTed to.
	IntakeURL     string        `env:"INTAKE_URL,required"`
	IntakeTimeout time.Duration `env:"INTAKE_TIMEOUT" envDefault:"30s"`
	IntakeRetries uint64        `env:"INTAKE_RETRIES" envDefault:"2"`

	// ProfitPercent is applied to pro-mode quotes, e.g. 42.61.
	ProfitPercent float64 `env:"PROFIT_PERCENT" envDefault:"42.61"`

	// Chat assistant backend (any OpenAI-compatible completions API).
	ChatBaseURL string        `env:"CHAT_BASE_URL"`
	ChatAPIKey  string        `env:"CHAT_API_KEY"`
	ChatModel   string        `env:"CHAT_MODEL" envDefault:"gpt-4"`
	ChatTimeout time.Duration `env:"CHAT_TIMEOUT" envDefault:"60s"`
}

// Load parses and validates the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.ProfitPercent < 0 || cfg.ProfitPercent > 100 {
		return nil, fmt.Errorf("PROFIT_PERCENT must be between 0 and 100, got %v", cfg.ProfitPercent)
	}
	return &cfg, nil
}
