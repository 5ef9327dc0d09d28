package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	GuildPrefix    string        `env:"GUILD_PREFIX"`
	WebhookURL     string        `env:"WEBHOOK_URL"`
	OutputFile     string        `env:"OUTPUT_FILE" envDefault:"guild_activity.txt"`
	DelayMin       time.Duration `env:"DELAY_MIN" envDefault:"500ms"`
	DelayMax       time.Duration `env:"DELAY_MAX" envDefault:"2s"`
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"5"`
	RetryDelay     time.Duration `env:"RETRY_DELAY" envDefault:"5s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT" envDefault:"30s"`
	RateLimit      int           `env:"RATE_LIMIT" envDefault:"100"`
	RateWindow     time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
}

// Load reads the configuration from the environment, after loading a
// .env file if one is present
func Load() (Config, error) {

	// A missing .env file is fine, the environment may be set
	// directly. A broken one gets flagged before it is ignored
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Msg(fmt.Sprintf("Could not read the .env file: %v", err))
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse configuration: %w", err)
	}

	return cfg, nil
}

// Validate runs after flag overrides are merged in, so a flag can
// stand in for a missing environment variable
func (cfg *Config) Validate() error {
	if cfg.GuildPrefix == "" {
		return fmt.Errorf("missing required configuration: GUILD_PREFIX")
	}
	if cfg.DelayMin > cfg.DelayMax {
		return fmt.Errorf("DELAY_MIN (%s) must not exceed DELAY_MAX (%s)", cfg.DelayMin, cfg.DelayMax)
	}
	if cfg.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1")
	}
	if cfg.RateLimit < 1 {
		return fmt.Errorf("RATE_LIMIT must be at least 1")
	}
	return nil
}
