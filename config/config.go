package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// CORS whitelist for the Next.js frontend
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://anduber.org,https://www.anduber.org"`

	// Email (Resend first, Brevo SMTP as fallback)
	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"AnduBer <noreply@anduber.org>"`
	EmailTo      string `env:"EMAIL_TO" envDefault:"info@anduberinnovate.org"`
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp-relay.brevo.com"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// Dispatch tuning
	EmailSendTimeout        time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"10s"`
	EmailMaxAttempts        int           `env:"EMAIL_MAX_ATTEMPTS" envDefault:"2"`
	EmailRetryBaseDelay     time.Duration `env:"EMAIL_RETRY_BASE_DELAY" envDefault:"1s"`
	EmailBreakerMaxFailures uint32        `env:"EMAIL_BREAKER_MAX_FAILURES" envDefault:"5"`
	EmailBreakerTimeout     time.Duration `env:"EMAIL_BREAKER_TIMEOUT" envDefault:"30s"`

	// Rate Limiting Configuration
	RateLimitMax            int           `env:"RATE_LIMIT_MAX" envDefault:"5"`
	RateLimitWindow         time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
	RateLimitSweepThreshold int           `env:"RATE_LIMIT_SWEEP_THRESHOLD" envDefault:"10000"`
	RateLimitSweepInterval  time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"5m"`

	// Redis/Upstash Configuration
	UpstashRedisURL      string `env:"UPSTASH_REDIS_URL"`
	UpstashRedisPassword string `env:"UPSTASH_REDIS_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; production injects real environment variables
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimRight(strings.TrimSpace(origin), "/")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !cfg.EmailConfigured() {
		log.Println("WARNING: neither RESEND_API_KEY nor SMTP credentials are set. Form submissions will be logged but not emailed.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use the in-memory store.")
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimitMax < 1 {
		return fmt.Errorf("RATE_LIMIT_MAX must be at least 1, got %d", c.RateLimitMax)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.EmailMaxAttempts < 1 {
		return fmt.Errorf("EMAIL_MAX_ATTEMPTS must be at least 1, got %d", c.EmailMaxAttempts)
	}
	if c.EmailSendTimeout <= 0 {
		return fmt.Errorf("EMAIL_SEND_TIMEOUT must be positive, got %s", c.EmailSendTimeout)
	}
	return nil
}

// SMTPConfigured reports whether Brevo SMTP credentials are complete.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

// EmailConfigured reports whether any email provider can be built.
func (c *Config) EmailConfigured() bool {
	return c.ResendAPIKey != "" || c.SMTPConfigured()
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
