package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type Config struct {
	Addr               string        `env:"APP_ADDR" envDefault:":8080"`
	Environment        string        `env:"APP_ENV" envDefault:"development"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns         int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	JWTSecret          string        `env:"JWT_SECRET"`
	RunMigrations      bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	RunSeed            bool          `env:"RUN_SEED" envDefault:"true"`
	SeedAdminEmail     string        `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword  string        `env:"SEED_ADMIN_PASSWORD"`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	UsersCacheTTL      time.Duration `env:"USERS_CACHE_TTL" envDefault:"5m"`
	KafkaBrokers       []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic         string        `env:"KAFKA_TOPIC" envDefault:"hr.contracts.events"`
	EmailEnabled       bool          `env:"EMAIL_ENABLED" envDefault:"false"`
	EmailFrom          string        `env:"EMAIL_FROM" envDefault:"no-reply@example.com"`
	HRNotifyEmail      string        `env:"HR_NOTIFY_EMAIL"`
	SMTPHost           string        `env:"SMTP_HOST"`
	SMTPPort           int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser           string        `env:"SMTP_USER"`
	SMTPPassword       string        `env:"SMTP_PASSWORD"`
	SMTPUseTLS         bool          `env:"SMTP_USE_TLS" envDefault:"true"`
	ExpiryScanInterval time.Duration `env:"EXPIRY_SCAN_INTERVAL" envDefault:"24h"`
	ExpiryWarningDays  int           `env:"EXPIRY_WARNING_DAYS" envDefault:"30"`
	LaborRulesFile     string        `env:"LABOR_RULES_FILE"`
	Timezone           string        `env:"TIMEZONE" envDefault:"America/Bogota"`
	MetricsEnabled     bool          `env:"METRICS_ENABLED" envDefault:"true"`

	Rules LaborRules `env:"-"`
}

// Load reads .env files when present, then the process environment.
func Load() (Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return Config{}, fmt.Errorf("config: load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	rules, err := LoadLaborRules(cfg.LaborRulesFile)
	if err != nil {
		return Config{}, err
	}
	cfg.Rules = rules
	return cfg, nil
}

func loadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (c Config) IsProduction() bool {
	return c.Environment == Production
}

// Location falls back to a fixed UTC-5 zone when tzdata is unavailable.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("COT", -5*60*60)
	}
	return loc
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.UsersCacheTTL <= 0 {
		return fmt.Errorf("USERS_CACHE_TTL must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.ExpiryWarningDays < 0 {
		return fmt.Errorf("EXPIRY_WARNING_DAYS must not be negative")
	}
	return c.Rules.Validate()
}
