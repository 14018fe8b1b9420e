package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL    string   `mapstructure:"REDIS_URL"`
	AuthSecret  string   `mapstructure:"AUTH_SECRET"`
	AuthIssuer  string   `mapstructure:"AUTH_ISSUER"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// Scheduling engine knobs.
	BusinessTimezone       string `mapstructure:"BUSINESS_TIMEZONE"`
	SlotGranularityMinutes int    `mapstructure:"SLOT_GRANULARITY_MINUTES"`
	CheckInEarlyMinutes    int    `mapstructure:"CHECKIN_EARLY_MINUTES"`
	CheckInLateMinutes     int    `mapstructure:"CHECKIN_LATE_MINUTES"`
	NoShowGraceMinutes     int    `mapstructure:"NOSHOW_GRACE_MINUTES"`
	AvailabilityCacheTTL   int    `mapstructure:"AVAILABILITY_CACHE_TTL_SECONDS"`

	// Google Calendar sync (optional).
	GoogleCalendarID      string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("BUSINESS_TIMEZONE", "UTC")
	v.SetDefault("SLOT_GRANULARITY_MINUTES", 30)
	v.SetDefault("CHECKIN_EARLY_MINUTES", 60)
	v.SetDefault("CHECKIN_LATE_MINUTES", 30)
	v.SetDefault("NOSHOW_GRACE_MINUTES", 30)
	v.SetDefault("AVAILABILITY_CACHE_TTL_SECONDS", 60)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"REDIS_URL", "AUTH_SECRET", "AUTH_ISSUER", "CORS_ORIGINS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"BUSINESS_TIMEZONE", "SLOT_GRANULARITY_MINUTES",
		"CHECKIN_EARLY_MINUTES", "CHECKIN_LATE_MINUTES", "NOSHOW_GRACE_MINUTES",
		"AVAILABILITY_CACHE_TTL_SECONDS",
		"GOOGLE_CALENDAR_ID", "GOOGLE_CREDENTIALS_FILE",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Location resolves the configured business timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.BusinessTimezone, err)
	}
	return loc, nil
}

// Validate checks that the configuration is safe to run. Outside
// development a real auth secret must be configured, and all scheduling
// windows must be sane.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required when ENV is not development")
	}
	if c.SlotGranularityMinutes <= 0 {
		return fmt.Errorf("SLOT_GRANULARITY_MINUTES must be positive, got %d", c.SlotGranularityMinutes)
	}
	if c.CheckInEarlyMinutes < 0 || c.CheckInLateMinutes < 0 || c.NoShowGraceMinutes < 0 {
		return fmt.Errorf("check-in and no-show windows must be non-negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.GoogleCalendarID != "" && c.GoogleCredentialsFile == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_FILE is required when GOOGLE_CALENDAR_ID is set")
	}
	return nil
}
