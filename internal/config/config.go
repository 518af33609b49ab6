// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/vinyl-pricer/pkg/logger"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Discogs   DiscogsConfig   `yaml:"discogs"`
	Ebay      EbayConfig      `yaml:"ebay"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`

	MusicBrainz   MusicBrainzConfig   `yaml:"musicbrainz"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
	if d.PoolSize > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", d.PoolSize)
	}
	return dsn
}

// DiscogsConfig defines Discogs catalog API settings.
type DiscogsConfig struct {
	Enabled   bool            `yaml:"enabled"`
	Token     string          `yaml:"token"`
	BaseURL   string          `yaml:"base_url"`
	UserAgent string          `yaml:"user_agent"`
	Currency  string          `yaml:"currency"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// MusicBrainzConfig defines the MusicBrainz release search used to find an
// item's Discogs release before falling back to the Discogs search.
type MusicBrainzConfig struct {
	Enabled   bool            `yaml:"enabled"`
	BaseURL   string          `yaml:"base_url"`
	UserAgent string          `yaml:"user_agent"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// EbayConfig defines eBay API settings.
type EbayConfig struct {
	Enabled      bool            `yaml:"enabled"`
	AppID        string          `yaml:"app_id"`
	CertID       string          `yaml:"cert_id"`
	TokenURL     string          `yaml:"token_url"`
	BrowseURL    string          `yaml:"browse_url"`
	AnalyticsURL string          `yaml:"analytics_url"`
	Marketplace  string          `yaml:"marketplace"`
	CategoryID   string          `yaml:"category_id"`
	ConditionIDs []string        `yaml:"condition_ids"`
	ResultLimit  int             `yaml:"result_limit"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines API rate limiting settings. A zero DailyLimit
// means no daily cap.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// PricingConfig tunes the pricing cascade. Pointer fields distinguish an
// explicit zero from "not set".
type PricingConfig struct {
	Floor               float64  `yaml:"floor"`
	CompetitiveDiscount *float64 `yaml:"competitive_discount"`
	TrimPercent         *float64 `yaml:"trim_percent"`
	ShippingAllowance   *float64 `yaml:"shipping_allowance"`
	Quantum             float64  `yaml:"quantum"`
}

// Engine converts the section into a pricing.Config.
func (p *PricingConfig) Engine() pricing.Config {
	def := pricing.DefaultConfig()
	out := pricing.Config{
		Floor:               p.Floor,
		CompetitiveDiscount: def.CompetitiveDiscount,
		TrimPercent:         def.TrimPercent,
		ShippingAllowance:   def.ShippingAllowance,
		Quantum:             p.Quantum,
	}
	if p.CompetitiveDiscount != nil {
		out.CompetitiveDiscount = *p.CompetitiveDiscount
	}
	if p.TrimPercent != nil {
		out.TrimPercent = *p.TrimPercent
	}
	if p.ShippingAllowance != nil {
		out.ShippingAllowance = *p.ShippingAllowance
	}
	return out
}

// ScheduleConfig defines cron intervals and batch sizes.
type ScheduleConfig struct {
	PendingInterval time.Duration `yaml:"pending_interval"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	QuotaInterval   time.Duration `yaml:"quota_interval"`
	RefreshAfter    time.Duration `yaml:"refresh_after"`
	BatchSize       int           `yaml:"batch_size"`
}

// NotificationsConfig defines notification targets for run reports.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// TelemetryConfig defines OTLP trace and metric export.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Endpoint       string        `yaml:"endpoint"`
	Insecure       bool          `yaml:"insecure"`
	ServiceName    string        `yaml:"service_name"`
	ExportInterval time.Duration `yaml:"export_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // text, json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// FileOptions returns the rotation settings for pkg/logger.
func (l *LoggingConfig) FileOptions() logger.FileOptions {
	return logger.FileOptions{
		Path:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
	}
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyDiscogsDefaults(&cfg.Discogs)
	applyMusicBrainzDefaults(&cfg.MusicBrainz)
	applyEbayDefaults(&cfg.Ebay)
	applyPricingDefaults(&cfg.Pricing)
	applyScheduleDefaults(&cfg.Schedule)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyDiscogsDefaults(d *DiscogsConfig) {
	if d.BaseURL == "" {
		d.BaseURL = "https://api.discogs.com"
	}
	if d.UserAgent == "" {
		d.UserAgent = "vinyl-pricer/1.0"
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	if d.Timeout == 0 {
		d.Timeout = 15 * time.Second
	}
	// Authenticated Discogs clients get 60 requests per minute.
	if d.RateLimit.PerSecond == 0 {
		d.RateLimit.PerSecond = 1.0
	}
	if d.RateLimit.Burst == 0 {
		d.RateLimit.Burst = 5
	}
}

func applyMusicBrainzDefaults(m *MusicBrainzConfig) {
	if m.BaseURL == "" {
		m.BaseURL = "https://musicbrainz.org/ws/2"
	}
	if m.UserAgent == "" {
		m.UserAgent = "vinyl-pricer/1.0 (https://github.com/donaldgifford/vinyl-pricer)"
	}
	if m.Timeout == 0 {
		m.Timeout = 15 * time.Second
	}
	if m.RateLimit.PerSecond == 0 {
		m.RateLimit.PerSecond = 1.0
	}
	if m.RateLimit.Burst == 0 {
		m.RateLimit.Burst = 1
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.BrowseURL == "" {
		e.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if e.AnalyticsURL == "" {
		e.AnalyticsURL = "https://api.ebay.com/developer/analytics/v1_beta/rate_limit/"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_US"
	}
	if e.CategoryID == "" {
		e.CategoryID = "176985" // Music > Vinyl Records
	}
	if len(e.ConditionIDs) == 0 {
		e.ConditionIDs = []string{"3000"} // Used
	}
	if e.ResultLimit == 0 {
		e.ResultLimit = 50
	}
	if e.RateLimit.PerSecond == 0 {
		e.RateLimit.PerSecond = 5.0
	}
	if e.RateLimit.Burst == 0 {
		e.RateLimit.Burst = 10
	}
	if e.RateLimit.DailyLimit == 0 {
		e.RateLimit.DailyLimit = 5000
	}
}

func applyPricingDefaults(p *PricingConfig) {
	def := pricing.DefaultConfig()
	if p.Floor == 0 {
		p.Floor = def.Floor
	}
	if p.Quantum == 0 {
		p.Quantum = def.Quantum
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.PendingInterval == 0 {
		s.PendingInterval = 5 * time.Minute
	}
	if s.RefreshInterval == 0 {
		s.RefreshInterval = 6 * time.Hour
	}
	if s.QuotaInterval == 0 {
		s.QuotaInterval = 15 * time.Minute
	}
	if s.RefreshAfter == 0 {
		s.RefreshAfter = 7 * 24 * time.Hour
	}
	if s.BatchSize == 0 {
		s.BatchSize = 25
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "vinyl-pricer"
	}
	if t.ExportInterval == 0 {
		t.ExportInterval = 30 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if cfg.Discogs.Enabled && cfg.Discogs.Token == "" {
		errs = append(errs, fmt.Errorf("discogs.token is required when discogs is enabled"))
	}

	// MusicBrainz allows one request per second per client.
	if cfg.MusicBrainz.Enabled && cfg.MusicBrainz.RateLimit.PerSecond > 1 {
		errs = append(errs, fmt.Errorf("musicbrainz.rate_limit.per_second must not exceed 1"))
	}

	if cfg.Ebay.Enabled {
		if cfg.Ebay.AppID == "" {
			errs = append(errs, fmt.Errorf("ebay.app_id is required when ebay is enabled"))
		}
		if cfg.Ebay.CertID == "" {
			errs = append(errs, fmt.Errorf("ebay.cert_id is required when ebay is enabled"))
		}
	}

	errs = append(errs, validatePricing(cfg.Pricing.Engine())...)

	if cfg.Schedule.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("schedule.batch_size must not be negative"))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf(
			"notifications.discord.webhook_url is required when discord is enabled",
		))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, fmt.Errorf("telemetry.endpoint is required when telemetry is enabled"))
	}

	if !logger.ValidLevel(cfg.Logging.Level) {
		errs = append(errs, fmt.Errorf(
			"logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level,
		))
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf(
			"logging.format must be one of: text, json (got %q)", cfg.Logging.Format,
		))
	}

	return errors.Join(errs...)
}

func validatePricing(p pricing.Config) []error {
	var errs []error
	if p.Floor <= 0 {
		errs = append(errs, fmt.Errorf("pricing.floor must be positive"))
	}
	if p.Quantum <= 0 {
		errs = append(errs, fmt.Errorf("pricing.quantum must be positive"))
	}
	if p.Floor > 0 && p.Quantum > 0 {
		if q := p.Floor / p.Quantum; math.Abs(q-math.Round(q)) > 1e-9 {
			errs = append(errs, fmt.Errorf(
				"pricing.floor must be a multiple of pricing.quantum (got %v and %v)", p.Floor, p.Quantum,
			))
		}
	}
	if p.CompetitiveDiscount < 0 || p.CompetitiveDiscount >= 1 {
		errs = append(errs, fmt.Errorf("pricing.competitive_discount must be in [0, 1)"))
	}
	if p.TrimPercent < 0 || p.TrimPercent >= 0.5 {
		errs = append(errs, fmt.Errorf("pricing.trim_percent must be in [0, 0.5)"))
	}
	if p.ShippingAllowance < 0 {
		errs = append(errs, fmt.Errorf("pricing.shipping_allowance must not be negative"))
	}
	return errs
}
