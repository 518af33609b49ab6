package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

const minimalDB = `
database:
  host: localhost
  name: testdb
  user: testuser
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: minimalDB,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "testdb", cfg.Database.Name)
				assert.Equal(t, "testuser", cfg.Database.User)
				assert.False(t, cfg.Discogs.Enabled)
				assert.False(t, cfg.Ebay.Enabled)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: minimalDB,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, "https://api.discogs.com", cfg.Discogs.BaseURL)
				assert.Equal(t, "USD", cfg.Discogs.Currency)
				assert.InDelta(t, 1.0, cfg.Discogs.RateLimit.PerSecond, 1e-9)
				assert.False(t, cfg.MusicBrainz.Enabled)
				assert.Equal(t, "https://musicbrainz.org/ws/2", cfg.MusicBrainz.BaseURL)
				assert.Contains(t, cfg.MusicBrainz.UserAgent, "vinyl-pricer/")
				assert.Equal(t, 15*time.Second, cfg.MusicBrainz.Timeout)
				assert.InDelta(t, 1.0, cfg.MusicBrainz.RateLimit.PerSecond, 1e-9)
				assert.Equal(t, 1, cfg.MusicBrainz.RateLimit.Burst)
				assert.Equal(t, "176985", cfg.Ebay.CategoryID)
				assert.Equal(t, []string{"3000"}, cfg.Ebay.ConditionIDs)
				assert.Equal(t, 50, cfg.Ebay.ResultLimit)
				assert.Equal(t, int64(5000), cfg.Ebay.RateLimit.DailyLimit)
				assert.Equal(t, pricing.DefaultConfig(), cfg.Pricing.Engine())
				assert.Equal(t, 5*time.Minute, cfg.Schedule.PendingInterval)
				assert.Equal(t, 6*time.Hour, cfg.Schedule.RefreshInterval)
				assert.Equal(t, 15*time.Minute, cfg.Schedule.QuotaInterval)
				assert.Equal(t, 7*24*time.Hour, cfg.Schedule.RefreshAfter)
				assert.Equal(t, 25, cfg.Schedule.BatchSize)
				assert.Equal(t, "vinyl-pricer", cfg.Telemetry.ServiceName)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: minimalDB + `
  password: "${TEST_DB_PASSWORD}"
discogs:
  enabled: true
  token: "${TEST_DISCOGS_TOKEN}"
`,
			envVars: map[string]string{
				"TEST_DB_PASSWORD":   "secret123",
				"TEST_DISCOGS_TOKEN": "dgs-token",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Database.Password)
				assert.Equal(t, "dgs-token", cfg.Discogs.Token)
			},
		},
		{
			name: "missing required database.host",
			yaml: `
database:
  name: testdb
  user: testuser
`,
			wantErr: "database.host is required",
		},
		{
			name: "missing required database.user",
			yaml: `
database:
  host: localhost
  name: testdb
`,
			wantErr: "database.user is required",
		},
		{
			name: "discogs enabled without token",
			yaml: minimalDB + `
discogs:
  enabled: true
`,
			wantErr: "discogs.token is required when discogs is enabled",
		},
		{
			name: "musicbrainz faster than one request per second",
			yaml: minimalDB + `
musicbrainz:
  enabled: true
  rate_limit:
    per_second: 5
`,
			wantErr: "musicbrainz.rate_limit.per_second must not exceed 1",
		},
		{
			name: "musicbrainz slower rate accepted",
			yaml: minimalDB + `
musicbrainz:
  enabled: true
  user_agent: "shop-pricer/2.0 (ops@example.com)"
  rate_limit:
    per_second: 0.5
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.True(t, cfg.MusicBrainz.Enabled)
				assert.Equal(t, "shop-pricer/2.0 (ops@example.com)", cfg.MusicBrainz.UserAgent)
				assert.InDelta(t, 0.5, cfg.MusicBrainz.RateLimit.PerSecond, 1e-9)
			},
		},
		{
			name: "ebay enabled without credentials",
			yaml: minimalDB + `
ebay:
  enabled: true
`,
			wantErr: "ebay.app_id is required when ebay is enabled",
		},
		{
			name: "discord enabled without webhook",
			yaml: minimalDB + `
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required when discord is enabled",
		},
		{
			name: "telemetry enabled without endpoint",
			yaml: minimalDB + `
telemetry:
  enabled: true
`,
			wantErr: "telemetry.endpoint is required when telemetry is enabled",
		},
		{
			name: "negative floor rejected",
			yaml: minimalDB + `
pricing:
  floor: -1
`,
			wantErr: "pricing.floor must be positive",
		},
		{
			name: "floor off the price grid",
			yaml: minimalDB + `
pricing:
  floor: 5.10
  quantum: 0.25
`,
			wantErr: "pricing.floor must be a multiple of pricing.quantum (got 5.1 and 0.25)",
		},
		{
			name: "floor on a fine grid",
			yaml: minimalDB + `
pricing:
  floor: 5.10
  quantum: 0.05
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.InDelta(t, 5.10, cfg.Pricing.Engine().Floor, 1e-9)
			},
		},
		{
			name: "discount out of range",
			yaml: minimalDB + `
pricing:
  competitive_discount: 1.5
`,
			wantErr: "pricing.competitive_discount must be in [0, 1)",
		},
		{
			name: "invalid logging level",
			yaml: minimalDB + `
logging:
  level: verbose
`,
			wantErr: `logging.level must be one of: debug, info, warn, error (got "verbose")`,
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "explicit zero discount is kept",
			yaml: minimalDB + `
pricing:
  competitive_discount: 0
  shipping_allowance: 0
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				p := cfg.Pricing.Engine()
				assert.Zero(t, p.CompetitiveDiscount)
				assert.Zero(t, p.ShippingAllowance)
				assert.InDelta(t, 0.10, p.TrimPercent, 1e-9)
			},
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
database:
  host: db.example.com
  port: 5433
  name: pricer_prod
  user: admin
  password: pass
  sslmode: require
  pool_size: 20
discogs:
  enabled: true
  token: abc
  currency: EUR
  rate_limit:
    per_second: 0.5
    burst: 2
ebay:
  enabled: true
  app_id: my-app-id
  cert_id: my-cert-id
  marketplace: EBAY_GB
  condition_ids: ["3000", "1000"]
  result_limit: 25
pricing:
  floor: 4
  competitive_discount: 0.15
  trim_percent: 0.2
  shipping_allowance: 6
  quantum: 0.5
schedule:
  pending_interval: 1m
  refresh_interval: 12h
  refresh_after: 72h
  batch_size: 100
telemetry:
  enabled: true
  endpoint: otel-collector:4317
  insecure: true
logging:
  level: debug
  format: json
  file: /var/log/vinyl-pricer.log
  max_size_mb: 50
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "EUR", cfg.Discogs.Currency)
				assert.Equal(t, 2, cfg.Discogs.RateLimit.Burst)
				assert.Equal(t, "EBAY_GB", cfg.Ebay.Marketplace)
				assert.Equal(t, []string{"3000", "1000"}, cfg.Ebay.ConditionIDs)
				assert.Equal(t, 25, cfg.Ebay.ResultLimit)
				assert.Equal(t, pricing.Config{
					Floor:               4,
					CompetitiveDiscount: 0.15,
					TrimPercent:         0.2,
					ShippingAllowance:   6,
					Quantum:             0.5,
				}, cfg.Pricing.Engine())
				assert.Equal(t, time.Minute, cfg.Schedule.PendingInterval)
				assert.Equal(t, 72*time.Hour, cfg.Schedule.RefreshAfter)
				assert.Equal(t, 100, cfg.Schedule.BatchSize)
				assert.True(t, cfg.Telemetry.Insecure)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "/var/log/vinyl-pricer.log", cfg.Logging.FileOptions().Path)
				assert.Equal(t, 50, cfg.Logging.FileOptions().MaxSizeMB)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		Name:     "pricer",
		User:     "admin",
		Password: "s3cret",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.example.com port=5433 dbname=pricer user=admin password=s3cret sslmode=require",
		cfg.DSN(),
	)
}

func TestDatabaseConfig_DSN_PoolSize(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{Host: "localhost", Port: 5432, Name: "vpr", User: "vpr", SSLMode: "disable", PoolSize: 4}
	assert.Equal(t,
		"host=localhost port=5432 dbname=vpr user=vpr password= sslmode=disable pool_max_conns=4",
		cfg.DSN(),
	)
}
