// Package config provides configuration loading and management for the catalog sync service.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// StageCities is the stage that mirrors the remote city list
	StageCities = "cities"

	// StageBrands is the stage that mirrors the remote brand list
	StageBrands = "brands"

	// StageModels is the stage that mirrors the models of every stored brand
	StageModels = "models"

	// StageVariants is the stage that mirrors variants, prices and features of every stored model
	StageVariants = "variants"
)

// Stages lists every stage in dependency order
var Stages = []string{StageCities, StageBrands, StageModels, StageVariants}

const (
	defaultHost          = "https://newcarsapi.carbay.com"
	defaultVersion       = "v1"
	defaultTimeout       = 30 * time.Second
	defaultBusinessUnit  = "car"
	defaultLangCode      = "en"
	defaultCountryCode   = "ph"
	defaultCurrency      = "PHP"
	defaultMaxRetries    = 3
	defaultBackoffFactor = 2 * time.Second
	defaultWorkers       = 4
	defaultServiceName   = "catalog-sync"
	defaultSampleRatio   = 0.1

	// EnvPrefix is the prefix of environment variables read by the service
	EnvPrefix = "CATALOG_SYNC"

	// PasswordEnvVar is the environment variable consulted when no password file is configured
	PasswordEnvVar = EnvPrefix + "_DATABASE_PASSWORD"
)

var defaultRetryStatusCodes = []int{500, 503}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	API       APIConfig        `yaml:"api"`
	Database  *DatabaseConfig  `yaml:"database,omitempty"`
	Sync      SyncConfig       `yaml:"sync"`
	Telemetry *TelemetryConfig `yaml:"telemetry,omitempty"`
}

// APIConfig describes how the remote catalog is reached
type APIConfig struct {
	// Host is the scheme and authority of the remote catalog, e.g. "https://newcarsapi.carbay.com"
	Host string `yaml:"host"`

	// Version is the path segment placed between host and endpoint
	Version string `yaml:"version"`

	// Timeout bounds every single HTTP attempt (e.g. "30s")
	Timeout string `yaml:"timeout"`

	// BusinessUnit, LangCode and CountryCode are sent with every request
	BusinessUnit string `yaml:"businessUnit"`
	LangCode     string `yaml:"langCode"`
	CountryCode  string `yaml:"countryCode"`

	// Currency is the ISO 4217 code applied to prices read from the remote
	Currency string `yaml:"currency"`

	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig controls retries of failed GET requests
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries *int `yaml:"maxRetries,omitempty"`

	// BackoffFactor is the base delay, doubled on every retry (e.g. "2s")
	BackoffFactor string `yaml:"backoffFactor,omitempty"`

	// StatusCodes lists HTTP statuses that are retried
	StatusCodes []int `yaml:"statusCodes,omitempty"`
}

// SyncConfig controls stage execution
type SyncConfig struct {
	// Workers is the number of variant units processed in parallel by this process
	Workers int `yaml:"workers,omitempty"`

	// Schedules maps a stage name to its interval; stages without an entry are manual only
	Schedules map[string]string `yaml:"schedules,omitempty"`
}

// TelemetryConfig defines OpenTelemetry settings
type TelemetryConfig struct {
	Enabled     bool           `yaml:"enabled"`
	ServiceName string         `yaml:"serviceName,omitempty"`
	Metrics     *MetricsConfig `yaml:"metrics,omitempty"`
	Tracing     *TracingConfig `yaml:"tracing,omitempty"`
}

// MetricsConfig toggles the Prometheus metrics endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Endpoint optionally pushes metrics to an OTLP/HTTP collector as well (host:port)
	Endpoint string `yaml:"endpoint,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

// TracingConfig defines the OTLP trace exporter
type TracingConfig struct {
	// Endpoint is the OTLP/HTTP collector address (host:port); empty disables tracing
	Endpoint    string   `yaml:"endpoint,omitempty"`
	Insecure    bool     `yaml:"insecure,omitempty"`
	SampleRatio *float64 `yaml:"sampleRatio,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the minimum number of connections kept in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from CATALOG_SYNC_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(PasswordEnvVar); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s environment variable", PasswordEnvVar,
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML content, applies defaults and validates the result
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every default applied and no database
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	api := &c.API
	if api.Host == "" {
		api.Host = defaultHost
	}
	if api.Version == "" {
		api.Version = defaultVersion
	}
	if api.Timeout == "" {
		api.Timeout = defaultTimeout.String()
	}
	if api.BusinessUnit == "" {
		api.BusinessUnit = defaultBusinessUnit
	}
	if api.LangCode == "" {
		api.LangCode = defaultLangCode
	}
	if api.CountryCode == "" {
		api.CountryCode = defaultCountryCode
	}
	if api.Currency == "" {
		api.Currency = defaultCurrency
	}
	if api.Retry.MaxRetries == nil {
		retries := defaultMaxRetries
		api.Retry.MaxRetries = &retries
	}
	if api.Retry.BackoffFactor == "" {
		api.Retry.BackoffFactor = defaultBackoffFactor.String()
	}
	if api.Retry.StatusCodes == nil {
		api.Retry.StatusCodes = slices.Clone(defaultRetryStatusCodes)
	}

	if c.Sync.Workers == 0 {
		c.Sync.Workers = defaultWorkers
	}

	if c.Telemetry != nil && c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = defaultServiceName
	}
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateAPIConfig(&c.API); err != nil {
		return err
	}

	if err := validateSyncConfig(&c.Sync); err != nil {
		return err
	}

	if c.Database != nil {
		if err := validateDatabaseConfig(c.Database); err != nil {
			return err
		}
	}

	if c.Telemetry != nil {
		if err := validateTelemetryConfig(c.Telemetry); err != nil {
			return err
		}
	}

	return nil
}

func validateAPIConfig(api *APIConfig) error {
	if api.Host == "" {
		return fmt.Errorf("api.host is required")
	}
	u, err := url.Parse(api.Host)
	if err != nil {
		return fmt.Errorf("api.host is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.host must use http or https, got %q", api.Host)
	}
	if api.Version == "" {
		return fmt.Errorf("api.version is required")
	}
	if _, err := parsePositiveDuration(api.Timeout); err != nil {
		return fmt.Errorf("api.timeout must be a positive duration (e.g., '30s'): %w", err)
	}
	if len(api.Currency) != 3 {
		return fmt.Errorf("api.currency must be a 3-letter ISO 4217 code, got %q", api.Currency)
	}
	if api.Retry.MaxRetries != nil && *api.Retry.MaxRetries < 0 {
		return fmt.Errorf("api.retry.maxRetries cannot be negative")
	}
	if _, err := parsePositiveDuration(api.Retry.BackoffFactor); err != nil {
		return fmt.Errorf("api.retry.backoffFactor must be a positive duration (e.g., '2s'): %w", err)
	}
	for _, code := range api.Retry.StatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("api.retry.statusCodes contains invalid HTTP status %d", code)
		}
	}
	return nil
}

func validateSyncConfig(sync *SyncConfig) error {
	if sync.Workers < 0 {
		return fmt.Errorf("sync.workers cannot be negative")
	}
	for stage, interval := range sync.Schedules {
		if !slices.Contains(Stages, stage) {
			return fmt.Errorf("sync.schedules: unknown stage %q (expected one of %s)", stage, strings.Join(Stages, ", "))
		}
		if _, err := parsePositiveDuration(interval); err != nil {
			return fmt.Errorf("sync.schedules.%s must be a positive duration (e.g., '30m', '1h'): %w", stage, err)
		}
	}
	return nil
}

func validateDatabaseConfig(db *DatabaseConfig) error {
	if db.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if db.Port <= 0 || db.Port > 65535 {
		return fmt.Errorf("database.port must be between 1 and 65535")
	}
	if db.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if db.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if db.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(db.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.connMaxLifetime must be a valid duration: %w", err)
		}
	}
	return nil
}

func validateTelemetryConfig(t *TelemetryConfig) error {
	if t.Tracing != nil && t.Tracing.SampleRatio != nil {
		ratio := *t.Tracing.SampleRatio
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("telemetry.tracing.sampleRatio must be between 0 and 1, got %v", ratio)
		}
	}
	return nil
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", s)
	}
	return d, nil
}

// TimeoutDuration returns the per-attempt HTTP timeout
func (a *APIConfig) TimeoutDuration() time.Duration {
	d, err := parsePositiveDuration(a.Timeout)
	if err != nil {
		return defaultTimeout
	}
	return d
}

// BaseURL returns "{host}/{version}" without a trailing slash
func (a *APIConfig) BaseURL() string {
	return strings.TrimRight(a.Host, "/") + "/" + strings.Trim(a.Version, "/")
}

// FixedParams returns the query parameters sent with every request
func (a *APIConfig) FixedParams() map[string]string {
	return map[string]string{
		"business_unit": a.BusinessUnit,
		"lang_code":     a.LangCode,
		"country_code":  a.CountryCode,
	}
}

// GetMaxRetries returns the configured retry count
func (r *RetryConfig) GetMaxRetries() int {
	if r.MaxRetries == nil {
		return defaultMaxRetries
	}
	return *r.MaxRetries
}

// BackoffDuration returns the base retry delay
func (r *RetryConfig) BackoffDuration() time.Duration {
	d, err := parsePositiveDuration(r.BackoffFactor)
	if err != nil {
		return defaultBackoffFactor
	}
	return d
}

// ScheduleFor returns the interval configured for a stage and whether one exists
func (s *SyncConfig) ScheduleFor(stage string) (time.Duration, bool) {
	interval, ok := s.Schedules[stage]
	if !ok || interval == "" {
		return 0, false
	}
	d, err := parsePositiveDuration(interval)
	if err != nil {
		return 0, false
	}
	return d, true
}

// MetricsEnabled reports whether the Prometheus exporter should be installed
func (c *Config) MetricsEnabled() bool {
	return c.Telemetry != nil && c.Telemetry.Enabled && c.Telemetry.Metrics != nil && c.Telemetry.Metrics.Enabled
}

// TracingEnabled reports whether spans should be exported
func (c *Config) TracingEnabled() bool {
	return c.Telemetry != nil && c.Telemetry.Enabled && c.Telemetry.Tracing != nil && c.Telemetry.Tracing.Endpoint != ""
}

// GetSampleRatio returns the trace sampling ratio
func (t *TracingConfig) GetSampleRatio() float64 {
	if t == nil || t.SampleRatio == nil {
		return defaultSampleRatio
	}
	return *t.SampleRatio
}
