// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/giygas/medicaments-safety/engine"
)

// Environment is the deployment stage the service runs in.
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

func (e Environment) String() string { return string(e) }

// ParseEnvironment accepts the short names and their long forms.
func ParseEnvironment(raw string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", raw)
}

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	// Reference data
	DataSource string // sqlite, tsv or sample
	DataDir    string
	DataLatin1 bool     // TSV files are ISO-8859-1 encoded
	ReloadAt   []string // daily reload times, HH:MM

	// Analysis
	MaxAlternatives       int
	MaxSideEffects        int
	MinStock              int
	DefaultEffectiveness  float64
	AnalysisWorkers       int
	RequestTimeout        time.Duration
	AlternativesCacheSize int
	MaxMedicines          int
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	rawEnv := getEnvWithDefault("ENV", "dev")
	env, err := ParseEnvironment(rawEnv)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               env,
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default

		DataSource: strings.ToLower(getEnvWithDefault("DATA_SOURCE", "sqlite")),
		DataDir:    getEnvWithDefault("DATA_DIR", "data/reference"),
		DataLatin1: getBoolEnvWithDefault("DATA_LATIN1", false),
		ReloadAt:   splitList(getEnvWithDefault("RELOAD_AT", "06:00,18:00")),

		MaxAlternatives:       getIntEnvWithDefault("MAX_ALTERNATIVES", 3),
		MaxSideEffects:        getIntEnvWithDefault("MAX_SIDE_EFFECTS", 4),
		MinStock:              getIntEnvWithDefault("MIN_STOCK", 10),
		DefaultEffectiveness:  getFloatEnvWithDefault("DEFAULT_EFFECTIVENESS", 75),
		AnalysisWorkers:       getIntEnvWithDefault("ANALYSIS_WORKERS", 4),
		RequestTimeout:        time.Duration(getIntEnvWithDefault("REQUEST_TIMEOUT_MS", 5000)) * time.Millisecond,
		AlternativesCacheSize: getIntEnvWithDefault("ALTERNATIVES_CACHE_SIZE", 1024),
		MaxMedicines:          getIntEnvWithDefault("MAX_MEDICINES", 50),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// EngineOptions maps the analysis settings onto the engine.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		MaxAlternatives:             c.MaxAlternatives,
		MaxSideEffects:              c.MaxSideEffects,
		MinStock:                    c.MinStock,
		DefaultEffectivenessPercent: c.DefaultEffectiveness,
		Workers:                     c.AnalysisWorkers,
		RequestTimeout:              c.RequestTimeout,
		CacheSize:                   c.AlternativesCacheSize,
		MaxMedicines:                c.MaxMedicines,
	}
}

func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateDataSource(cfg.DataSource, cfg.DataDir); err != nil {
		return fmt.Errorf("invalid DATA_SOURCE: %w", err)
	}

	if err := validateReloadTimes(cfg.ReloadAt); err != nil {
		return fmt.Errorf("invalid RELOAD_AT: %w", err)
	}

	if err := validateAnalysis(cfg); err != nil {
		return err
	}

	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	// Only loopback and private ranges; the API is meant to sit behind a proxy.
	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize accepts 1MB to 1GB.
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

func validateDataSource(source, dir string) error {
	switch source {
	case "sample":
		return nil
	case "sqlite", "tsv":
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("DATA_DIR cannot be empty for %s", source)
		}
		return nil
	}
	return fmt.Errorf("DATA_SOURCE must be one of: [sqlite tsv sample], got: %s", source)
}

func validateReloadTimes(times []string) error {
	if len(times) == 0 {
		return fmt.Errorf("at least one reload time is required")
	}
	for _, t := range times {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("reload time must be HH:MM, got: %s", t)
		}
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	checks := []struct {
		name     string
		value    int
		min, max int
	}{
		{"MAX_ALTERNATIVES", cfg.MaxAlternatives, 1, 20},
		{"MAX_SIDE_EFFECTS", cfg.MaxSideEffects, 1, 50},
		{"MIN_STOCK", cfg.MinStock, 1, 100000},
		{"ANALYSIS_WORKERS", cfg.AnalysisWorkers, 1, 256},
		{"REQUEST_TIMEOUT_MS", int(cfg.RequestTimeout / time.Millisecond), 10, 120000},
		{"ALTERNATIVES_CACHE_SIZE", cfg.AlternativesCacheSize, 0, 1000000},
		{"MAX_MEDICINES", cfg.MaxMedicines, 1, 500},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return fmt.Errorf("invalid %s: must be between %d and %d, got: %d", c.name, c.min, c.max, c.value)
		}
	}

	if cfg.DefaultEffectiveness <= 0 || cfg.DefaultEffectiveness > 100 {
		return fmt.Errorf("invalid DEFAULT_EFFECTIVENESS: must be in (0, 100], got: %g", cfg.DefaultEffectiveness)
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"DATA_SOURCE",
		"DATA_DIR",
		"DATA_LATIN1",
		"RELOAD_AT",
		"MAX_ALTERNATIVES",
		"MAX_SIDE_EFFECTS",
		"MIN_STOCK",
		"DEFAULT_EFFECTIVENESS",
		"ANALYSIS_WORKERS",
		"REQUEST_TIMEOUT_MS",
		"ALTERNATIVES_CACHE_SIZE",
		"MAX_MEDICINES",
	}
}
