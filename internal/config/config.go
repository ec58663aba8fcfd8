// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Scripture ScriptureConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk locations.
type DataConfig struct {
	BasePath  string // Root for all local data (default: ~/Pregacao)
	CachePath string // Parent of the bible-cache directory (default: {base})
	DBPath    string // Outline database (default: {base}/db)
	IndexPath string // Verse search index (default: {base}/search)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed browser origins (default: *)
}

// ScriptureConfig holds passage fetching configuration.
type ScriptureConfig struct {
	DefaultTranslation string
	// Sources is the provider order tried for every candidate translation.
	Sources []string
	// AttemptTimeout bounds a single provider request inside the fallback search.
	AttemptTimeout time.Duration
	HTTPTimeout    time.Duration
	// RelayEnabled retries a failed request once through RelayURL.
	RelayEnabled bool
	RelayURL     string
	// TranslationsFile overrides the embedded translation tables (YAML).
	TranslationsFile string
	RPS              float64
	Burst            int
	// IndexPassages feeds newly cached chapters to the search index.
	IndexPassages bool
}

// KnownSources lists the provider identifiers accepted in ScriptureConfig.Sources.
var KnownSources = []string{"denobible", "bibleapi"}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("pregacao", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for local data")
	cachePath := fs.String("cache-path", "", "Directory holding the bible-cache folder")
	dbPath := fs.String("db-path", "", "Outline database directory")
	indexPath := fs.String("index-path", "", "Search index directory")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed origins (default: *)")

	// Scripture flags
	defaultTranslation := fs.String("translation", "", "Default translation code (default: almeida)")
	sources := fs.String("sources", "", "Provider order (default: denobible,bibleapi)")
	attemptTimeout := fs.String("attempt-timeout", "", "Timeout per provider attempt (default: 10s)")
	httpTimeout := fs.String("http-timeout", "", "HTTP client timeout (default: 15s)")
	relayEnabled := fs.String("relay", "", "Retry failed requests through the relay (default: false)")
	relayURL := fs.String("relay-url", "", "Relay base URL")
	translationsFile := fs.String("translations-file", "", "YAML file overriding translation tables")
	rps := fs.String("provider-rps", "", "Requests per second per provider (default: 2)")
	indexPassages := fs.String("index-passages", "", "Index chapters as they are cached (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Missing .env is fine; existing environment variables win.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath:  getConfigValue(*dataPath, "DATA_PATH", ""),
			CachePath: getConfigValue(*cachePath, "CACHE_PATH", ""),
			DBPath:    getConfigValue(*dbPath, "DB_PATH", ""),
			IndexPath: getConfigValue(*indexPath, "INDEX_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Scripture: ScriptureConfig{
			DefaultTranslation: strings.ToLower(getConfigValue(*defaultTranslation, "DEFAULT_TRANSLATION", "almeida")),
			Sources:            splitList(getConfigValue(*sources, "SCRIPTURE_SOURCES", "denobible,bibleapi")),
			RelayEnabled:       getBoolConfigValue(*relayEnabled, "RELAY_ENABLED", false),
			RelayURL:           getConfigValue(*relayURL, "RELAY_URL", ""),
			TranslationsFile:   getConfigValue(*translationsFile, "TRANSLATIONS_FILE", ""),
			RPS:                getFloatConfigValue(*rps, "PROVIDER_RPS", 2),
			Burst:              getIntConfigValue("", "PROVIDER_BURST", 4),
			IndexPassages:      getBoolConfigValue(*indexPassages, "INDEX_PASSAGES", true),
		},
	}

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Scripture.AttemptTimeout, *attemptTimeout, "ATTEMPT_TIMEOUT", "10s"},
		{&cfg.Scripture.HTTPTimeout, *httpTimeout, "HTTP_TIMEOUT", "15s"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDataPaths(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if cfg.Scripture.TranslationsFile != "" {
		expanded, err := expandPath(cfg.Scripture.TranslationsFile, "")
		if err != nil {
			return nil, fmt.Errorf("invalid translations file: %w", err)
		}
		cfg.Scripture.TranslationsFile = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Scripture.DefaultTranslation == "" {
		return errors.New("default translation cannot be empty")
	}

	if len(c.Scripture.Sources) == 0 {
		return errors.New("at least one scripture source is required")
	}
	for _, s := range c.Scripture.Sources {
		if !isKnownSource(s) {
			return fmt.Errorf("unknown scripture source: %s (must be one of %s)", s, strings.Join(KnownSources, ", "))
		}
	}

	if c.Scripture.AttemptTimeout <= 0 {
		return errors.New("attempt timeout must be positive")
	}

	if c.Scripture.RelayURL != "" {
		u, err := url.Parse(c.Scripture.RelayURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid relay url: %s", c.Scripture.RelayURL)
		}
	}

	return nil
}

func isKnownSource(s string) bool {
	for _, known := range KnownSources {
		if s == known {
			return true
		}
	}
	return false
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPaths resolves the base path and derives the per-store defaults from it.
func (c *Config) expandDataPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	base, err := expandPath(c.Data.BasePath, filepath.Join(homeDir, "Pregacao"))
	if err != nil {
		return err
	}
	c.Data.BasePath = base

	for _, p := range []struct {
		dst      *string
		fallback string
	}{
		{&c.Data.CachePath, base},
		{&c.Data.DBPath, filepath.Join(base, "db")},
		{&c.Data.IndexPath, filepath.Join(base, "search")},
	} {
		expanded, err := expandPath(*p.dst, p.fallback)
		if err != nil {
			return err
		}
		*p.dst = expanded
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// splitList splits a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
