package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	CORS     CORSConfig
	Extract  ExtractConfig
	Merge    MergeConfig
	Recovery RecoveryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractProviderConfig holds settings for a single extraction provider.
type ExtractProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	MaxRetries  int    `mapstructure:"max_retries"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractConfig holds extraction source settings. The pattern source always
// runs first; providers configured here sit behind it in the fallback chain.
type ExtractConfig struct {
	Primary   ExtractProviderConfig `mapstructure:"primary"`
	Secondary ExtractProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractConfig) SecondaryConfig() *ExtractProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// MergeConfig holds legacy/enhanced reconciliation settings.
type MergeConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// RecoveryConfig holds data-recovery policy settings.
type RecoveryConfig struct {
	ClassPrecedence string `mapstructure:"class_precedence"`
}

// Load reads configuration from environment variables with the PRETENZ_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRETENZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "pretenz")
	v.SetDefault("db.password", "pretenz_secret")
	v.SetDefault("db.name", "pretenz_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extraction provider defaults: a local Ollama instance as primary,
	// nothing as secondary.
	v.SetDefault("extract.primary.provider", "ollama")
	v.SetDefault("extract.primary.base_url", "http://localhost:11434")
	v.SetDefault("extract.primary.api_key", "")
	v.SetDefault("extract.primary.model", "qwen2.5:7b-instruct")
	v.SetDefault("extract.primary.max_retries", 2)
	v.SetDefault("extract.primary.timeout_secs", 120)
	v.SetDefault("extract.secondary.provider", "")
	v.SetDefault("extract.secondary.base_url", "")
	v.SetDefault("extract.secondary.api_key", "")
	v.SetDefault("extract.secondary.model", "")
	v.SetDefault("extract.secondary.max_retries", 2)
	v.SetDefault("extract.secondary.timeout_secs", 120)

	// Merge and recovery defaults
	v.SetDefault("merge.threshold", 0.6)
	v.SetDefault("recovery.class_precedence", "inn")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "PRETENZ_SERVER_PORT",
		"server.read_timeout":           "PRETENZ_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "PRETENZ_SERVER_WRITE_TIMEOUT",
		"server.environment":            "PRETENZ_SERVER_ENVIRONMENT",
		"db.host":                       "PRETENZ_DB_HOST",
		"db.port":                       "PRETENZ_DB_PORT",
		"db.user":                       "PRETENZ_DB_USER",
		"db.password":                   "PRETENZ_DB_PASSWORD",
		"db.name":                       "PRETENZ_DB_NAME",
		"db.sslmode":                    "PRETENZ_DB_SSLMODE",
		"db.max_open":                   "PRETENZ_DB_MAX_OPEN",
		"db.max_idle":                   "PRETENZ_DB_MAX_IDLE",
		"log.level":                     "PRETENZ_LOG_LEVEL",
		"log.format":                    "PRETENZ_LOG_FORMAT",
		"cors.allowed_origins":          "PRETENZ_CORS_ALLOWED_ORIGINS",
		"extract.primary.provider":      "PRETENZ_EXTRACT_PRIMARY_PROVIDER",
		"extract.primary.base_url":      "PRETENZ_EXTRACT_PRIMARY_BASE_URL",
		"extract.primary.api_key":       "PRETENZ_EXTRACT_PRIMARY_API_KEY",
		"extract.primary.model":         "PRETENZ_EXTRACT_PRIMARY_MODEL",
		"extract.primary.max_retries":   "PRETENZ_EXTRACT_PRIMARY_MAX_RETRIES",
		"extract.primary.timeout_secs":  "PRETENZ_EXTRACT_PRIMARY_TIMEOUT_SECS",
		"extract.secondary.provider":    "PRETENZ_EXTRACT_SECONDARY_PROVIDER",
		"extract.secondary.base_url":    "PRETENZ_EXTRACT_SECONDARY_BASE_URL",
		"extract.secondary.api_key":     "PRETENZ_EXTRACT_SECONDARY_API_KEY",
		"extract.secondary.model":       "PRETENZ_EXTRACT_SECONDARY_MODEL",
		"extract.secondary.max_retries": "PRETENZ_EXTRACT_SECONDARY_MAX_RETRIES",
		"extract.secondary.timeout_secs": "PRETENZ_EXTRACT_SECONDARY_TIMEOUT_SECS",
		"merge.threshold":                "PRETENZ_MERGE_THRESHOLD",
		"recovery.class_precedence":      "PRETENZ_RECOVERY_CLASS_PRECEDENCE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PRETENZ_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PRETENZ_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Extract = ExtractConfig{
		Primary: ExtractProviderConfig{
			Provider:    v.GetString("extract.primary.provider"),
			BaseURL:     strings.TrimRight(v.GetString("extract.primary.base_url"), "/"),
			APIKey:      v.GetString("extract.primary.api_key"),
			Model:       v.GetString("extract.primary.model"),
			MaxRetries:  v.GetInt("extract.primary.max_retries"),
			TimeoutSecs: v.GetInt("extract.primary.timeout_secs"),
		},
		Secondary: ExtractProviderConfig{
			Provider:    v.GetString("extract.secondary.provider"),
			BaseURL:     strings.TrimRight(v.GetString("extract.secondary.base_url"), "/"),
			APIKey:      v.GetString("extract.secondary.api_key"),
			Model:       v.GetString("extract.secondary.model"),
			MaxRetries:  v.GetInt("extract.secondary.max_retries"),
			TimeoutSecs: v.GetInt("extract.secondary.timeout_secs"),
		},
	}

	cfg.Merge = MergeConfig{
		Threshold: v.GetFloat64("merge.threshold"),
	}
	cfg.Recovery = RecoveryConfig{
		ClassPrecedence: v.GetString("recovery.class_precedence"),
	}

	return cfg, nil
}
