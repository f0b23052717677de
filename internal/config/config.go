package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logger   LoggerConfig   `yaml:"logger"`
	Auth     AuthConfig     `yaml:"auth"`
	Client   ClientConfig   `yaml:"client"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxConnections  int    `yaml:"maxConnections"`
	MinConnections  int    `yaml:"minConnections"`
	MaxConnLifetime int    `yaml:"maxConnLifetime"` // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string `yaml:"apiKey"`
}

// ClientConfig holds configuration for the storefront cart client (shopctl).
type ClientConfig struct {
	BaseURL       string `yaml:"baseUrl"`
	APIKey        string `yaml:"apiKey"`
	UserID        string `yaml:"userId"`
	TimeoutSec    int    `yaml:"timeoutSec"`
	ReloadDelayMS int    `yaml:"reloadDelayMs"`
}

// Load loads configuration from the optional SHOPFRONT_CONFIG YAML file, then
// overlays environment variables. A .env file in the working directory is
// read first if present.
func Load() (*Config, error) {
	// Missing .env is not an error; environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("SHOPFRONT_CONFIG"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.Server = ServerConfig{
		Host: getEnv("SERVER_HOST", defaultStr(cfg.Server.Host, "0.0.0.0")),
		Port: getEnvAsInt("SERVER_PORT", defaultInt(cfg.Server.Port, 8080)),
	}
	cfg.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", defaultStr(cfg.Database.Host, "localhost")),
		Port:            getEnvAsInt("DB_PORT", defaultInt(cfg.Database.Port, 5432)),
		User:            getEnv("DB_USER", defaultStr(cfg.Database.User, "postgres")),
		Password:        getEnv("DB_PASSWORD", cfg.Database.Password),
		Database:        getEnv("DB_NAME", defaultStr(cfg.Database.Database, "shopfront")),
		MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", defaultInt(cfg.Database.MaxConnections, 25)),
		MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", defaultInt(cfg.Database.MinConnections, 5)),
		MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", defaultInt(cfg.Database.MaxConnLifetime, 300)),
	}
	cfg.Logger = LoggerConfig{
		Level:  getEnv("LOG_LEVEL", defaultStr(cfg.Logger.Level, "info")),
		Format: getEnv("LOG_FORMAT", defaultStr(cfg.Logger.Format, "json")),
	}
	cfg.Auth = AuthConfig{
		APIKey: getEnv("API_KEY", cfg.Auth.APIKey),
	}
	cfg.Client = ClientConfig{
		BaseURL:       getEnv("CART_BASE_URL", defaultStr(cfg.Client.BaseURL, "http://localhost:8080")),
		APIKey:        getEnv("CART_API_KEY", defaultStr(cfg.Client.APIKey, cfg.Auth.APIKey)),
		UserID:        getEnv("CART_USER_ID", cfg.Client.UserID),
		TimeoutSec:    getEnvAsInt("CART_TIMEOUT_SEC", defaultInt(cfg.Client.TimeoutSec, 15)),
		ReloadDelayMS: getEnvAsInt("CART_RELOAD_DELAY_MS", defaultInt(cfg.Client.ReloadDelayMS, 1500)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFile reads a YAML config file into cfg.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Client.BaseURL == "" {
		return fmt.Errorf("client base URL is required")
	}

	if c.Client.TimeoutSec < 1 {
		return fmt.Errorf("client timeout must be at least 1 second")
	}

	if c.Client.ReloadDelayMS < 0 {
		return fmt.Errorf("client reload delay cannot be negative")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// defaultStr returns v unless it is empty, in which case it returns fallback.
func defaultStr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// defaultInt returns v unless it is zero, in which case it returns fallback.
func defaultInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
