package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Inventory InventoryConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// InventoryConfig holds product construction rules and movement paging.
type InventoryConfig struct {
	// AllowUnassignedID lets products be created without an id; the
	// database sequence supplies one on insert.
	AllowUnassignedID bool
	// RunMigrations applies the embedded schema migrations at startup.
	RunMigrations bool
	// MovementLimit is the page size used when a caller asks for none.
	MovementLimit int
	// MaxMovementLimit caps the page size a caller may ask for.
	MaxMovementLimit int
}

// Movement page sizes used when InventoryConfig leaves them unset.
const (
	DefaultMovementLimit    = 50
	DefaultMaxMovementLimit = 500
)

// Validate checks the movement paging bounds. Zero values select the defaults.
func (c *InventoryConfig) Validate() error {
	if c.MovementLimit < 0 {
		return fmt.Errorf("movement limit must not be negative: %d", c.MovementLimit)
	}
	if c.MaxMovementLimit < 0 {
		return fmt.Errorf("max movement limit must not be negative: %d", c.MaxMovementLimit)
	}
	if c.PageLimit() > c.PageMax() {
		return fmt.Errorf("movement limit %d exceeds max movement limit %d", c.PageLimit(), c.PageMax())
	}
	return nil
}

// PageLimit returns the default movement page size.
func (c *InventoryConfig) PageLimit() int {
	if c.MovementLimit == 0 {
		return DefaultMovementLimit
	}
	return c.MovementLimit
}

// PageMax returns the largest movement page size.
func (c *InventoryConfig) PageMax() int {
	if c.MaxMovementLimit == 0 {
		return DefaultMaxMovementLimit
	}
	return c.MaxMovementLimit
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "stockkeeper"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Inventory: InventoryConfig{
			AllowUnassignedID: getEnvAsBool("INVENTORY_ALLOW_UNASSIGNED_ID", false),
			RunMigrations:     getEnvAsBool("DB_RUN_MIGRATIONS", true),
			MovementLimit:     getEnvAsInt("INVENTORY_MOVEMENT_LIMIT", DefaultMovementLimit),
			MaxMovementLimit:  getEnvAsInt("INVENTORY_MOVEMENT_MAX_LIMIT", DefaultMaxMovementLimit),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
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

	if err := c.Inventory.Validate(); err != nil {
		return fmt.Errorf("invalid inventory config: %w", err)
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

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
