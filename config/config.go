package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"shopclock/models"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
)

type Config struct {
	DatabaseDriver  string        `toml:"database_driver"`
	DatabaseURL     string        `toml:"database_url"`
	JWTSecret       string        `toml:"jwt_secret"`
	JWTExpiration   time.Duration `toml:"jwt_expiration"`
	ServerPort      string        `toml:"server_port"`
	Timezone        string        `toml:"timezone"`
	WeekStartDay    string        `toml:"week_start_day"`
	LogLevel        string        `toml:"log_level"`
	AuditBufferSize int           `toml:"audit_buffer"`
	Users           []models.User `toml:"users"`
}

func Default() *Config {
	return &Config{
		DatabaseDriver:  DriverSQLite,
		DatabaseURL:     "shopclock.db",
		JWTSecret:       "your-super-secret-key-change-in-production",
		JWTExpiration:   12 * time.Hour,
		ServerPort:      "8080",
		Timezone:        "Local",
		WeekStartDay:    "monday",
		LogLevel:        "info",
		AuditBufferSize: 256,
	}
}

// Load builds the configuration from defaults, the optional TOML file at path and then
// environment variables, in that order. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg.DatabaseDriver = getEnv("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.Timezone = getEnv("TIMEZONE", cfg.Timezone)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(cfg.Users) == 0 {
		admin, err := defaultAdmin()
		if err != nil {
			return nil, err
		}
		cfg.Users = append(cfg.Users, admin)
		slog.Warn("no users configured, default admin created (username: admin, password: admin)")
	}

	return cfg, nil
}

// Normalize lower-cases the enumerated settings.
func (c *Config) Normalize() {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.WeekStartDay = strings.ToLower(strings.TrimSpace(c.WeekStartDay))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverMemory, DriverPostgres, DriverSQLite, DriverBolt:
	default:
		return fmt.Errorf("invalid database_driver %q: must be one of memory, postgres, sqlite, bolt", c.DatabaseDriver)
	}
	if c.DatabaseDriver != DriverMemory && c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required for driver %q", c.DatabaseDriver)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.WeekStartDay != "monday" && c.WeekStartDay != "sunday" {
		return fmt.Errorf("invalid week_start_day %q: must be 'monday' or 'sunday'", c.WeekStartDay)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.JWTExpiration <= 0 {
		return errors.New("jwt_expiration must be positive")
	}
	seen := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if u.ID == "" || u.Username == "" {
			return errors.New("every user needs an id and a username")
		}
		if seen[u.Username] {
			return fmt.Errorf("duplicate username %q", u.Username)
		}
		seen[u.Username] = true
		if !u.Role.Valid() {
			return fmt.Errorf("user %q has invalid role %q", u.Username, u.Role)
		}
	}
	return nil
}

// Location resolves Timezone; "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) WeekStart() time.Weekday {
	if c.WeekStartDay == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// FindUser returns the configured user with the given username.
func (c *Config) FindUser(username string) (*models.User, bool) {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i], true
		}
	}
	return nil, false
}

func defaultAdmin() (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:           "admin",
		Username:     "admin",
		FullName:     "Administrator",
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
