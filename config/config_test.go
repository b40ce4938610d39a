package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shopclock/models"

	"golang.org/x/crypto/bcrypt"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_DRIVER", "DATABASE_URL", "JWT_SECRET", "SERVER_PORT", "TIMEZONE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shopclock.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("DatabaseDriver = %q, want %q", cfg.DatabaseDriver, DriverSQLite)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.WeekStart() != time.Monday {
		t.Errorf("WeekStart = %v, want Monday", cfg.WeekStart())
	}
	if len(cfg.Users) != 1 {
		t.Fatalf("expected seeded admin, got %d users", len(cfg.Users))
	}
	admin := cfg.Users[0]
	if admin.Role != models.RoleAdmin {
		t.Errorf("seeded role = %q, want ADMIN", admin.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin")); err != nil {
		t.Errorf("seeded admin password does not verify: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database_driver = "bolt"
database_url = "/var/lib/shopclock/time.db"
jwt_expiration = "8h"
server_port = "9090"
timezone = "America/Chicago"
week_start_day = "Sunday"
log_level = "DEBUG"
audit_buffer = 32

[[users]]
id = "tech-7"
username = "maria"
full_name = "Maria Lopez"
password_hash = "x"
role = "TECHNICIAN"

[[users]]
id = "mgr-1"
username = "sam"
role = "MANAGER"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseDriver != DriverBolt || cfg.DatabaseURL != "/var/lib/shopclock/time.db" {
		t.Errorf("database = %q %q", cfg.DatabaseDriver, cfg.DatabaseURL)
	}
	if cfg.JWTExpiration != 8*time.Hour {
		t.Errorf("JWTExpiration = %v, want 8h", cfg.JWTExpiration)
	}
	if cfg.ServerPort != "9090" || cfg.AuditBufferSize != 32 {
		t.Errorf("ServerPort = %q AuditBufferSize = %d", cfg.ServerPort, cfg.AuditBufferSize)
	}
	if cfg.WeekStart() != time.Sunday {
		t.Errorf("WeekStart = %v, want Sunday", cfg.WeekStart())
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want normalized debug", cfg.LogLevel)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "America/Chicago" {
		t.Errorf("Location = %v, %v", loc, err)
	}
	if len(cfg.Users) != 2 {
		t.Fatalf("expected 2 users and no seeded admin, got %d", len(cfg.Users))
	}
	u, ok := cfg.FindUser("maria")
	if !ok || u.ID != "tech-7" || u.DisplayName() != "Maria Lopez" {
		t.Errorf("FindUser(maria) = %+v, %v", u, ok)
	}
	if _, ok := cfg.FindUser("nobody"); ok {
		t.Error("FindUser(nobody) should fail")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `server_port = "9090"`)
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("DATABASE_DRIVER", "memory")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "7000" {
		t.Errorf("ServerPort = %q, want env value 7000", cfg.ServerPort)
	}
	if cfg.DatabaseDriver != DriverMemory {
		t.Errorf("DatabaseDriver = %q, want memory", cfg.DatabaseDriver)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `server_port = `)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"memory needs no url", func(c *Config) { c.DatabaseDriver = DriverMemory; c.DatabaseURL = "" }, ""},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "database_driver"},
		{"missing url", func(c *Config) { c.DatabaseURL = "" }, "database_url"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad week start", func(c *Config) { c.WeekStartDay = "friday" }, "week_start_day"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"zero expiration", func(c *Config) { c.JWTExpiration = 0 }, "jwt_expiration"},
		{"user without id", func(c *Config) { c.Users = []models.User{{Username: "a", Role: models.RoleAdmin}} }, "id"},
		{"bad role", func(c *Config) { c.Users = []models.User{{ID: "1", Username: "a", Role: "OWNER"}} }, "role"},
		{"duplicate user", func(c *Config) {
			c.Users = []models.User{{ID: "1", Username: "a", Role: models.RoleAdmin}, {ID: "2", Username: "a", Role: models.RoleTechnician}}
		}, "duplicate"},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: error = %v, want mention of %q", tt.name, err, tt.wantErr)
		}
	}
}
