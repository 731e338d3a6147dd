package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTempDotenv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv blanks every KHET_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values are applied when no file exists.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "missing.json"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.Server.MaxConns != 64 {
		t.Errorf("Server.MaxConns = %d, want 64", cfg.Server.MaxConns)
	}
	if cfg.Assistant.ReplyDelay != 1500*time.Millisecond {
		t.Errorf("Assistant.ReplyDelay = %v, want 1.5s", cfg.Assistant.ReplyDelay)
	}
	if cfg.Assistant.VoiceDelay != 3*time.Second {
		t.Errorf("Assistant.VoiceDelay = %v, want 3s", cfg.Assistant.VoiceDelay)
	}
	if cfg.Views.IdleTTL != 30*time.Minute {
		t.Errorf("Views.IdleTTL = %v, want 30m", cfg.Views.IdleTTL)
	}
	if cfg.MCP.Enabled {
		t.Error("MCP.Enabled = true, want false")
	}
	if cfg.Addr() != "127.0.0.1:4100" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

// TestFileParsing verifies that all fields are correctly read from the JSON file.
func TestFileParsing(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{
  "server.host": "0.0.0.0",
  "server.port": 5000,
  "server.max_conns": 8,
  "log.level": "debug",
  "farm.timezone": "Asia/Kolkata",
  "assistant.reply_delay": "250ms",
  "assistant.voice_delay": "1s",
  "views.idle_ttl": "5m",
  "views.sweep_interval": "10s",
  "mcp.enabled": true
}`)

	cfg, err := loadFromPath(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.MaxConns != 8 {
		t.Errorf("Server.MaxConns = %d, want 8", cfg.Server.MaxConns)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
	if cfg.Farm.Timezone != "Asia/Kolkata" {
		t.Errorf("Farm.Timezone = %q", cfg.Farm.Timezone)
	}
	if cfg.Assistant.ReplyDelay != 250*time.Millisecond {
		t.Errorf("Assistant.ReplyDelay = %v", cfg.Assistant.ReplyDelay)
	}
	if cfg.Assistant.VoiceDelay != time.Second {
		t.Errorf("Assistant.VoiceDelay = %v", cfg.Assistant.VoiceDelay)
	}
	if cfg.Views.IdleTTL != 5*time.Minute {
		t.Errorf("Views.IdleTTL = %v", cfg.Views.IdleTTL)
	}
	if cfg.Views.SweepInterval != 10*time.Second {
		t.Errorf("Views.SweepInterval = %v", cfg.Views.SweepInterval)
	}
	if !cfg.MCP.Enabled {
		t.Error("MCP.Enabled = false, want true")
	}
}

// TestSecretIgnoredInFile verifies the bearer token is only read from the environment.
func TestSecretIgnoredInFile(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"server.token": "file-token"}`)

	cfg, err := loadFromPath(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Token != "" {
		t.Errorf("Server.Token = %q, want empty", cfg.Server.Token)
	}

	t.Setenv("KHET_SERVER_TOKEN", "env-token")
	cfg, err = loadFromPath(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Token != "env-token" {
		t.Errorf("Server.Token = %q, want env-token", cfg.Server.Token)
	}
}

// TestPrecedence verifies env > .env > file > defaults.
func TestPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"server.port": 5000, "server.host": "10.0.0.1", "log.level": "warn"}`)
	envFile := writeTempDotenv(t, "KHET_SERVER_PORT=6000\nKHET_LOG_LEVEL=error\n")
	t.Setenv("KHET_SERVER_PORT", "7000")

	cfg, err := loadFromPath(path, envFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from env", cfg.Server.Port)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error from .env", cfg.Log.Level)
	}
	if cfg.Server.Host != "10.0.0.1" {
		t.Errorf("Server.Host = %q, want file value", cfg.Server.Host)
	}
	if cfg.Server.MaxConns != 64 {
		t.Errorf("Server.MaxConns = %d, want default", cfg.Server.MaxConns)
	}
	if got := os.Getenv("KHET_LOG_LEVEL"); got != "" {
		t.Errorf("process env KHET_LOG_LEVEL = %q, .env must not leak into it", got)
	}
}

// TestInvalidEnvKeepsValue verifies unparseable env values are ignored.
func TestInvalidEnvKeepsValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("KHET_ASSISTANT_REPLY_DELAY", "soon")
	t.Setenv("KHET_MCP_ENABLED", "maybe")

	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "none.json"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Assistant.ReplyDelay != 1500*time.Millisecond {
		t.Errorf("Assistant.ReplyDelay = %v, want default", cfg.Assistant.ReplyDelay)
	}
	if cfg.MCP.Enabled {
		t.Error("MCP.Enabled = true, want default false")
	}
}

// TestInvalidTimezone verifies a clear error for an unknown zone.
func TestInvalidTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("KHET_FARM_TIMEZONE", "Mars/Olympus")

	_, err := loadFromPath(filepath.Join(t.TempDir(), "none.json"), "")
	if err == nil {
		t.Fatal("expected error for unknown timezone, got nil")
	}
	if !strings.Contains(err.Error(), "farm.timezone") {
		t.Errorf("error = %q, want it to mention farm.timezone", err)
	}
}

func TestInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("KHET_SERVER_PORT", "70000")

	if _, err := loadFromPath(filepath.Join(t.TempDir(), "none.json"), ""); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestSetKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "khet", "config.json")
	b := newFileBackend(path)

	if err := setKey(b, "server.port", "4200"); err != nil {
		t.Fatalf("setKey server.port: %v", err)
	}
	if err := setKey(b, "views.idle_ttl", "90s"); err != nil {
		t.Fatalf("setKey views.idle_ttl: %v", err)
	}
	if err := setKey(b, "mcp.enabled", "true"); err != nil {
		t.Fatalf("setKey mcp.enabled: %v", err)
	}

	clearEnv(t)
	cfg, err := loadFromPath(path, "")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Server.Port != 4200 {
		t.Errorf("Server.Port = %d, want 4200", cfg.Server.Port)
	}
	if cfg.Views.IdleTTL != 90*time.Second {
		t.Errorf("Views.IdleTTL = %v, want 1m30s", cfg.Views.IdleTTL)
	}
	if !cfg.MCP.Enabled {
		t.Error("MCP.Enabled = false after set")
	}
}

func TestSetKey_Rejects(t *testing.T) {
	b := newFileBackend(filepath.Join(t.TempDir(), "config.json"))

	tests := []struct {
		key, value, want string
	}{
		{"server.token", "x", "cannot set secret"},
		{"server.port", "abc", "invalid integer"},
		{"views.idle_ttl", "forever", "invalid duration"},
		{"mcp.enabled", "perhaps", "invalid bool"},
		{"nope", "1", "unknown config key"},
	}
	for _, tt := range tests {
		err := setKey(b, tt.key, tt.value)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("setKey(%q, %q) error = %v, want it to contain %q", tt.key, tt.value, err, tt.want)
		}
	}
}

func TestShowAll_HidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Server.Token = "secret"
	for _, k := range ShowAll(cfg) {
		if k.Key == "server.token" {
			t.Fatal("ShowAll listed server.token")
		}
	}
	for _, k := range ValidKeys() {
		if k == "server.token" {
			t.Fatal("ValidKeys listed server.token")
		}
	}
}
