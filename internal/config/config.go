package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Farm      FarmConfig
	Assistant AssistantConfig
	Views     ViewsConfig
	MCP       MCPConfig
}

type ServerConfig struct {
	Host     string
	Port     int
	MaxConns int
	Token    string
}

type LogConfig struct {
	Level string
}

type FarmConfig struct {
	Timezone string
}

type AssistantConfig struct {
	ReplyDelay time.Duration
	VoiceDelay time.Duration
}

type ViewsConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type MCPConfig struct {
	Enabled bool
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     4100,
			MaxConns: 64,
		},
		Log: LogConfig{
			Level: "info",
		},
		Farm: FarmConfig{
			Timezone: "Local",
		},
		Assistant: AssistantConfig{
			ReplyDelay: 1500 * time.Millisecond,
			VoiceDelay: 3000 * time.Millisecond,
		},
		Views: ViewsConfig{
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/khet/config.json, then applies a .env file in the
// working directory and KHET_* environment variables. Real environment
// variables win over .env entries.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()), ".env")
}

func loadFromPath(path, envFile string) (Config, error) {
	return loadWith(newFileBackend(path), envFile)
}

func loadWith(b ConfigBackend, envFile string) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	dotenv, err := readDotenv(envFile)
	if err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg, envLookup(dotenv))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid farm.timezone %q: %w", c.Farm.Timezone, err)
	}
	return nil
}

// Addr is the host:port the server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Location resolves farm.timezone. Calendar days are evaluated here.
func (c Config) Location() (*time.Location, error) {
	if c.Farm.Timezone == "" || c.Farm.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Farm.Timezone)
}

// SlogLevel maps log.level onto a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
