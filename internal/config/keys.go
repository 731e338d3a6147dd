package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kBool
	kDuration
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.host", typ: kString, env: "KHET_SERVER_HOST",
		apply:   func(cfg *Config, v any) { cfg.Server.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Host },
	},
	{
		key: "server.port", typ: kInt, env: "KHET_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.max_conns", typ: kInt, env: "KHET_SERVER_MAX_CONNS",
		apply:   func(cfg *Config, v any) { cfg.Server.MaxConns = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.MaxConns },
	},
	{
		key: "server.token", typ: kString, env: "KHET_SERVER_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Server.Token = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Token },
	},
	{
		key: "log.level", typ: kString, env: "KHET_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "farm.timezone", typ: kString, env: "KHET_FARM_TIMEZONE",
		apply:   func(cfg *Config, v any) { cfg.Farm.Timezone = v.(string) },
		extract: func(cfg Config) any { return cfg.Farm.Timezone },
	},
	{
		key: "assistant.reply_delay", typ: kDuration, env: "KHET_ASSISTANT_REPLY_DELAY",
		apply:   func(cfg *Config, v any) { cfg.Assistant.ReplyDelay = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Assistant.ReplyDelay },
	},
	{
		key: "assistant.voice_delay", typ: kDuration, env: "KHET_ASSISTANT_VOICE_DELAY",
		apply:   func(cfg *Config, v any) { cfg.Assistant.VoiceDelay = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Assistant.VoiceDelay },
	},
	{
		key: "views.idle_ttl", typ: kDuration, env: "KHET_VIEWS_IDLE_TTL",
		apply:   func(cfg *Config, v any) { cfg.Views.IdleTTL = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Views.IdleTTL },
	},
	{
		key: "views.sweep_interval", typ: kDuration, env: "KHET_VIEWS_SWEEP_INTERVAL",
		apply:   func(cfg *Config, v any) { cfg.Views.SweepInterval = v.(time.Duration) },
		extract: func(cfg Config) any { return cfg.Views.SweepInterval },
	},
	{
		key: "mcp.enabled", typ: kBool, env: "KHET_MCP_ENABLED",
		apply:   func(cfg *Config, v any) { cfg.MCP.Enabled = v.(bool) },
		extract: func(cfg Config) any { return cfg.MCP.Enabled },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kBool:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if bv, err := strconv.ParseBool(v); err == nil {
					s.apply(cfg, bv)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		case kDuration:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if d, err := time.ParseDuration(v); err == nil {
					s.apply(cfg, d)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kBool:
			if b, err := strconv.ParseBool(raw); err == nil {
				s.apply(cfg, b)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse bool from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kDuration:
			if d, err := time.ParseDuration(raw); err == nil {
				s.apply(cfg, d)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
