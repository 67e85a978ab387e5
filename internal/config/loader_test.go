package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("unexpected path %q", resolved)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	def := Default()
	if cfg.Addr != def.Addr || cfg.PingInterval != def.PingInterval || cfg.SendBuffer != def.SendBuffer {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":9000\"\nlog_level: warn\nping_interval: 3s\nsend_buffer: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CLASSROOM_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", ":5055", "")
	flags.Int("send-buffer", 64, "")
	if err := flags.Parse([]string{"--addr", ":7000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, _, err := Load(nil, path, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":7000" {
		t.Fatalf("flag should win over file, got addr %q", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("env should win over file, got log level %q", cfg.LogLevel)
	}
	if cfg.PingInterval != 3*time.Second {
		t.Fatalf("file should win over defaults, got ping interval %v", cfg.PingInterval)
	}
	if cfg.SendBuffer != 8 {
		t.Fatalf("unset flag must not override file, got send buffer %d", cfg.SendBuffer)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "no addr", mutate: func(c *Config) { c.Addr = "" }},
		{name: "jwt required without secret", mutate: func(c *Config) { c.JWTRequired = true }},
		{name: "jwt required with secret", mutate: func(c *Config) { c.JWTRequired = true; c.JWTSecret = "s" }, ok: true},
		{name: "zero send buffer", mutate: func(c *Config) { c.SendBuffer = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.MessagesPerMinute = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := Default()
	warnings := cfg.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("defaults should warn about guest ids and wildcard origins, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "jwt_required") {
		t.Fatalf("expected guest mode warning first, got %q", warnings[0])
	}

	cfg.JWTRequired = true
	cfg.JWTSecret = "s"
	cfg.CORSOrigins = []string{"https://class.example"}
	if warnings := cfg.Warnings(); len(warnings) != 0 {
		t.Fatalf("hardened config should not warn, got %v", warnings)
	}
}
