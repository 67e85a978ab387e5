package config

import (
	"slices"
	"time"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	// JWTRequired off admits guests whose user id comes from the ?user= query
	// parameter unverified, so anyone can claim a room host's id.
	JWTRequired bool   `mapstructure:"jwt_required" yaml:"jwt_required"`

	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	// SendBuffer is the per-connection outbound queue length.
	SendBuffer        int           `mapstructure:"send_buffer" yaml:"send_buffer"`
	PingInterval      time.Duration `mapstructure:"ping_interval" yaml:"ping_interval"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	MessagesPerMinute int           `mapstructure:"messages_per_minute" yaml:"messages_per_minute"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":5055",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		JWTIssuer:         "",
		JWTAudience:       "",
		JWTRequired:       false,
		CORSOrigins:       []string{"*"},
		SendBuffer:        64,
		PingInterval:      20 * time.Second,
		MaxMessageBytes:   1 << 20,
		MessagesPerMinute: 1200,
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errorf("addr is required")
	case c.JWTRequired && c.JWTSecret == "":
		return errorf("jwt_secret is required when jwt_required is set")
	case c.SendBuffer <= 0:
		return errorf("send_buffer must be positive")
	case c.MaxMessageBytes <= 0:
		return errorf("max_message_bytes must be positive")
	case c.MessagesPerMinute < 0:
		return errorf("messages_per_minute must not be negative")
	}
	return nil
}

// Warnings lists settings that are valid but unsafe outside local development.
func (c Config) Warnings() []string {
	var out []string
	if !c.JWTRequired {
		out = append(out, "jwt_required is off: guest user ids are taken from the client unverified, including the room host's")
	}
	if slices.Contains(c.CORSOrigins, "*") {
		out = append(out, "cors_origins allows any origin: credentialed cross-origin requests are disabled")
	}
	return out
}
