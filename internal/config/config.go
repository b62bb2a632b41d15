// Package config provides configuration loading and management for the
// tripscout client.
package config

import (
	"strings"
	"time"
)

const (
	defaultBaseURL        = "http://localhost:8000"
	defaultAPIPrefix      = "/api"
	defaultRequestTimeout = 60
	defaultReconnectDelay = 5
)

// Config is the static input surface of the transport clients. It is loaded
// from a config file and passed explicitly into constructors, never read
// from ambient state.
type Config struct {
	BaseURL               string `json:"base_url"                          mapstructure:"base_url"`
	APIPrefix             string `json:"api_prefix,omitempty"              mapstructure:"api_prefix"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty" mapstructure:"request_timeout_seconds"`
	ReconnectDelaySeconds int    `json:"reconnect_delay_seconds,omitempty" mapstructure:"reconnect_delay_seconds"`
	UserID                string `json:"user_id,omitempty"                 mapstructure:"user_id"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with the documented defaults.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.APIPrefix == "" {
		c.APIPrefix = defaultAPIPrefix
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultRequestTimeout
	}
	if c.ReconnectDelaySeconds <= 0 {
		c.ReconnectDelaySeconds = defaultReconnectDelay
	}
}

// RequestTimeout is the per-request REST timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ReconnectDelay is the fixed websocket reconnect delay.
func (c Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelaySeconds) * time.Second
}

// WebSocketBase derives the websocket endpoint root from the base URL by
// scheme substitution.
func (c Config) WebSocketBase() string {
	base := strings.TrimRight(c.BaseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
