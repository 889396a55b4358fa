// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package config loads Basinview configuration with layered sources
// (defaults, optional YAML file, environment variables) via Koanf v2.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Basinview server.
type Config struct {
	Upstream    UpstreamConfig    `koanf:"upstream"`
	Poll        PollConfig        `koanf:"poll"`
	Server      ServerConfig      `koanf:"server"`
	Forecast    ForecastConfig    `koanf:"forecast"`
	Agriculture AgricultureConfig `koanf:"agriculture"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// UpstreamConfig configures the prediction-platform client.
type UpstreamConfig struct {
	// BaseURL is the root of the prediction platform API,
	// e.g. http://localhost:8000. The client appends /api/... paths.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Timeout bounds a single request including body read.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimitPerSecond throttles outgoing requests. Zero disables the limiter.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second" validate:"gte=0"`

	// BreakerMaxFailures is the consecutive-failure count that opens the
	// circuit breaker.
	BreakerMaxFailures uint32 `koanf:"breaker_max_failures" validate:"gt=0"`

	// BreakerOpenPeriod is how long the breaker stays open before probing.
	BreakerOpenPeriod time.Duration `koanf:"breaker_open_period" validate:"gt=0"`
}

// PollConfig sets the fixed polling cadences.
type PollConfig struct {
	// StatusInterval is the shell's system-status cadence.
	StatusInterval time.Duration `koanf:"status_interval" validate:"gt=0"`

	// OverviewInterval is the Dashboard overview cadence.
	OverviewInterval time.Duration `koanf:"overview_interval" validate:"gt=0"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// ForecastConfig sets forecast view defaults.
type ForecastConfig struct {
	// DefaultLocation is the location shown before a user selects one.
	DefaultLocation string `koanf:"default_location" validate:"required"`
}

// AgricultureConfig sets agriculture view defaults.
type AgricultureConfig struct {
	// DefaultFarmer is the farmer shown before a user selects one.
	DefaultFarmer string `koanf:"default_farmer" validate:"required"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all default values. Defaults mirror
// the platform's documented cadences: system status every 5 minutes,
// dashboard overview every 30 seconds.
func defaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:            "http://localhost:8000",
			Timeout:            30 * time.Second,
			RateLimitPerSecond: 0,
			BreakerMaxFailures: 5,
			BreakerOpenPeriod:  60 * time.Second,
		},
		Poll: PollConfig{
			StatusInterval:   5 * time.Minute,
			OverviewInterval: 30 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4326,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Forecast: ForecastConfig{
			DefaultLocation: "station_001",
		},
		Agriculture: AgricultureConfig{
			DefaultFarmer: "farmer_001",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
