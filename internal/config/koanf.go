// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations searched in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/basinview/config.yaml",
	"/etc/basinview/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envMappings translates supported environment variables to config paths.
// Unlisted variables are ignored so unrelated process environment never
// leaks into the configuration.
var envMappings = map[string]string{
	"upstream_base_url":              "upstream.base_url",
	"upstream_timeout":               "upstream.timeout",
	"upstream_rate_limit_per_second": "upstream.rate_limit_per_second",
	"upstream_breaker_max_failures":  "upstream.breaker_max_failures",
	"upstream_breaker_open_period":   "upstream.breaker_open_period",

	"poll_status_interval":   "poll.status_interval",
	"poll_overview_interval": "poll.overview_interval",

	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",

	"forecast_default_location":  "forecast.default_location",
	"agriculture_default_farmer": "agriculture.default_farmer",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// Load builds the configuration from layered sources, lowest priority first:
//
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables
//
// The result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile returns the first readable config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps an environment variable name to its config path.
// Returning "" drops the variable.
func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// sliceConfigPaths lists paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated strings for known slice fields.
// Env vars arrive as plain strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
