// Lectern: A library and CLI for extracting novel catalogs and chapter indexes.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package config reads LECTERN_* settings from the environment, after
// loading any .env.local and .env files found in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"Lectern/pkg/catalog"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/engine/network"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFiles are loaded in order; earlier files win because godotenv
// never overrides a variable that is already set
var DotEnvFiles = []string{".env.local", ".env"}

// Config holds the runtime settings of the CLI
type Config struct {
	// LogFile "-" disables file logging; empty uses ~/.lectern/logs
	LogFile  string `env:"LECTERN_LOG_FILE"`
	LogLevel string `env:"LECTERN_LOG_LEVEL" envDefault:"info"`

	HTTPTimeout time.Duration `env:"LECTERN_HTTP_TIMEOUT" envDefault:"30s"`
	HTTPRetries int           `env:"LECTERN_HTTP_RETRIES" envDefault:"3"`
	RateLimit   time.Duration `env:"LECTERN_RATE_LIMIT" envDefault:"500ms"`
	UserAgent   string        `env:"LECTERN_USER_AGENT"`

	CatalogRetryOnFailure bool `env:"LECTERN_CATALOG_RETRY_ON_FAILURE" envDefault:"true"`

	// Concurrency bounds the multi-source search fan-out
	Concurrency int `env:"LECTERN_CONCURRENCY" envDefault:"4"`
}

// Load reads the dotenv files, then the process environment
func Load() (*Config, error) {
	for _, file := range DotEnvFiles {
		if err := godotenv.Load(file); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("config: failed to load %s: %w", file, err)
		}
	}
	return parse(env.Options{})
}

// FromMap parses a fixed environment instead of the process one
func FromMap(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: LECTERN_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.HTTPRetries < 0 {
		return fmt.Errorf("config: LECTERN_HTTP_RETRIES must not be negative, got %d", c.HTTPRetries)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: LECTERN_CONCURRENCY must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// CatalogPolicy maps the retry flag onto a catalog policy
func (c *Config) CatalogPolicy() catalog.Policy {
	if c.CatalogRetryOnFailure {
		return catalog.RetryOnFailure
	}
	return catalog.FailOnce
}

// EngineOptions builds the engine options this configuration describes
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.LogFile = c.LogFile
	opts.LogLevel = logger.ParseLevel(c.LogLevel)

	opts.Network.Timeout = c.HTTPTimeout
	opts.Network.MaxRetries = c.HTTPRetries
	opts.Network.RateLimit = c.RateLimit
	if c.UserAgent != "" {
		opts.Network.UserAgent = c.UserAgent
	} else {
		opts.Network.UserAgent = network.DefaultUserAgent
	}

	opts.CatalogPolicy = c.CatalogPolicy()
	return opts
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
