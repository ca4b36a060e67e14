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

package config

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"Lectern/pkg/catalog"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/source/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.HTTPRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, catalog.RetryOnFailure, cfg.CatalogPolicy())

	opts := cfg.EngineOptions()
	assert.Equal(t, network.DefaultUserAgent, opts.Network.UserAgent)
	assert.Equal(t, logger.LevelInfo, opts.LogLevel)
}

func TestOverrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"LECTERN_LOG_LEVEL":                "debug",
		"LECTERN_HTTP_TIMEOUT":             "5s",
		"LECTERN_HTTP_RETRIES":             "0",
		"LECTERN_RATE_LIMIT":               "2s",
		"LECTERN_USER_AGENT":               "lectern-test",
		"LECTERN_CATALOG_RETRY_ON_FAILURE": "false",
		"LECTERN_LOG_FILE":                 "-",
	})
	require.NoError(t, err)

	opts := cfg.EngineOptions()
	assert.Equal(t, logger.LevelDebug, opts.LogLevel)
	assert.Equal(t, 5*time.Second, opts.Network.Timeout)
	assert.Equal(t, 0, opts.Network.MaxRetries)
	assert.Equal(t, 2*time.Second, opts.Network.RateLimit)
	assert.Equal(t, "lectern-test", opts.Network.UserAgent)
	assert.Equal(t, catalog.FailOnce, opts.CatalogPolicy)
	assert.Equal(t, "-", opts.LogFile)
}

func TestInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"bad duration":   {"LECTERN_HTTP_TIMEOUT": "soon"},
		"bad level":      {"LECTERN_LOG_LEVEL": "chatty"},
		"no concurrency": {"LECTERN_CONCURRENCY": "0"},
		"negative retry": {"LECTERN_HTTP_RETRIES": "-1"},
	}
	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromMap(environ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config:")
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LECTERN_CONCURRENCY=9\n"), 0o600))
	chdir(t, dir)
	t.Setenv("LECTERN_CONCURRENCY", "")
	require.NoError(t, os.Unsetenv("LECTERN_CONCURRENCY"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Concurrency)
}

func TestUserAgentReachesAdapterRequests(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LECTERN_USER_AGENT", "lectern-agent/2.0")
	t.Setenv("LECTERN_LOG_FILE", "-")

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(srv.Close)

	cfg, err := Load()
	require.NoError(t, err)
	opts := cfg.EngineOptions()
	opts.Logger = logger.Nop()
	e, err := engine.New(opts)
	require.NoError(t, err)

	for _, kind := range []network.ClientKind{network.ClientDefault, network.ClientAntiBot} {
		site := base.New(e, base.Config{Name: "Agent Check", BaseURL: srv.URL, Client: kind}, nil)
		_, err := e.Client(kind).Do(context.Background(), site.Get("/"))
		require.NoError(t, err)
		assert.Equal(t, "lectern-agent/2.0", got)
	}
}

// chdir switches the working directory for the duration of the test,
// standing in for testing.T.Chdir on toolchains before Go 1.24
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
