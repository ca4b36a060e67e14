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

package network

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"Lectern/pkg/engine/logger"
	"Lectern/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Timeout:     5 * time.Second,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, kind ClientKind) *Client {
	t.Helper()
	c, err := NewClient(kind, testOptions(), logger.Nop())
	require.NoError(t, err)
	return c
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, ClientDefault).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	root, err := resp.JSON()
	require.NoError(t, err)
	assert.True(t, root.Get("ok").Bool())
}

func TestDoStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
		calls    int32
	}{
		{"not found is not retried", http.StatusNotFound, errors.ErrNotFound, 1},
		{"bad request is not retried", http.StatusBadRequest, errors.ErrBadRequest, 1},
		{"forbidden without challenge", http.StatusForbidden, errors.ErrForbidden, 1},
		{"rate limit is retried", http.StatusTooManyRequests, errors.ErrRateLimit, 3},
		{"server error is retried", http.StatusInternalServerError, errors.ErrServer, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestClient(t, ClientDefault).Get(context.Background(), srv.URL)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, errors.ErrNetwork)
			assert.Equal(t, tt.calls, atomic.LoadInt32(&calls))
		})
	}
}

func TestDoEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := newTestClient(t, ClientDefault).Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, errors.ErrEmptyBody)
	assert.ErrorIs(t, err, errors.ErrNetwork)
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := newTestClient(t, ClientDefault).Get(context.Background(), addr)
	assert.ErrorIs(t, err, errors.ErrNetwork)
}

func TestAntiBotRetriesChallenge(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.SetCookie(w, &http.Cookie{Name: "cf_clearance", Value: "token", Path: "/"})
			w.Header().Set("cf-mitigated", "challenge")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if c, err := r.Cookie("cf_clearance"); err != nil || c.Value != "token" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "en-US,en;q=0.9", r.Header.Get("Accept-Language"))
		_, _ = io.WriteString(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	c := newTestClient(t, ClientAntiBot)
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	doc, err := resp.HTML()
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Text())

	u, _ := url.Parse(srv.URL)
	require.NotNil(t, c.Jar())
	assert.Len(t, c.Jar().Cookies(u), 1)
}

func TestDefaultClientDoesNotRetryChallenge(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("cf-ray", "abc")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(t, ClientDefault)
	_, err := c.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, errors.ErrForbidden)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Nil(t, c.Jar())
}

func TestDoSendsHeadersAndForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "https://ranobes.example/", r.Header.Get("Referer"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "dao", r.PostForm.Get("story"))
		_, _ = io.WriteString(w, "done")
	}))
	defer srv.Close()

	req := NewRequest(srv.URL).
		Header("Referer", "https://ranobes.example/").
		Form(url.Values{"story": {"dao"}}).
		Build()

	resp, err := newTestClient(t, ClientDefault).Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Text())
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	rl := NewRateLimiter(20 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(ctx, "https://a.example/x", 0))
	}
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)

	// another domain is not held back
	start = time.Now()
	require.NoError(t, rl.Wait(ctx, "https://b.example/x", 0))
	assert.Less(t, time.Since(start), 15*time.Millisecond)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	require.NoError(t, rl.Wait(context.Background(), "https://a.example", 0))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(ctx, "https://a.example", 0))
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "novelbin.org", ExtractDomain("https://novelbin.org/search?keyword=a"))
	assert.Equal(t, "not a url", ExtractDomain("not a url"))
}
