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
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"Lectern/pkg/engine/logger"
	"Lectern/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// ClientKind selects one of the engine's shared transports
type ClientKind int

const (
	// ClientDefault is a plain HTTP client
	ClientDefault ClientKind = iota
	// ClientAntiBot carries a cookie jar and browser headers and retries
	// challenge responses
	ClientAntiBot
)

func (k ClientKind) String() string {
	if k == ClientAntiBot {
		return "anti-bot"
	}
	return "default"
}

// DefaultUserAgent is a desktop Chrome string most sites accept
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/86.0.4240.198 Safari/537.36"

// Options configures a Client
type Options struct {
	Timeout     time.Duration
	MaxRetries  int
	RateLimit   time.Duration
	UserAgent   string
	BaseBackoff time.Duration
	MaxBackoff  time.Duration

	// Transport overrides the round tripper, mainly for tests
	Transport http.RoundTripper
}

// DefaultOptions returns the settings used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		RateLimit:   500 * time.Millisecond,
		UserAgent:   DefaultUserAgent,
		BaseBackoff: time.Second,
		MaxBackoff:  30 * time.Second,
	}
}

// browserHeaders are sent by the anti-bot client unless a request sets them
var browserHeaders = Headers{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
}

// Client is the shared HTTP transport. It is safe for concurrent use and
// meant to be created once per kind and reused.
type Client struct {
	kind    ClientKind
	http    *http.Client
	opts    Options
	limiter *RateLimiter
	logger  logger.Logger
}

// NewClient creates a client of the given kind
func NewClient(kind ClientKind, opts Options, log logger.Logger) (*Client, error) {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = defaults.BaseBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaults.MaxBackoff
	}
	if log == nil {
		log = logger.Nop()
	}

	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
	}

	if kind == ClientAntiBot {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errors.Track(err).
				WithMessage("Failed to create cookie jar").
				AsConfiguration().
				Error()
		}
		httpClient.Jar = jar
	}

	return &Client{
		kind:    kind,
		http:    httpClient,
		opts:    opts,
		limiter: NewRateLimiter(opts.RateLimit),
		logger:  log,
	}, nil
}

// Kind returns the client variant
func (c *Client) Kind() ClientKind {
	return c.kind
}

// UserAgent is the agent sent when a request carries none
func (c *Client) UserAgent() string {
	if c == nil {
		return ""
	}
	return c.opts.UserAgent
}

// Jar returns the cookie jar, nil for the default client
func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, NewRequest(url).Build())
}

// Do executes req with rate limiting and retries. Transport failures,
// 429 and 5xx are retried with exponential backoff; the anti-bot client
// also retries challenge responses. Any other non-2xx status and an
// empty body fail with a network error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request").AsNetwork().Error()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	maxRetries := c.opts.MaxRetries
	if req.MaxRetries > 0 {
		maxRetries = req.MaxRetries
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			c.logger.Debug("[HTTP] Retrying %s %s in %v (attempt %d/%d)", method, req.URL, backoff, attempt+1, maxRetries+1)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, errors.FromContext(ctx).
					WithContext("url", req.URL).
					WithContext("last_error", fmt.Sprint(lastErr)).
					Error()
			case <-timer.C:
			}
		}

		if err := c.limiter.Wait(ctx, req.URL, req.RateLimit); err != nil {
			return nil, err
		}

		resp, retry, err := c.attempt(ctx, method, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !retry {
			return nil, err
		}
	}

	return nil, errors.Track(lastErr).
		WithRetryContext(maxRetries+1, maxRetries+1).
		Error()
}

// attempt performs a single round trip. retry reports whether the failure
// is worth another try.
func (c *Client) attempt(ctx context.Context, method string, req *Request) (*Response, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, req.bodyReader())
	if err != nil {
		return nil, false, errors.Track(err).
			WithContext("url", req.URL).
			WithMessage("Invalid request").
			AsNetwork().
			Error()
	}

	c.applyHeaders(httpReq, req.Headers)

	c.logger.Debug("[HTTP] %s request to %s", method, req.URL)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, errors.FromContext(ctx).WithContext("url", req.URL).Error()
		}
		c.logger.Debug("[HTTP] Request failed: %v", err)
		return nil, true, errors.Track(err).
			WithContext("url", req.URL).
			WithContext("method", method).
			AsNetwork().
			Error()
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, true, errors.Track(err).
			WithHTTPContext(method, req.URL, httpResp.StatusCode).
			WithMessage("Failed to read response body").
			AsNetwork().
			Error()
	}

	c.logger.Debug("[HTTP] Response received: status %d, %d bytes", httpResp.StatusCode, len(body))

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, c.shouldRetry(httpResp), statusError(method, req.URL, httpResp.StatusCode, body)
	}

	if len(body) == 0 {
		return nil, false, errors.Track(errors.ErrEmptyBody).
			WithHTTPContext(method, req.URL, httpResp.StatusCode).
			AsNetwork().
			Error()
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       body,
		URL:        httpResp.Request.URL.String(),
		Method:     method,
	}, false, nil
}

func (c *Client) applyHeaders(httpReq *http.Request, headers Headers) {
	if c.kind == ClientAntiBot {
		for k, v := range browserHeaders {
			httpReq.Header.Set(k, v)
		}
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.opts.UserAgent)
	}
}

func (c *Client) shouldRetry(resp *http.Response) bool {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return true
	case c.kind == ClientAntiBot && isChallenge(resp):
		return true
	default:
		return false
	}
}

// isChallenge reports whether a 403/503 came from a bot-protection layer
func isChallenge(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusServiceUnavailable {
		return false
	}
	return resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-mitigated") != ""
}

func (c *Client) backoff(attempt int) time.Duration {
	backoff := c.opts.BaseBackoff << uint(attempt-1)
	if backoff <= 0 || backoff > c.opts.MaxBackoff {
		backoff = c.opts.MaxBackoff
	}
	return backoff
}

func statusError(method, url string, status int, body []byte) error {
	var b *errors.ErrorBuilder
	switch {
	case status == http.StatusNotFound:
		b = errors.Track(errors.ErrNotFound).AsNotFound()
	case status == http.StatusTooManyRequests:
		b = errors.Track(errors.ErrRateLimit).AsRateLimit()
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		b = errors.Track(errors.ErrForbidden).AsNetwork()
	case status >= 500:
		b = errors.Track(errors.ErrServer).AsNetwork()
	default:
		b = errors.Track(errors.ErrBadRequest).AsNetwork()
	}

	if len(body) > 0 {
		b = b.WithContext("response_preview", string(body[:min(len(body), 200)]))
	}
	return b.WithHTTPContext(method, url, status).Error()
}
