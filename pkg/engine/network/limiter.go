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
	"net/url"
	"sync"
	"time"

	"Lectern/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimiter provides per-domain rate limiting. Each domain gets its own
// token bucket with a burst of one, so requests to a host are spaced by
// at least the configured interval.
type RateLimiter struct {
	domains  map[string]*domainLimiter
	interval time.Duration
	mu       sync.RWMutex
}

type domainLimiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewRateLimiter creates a limiter with a default per-domain interval.
// A zero interval disables limiting.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		domains:  make(map[string]*domainLimiter),
		interval: interval,
	}
}

// Wait blocks until a request to rawURL may proceed. A non-zero override
// replaces the domain's interval.
func (r *RateLimiter) Wait(ctx context.Context, rawURL string, override time.Duration) error {
	domain := ExtractDomain(rawURL)

	interval := r.interval
	if override > 0 {
		interval = override
	}
	if interval <= 0 {
		return nil
	}

	limiter := r.getLimiter(domain, interval)
	if err := limiter.Wait(ctx); err != nil {
		return errors.Track(err).
			WithContext("domain", domain).
			WithContext("interval", interval.String()).
			AsTimeout().
			Error()
	}
	return nil
}

// Reset clears rate limiting for a domain
func (r *RateLimiter) Reset(domain string) {
	r.mu.Lock()
	delete(r.domains, domain)
	r.mu.Unlock()
}

// getLimiter returns or creates a limiter for a domain
func (r *RateLimiter) getLimiter(domain string, interval time.Duration) *rate.Limiter {
	r.mu.RLock()
	dl, exists := r.domains[domain]
	r.mu.RUnlock()

	if exists && dl.interval == interval {
		return dl.limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if dl, exists := r.domains[domain]; exists && dl.interval == interval {
		return dl.limiter
	}

	dl = newDomainLimiter(interval)
	r.domains[domain] = dl
	return dl.limiter
}

func newDomainLimiter(interval time.Duration) *domainLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &domainLimiter{limiter: rate.NewLimiter(limit, 1), interval: interval}
}

// ExtractDomain returns the host of rawURL, or rawURL itself when unparsable
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
