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

// Package search runs one query against several sources at once
package search

import (
	"context"
	"sync"

	"Lectern/pkg/core"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
	"golang.org/x/sync/errgroup"
)

type contextKey string

// ConcurrencyKey carries the fan-out limit in a context
const ConcurrencyKey contextKey = "concurrency"

// DefaultConcurrency is used when the context carries no limit
const DefaultConcurrency = 4

// WithConcurrency adds a concurrency limit to a context
func WithConcurrency(ctx context.Context, limit int) context.Context {
	return context.WithValue(ctx, ConcurrencyKey, limit)
}

// GetConcurrency retrieves the concurrency limit from a context
func GetConcurrency(ctx context.Context, defaultLimit int) int {
	if limit, ok := ctx.Value(ConcurrencyKey).(int); ok && limit > 0 {
		return limit
	}
	return defaultLimit
}

// Result is one source's answer to a search. A failed source carries its
// error instead of a page.
type Result struct {
	SourceID   int64            `json:"source_id"`
	SourceName string           `json:"source_name"`
	Page       *core.ResultPage `json:"page,omitempty"`
	Error      string           `json:"error,omitempty"`

	Err error `json:"-"`
}

// Service fans a search out over sources
type Service struct {
	logger logger.Logger
}

// NewService creates a search service
func NewService(log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{logger: log}
}

// SearchAcrossSources queries every source, with at most the context's
// concurrency limit in flight. Results keep the order of sources and one
// failing source never cancels the others.
func (s *Service) SearchAcrossSources(
	ctx context.Context,
	sources []source.CatalogueSource,
	page int,
	query string,
	filters source.FilterList,
) []Result {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]Result, len(sources))
	if len(sources) == 0 {
		s.logger.Info("[Search] No sources to search")
		return results
	}

	limit := GetConcurrency(ctx, DefaultConcurrency)
	s.logger.Info("[Search] Searching %d sources for %q (concurrency %d)", len(sources), query, limit)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			res, err := src.SearchNovels(ctx, page, query, filters)

			mu.Lock()
			defer mu.Unlock()
			results[i] = Result{SourceID: src.ID(), SourceName: src.Name(), Page: res, Err: err}
			if err != nil {
				results[i].Error = errors.FormatSimple(err)
				s.logger.Warn("[Search] %s failed: %v", src.Name(), err)
				return nil
			}
			if res == nil {
				results[i].Page = &core.ResultPage{Novels: []*core.Novel{}}
			}
			s.logger.Debug("[Search] %s returned %d novels", src.Name(), len(results[i].Page.Novels))
			return nil
		})
	}
	_ = g.Wait()
	return results
}
