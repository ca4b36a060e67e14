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

// Package base turns per-site request builders and response parsers into
// the public operations of source.CatalogueSource.
//
// A site embeds *Provider and passes itself as the Adapter; methods the
// site defines shadow the defaults promoted from Provider.
package base

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"Lectern/pkg/core"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
)

// Config identifies a source and selects its transport
type Config struct {
	// ID is generated from Name, Lang and VersionID when zero
	ID        int64
	Name      string
	Lang      string
	VersionID int
	BaseURL   string

	Client    network.ClientKind
	UserAgent string
	// RateLimit overrides the engine's per-domain interval when non-zero
	RateLimit time.Duration
}

// Requests builds the request of each operation
type Requests interface {
	SearchRequest(page int, query string, filters source.FilterList) (*network.Request, error)
	DetailsRequest(novel *core.Novel) (*network.Request, error)
	ChapterListRequest(novel *core.Novel) (*network.Request, error)
}

// Parsers turn responses into the data model. ParseDetails mutates the
// novel it is handed.
type Parsers interface {
	ParseSearch(resp *network.Response) (*core.ResultPage, error)
	ParseDetails(ctx context.Context, novel *core.Novel, resp *network.Response) error
	ParseChapterList(novel *core.Novel, resp *network.Response) ([]*core.Chapter, error)
}

// Adapter is the full hook set of a site
type Adapter interface {
	Requests
	Parsers
}

// PopularAdapter is implemented by sites with a popular listing
type PopularAdapter interface {
	PopularRequest(page int) (*network.Request, error)
	ParsePopular(resp *network.Response) (*core.ResultPage, error)
}

// LatestAdapter is implemented by sites with a latest-updates listing
type LatestAdapter interface {
	LatestRequest(page int) (*network.Request, error)
	ParseLatest(resp *network.Response) (*core.ResultPage, error)
}

// HeaderBuilder supplies the headers sent with every request
type HeaderBuilder interface {
	BuildHeaders() network.Headers
}

// Provider implements the public operations on top of an Adapter
type Provider struct {
	config  Config
	id      int64
	base    *url.URL
	engine  *engine.Engine
	adapter Adapter
}

// New creates a provider. adapter is normally the site type that embeds
// the returned Provider.
func New(e *engine.Engine, cfg Config, adapter Adapter) *Provider {
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.VersionID == 0 {
		cfg.VersionID = 1
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	id := cfg.ID
	if id == 0 {
		id = core.GenerateSourceID(cfg.Name, cfg.Lang, cfg.VersionID)
	}

	p := &Provider{config: cfg, id: id, engine: e, adapter: adapter}
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		p.base = u
	}
	return p
}

// ID returns the stable source id
func (p *Provider) ID() int64 { return p.id }

// Name returns the human-readable label
func (p *Provider) Name() string { return p.config.Name }

// Lang returns the content language
func (p *Provider) Lang() string { return p.config.Lang }

// BaseURL returns the site root without a trailing slash
func (p *Provider) BaseURL() string { return p.config.BaseURL }

// ClientKind returns the transport variant the site uses
func (p *Provider) ClientKind() network.ClientKind { return p.config.Client }

// Engine returns the owning engine
func (p *Provider) Engine() *engine.Engine { return p.engine }

// SupportsLatest reports whether the site has a latest-updates listing
func (p *Provider) SupportsLatest() bool {
	_, ok := p.adapter.(LatestAdapter)
	return ok
}

// SupportsPopular reports whether the site has a popular listing
func (p *Provider) SupportsPopular() bool {
	_, ok := p.adapter.(PopularAdapter)
	return ok
}

// Filters lists no filters; sites with filters shadow it
func (p *Provider) Filters() source.FilterList { return nil }

// Logf logs a debug line tagged with the source name
func (p *Provider) Logf(format string, args ...interface{}) {
	p.engine.Logger.Debug("[%s] %s", p.config.Name, fmt.Sprintf(format, args...))
}

// SearchNovels runs one page of a search
func (p *Provider) SearchNovels(ctx context.Context, page int, query string, filters source.FilterList) (*core.ResultPage, error) {
	if page < 1 {
		page = 1
	}
	p.Logf("Searching %q (page %d)", query, page)

	req, err := p.adapter.SearchRequest(page, query, filters)
	if err != nil {
		return nil, p.wrap(err, "search")
	}

	resp, err := p.execute(ctx, req)
	if err != nil {
		return nil, p.wrap(err, "search")
	}

	result, err := p.adapter.ParseSearch(resp)
	if err != nil {
		return nil, p.wrap(err, "search")
	}

	p.Logf("Search returned %d novels (next page: %t)", len(result.Novels), result.HasNextPage)
	return result, nil
}

// FetchNovelDetails returns an enriched copy of novel. The input is never
// modified, so concurrent calls on one novel share nothing.
func (p *Provider) FetchNovelDetails(ctx context.Context, novel *core.Novel) (*core.Novel, error) {
	if novel == nil {
		return nil, p.wrap(errors.Track(fmt.Errorf("novel is nil")).AsInvalidNovel().Error(), "details")
	}
	enriched := novel.Clone()
	p.Logf("Fetching details for %s", enriched.URL)

	req, err := p.adapter.DetailsRequest(enriched)
	if err != nil {
		return nil, p.wrap(err, "details")
	}

	resp, err := p.execute(ctx, req)
	if err != nil {
		return nil, p.wrap(err, "details")
	}

	if err := p.adapter.ParseDetails(ctx, enriched, resp); err != nil {
		return nil, p.wrap(err, "details")
	}
	return enriched, nil
}

// FetchChapterList returns the complete ordered chapter index
func (p *Provider) FetchChapterList(ctx context.Context, novel *core.Novel) ([]*core.Chapter, error) {
	if novel == nil {
		return nil, p.wrap(errors.Track(fmt.Errorf("novel is nil")).AsInvalidNovel().Error(), "chapters")
	}
	p.Logf("Fetching chapters for %s", novel.URL)

	req, err := p.adapter.ChapterListRequest(novel)
	if err != nil {
		return nil, p.wrap(err, "chapters")
	}

	resp, err := p.execute(ctx, req)
	if err != nil {
		return nil, p.wrap(err, "chapters")
	}

	chapters, err := p.adapter.ParseChapterList(novel, resp)
	if err != nil {
		return nil, p.wrap(err, "chapters")
	}

	p.Logf("Found %d chapters", len(chapters))
	return chapters, nil
}

// FetchPopular returns a page of the popular listing, or an unsupported
// Listing when the site has none
func (p *Provider) FetchPopular(ctx context.Context, page int) (source.Listing, error) {
	pa, ok := p.adapter.(PopularAdapter)
	if !ok {
		return source.Unsupported(), nil
	}
	return p.listing(ctx, "popular", page, pa.PopularRequest, pa.ParsePopular)
}

// FetchLatest returns a page of the latest-updates listing, or an
// unsupported Listing when the site has none
func (p *Provider) FetchLatest(ctx context.Context, page int) (source.Listing, error) {
	la, ok := p.adapter.(LatestAdapter)
	if !ok {
		return source.Unsupported(), nil
	}
	return p.listing(ctx, "latest", page, la.LatestRequest, la.ParseLatest)
}

func (p *Provider) listing(
	ctx context.Context,
	operation string,
	page int,
	build func(int) (*network.Request, error),
	parse func(*network.Response) (*core.ResultPage, error),
) (source.Listing, error) {
	if page < 1 {
		page = 1
	}

	req, err := build(page)
	if errors.IsUnsupported(err) {
		return source.Unsupported(), nil
	}
	if err != nil {
		return source.Listing{}, p.wrap(err, operation)
	}

	resp, err := p.execute(ctx, req)
	if err != nil {
		return source.Listing{}, p.wrap(err, operation)
	}

	result, err := parse(resp)
	if errors.IsUnsupported(err) {
		return source.Unsupported(), nil
	}
	if err != nil {
		return source.Listing{}, p.wrap(err, operation)
	}
	return source.Supported(result), nil
}

// execute sends req through the engine's shared client of the configured kind
func (p *Provider) execute(ctx context.Context, req *network.Request) (*network.Response, error) {
	if req == nil {
		return nil, errors.Track(fmt.Errorf("adapter built no request")).AsNotImplemented().Error()
	}
	if req.RateLimit == 0 {
		req.RateLimit = p.config.RateLimit
	}
	return p.engine.Client(p.config.Client).Do(ctx, req)
}

func (p *Provider) wrap(err error, operation string) error {
	p.engine.Logger.Debug("[%s] %s failed: %s", p.config.Name, operation, errors.FormatSimple(err))
	return errors.Track(err).
		AsProvider(p.id).
		WithContext("source_name", p.config.Name).
		WithContext("operation", operation).
		Error()
}
