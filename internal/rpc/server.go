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

// Package rpc exposes the engine to other programs over net/rpc. The
// lectern-rpc binary serves it as JSON-RPC on stdin and stdout.
package rpc

import (
	"context"
	"net/rpc"
	"runtime"
	"time"

	"Lectern/pkg/core"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/search"
	"Lectern/pkg/source"
)

// DefaultCallTimeout bounds a single call, including every request it makes
const DefaultCallTimeout = 2 * time.Minute

// Server holds what every service shares
type Server struct {
	engine      *engine.Engine
	version     string
	concurrency int
	timeout     time.Duration
	ctx         context.Context
}

// Option tunes a Server
type Option func(*Server)

// WithConcurrency bounds the fan-out of Search.Query over all sources
func WithConcurrency(limit int) Option {
	return func(s *Server) { s.concurrency = limit }
}

// WithCallTimeout replaces DefaultCallTimeout
func WithCallTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// NewServer creates an RPC server with every service registered. ctx
// cancels calls still in flight when the host goes away.
func NewServer(ctx context.Context, e *engine.Engine, version string, opts ...Option) (*rpc.Server, error) {
	s := &Server{
		engine:      e,
		version:     version,
		concurrency: search.DefaultConcurrency,
		timeout:     DefaultCallTimeout,
		ctx:         ctx,
	}
	for _, opt := range opts {
		opt(s)
	}

	server := rpc.NewServer()
	services := map[string]interface{}{
		"Version": &VersionService{server: s},
		"Sources": &SourcesService{server: s},
		"Search":  &SearchService{server: s},
		"Novel":   &NovelService{server: s},
		"Listing": &ListingService{server: s},
	}
	for name, svc := range services {
		if err := server.RegisterName(name, svc); err != nil {
			return nil, err
		}
	}
	return server, nil
}

func (s *Server) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.timeout)
}

// VersionService reports the build
type VersionService struct {
	server *Server
}

// VersionInfo is the reply of Version.Get
type VersionInfo struct {
	Version     string `json:"version"`
	GoVersion   string `json:"go_version"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	SourceCount int    `json:"source_count"`
}

// Get returns the version information
func (v *VersionService) Get(_ *struct{}, reply *VersionInfo) error {
	*reply = VersionInfo{
		Version:     v.server.version,
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		SourceCount: v.server.engine.SourceCount(),
	}
	return nil
}

// SourcesService lists the registered sources
type SourcesService struct {
	server *Server
}

// SourcesRequest optionally narrows the list by language
type SourcesRequest struct {
	Lang string `json:"lang,omitempty"`
}

// SourceInfo describes one source
type SourceInfo struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Lang         string              `json:"lang,omitempty"`
	Capabilities source.Capabilities `json:"capabilities"`
	Filters      source.FilterList   `json:"filters,omitempty"`
}

// List returns the sources ordered by name
func (ss *SourcesService) List(req *SourcesRequest, reply *[]SourceInfo) error {
	all := source.NewLanguageFilter(req.Lang).Apply(ss.server.engine.AllSources())

	infos := make([]SourceInfo, 0, len(all))
	for _, src := range all {
		info := SourceInfo{ID: src.ID(), Name: src.Name(), Capabilities: source.CapabilitiesOf(src)}
		if cs, ok := src.(source.CatalogueSource); ok {
			info.Lang = cs.Lang()
			info.Filters = cs.Filters()
		}
		infos = append(infos, info)
	}
	*reply = infos
	return nil
}

// SearchService searches one source or all of them
type SearchService struct {
	server *Server
}

// SearchRequest selects the sources and the page. SourceID 0 searches
// every source that passes Lang.
type SearchRequest struct {
	Query    string            `json:"query"`
	SourceID int64             `json:"source_id,omitempty"`
	Page     int               `json:"page,omitempty"`
	Lang     string            `json:"lang,omitempty"`
	Filters  source.FilterList `json:"filters,omitempty"`
}

// SearchResponse holds one result per searched source
type SearchResponse struct {
	Query   string          `json:"query"`
	Page    int             `json:"page"`
	Results []search.Result `json:"results"`
}

// Query runs the search. A single requested source fails the call with its
// error; across all sources each failure stays inside its Result.
func (ss *SearchService) Query(req *SearchRequest, reply *SearchResponse) error {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Page < 0 {
		return InvalidInput("Search", "Query", "page", req.Page)
	}

	e := ss.server.engine
	var targets []source.CatalogueSource
	if req.SourceID != 0 {
		cs, err := e.CatalogueSource(req.SourceID)
		if err != nil {
			return NewError(err, "Search", "Query", map[string]interface{}{"source_id": req.SourceID})
		}
		targets = append(targets, cs)
	} else {
		for _, src := range source.NewLanguageFilter(req.Lang).Apply(e.AllSources()) {
			if cs, ok := src.(source.CatalogueSource); ok {
				targets = append(targets, cs)
			}
		}
	}

	ctx, cancel := ss.server.callContext()
	defer cancel()
	ctx = search.WithConcurrency(ctx, ss.server.concurrency)

	results := e.Search.SearchAcrossSources(ctx, targets, req.Page, req.Query, req.Filters)
	if req.SourceID != 0 && results[0].Err != nil {
		return NewError(results[0].Err, "Search", "Query", map[string]interface{}{
			"query":     req.Query,
			"source_id": req.SourceID,
		})
	}

	*reply = SearchResponse{Query: req.Query, Page: req.Page, Results: results}
	return nil
}

// NovelService fetches details and chapter indexes
type NovelService struct {
	server *Server
}

// NovelRequest names a novel by source and URL. Novel, when set, is used
// as is so a host can pass back what Details returned.
type NovelRequest struct {
	SourceID    int64       `json:"source_id"`
	URL         string      `json:"url"`
	Novel       *core.Novel `json:"novel,omitempty"`
	SkipDetails bool        `json:"skip_details,omitempty"`
}

func (r *NovelRequest) novel() *core.Novel {
	if r.Novel != nil {
		return r.Novel
	}
	return core.NewNovel(r.URL, r.SourceID)
}

func (r *NovelRequest) requestData() map[string]interface{} {
	return map[string]interface{}{"source_id": r.SourceID, "url": r.URL}
}

// ChaptersResponse is the chapter index together with the novel it was
// resolved for
type ChaptersResponse struct {
	Novel    *core.Novel     `json:"novel"`
	Chapters []*core.Chapter `json:"chapters"`
	Count    int             `json:"count"`
}

// Details fetches the full record of a novel
func (ns *NovelService) Details(req *NovelRequest, reply *core.Novel) error {
	src, err := ns.server.engine.Source(req.SourceID)
	if err != nil {
		return NewError(err, "Novel", "Details", req.requestData())
	}

	ctx, cancel := ns.server.callContext()
	defer cancel()

	novel, err := src.FetchNovelDetails(ctx, req.novel())
	if err != nil {
		return NewError(err, "Novel", "Details", req.requestData())
	}
	*reply = *novel
	return nil
}

// Chapters lists the chapters in reading order. Details run first unless
// SkipDetails is set or the passed novel already carries its external id.
func (ns *NovelService) Chapters(req *NovelRequest, reply *ChaptersResponse) error {
	src, err := ns.server.engine.Source(req.SourceID)
	if err != nil {
		return NewError(err, "Novel", "Chapters", req.requestData())
	}

	ctx, cancel := ns.server.callContext()
	defer cancel()

	novel := req.novel()
	if !req.SkipDetails && novel.ExternalNovelID == nil {
		if novel, err = src.FetchNovelDetails(ctx, novel); err != nil {
			return NewError(err, "Novel", "Chapters", req.requestData())
		}
	}

	chapters, err := src.FetchChapterList(ctx, novel)
	if err != nil {
		return NewError(err, "Novel", "Chapters", req.requestData())
	}
	*reply = ChaptersResponse{Novel: novel, Chapters: chapters, Count: len(chapters)}
	return nil
}

// ListingService browses popular and latest listings
type ListingService struct {
	server *Server
}

// ListingRequest selects a source and page
type ListingRequest struct {
	SourceID int64 `json:"source_id"`
	Page     int   `json:"page,omitempty"`
}

// ListingResponse mirrors source.Listing; Page is nil when unsupported
type ListingResponse struct {
	SourceID  int64            `json:"source_id"`
	Listing   string           `json:"listing"`
	Supported bool             `json:"supported"`
	Page      *core.ResultPage `json:"page,omitempty"`
}

type listingFunc func(src source.CatalogueSource, ctx context.Context, page int) (source.Listing, error)

// Popular returns the popular listing of a source
func (ls *ListingService) Popular(req *ListingRequest, reply *ListingResponse) error {
	return ls.fetch("Popular", source.CatalogueSource.FetchPopular, req, reply)
}

// Latest returns the latest-updates listing of a source
func (ls *ListingService) Latest(req *ListingRequest, reply *ListingResponse) error {
	return ls.fetch("Latest", source.CatalogueSource.FetchLatest, req, reply)
}

func (ls *ListingService) fetch(method string, fetch listingFunc, req *ListingRequest, reply *ListingResponse) error {
	if req.Page == 0 {
		req.Page = 1
	}
	request := map[string]interface{}{"source_id": req.SourceID, "page": req.Page}

	src, err := ls.server.engine.CatalogueSource(req.SourceID)
	if err != nil {
		return NewError(err, "Listing", method, request)
	}

	ctx, cancel := ls.server.callContext()
	defer cancel()

	listing, err := fetch(src, ctx, req.Page)
	if err != nil {
		return NewError(err, "Listing", method, request)
	}
	*reply = ListingResponse{
		SourceID:  req.SourceID,
		Listing:   method,
		Supported: listing.Supported,
		Page:      listing.Page,
	}
	return nil
}
