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

// Package source defines the contract every site adapter implements.
//
// All operations block until the site answers or ctx is done. Callers
// that want concurrency run them on their own goroutines; adapters keep
// no per-call state, so one adapter instance serves concurrent calls.
package source

import (
	"context"

	"Lectern/pkg/core"
)

// Source is the minimal adapter: it can enrich a novel and list its chapters.
type Source interface {
	ID() int64
	Name() string

	// FetchNovelDetails returns an enriched copy of novel with the same
	// identity. Adapters with two-phase id resolution set ExternalNovelID.
	FetchNovelDetails(ctx context.Context, novel *core.Novel) (*core.Novel, error)

	// FetchChapterList returns the complete ordered chapter index.
	FetchChapterList(ctx context.Context, novel *core.Novel) ([]*core.Chapter, error)
}

// CatalogueSource is a Source that can also be browsed and searched.
type CatalogueSource interface {
	Source

	Lang() string
	SupportsLatest() bool

	SearchNovels(ctx context.Context, page int, query string, filters FilterList) (*core.ResultPage, error)

	// FetchPopular and FetchLatest report an unsupported listing through
	// Listing.Supported, never through an error.
	FetchPopular(ctx context.Context, page int) (Listing, error)
	FetchLatest(ctx context.Context, page int) (Listing, error)

	// Filters lists the filters SearchNovels understands, with defaults.
	Filters() FilterList
}

// Listing is the result of a popular/latest browse
type Listing struct {
	Page      *core.ResultPage
	Supported bool
}

// Unsupported is the Listing of an adapter without that browse mode
func Unsupported() Listing {
	return Listing{}
}

// Supported wraps a page
func Supported(page *core.ResultPage) Listing {
	return Listing{Page: page, Supported: true}
}

// Capabilities summarizes what a source can do
type Capabilities struct {
	Search  bool `json:"search"`
	Popular bool `json:"popular"`
	Latest  bool `json:"latest"`
}

// PopularChecker is implemented by sources that know whether they offer
// a popular listing.
type PopularChecker interface {
	SupportsPopular() bool
}

// CapabilitiesOf reports the capabilities of src
func CapabilitiesOf(src Source) Capabilities {
	cs, ok := src.(CatalogueSource)
	if !ok {
		return Capabilities{}
	}

	caps := Capabilities{Search: true, Latest: cs.SupportsLatest()}
	if pc, ok := src.(PopularChecker); ok {
		caps.Popular = pc.SupportsPopular()
	}
	return caps
}
