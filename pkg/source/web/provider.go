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

// Package web specializes base.Provider for sites that serve HTML. Sites
// describe what to select and how to read each element; iteration,
// pagination and chapter ordering happen here.
package web

import (
	"context"

	"Lectern/pkg/core"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/engine/parser/html"
	"Lectern/pkg/errors"
	"Lectern/pkg/source/base"
	"Lectern/pkg/source/common"
)

// ListOrder is the order a site lists chapters in
type ListOrder int

const (
	// NewestFirst listings are reversed before numbering
	NewestFirst ListOrder = iota
	// OldestFirst listings are numbered as they appear
	OldestFirst
)

// ElementNovel reads one result element. A nil novel with a nil error
// skips the element; use it only for rows that are structurally not
// results (ads, separators). A result whose title link is missing or
// empty must fail with errors.ErrInvalidNovel, see NovelFromTitleLink.
type ElementNovel func(el *html.Element) (*core.Novel, error)

// Hooks are the selector-level rules of an HTML site
type Hooks interface {
	SearchSelector() string
	SearchFromElement(el *html.Element) (*core.Novel, error)
	SearchPagination() PageProbe

	DetailsFromDocument(ctx context.Context, novel *core.Novel, doc *html.Document) error

	ChapterListSelector() string
	ChapterFromElement(el *html.Element) (*core.Chapter, error)
}

// Orderer is implemented by sites that list chapters oldest-first
type Orderer interface {
	ChapterOrder() ListOrder
}

// Adapter is a site built on Provider
type Adapter interface {
	base.Adapter
	Hooks
}

// Provider implements the base parse hooks from selector hooks
type Provider struct {
	*base.Provider
	site Adapter
}

// New creates a provider for site, which normally embeds the result
func New(e *engine.Engine, cfg base.Config, site Adapter) *Provider {
	return &Provider{
		Provider: base.New(e, cfg, site),
		site:     site,
	}
}

// ListingSpec describes a list of novels on a page
type ListingSpec struct {
	Selector    string
	FromElement ElementNovel
	Probe       PageProbe
}

// ParseSearch reads a search result page
func (p *Provider) ParseSearch(resp *network.Response) (*core.ResultPage, error) {
	return p.ParseListing(resp, ListingSpec{
		Selector:    p.site.SearchSelector(),
		FromElement: p.site.SearchFromElement,
		Probe:       p.site.SearchPagination(),
	})
}

// ParseListing walks ls.Selector matches in document order. The first
// extractor error aborts the page.
func (p *Provider) ParseListing(resp *network.Response, ls ListingSpec) (*core.ResultPage, error) {
	doc, err := resp.HTML()
	if err != nil {
		return nil, err
	}
	return p.ParseListingDocument(doc, ls)
}

// ParseListingDocument is ParseListing on an already parsed document
func (p *Provider) ParseListingDocument(doc *html.Document, ls ListingSpec) (*core.ResultPage, error) {
	page := &core.ResultPage{Novels: []*core.Novel{}}
	for _, el := range doc.Select(ls.Selector).All() {
		novel, err := ls.FromElement(el)
		if err != nil {
			return nil, err
		}
		if novel != nil {
			page.Novels = append(page.Novels, novel)
		}
	}

	if ls.Probe != nil {
		page.HasNextPage = ls.Probe.HasNextPage(doc)
	}
	return page, nil
}

// ParseDetails hands the parsed page to the site
func (p *Provider) ParseDetails(ctx context.Context, novel *core.Novel, resp *network.Response) error {
	doc, err := resp.HTML()
	if err != nil {
		return err
	}
	return p.site.DetailsFromDocument(ctx, novel, doc)
}

// ParseChapterList reads every chapter element and numbers the result
// in reading order.
func (p *Provider) ParseChapterList(_ *core.Novel, resp *network.Response) ([]*core.Chapter, error) {
	doc, err := resp.HTML()
	if err != nil {
		return nil, err
	}
	return p.ParseChapterDocument(doc)
}

// ParseChapterDocument is ParseChapterList on an already parsed document
func (p *Provider) ParseChapterDocument(doc *html.Document) ([]*core.Chapter, error) {
	chapters := []*core.Chapter{}
	for _, el := range doc.Select(p.site.ChapterListSelector()).All() {
		ch, err := p.site.ChapterFromElement(el)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			chapters = append(chapters, ch)
		}
	}

	if p.chapterOrder() == OldestFirst {
		return common.AssignOrder(chapters), nil
	}
	return common.AssignReverseOrder(chapters), nil
}

func (p *Provider) chapterOrder() ListOrder {
	if o, ok := p.site.(Orderer); ok {
		return o.ChapterOrder()
	}
	return NewestFirst
}

// NovelFromLink builds a search novel from an anchor: its text is the
// name and its href, stripped of the site's domain, the URL. ok is false
// when the anchor has no href.
func (p *Provider) NovelFromLink(a *html.Element) (*core.Novel, bool) {
	href := a.AbsAttr("href")
	if href == "" {
		return nil, false
	}
	return core.NewNamedNovel(a.Text(), p.URLWithoutDomain(href), p.ID()), true
}

// NovelFromTitleLink is NovelFromLink for the title anchor of a result:
// a missing anchor or href fails with errors.ErrInvalidNovel
func (p *Provider) NovelFromTitleLink(a *html.Element, name string) (*core.Novel, error) {
	if a == nil {
		return nil, errors.Track(errors.ErrInvalidNovel).
			WithMessage("search result without a title link").
			Error()
	}
	href := a.AbsAttr("href")
	if href == "" {
		return nil, errors.Track(errors.ErrInvalidNovel).
			WithMessagef("search result %q has a title link without href", name).
			Error()
	}
	if name == "" {
		name = a.Text()
	}
	return core.NewNamedNovel(name, p.URLWithoutDomain(href), p.ID()), nil
}

// ImageURL reads an image element, preferring lazy-load attributes
func ImageURL(img *html.Element) *string {
	if img == nil {
		return nil
	}
	for _, attr := range []string{"data-src", "data-lazy-src", "src"} {
		if u := img.AbsAttr(attr); u != "" {
			return &u
		}
	}
	return nil
}
