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

package web

import "Lectern/pkg/engine/parser/html"

// PageProbe decides from a result page whether another page exists
type PageProbe interface {
	HasNextPage(doc *html.Document) bool
}

// NextControl signals a next page when Selector matches and, if Disabled
// is set, nothing matches Disabled.
type NextControl struct {
	Selector string
	Disabled string
}

func (p NextControl) HasNextPage(doc *html.Document) bool {
	if !doc.Select(p.Selector).Exists() {
		return false
	}
	return p.Disabled == "" || !doc.Select(p.Disabled).Exists()
}

// LastPageLink signals a next page whenever Selector matches
type LastPageLink struct {
	Selector string
}

func (p LastPageLink) HasNextPage(doc *html.Document) bool {
	return doc.Select(p.Selector).Exists()
}

// LastLinkActive treats the page as last when the final pager link is
// marked with Class, or when there is no pager at all.
type LastLinkActive struct {
	Selector string
	Class    string
}

func (p LastLinkActive) HasNextPage(doc *html.Document) bool {
	last := doc.Select(p.Selector).Last()
	if last == nil {
		return false
	}
	return !last.HasClass(p.Class)
}

// NoPagination always reports a single page
type NoPagination struct{}

func (NoPagination) HasNextPage(*html.Document) bool { return false }
