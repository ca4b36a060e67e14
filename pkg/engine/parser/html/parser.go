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

package html

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"Lectern/pkg/errors"
	"github.com/PuerkitoBio/goquery"
)

// Document wraps a goquery document together with the URL it was served
// from, so relative links can be resolved.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// Parse creates a new document from HTML content. baseURL may be empty.
func Parse(content []byte, baseURL string) (*Document, error) {
	return ParseReader(bytes.NewReader(content), baseURL)
}

// ParseReader creates a new document from an io.Reader
func ParseReader(r io.Reader, baseURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Track(err).
			WithContext("operation", "html_parse").
			WithContext("base_url", baseURL).
			AsParsing().
			Error()
	}

	d := &Document{doc: doc}
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			d.base = u
		}
	}
	return d, nil
}

// ParseString creates a new document from a string
func ParseString(html, baseURL string) (*Document, error) {
	return ParseReader(strings.NewReader(html), baseURL)
}

// Select returns a selector for querying elements
func (d *Document) Select(selector string) *Selector {
	return &Selector{root: d.doc.Selection, selector: selector, base: d.base}
}

// Find is an alias for Select
func (d *Document) Find(selector string) *Selector {
	return d.Select(selector)
}

// Root returns the document as an element
func (d *Document) Root() *Element {
	return &Element{selection: d.doc.Selection, base: d.base}
}

// BaseURL returns the URL relative links resolve against
func (d *Document) BaseURL() string {
	if d.base == nil {
		return ""
	}
	return d.base.String()
}

// Text returns all text content in the document
func (d *Document) Text() string {
	return strings.TrimSpace(d.doc.Text())
}

// Title returns the document title
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").Text())
}

// Meta returns the content of a meta tag matched by name or property
// (og: tags use property).
func (d *Document) Meta(key string) string {
	var content string
	d.doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		if name == key || property == key {
			content = strings.TrimSpace(s.AttrOr("content", ""))
			return false
		}
		return true
	})
	return content
}

// Resolve resolves ref against the document URL. Without a base or on
// unparsable input ref is returned unchanged.
func (d *Document) Resolve(ref string) string {
	return resolve(d.base, ref)
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
