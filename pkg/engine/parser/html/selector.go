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
	"fmt"
	"net/url"

	"Lectern/pkg/errors"
	"github.com/PuerkitoBio/goquery"
)

// Selector queries elements below a root selection
type Selector struct {
	root     *goquery.Selection
	selector string
	base     *url.URL
	exclude  string
}

func (s *Selector) selection() *goquery.Selection {
	sel := s.root.Find(s.selector)
	if s.exclude != "" {
		sel = sel.Not(s.exclude)
	}
	return sel
}

func (s *Selector) wrap(sel *goquery.Selection) *Element {
	return &Element{selection: sel, base: s.base}
}

// Not drops matches that also match exclude
func (s *Selector) Not(exclude string) *Selector {
	return &Selector{root: s.root, selector: s.selector, base: s.base, exclude: exclude}
}

// First returns the first element matching the selector
func (s *Selector) First() (*Element, error) {
	selection := s.selection().First()
	if selection.Length() == 0 {
		return nil, errors.Track(fmt.Errorf("no elements found")).
			WithContext("selector", s.selector).
			AsParsing().
			Error()
	}
	return s.wrap(selection), nil
}

// FirstOrNil returns the first element or nil if not found
func (s *Selector) FirstOrNil() *Element {
	selection := s.selection().First()
	if selection.Length() == 0 {
		return nil
	}
	return s.wrap(selection)
}

// Last returns the last element or nil if not found
func (s *Selector) Last() *Element {
	selection := s.selection().Last()
	if selection.Length() == 0 {
		return nil
	}
	return s.wrap(selection)
}

// All returns all elements in document order
func (s *Selector) All() []*Element {
	var elements []*Element
	s.selection().Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, s.wrap(sel))
	})
	return elements
}

// Count returns the number of elements matching the selector
func (s *Selector) Count() int {
	return s.selection().Length()
}

// Exists checks if any elements match the selector
func (s *Selector) Exists() bool {
	return s.Count() > 0
}

// Each iterates over all matching elements
func (s *Selector) Each(fn func(int, *Element)) {
	s.selection().Each(func(i int, sel *goquery.Selection) {
		fn(i, s.wrap(sel))
	})
}

// Texts returns the non-empty trimmed text of every match
func (s *Selector) Texts() []string {
	return s.MapString(func(e *Element) string { return e.Text() })
}

// MapString maps matches to strings, dropping empty results
func (s *Selector) MapString(fn func(*Element) string) []string {
	var results []string
	s.Each(func(_ int, elem *Element) {
		if result := fn(elem); result != "" {
			results = append(results, result)
		}
	})
	return results
}
