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
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	number     = regexp.MustCompile(`\d[\d,]*\.?\d*`)
)

// Element wraps a goquery selection for easier access
type Element struct {
	selection *goquery.Selection
	base      *url.URL
}

// Text returns the whitespace-normalized text content of the element
func (e *Element) Text() string {
	return strings.TrimSpace(whitespace.ReplaceAllString(e.selection.Text(), " "))
}

// OwnText returns only the element's direct text nodes
func (e *Element) OwnText() string {
	var parts []string
	e.selection.Contents().Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) > 0 && s.Nodes[0].Type == nethtml.TextNode {
			if text := strings.TrimSpace(s.Text()); text != "" {
				parts = append(parts, text)
			}
		}
	})
	return strings.Join(parts, " ")
}

// HTML returns the inner HTML of the element
func (e *Element) HTML() string {
	html, _ := e.selection.Html()
	return strings.TrimSpace(html)
}

// Attr returns an attribute value
func (e *Element) Attr(name string) (string, bool) {
	return e.selection.Attr(name)
}

// AttrOr returns an attribute value or fallback if not present
func (e *Element) AttrOr(name, fallback string) string {
	if val, exists := e.Attr(name); exists {
		return strings.TrimSpace(val)
	}
	return fallback
}

// AbsAttr returns the attribute resolved against the document URL,
// or "" when the attribute is missing or blank.
func (e *Element) AbsAttr(name string) string {
	val := e.AttrOr(name, "")
	if val == "" {
		return ""
	}
	return resolve(e.base, val)
}

// HasClass checks if the element has a specific class
func (e *Element) HasClass(class string) bool {
	return e.selection.HasClass(class)
}

// Is checks if the element matches a selector
func (e *Element) Is(selector string) bool {
	return e.selection.Is(selector)
}

// Find searches within this element
func (e *Element) Find(selector string) *Selector {
	return &Selector{root: e.selection, selector: selector, base: e.base}
}

// Children returns all child elements
func (e *Element) Children() []*Element {
	var children []*Element
	e.selection.Children().Each(func(_ int, s *goquery.Selection) {
		children = append(children, &Element{selection: s, base: e.base})
	})
	return children
}

// Parent returns the parent element or nil
func (e *Element) Parent() *Element {
	parent := e.selection.Parent()
	if parent.Length() == 0 {
		return nil
	}
	return &Element{selection: parent, base: e.base}
}

// Number extracts the first number in the element's text, ignoring
// thousands separators.
func (e *Element) Number() (float64, bool) {
	match := number.FindString(e.Text())
	if match == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
