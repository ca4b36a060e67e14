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

package core

// UnorderedChapter is the OrderID of a chapter no adapter has placed yet
const UnorderedChapter int64 = -1

// Chapter is one entry of a novel's chapter index. Identity is
// (URL, Name, TranslatorSourceName); OrderID is derived.
type Chapter struct {
	URL                  string  `json:"url"`
	Name                 string  `json:"name"`
	OrderID              int64   `json:"order_id"`
	TranslatorSourceName *string `json:"translator_source_name,omitempty"`
}

// NewChapter creates an unordered chapter
func NewChapter(url, name string) *Chapter {
	return &Chapter{URL: url, Name: name, OrderID: UnorderedChapter}
}

// Equal compares URL, name and translator; OrderID is ignored
func (c *Chapter) Equal(other *Chapter) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.URL != other.URL || c.Name != other.Name {
		return false
	}
	switch {
	case c.TranslatorSourceName == nil && other.TranslatorSourceName == nil:
		return true
	case c.TranslatorSourceName == nil || other.TranslatorSourceName == nil:
		return false
	default:
		return *c.TranslatorSourceName == *other.TranslatorSourceName
	}
}
