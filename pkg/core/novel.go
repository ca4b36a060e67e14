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

import (
	"sort"
	"strings"
)

// DefaultNovelName is the name a novel carries until a parser finds one
const DefaultNovelName = "Unknown — Not Found!"

// Metadata holds free-form extra fields. Values may be raw HTML fragments
// and a nil value marks a key the site exposes without content.
type Metadata map[string]*string

// Set stores value under key
func (m Metadata) Set(key, value string) {
	m[key] = &value
}

// SetOptional stores value under key, keeping an explicit nil
func (m Metadata) SetOptional(key string, value *string) {
	m[key] = value
}

// Get returns the value under key and whether it is present and non-nil
func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Keys returns the metadata keys in sorted order
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Novel identifies a catalog entry. Identity is (URL, SourceID); every
// other field is enrichment applied by search and details parsing.
type Novel struct {
	URL              string   `json:"url"`
	SourceID         int64    `json:"source_id"`
	Name             string   `json:"name"`
	ExternalNovelID  *string  `json:"external_novel_id,omitempty"`
	ImageURL         *string  `json:"image_url,omitempty"`
	Rating           *Rating  `json:"rating,omitempty"`
	ShortDescription *string  `json:"short_description,omitempty"`
	LongDescription  *string  `json:"long_description,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	Authors          []string `json:"authors,omitempty"`
	Illustrator      []string `json:"illustrator,omitempty"`
	ChaptersCount    int64    `json:"chapters_count"`
	Metadata         Metadata `json:"metadata"`
}

// NovelKey is the comparable identity of a Novel
type NovelKey struct {
	URL      string
	SourceID int64
}

// NewNovel creates a novel with default name and empty metadata
func NewNovel(url string, sourceID int64) *Novel {
	return &Novel{
		URL:      url,
		SourceID: sourceID,
		Name:     DefaultNovelName,
		Metadata: make(Metadata),
	}
}

// NewNamedNovel creates a novel, keeping the default name when name is blank
func NewNamedNovel(name, url string, sourceID int64) *Novel {
	n := NewNovel(url, sourceID)
	if name = strings.TrimSpace(name); name != "" {
		n.Name = name
	}
	return n
}

// Key returns the identity of the novel
func (n *Novel) Key() NovelKey {
	return NovelKey{URL: n.URL, SourceID: n.SourceID}
}

// Equal reports whether both novels have the same URL and source
func (n *Novel) Equal(other *Novel) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.Key() == other.Key()
}

// SetChaptersCount stores count, clamped at zero
func (n *Novel) SetChaptersCount(count int64) {
	if count < 0 {
		count = 0
	}
	n.ChaptersCount = count
}

// ExternalID returns the external novel id if one has been resolved
func (n *Novel) ExternalID() (string, bool) {
	if n.ExternalNovelID == nil || *n.ExternalNovelID == "" {
		return "", false
	}
	return *n.ExternalNovelID, true
}

// Clone returns a deep copy that shares no mutable state with n
func (n *Novel) Clone() *Novel {
	if n == nil {
		return nil
	}

	c := *n
	c.ExternalNovelID = cloneString(n.ExternalNovelID)
	c.ImageURL = cloneString(n.ImageURL)
	c.ShortDescription = cloneString(n.ShortDescription)
	c.LongDescription = cloneString(n.LongDescription)
	if n.Rating != nil {
		r := *n.Rating
		c.Rating = &r
	}
	c.Genres = cloneSlice(n.Genres)
	c.Authors = cloneSlice(n.Authors)
	c.Illustrator = cloneSlice(n.Illustrator)

	c.Metadata = make(Metadata, len(n.Metadata))
	for k, v := range n.Metadata {
		c.Metadata[k] = cloneString(v)
	}
	return &c
}

// ResultPage is one page of search or listing results
type ResultPage struct {
	Novels      []*Novel `json:"novels"`
	HasNextPage bool     `json:"has_next_page"`
}

// String returns a pointer to s
func String(s string) *string {
	return &s
}

// OptionalString returns nil for blank input, otherwise the trimmed value
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
