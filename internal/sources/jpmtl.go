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

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"Lectern/pkg/core"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/engine/parser"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
	"Lectern/pkg/source/base"
	"Lectern/pkg/source/registry"
)

const (
	jpmtlBaseURL  = "https://jpmtl.com"
	jpmtlPageSize = 25
)

// JPMTL reads the jpmtl.com JSON API. Chapter lists need the numeric book
// id, which search results already carry.
type JPMTL struct {
	*base.Provider
}

func init() {
	registry.Register(func(e *engine.Engine) source.Source {
		return newJPMTL(e, jpmtlBaseURL)
	})
}

func newJPMTL(e *engine.Engine, baseURL string) *JPMTL {
	j := &JPMTL{}
	j.Provider = base.New(e, base.Config{
		Name:    "JPMTL",
		BaseURL: baseURL,
		Client:  network.ClientDefault,
	}, j)
	return j
}

func (j *JPMTL) SearchRequest(page int, query string, _ source.FilterList) (*network.Request, error) {
	q := fmt.Sprintf("/v2/book/show/browse?query=%s&categories=&content_type=0&direction=0&page=%d&limit=%d&type=5&status=all&language=3&exclude_categories=",
		url.QueryEscape(query), page, jpmtlPageSize)
	return j.Get(q), nil
}

// ParseSearch reports a next page whenever the page is full
func (j *JPMTL) ParseSearch(resp *network.Response) (*core.ResultPage, error) {
	root, err := resp.JSON()
	if err != nil {
		return nil, err
	}
	if !root.IsArray() {
		return nil, errors.Track(fmt.Errorf("search payload is not an array")).AsParsing().Error()
	}

	items := root.Array()
	page := &core.ResultPage{Novels: []*core.Novel{}, HasNextPage: len(items) == jpmtlPageSize}
	for _, item := range items {
		if !item.Get("id").Exists() {
			return nil, errors.Track(fmt.Errorf("search result without id")).AsParsing().Error()
		}
		id := strconv.FormatInt(item.Get("id").Int(), 10)

		novel := core.NewNamedNovel(parser.StringOr(item, "title", ""), "/v2/book/"+id, j.ID())
		novel.ImageURL = parser.NullFreeString(item, "cover")
		novel.Metadata.Set("id", id)
		novel.ExternalNovelID = core.String(id)
		if rating := parser.NullFreeFloat(item, "rating"); rating != nil {
			r := core.NormalizeRating(*rating, core.ScaleFive)
			novel.Rating = &r
		}
		novel.Genres = parser.Strings(item.Get("genres"), "name")
		page.Novels = append(page.Novels, novel)
	}
	return page, nil
}

var jpmtlMetadataKeys = []string{
	"status", "created_at", "updated_at", "content_warnings", "type", "raw_link",
	"content_type", "language", "upcoming", "dmca", "dmca_by", "accepted", "pen_name", "genre_name",
}

func (j *JPMTL) ParseDetails(_ context.Context, novel *core.Novel, resp *network.Response) error {
	root, err := resp.JSON()
	if err != nil {
		return err
	}
	if !root.IsObject() {
		return errors.Track(fmt.Errorf("details payload is not an object")).AsParsing().Error()
	}

	if author := parser.NullFreeString(root, "author"); author != nil {
		novel.Authors = []string{*author}
	}
	if synopsis := parser.NullFreeString(root, "synopsis"); synopsis != nil {
		novel.LongDescription = synopsis
	}
	if count := parser.NullFreeInt(root, "chapter_count"); count != nil {
		novel.SetChaptersCount(*count)
	}
	if id := parser.NullFreeString(root, "id"); id != nil && novel.ExternalNovelID == nil {
		novel.ExternalNovelID = id
	}

	for _, key := range jpmtlMetadataKeys {
		if v := parser.NullFreeString(root, key); v != nil {
			novel.Metadata.Set(key, *v)
		}
	}
	if aliases := parser.Strings(root.Get("alias"), "name"); len(aliases) > 0 {
		novel.Metadata.Set("alias", strings.Join(aliases, ", "))
	}
	return nil
}

func (j *JPMTL) ChapterListRequest(novel *core.Novel) (*network.Request, error) {
	id, err := base.RequireExternalID(novel)
	if err != nil {
		return nil, err
	}
	return j.Get("/v2/chapter/" + url.PathEscape(id) + "/list?state=published&structured=true&direction=false"), nil
}

func (j *JPMTL) ParseChapterList(novel *core.Novel, resp *network.Response) ([]*core.Chapter, error) {
	id, err := base.RequireExternalID(novel)
	if err != nil {
		return nil, err
	}
	return parseVolumeChapters(resp, func(chapterID string) string {
		return fmt.Sprintf("%s/books/%s/%s/mobile", j.BaseURL(), id, chapterID)
	})
}
