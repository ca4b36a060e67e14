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
	"Lectern/pkg/engine/parser/html"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
	"Lectern/pkg/source/base"
	"Lectern/pkg/source/registry"
	"Lectern/pkg/source/web"
)

const ranobesBaseURL = "https://ranobes.net"

// ranobesIDPattern reads the numeric id from paths like /novels/1234-some-title.html
const ranobesIDPattern = `/(\d+)-[^/]*$`

// Ranobes serves HTML search and details pages behind Cloudflare, while
// the chapter index comes from a structured JSON endpoint.
type Ranobes struct {
	*web.Provider
}

func init() {
	registry.Register(func(e *engine.Engine) source.Source {
		return newRanobes(e, ranobesBaseURL)
	})
}

func newRanobes(e *engine.Engine, baseURL string) *Ranobes {
	r := &Ranobes{}
	r.Provider = web.New(e, base.Config{
		Name:    "Ranobes",
		BaseURL: baseURL,
		Client:  network.ClientAntiBot,
	}, r)
	return r
}

func (r *Ranobes) SearchRequest(page int, query string, _ source.FilterList) (*network.Request, error) {
	form := url.Values{}
	form.Set("do", "search")
	form.Set("subaction", "search")
	form.Set("search_start", strconv.Itoa(page))
	form.Set("full_search", "0")
	form.Set("result_from", strconv.Itoa((page-1)*10+1))
	form.Set("story", query)
	return r.PostForm("/index.php?do=search", form), nil
}

func (r *Ranobes) SearchSelector() string { return "div.block.story.shortstory.mod-poster" }

// SearchFromElement fails the page when a result has no title link
func (r *Ranobes) SearchFromElement(el *html.Element) (*core.Novel, error) {
	title, err := el.Find("h2.title a").First()
	if err != nil {
		return nil, errors.Track(errors.ErrInvalidNovel).
			WithMessage("search result without a title link").
			Error()
	}

	novel := core.NewNamedNovel(title.Text(), r.URLWithoutDomain(title.AbsAttr("href")), r.ID())
	if rating := el.Find("li.current-rating").FirstOrNil(); rating != nil {
		novel.Rating = core.RatingPtr(rating.Text(), core.ScaleHundred)
	}
	return novel, nil
}

func (r *Ranobes) SearchPagination() web.PageProbe {
	return web.LastPageLink{Selector: "a#nextlink"}
}

func (r *Ranobes) DetailsFromDocument(_ context.Context, novel *core.Novel, doc *html.Document) error {
	if desc := doc.Select("[itemprop=description]").FirstOrNil(); desc != nil {
		novel.LongDescription = core.OptionalString(desc.Text())
	}

	var authors []string
	for _, el := range doc.Select("span[itemprop=alternateName]").All() {
		if name := strings.TrimSpace(strings.ReplaceAll(el.Text(), "by ", "")); name != "" {
			authors = append(authors, name)
		}
	}
	novel.Authors = authors
	if creator := doc.Select("span.tag_list[itemprop=creator]").FirstOrNil(); creator != nil {
		novel.Metadata.Set("Author(s)", creator.HTML())
	}

	if image := doc.Meta("og:image"); image != "" {
		novel.ImageURL = core.String(doc.Resolve(image))
	}
	if keywords := doc.Meta("keywords"); keywords != "" {
		novel.Genres = strings.Split(keywords, ", ")
	}

	if id, err := r.Engine().Parser.FindGroup(ranobesIDPattern, novel.URL); err == nil {
		novel.ExternalNovelID = core.String(id)
	}
	return nil
}

func (r *Ranobes) ChapterListRequest(novel *core.Novel) (*network.Request, error) {
	id, err := base.RequireExternalID(novel)
	if err != nil {
		return nil, err
	}
	return r.Get("/v2/chapter/" + url.PathEscape(id) + "/list?state=published&structured=true&direction=false"), nil
}

// ParseChapterList reads the JSON volume list instead of an HTML page
func (r *Ranobes) ParseChapterList(novel *core.Novel, resp *network.Response) ([]*core.Chapter, error) {
	id, err := base.RequireExternalID(novel)
	if err != nil {
		return nil, err
	}
	return parseVolumeChapters(resp, func(chapterID string) string {
		return fmt.Sprintf("%s/books/%s/%s/mobile", r.BaseURL(), id, chapterID)
	})
}

func (r *Ranobes) ChapterListSelector() string { return "" }

func (r *Ranobes) ChapterFromElement(*html.Element) (*core.Chapter, error) {
	return nil, base.NotUsed("ChapterFromElement")
}
