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
	"Lectern/pkg/source"
	"Lectern/pkg/source/base"
	"Lectern/pkg/source/registry"
	"Lectern/pkg/source/web"
)

const (
	fanMTLBaseURL = "https://www.fanmtl.com"
	// fanMTLBookIDPattern finds the id assigned in an inline script
	fanMTLBookIDPattern = `(?is)bookId\s=\s(.*?);`
)

// FanMTL scrapes fanmtl.com. The details page embeds the book id in a
// script; the chapter index is an HTML fragment served by its API.
type FanMTL struct {
	*web.Provider
}

func init() {
	registry.Register(func(e *engine.Engine) source.Source {
		return newFanMTL(e, fanMTLBaseURL)
	})
}

func newFanMTL(e *engine.Engine, baseURL string) *FanMTL {
	f := &FanMTL{}
	f.Provider = web.New(e, base.Config{
		Name:    "FanMTL",
		BaseURL: baseURL,
		Client:  network.ClientAntiBot,
	}, f)
	return f
}

// Filters lists the search filters FanMTL understands
func (f *FanMTL) Filters() source.FilterList {
	return source.FilterList{
		{Name: "status", Value: "all"},
		{Name: "sort", Value: "views"},
	}
}

func (f *FanMTL) SearchRequest(page int, query string, filters source.FilterList) (*network.Request, error) {
	q := url.Values{}
	q.Set("status", filters.Value("status", "all"))
	q.Set("sort", filters.Value("sort", "views"))
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	return f.Get("/search?" + q.Encode()), nil
}

func (f *FanMTL) SearchSelector() string { return "div.list.manga-list div.book-detailed-item" }

func (f *FanMTL) SearchFromElement(el *html.Element) (*core.Novel, error) {
	a := el.Find("a").FirstOrNil()
	name := ""
	if a != nil {
		name = a.AttrOr("title", a.Text())
	}
	novel, err := f.NovelFromTitleLink(a, name)
	if err != nil {
		return nil, err
	}
	if img := el.Find("img").FirstOrNil(); img != nil {
		novel.ImageURL = web.ImageURL(img)
	}
	if score := el.Find("div.rating span.score").FirstOrNil(); score != nil {
		novel.Rating = core.RatingPtr(score.Text(), core.ScaleFive)
	}
	return novel, nil
}

func (f *FanMTL) SearchPagination() web.PageProbe {
	return web.LastLinkActive{Selector: "div.paginator a.btn.link", Class: "active"}
}

// DetailsFromDocument reads the positional meta paragraphs: authors,
// status with genres, genre links, then the chapter count
func (f *FanMTL) DetailsFromDocument(_ context.Context, novel *core.Novel, doc *html.Document) error {
	meta := doc.Select("div.book-info div.meta.box > p").All()

	if len(meta) > 0 {
		var anchors []string
		for _, a := range meta[0].Find("a").All() {
			anchors = append(anchors, fmt.Sprintf(`<a href="%s">%s</a>`, a.AbsAttr("href"), a.AttrOr("title", a.Text())))
		}
		if len(anchors) > 0 {
			novel.Metadata.Set("Author(s)", strings.Join(anchors, ", "))
		}
	}
	if len(meta) > 1 {
		novel.Genres = meta[1].Find("a").MapString(func(a *html.Element) string {
			return strings.ReplaceAll(a.Text(), " ,", "")
		})
		novel.Metadata.Set("Status", strings.Join(meta[1].Find("span").Texts(), " "))
	}
	if len(meta) > 2 {
		anchors := meta[2].Find("a").MapString(func(a *html.Element) string {
			return fmt.Sprintf(`<a href="%s">%s</a>`, a.AbsAttr("href"), strings.ReplaceAll(a.Text(), " ,", ""))
		})
		novel.Metadata.Set("Genre(s)", strings.Join(anchors, ", "))
	}
	if len(meta) > 3 {
		if count, err := strconv.ParseInt(strings.Join(meta[3].Find("span").Texts(), ""), 10, 64); err == nil {
			novel.SetChaptersCount(count)
		}
	}

	if desc := doc.Select("div.summary > p.content").Texts(); len(desc) > 0 {
		novel.LongDescription = core.OptionalString(strings.Join(desc, "\n"))
	}

	for _, script := range doc.Select("script").All() {
		body := script.HTML()
		if !strings.Contains(body, "bookId") {
			continue
		}
		if id, err := f.Engine().Parser.FindGroup(fanMTLBookIDPattern, body); err == nil {
			novel.ExternalNovelID = core.OptionalString(strings.Trim(strings.TrimSpace(id), `"'`))
		}
		break
	}
	return nil
}

func (f *FanMTL) ChapterListRequest(novel *core.Novel) (*network.Request, error) {
	id, err := base.RequireExternalID(novel)
	if err != nil {
		return nil, err
	}
	return f.Get("/api/manga/" + url.PathEscape(id) + "/chapters?source=detail"), nil
}

func (f *FanMTL) ChapterListSelector() string { return "ul#chapter-list > li" }

func (f *FanMTL) ChapterFromElement(el *html.Element) (*core.Chapter, error) {
	a := el.Find("a").FirstOrNil()
	if a == nil {
		return nil, nil
	}
	name := ""
	if title := el.Find(".chapter-title").FirstOrNil(); title != nil {
		name = title.Text()
	}
	return core.NewChapter(a.AbsAttr("href"), name), nil
}
