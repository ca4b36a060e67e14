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
	"regexp"
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

const wuxiaWorldSiteBaseURL = "https://wuxiaworldsite.co"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// WuxiaWorldSite is listed as "Novel Full". Chapters come from the
// chapter jump dropdown the site serves over ajax.
type WuxiaWorldSite struct {
	*web.Provider
}

func init() {
	registry.Register(func(e *engine.Engine) source.Source {
		return newWuxiaWorldSite(e, wuxiaWorldSiteBaseURL)
	})
}

func newWuxiaWorldSite(e *engine.Engine, baseURL string) *WuxiaWorldSite {
	w := &WuxiaWorldSite{}
	w.Provider = web.New(e, base.Config{
		Name:    "Novel Full",
		BaseURL: baseURL,
		Client:  network.ClientAntiBot,
	}, w)
	return w
}

// SearchRequest puts the query in the path with every non-alphanumeric
// character replaced by a dash
func (w *WuxiaWorldSite) SearchRequest(page int, query string, _ source.FilterList) (*network.Request, error) {
	slug := nonAlphanumeric.ReplaceAllString(query, "-")
	return w.Get(fmt.Sprintf("/search/%s&page=%d", slug, page)), nil
}

func (w *WuxiaWorldSite) SearchSelector() string { return "div.bz.item" }

func (w *WuxiaWorldSite) SearchFromElement(el *html.Element) (*core.Novel, error) {
	a := el.Find("a").FirstOrNil()
	novel, err := w.NovelFromTitleLink(a, "")
	if err != nil {
		return nil, err
	}
	if img := a.Find("img").FirstOrNil(); img != nil {
		novel.ImageURL = core.OptionalString(img.AbsAttr("src"))
	}
	return novel, nil
}

func (w *WuxiaWorldSite) SearchPagination() web.PageProbe {
	return web.NextControl{Selector: "li.next", Disabled: "li.next.disabled"}
}

func (w *WuxiaWorldSite) DetailsFromDocument(_ context.Context, novel *core.Novel, doc *html.Document) error {
	book := doc.Select("div.read-book").FirstOrNil()
	if book != nil {
		if img := book.Find("div.img-read img").FirstOrNil(); img != nil {
			novel.ImageURL = core.OptionalString(img.AbsAttr("src"))
		}

		genres := book.Find("div.tags a.a_tag_item").All()
		var names, anchors []string
		for _, g := range genres {
			names = append(names, g.Text())
			anchors = append(anchors, fmt.Sprintf(`<a href="%s">%s</a>`, g.AbsAttr("href"), g.Text()))
		}
		novel.Genres = names
		novel.Metadata.Set("Genre(s)", strings.Join(anchors, ", "))

		if intro := book.Find("div.story-introduction-content p").Texts(); len(intro) > 0 {
			novel.LongDescription = core.OptionalString(strings.Join(intro, "\n"))
		}
		novel.Metadata.Set("Author(s)", strings.Join(book.Find("i.fa.fa-user").Texts(), ", "))
	}

	if rating := doc.Select("div.small > em > strong > span").FirstOrNil(); rating != nil {
		novel.Rating = core.RatingPtr(rating.Text(), core.ScaleTen)
	}
	if el := doc.Select("#rating").FirstOrNil(); el != nil {
		if id := el.AttrOr("data-novel-id", ""); id != "" {
			novel.ExternalNovelID = core.String(id)
		}
	}

	if info := doc.Select("div.info").FirstOrNil(); info != nil {
		children := info.Children()
		if len(children) > 2 {
			novel.Metadata.Set("Source", children[2].Text())
		}
		if len(children) > 3 {
			novel.Metadata.Set("Status", children[3].Text())
		}
	}
	return nil
}

func (w *WuxiaWorldSite) ChapterListRequest(novel *core.Novel) (*network.Request, error) {
	id, err := base.RequireExternalID(novel)
	if err != nil {
		return nil, err
	}
	return w.Get("/ajax-chapter-option?novelId=" + url.QueryEscape(id) + "&currentChapterId="), nil
}

func (w *WuxiaWorldSite) ChapterListSelector() string { return "select.chapter_jump option" }

// ChapterFromElement skips placeholder options without a value
func (w *WuxiaWorldSite) ChapterFromElement(el *html.Element) (*core.Chapter, error) {
	value := strings.TrimSpace(el.AttrOr("value", ""))
	if value == "" {
		return nil, nil
	}
	return core.NewChapter(w.BaseURL()+value, el.Text()), nil
}

// ChapterOrder reports the dropdown's oldest-first layout
func (w *WuxiaWorldSite) ChapterOrder() web.ListOrder { return web.OldestFirst }
