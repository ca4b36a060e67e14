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

const novelBinBaseURL = "https://novelbin.org"

// NovelBin scrapes novelbin.org. The chapter index is an ajax archive
// keyed by the id found on the details page.
type NovelBin struct {
	*web.Provider
}

func init() {
	registry.Register(func(e *engine.Engine) source.Source {
		return newNovelBin(e, novelBinBaseURL)
	})
}

func newNovelBin(e *engine.Engine, baseURL string) *NovelBin {
	n := &NovelBin{}
	n.Provider = web.New(e, base.Config{
		Name:    "Novel Bin",
		BaseURL: baseURL,
		Client:  network.ClientAntiBot,
	}, n)
	return n
}

func (n *NovelBin) SearchRequest(page int, query string, _ source.FilterList) (*network.Request, error) {
	return n.Get(fmt.Sprintf("/search?keyword=%s&page=%d", url.QueryEscape(query), page)), nil
}

func (n *NovelBin) SearchSelector() string { return "div.list.list-novel div.row" }

// SearchFromElement skips rows without a title heading (ads); a heading
// without a link fails the page
func (n *NovelBin) SearchFromElement(el *html.Element) (*core.Novel, error) {
	title := el.Find("h3.novel-title").FirstOrNil()
	if title == nil {
		return nil, nil
	}

	novel, err := n.NovelFromTitleLink(title.Find("a").FirstOrNil(), title.Text())
	if err != nil {
		return nil, err
	}
	if img := el.Find("img.cover").FirstOrNil(); img != nil {
		novel.ImageURL = core.OptionalString(img.AbsAttr("src"))
	}
	return novel, nil
}

func (n *NovelBin) SearchPagination() web.PageProbe {
	return web.NextControl{Selector: "li.next", Disabled: "li.next.disabled"}
}

// DetailsFromDocument reads the info list; each entry's links are kept
// as anchor markup in the metadata
func (n *NovelBin) DetailsFromDocument(_ context.Context, novel *core.Novel, doc *html.Document) error {
	if img := doc.Select("div.books div.book > img").FirstOrNil(); img != nil {
		novel.ImageURL = core.OptionalString(img.AbsAttr("src"))
	}

	if info := doc.Select("ul.info").FirstOrNil(); info != nil {
		for _, item := range info.Children() {
			title := item.Find("h3").Texts()
			label := strings.Join(title, " ")

			var values, anchors []string
			for _, a := range item.Find("a[href]").All() {
				values = append(values, a.Text())
				anchors = append(anchors, fmt.Sprintf(`<a href="%s">%s</a>`, a.AbsAttr("href"), a.Text()))
			}
			raw := strings.Join(anchors, ", ")

			switch {
			case strings.Contains(label, "Author"):
				novel.Authors = values
				novel.Metadata.Set("Author(s)", raw)
			case strings.Contains(label, "Genre"):
				novel.Genres = values
				novel.Metadata.Set("Genre(s)", raw)
			case label != "":
				novel.Metadata.Set(label, raw)
			}
		}
	}

	if desc := doc.Select("div.desc-text").Texts(); len(desc) > 0 {
		novel.LongDescription = core.OptionalString(strings.Join(desc, "\n"))
	}
	if rating := doc.Select("[itemprop=ratingValue]").FirstOrNil(); rating != nil {
		novel.Rating = core.RatingPtr(rating.Text(), core.ScaleTen)
	}
	if el := doc.Select("#rating").FirstOrNil(); el != nil {
		if id := el.AttrOr("data-novel-id", ""); id != "" {
			novel.ExternalNovelID = core.String(id)
		}
	}
	return nil
}

func (n *NovelBin) ChapterListRequest(novel *core.Novel) (*network.Request, error) {
	id, err := base.RequireExternalID(novel)
	if err != nil {
		return nil, err
	}
	return n.Get("/ajax/chapter-archive?novelId=" + url.QueryEscape(id)), nil
}

func (n *NovelBin) ChapterListSelector() string { return "li a" }

func (n *NovelBin) ChapterFromElement(el *html.Element) (*core.Chapter, error) {
	return core.NewChapter(el.AbsAttr("href"), el.Text()), nil
}

// ChapterOrder reports the archive's oldest-first layout
func (n *NovelBin) ChapterOrder() web.ListOrder { return web.OldestFirst }
