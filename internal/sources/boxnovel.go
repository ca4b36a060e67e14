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
	boxNovelID      int64 = 5
	boxNovelBaseURL       = "https://boxnovel.com"
)

// BoxNovel is a Madara WordPress site. Its popular and latest listings
// are the search page ordered by views or by update time.
type BoxNovel struct {
	*web.Provider
}

func init() {
	registry.Register(func(e *engine.Engine) source.Source {
		return newBoxNovel(e, boxNovelBaseURL)
	})
}

func newBoxNovel(e *engine.Engine, baseURL string) *BoxNovel {
	b := &BoxNovel{}
	b.Provider = web.New(e, base.Config{
		ID:      boxNovelID,
		Name:    "Box Novel",
		BaseURL: baseURL,
		Client:  network.ClientAntiBot,
	}, b)
	return b
}

func (b *BoxNovel) searchPath(page int, query, orderBy string) string {
	q := url.Values{}
	q.Set("s", query)
	q.Set("post_type", "wp-manga")
	if orderBy != "" {
		q.Set("m_orderby", orderBy)
	}
	if page > 1 {
		return fmt.Sprintf("/page/%d/?%s", page, q.Encode())
	}
	return "/?" + q.Encode()
}

func (b *BoxNovel) SearchRequest(page int, query string, _ source.FilterList) (*network.Request, error) {
	return b.Get(b.searchPath(page, query, "")), nil
}

func (b *BoxNovel) SearchSelector() string { return "div.c-tabs-item__content" }

func (b *BoxNovel) SearchFromElement(el *html.Element) (*core.Novel, error) {
	novel, err := b.NovelFromTitleLink(el.Find("div.post-title a").FirstOrNil(), "")
	if err != nil {
		return nil, err
	}
	if img := el.Find("img[src]").FirstOrNil(); img != nil {
		novel.ImageURL = core.OptionalString(img.AbsAttr("src"))
	}
	if authors := el.Find("div.post-content_item.mg_author div.summary-content").FirstOrNil(); authors != nil {
		novel.Authors = childTexts(authors)
	}
	if genres := el.Find("div.post-content_item.mg_genres div.summary-content").FirstOrNil(); genres != nil {
		novel.Genres = childTexts(genres)
	}
	if score := el.Find("span.score.font-meta.total_votes").FirstOrNil(); score != nil {
		novel.Rating = core.RatingPtr(score.Text(), core.ScaleFive)
	}
	return novel, nil
}

func (b *BoxNovel) SearchPagination() web.PageProbe {
	return web.LastPageLink{Selector: `a:contains("Last")`}
}

func (b *BoxNovel) PopularRequest(page int) (*network.Request, error) {
	return b.Get(b.searchPath(page, "", "views")), nil
}

func (b *BoxNovel) ParsePopular(resp *network.Response) (*core.ResultPage, error) {
	return b.ParseSearch(resp)
}

func (b *BoxNovel) LatestRequest(page int) (*network.Request, error) {
	return b.Get(b.searchPath(page, "", "latest")), nil
}

func (b *BoxNovel) ParseLatest(resp *network.Response) (*core.ResultPage, error) {
	return b.ParseSearch(resp)
}

// DetailsFromDocument copies every post-content heading into metadata
func (b *BoxNovel) DetailsFromDocument(_ context.Context, novel *core.Novel, doc *html.Document) error {
	if img := doc.Select("div.summary_image img[src]").FirstOrNil(); img != nil {
		novel.ImageURL = core.OptionalString(img.AbsAttr("src"))
	}
	if desc := doc.Select("div.description-summary").FirstOrNil(); desc != nil {
		novel.LongDescription = core.OptionalString(desc.Text())
	}

	for _, item := range doc.Select("div.post-content_item").All() {
		heading := item.Find("div.summary-heading").FirstOrNil()
		if heading == nil {
			continue
		}
		content := item.Find("div.summary-content").FirstOrNil()
		if content == nil {
			continue
		}
		if children := content.Children(); len(children) > 0 {
			novel.Metadata.Set(heading.Text(), children[0].HTML())
		}
	}

	novel.SetChaptersCount(int64(doc.Select(b.ChapterListSelector()).Count()))
	return nil
}

func (b *BoxNovel) ChapterListSelector() string { return "li.wp-manga-chapter a" }

func (b *BoxNovel) ChapterFromElement(el *html.Element) (*core.Chapter, error) {
	return core.NewChapter(el.AbsAttr("href"), el.Text()), nil
}

func childTexts(el *html.Element) []string {
	var out []string
	for _, child := range el.Children() {
		if text := child.Text(); text != "" {
			out = append(out, text)
		}
	}
	return out
}
