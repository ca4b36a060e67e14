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
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"Lectern/pkg/catalog"
	"Lectern/pkg/core"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/engine/parser"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
	"Lectern/pkg/source/base"
	"Lectern/pkg/source/common"
	"Lectern/pkg/source/registry"
	"github.com/tidwall/gjson"
)

const (
	neovelID      int64 = 3
	neovelBaseURL       = "https://neoread.neovel.io"
)

// Neovel talks to the JSON API behind neovel.io. Genre and tag names come
// from two catalog endpoints shared through the engine's catalog registry.
type Neovel struct {
	*base.Provider
	genres *catalog.Lookup
	tags   *catalog.Lookup
}

func init() {
	registry.Register(func(e *engine.Engine) source.Source {
		return newNeovel(e, neovelBaseURL)
	})
}

func newNeovel(e *engine.Engine, baseURL string) *Neovel {
	n := &Neovel{}
	n.Provider = base.New(e, base.Config{
		ID:      neovelID,
		Name:    "Neovel",
		BaseURL: baseURL,
		Client:  network.ClientDefault,
	}, n)

	n.genres = e.Catalogs.Lookup("neovel.genres", n.catalogFetcher("/V1/genres"))
	n.tags = e.Catalogs.Lookup("neovel.tags", n.catalogFetcher("/V1/tags"))
	return n
}

// Filters lists the search filters Neovel understands
func (n *Neovel) Filters() source.FilterList {
	return source.FilterList{{Name: "language", Value: "ALL"}}
}

func (n *Neovel) SearchRequest(page int, query string, filters source.FilterList) (*network.Request, error) {
	q := url.Values{}
	q.Set("language", filters.Value("language", "ALL"))
	q.Set("filter", "0")
	q.Set("name", base64.StdEncoding.EncodeToString([]byte(query)))
	q.Set("sort", "6")
	q.Set("page", strconv.Itoa(page-1))
	q.Set("onlyOffline", "true")
	q.Set("genreIds", "0")
	q.Set("genreCombining", "0")
	q.Set("tagIds", "0")
	q.Set("tagCombining", "0")
	q.Set("minChapterCount", "0")
	q.Set("maxChapterCount", "4000")
	return n.Get("/V2/books/search?" + q.Encode()), nil
}

// ParseSearch reads the result array. The API has no pagination signal,
// so every page reports no next page.
func (n *Neovel) ParseSearch(resp *network.Response) (*core.ResultPage, error) {
	root, err := resp.JSON()
	if err != nil {
		return nil, err
	}
	if !root.IsArray() {
		return nil, errors.Track(fmt.Errorf("search payload is not an array")).AsParsing().Error()
	}

	page := &core.ResultPage{Novels: []*core.Novel{}}
	for _, item := range root.Array() {
		id := item.Get("id")
		if !id.Exists() {
			return nil, errors.Track(fmt.Errorf("search result without id")).AsParsing().Error()
		}
		bookID := strconv.FormatInt(id.Int(), 10)

		novel := core.NewNamedNovel(
			parser.StringOr(item, "name", ""),
			n.URLWithoutDomain(n.AbsURL("/V1/book/details?bookId="+bookID+"&language=EN")),
			n.ID(),
		)
		novel.ImageURL = core.String(n.AbsURL("/V2/book/image?bookId=" + bookID + "&oldApp=false"))
		novel.Metadata.Set("id", bookID)
		novel.ExternalNovelID = core.String(bookID)
		if rating := parser.NullFreeFloat(item, "rating"); rating != nil {
			r := core.NormalizeRating(*rating, core.ScaleFive)
			novel.Rating = &r
		}
		page.Novels = append(page.Novels, novel)
	}
	return page, nil
}

// bookID resolves the numeric book id from the external id, the search
// metadata or the novel URL
func (n *Neovel) bookID(novel *core.Novel) (string, error) {
	if id, ok := novel.ExternalID(); ok {
		return id, nil
	}
	if id, ok := novel.Metadata.Get("id"); ok && id != "" {
		return id, nil
	}
	if u, err := url.Parse(novel.URL); err == nil {
		if id := u.Query().Get("bookId"); id != "" {
			return id, nil
		}
	}
	return base.RequireExternalID(novel)
}

func (n *Neovel) DetailsRequest(novel *core.Novel) (*network.Request, error) {
	id, err := n.bookID(novel)
	if err != nil {
		return nil, err
	}
	return n.Get("/V1/page/book?bookId=" + url.QueryEscape(id) + "&language=EN"), nil
}

func (n *Neovel) ParseDetails(ctx context.Context, novel *core.Novel, resp *network.Response) error {
	root, err := resp.JSON()
	if err != nil {
		return err
	}
	if !root.IsObject() {
		return errors.Track(fmt.Errorf("details payload is not an object")).AsParsing().Error()
	}

	if id, err := n.bookID(novel); err == nil {
		novel.ExternalNovelID = core.String(id)
	}

	authors := parser.Strings(root.Get("authorsDto"), "name")
	if authors != nil {
		novel.Authors = authors
		novel.Metadata.Set("Author(s)", strings.Join(authors, ", "))
	}

	book := root.Get("bookDto")
	novel.LongDescription = parser.NullFreeString(book, "bookDescription")
	if count := parser.NullFreeInt(book, "nbrReleases"); count != nil {
		novel.SetChaptersCount(*count)
	}

	// catalog failures only leave these fields out
	if genres, ok := n.lookupNames(ctx, n.genres, book.Get("genreIds")); ok && len(genres) > 0 {
		novel.Genres = genres
		novel.Metadata.Set("Genre(s)", strings.Join(genres, ", "))
	}
	if tags, ok := n.lookupNames(ctx, n.tags, book.Get("tagIds")); ok && len(tags) > 0 {
		novel.Metadata.Set("Tag(s)", strings.Join(tags, ", "))
	}

	novel.Metadata.Set("Release Frequency", parser.StringOr(book, "releaseFrequency", "N/A"))
	novel.Metadata.SetOptional("Chapter Read Count", parser.NullFreeString(book, "chapterReadCount"))
	novel.Metadata.Set("Followers", parser.StringOr(book, "followers", "N/A"))
	novel.Metadata.SetOptional("Mature Content", parser.NullFreeString(book, "matureContent"))
	return nil
}

func (n *Neovel) lookupNames(ctx context.Context, l *catalog.Lookup, ids gjson.Result) ([]string, bool) {
	if l.Table(ctx) == nil {
		return nil, false
	}
	var keys []int
	for _, id := range ids.Array() {
		keys = append(keys, int(id.Int()))
	}
	return l.Names(ctx, keys), true
}

func (n *Neovel) catalogFetcher(path string) catalog.FetchFunc {
	return func(ctx context.Context) (map[int]string, error) {
		resp, err := n.Engine().Client(n.ClientKind()).Do(ctx, n.Get(path))
		if err != nil {
			return nil, err
		}
		root, err := resp.JSON()
		if err != nil {
			return nil, err
		}
		if !root.IsArray() {
			return nil, errors.Track(fmt.Errorf("catalog %s is not an array", path)).AsParsing().Error()
		}

		table := make(map[int]string)
		for _, entry := range root.Array() {
			if name := parser.NullFreeString(entry, "en"); name != nil && entry.Get("id").Exists() {
				table[int(entry.Get("id").Int())] = *name
			}
		}
		return table, nil
	}
}

func (n *Neovel) ChapterListRequest(novel *core.Novel) (*network.Request, error) {
	id, err := n.bookID(novel)
	if err != nil {
		return nil, err
	}
	return n.Get("/V5/chapters?bookId=" + url.QueryEscape(id) + "&language=EN"), nil
}

// ParseChapterList sorts releases by volume then chapter number
func (n *Neovel) ParseChapterList(_ *core.Novel, resp *network.Response) ([]*core.Chapter, error) {
	root, err := resp.JSON()
	if err != nil {
		return nil, err
	}
	if !root.IsArray() {
		return nil, errors.Track(fmt.Errorf("chapter payload is not an array")).AsParsing().Error()
	}

	var records []common.NumberedChapter
	for _, item := range root.Array() {
		volume := item.Get("chapterVolume").Float()
		number := item.Get("chapterNumber").Float()

		parts := []string{decimal(volume), decimal(number)}
		if name := parser.NullFreeString(item, "chapterName"); name != nil {
			parts = append(parts, *name)
		}

		ch := core.NewChapter(
			fmt.Sprintf("%s/read/%s/%s/%s", n.BaseURL(), item.Get("bookId").String(), item.Get("language").String(), item.Get("chapterId").String()),
			strings.Join(parts, " - "),
		)
		ch.TranslatorSourceName = parser.NullFreeString(item, "websiteName")
		records = append(records, common.NumberedChapter{Chapter: ch, Volume: volume, Number: number})
	}

	return common.SortByVolumeChapter(records), nil
}

// decimal renders a number with at least one fractional digit
func decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
