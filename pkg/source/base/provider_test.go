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

package base

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"Lectern/pkg/core"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonSite is a minimal JSON adapter used to exercise the template
type jsonSite struct {
	*Provider
}

func (s *jsonSite) SearchRequest(page int, query string, _ source.FilterList) (*network.Request, error) {
	return s.Get(fmt.Sprintf("/search?q=%s&page=%d", url.QueryEscape(query), page)), nil
}

func (s *jsonSite) ParseSearch(resp *network.Response) (*core.ResultPage, error) {
	root, err := resp.JSON()
	if err != nil {
		return nil, err
	}
	page := &core.ResultPage{HasNextPage: root.Get("more").Bool()}
	for _, item := range root.Get("items").Array() {
		page.Novels = append(page.Novels, core.NewNamedNovel(item.Get("title").String(), s.URLWithoutDomain(s.AbsURL(item.Get("url").String())), s.ID()))
	}
	return page, nil
}

func (s *jsonSite) ParseDetails(_ context.Context, novel *core.Novel, resp *network.Response) error {
	root, err := resp.JSON()
	if err != nil {
		return err
	}
	novel.ExternalNovelID = core.String(root.Get("id").String())
	novel.Authors = []string{root.Get("author").String()}
	return nil
}

func (s *jsonSite) ChapterListRequest(novel *core.Novel) (*network.Request, error) {
	id, err := RequireExternalID(novel)
	if err != nil {
		return nil, err
	}
	return s.Get("/chapters/" + id), nil
}

func (s *jsonSite) ParseChapterList(_ *core.Novel, resp *network.Response) ([]*core.Chapter, error) {
	root, err := resp.JSON()
	if err != nil {
		return nil, err
	}
	var chapters []*core.Chapter
	for i, c := range root.Array() {
		ch := core.NewChapter(c.Get("url").String(), c.Get("name").String())
		ch.OrderID = int64(i)
		chapters = append(chapters, ch)
	}
	return chapters, nil
}

// PopularRequest gives jsonSite a popular listing but no latest one
func (s *jsonSite) PopularRequest(page int) (*network.Request, error) {
	return s.Get(fmt.Sprintf("/popular?page=%d", page)), nil
}

func (s *jsonSite) ParsePopular(resp *network.Response) (*core.ResultPage, error) {
	return s.ParseSearch(resp)
}

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Logger = logger.Nop()
	opts.Network.RateLimit = 0
	opts.Network.MaxRetries = 0
	opts.Network.BaseBackoff = time.Millisecond
	e, err := engine.New(opts)
	require.NoError(t, err)
	return e
}

func newJSONSite(t *testing.T, baseURL string) *jsonSite {
	s := &jsonSite{}
	s.Provider = New(newEngine(t), Config{Name: "Test Site", BaseURL: baseURL + "/"}, s)
	return s
}

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, network.DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Referer"))
		_, _ = fmt.Fprintf(w, `{"more":true,"items":[{"title":"Found %s","url":"/novel/1"}]}`, r.URL.Query().Get("q"))
	})
	mux.HandleFunc("/novel/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"77","author":"Er Gen"}`)
	})
	mux.HandleFunc("/chapters/77", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"url":"/c/1","name":"One"},{"url":"/c/2","name":"Two"}]`)
	})
	mux.HandleFunc("/popular", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"more":false,"items":[]}`)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>changed layout</html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchDetailsChaptersFlow(t *testing.T) {
	srv := newServer(t)
	site := newJSONSite(t, srv.URL)
	ctx := context.Background()

	page, err := site.SearchNovels(ctx, 1, "dao", nil)
	require.NoError(t, err)
	require.Len(t, page.Novels, 1)
	assert.True(t, page.HasNextPage)

	found := page.Novels[0]
	assert.Equal(t, "Found dao", found.Name)
	assert.Equal(t, "/novel/1", found.URL)
	assert.Equal(t, site.ID(), found.SourceID)

	// chapters before details is a sequencing error
	_, err = site.FetchChapterList(ctx, found)
	require.Error(t, err)
	assert.True(t, errors.IsMissingExternalID(err))

	detailed, err := site.FetchNovelDetails(ctx, found)
	require.NoError(t, err)
	assert.True(t, detailed.Equal(found))
	assert.Nil(t, found.ExternalNovelID, "input novel is not mutated")
	assert.Equal(t, []string{"Er Gen"}, detailed.Authors)

	chapters, err := site.FetchChapterList(ctx, detailed)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Two", chapters[1].Name)
}

func TestConcurrentDetailsAndChapters(t *testing.T) {
	srv := newServer(t)
	site := newJSONSite(t, srv.URL)
	novel := core.NewNovel("/novel/1", site.ID())
	novel.ExternalNovelID = core.String("77")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := site.FetchNovelDetails(context.Background(), novel)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := site.FetchChapterList(context.Background(), novel)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Nil(t, novel.Authors)
}

func TestListings(t *testing.T) {
	srv := newServer(t)
	site := newJSONSite(t, srv.URL)

	popular, err := site.FetchPopular(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, popular.Supported)
	assert.False(t, popular.Page.HasNextPage)

	latest, err := site.FetchLatest(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, latest.Supported)

	assert.Equal(t, source.Capabilities{Search: true, Popular: true}, source.CapabilitiesOf(site))
}

func TestParseErrorsAreTagged(t *testing.T) {
	srv := newServer(t)
	site := newJSONSite(t, srv.URL)

	_, err := site.FetchNovelDetails(context.Background(), core.NewNovel("/broken", site.ID()))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParsing)
	assert.Equal(t, site.ID(), errors.GetContextValue(err, "source_id"))

	_, err = site.FetchNovelDetails(context.Background(), core.NewNovel("/missing", site.ID()))
	assert.ErrorIs(t, err, errors.ErrNetwork)
	assert.True(t, errors.IsNotFound(err))
}

func TestURLHelpers(t *testing.T) {
	p := New(newEngine(t), Config{Name: "Box Novel", BaseURL: "https://boxnovel.com/"}, nil)

	tests := []struct {
		in, want string
	}{
		{"https://boxnovel.com/novel/abc/?x=1#top", "/novel/abc/?x=1#top"},
		{"https://BOXNOVEL.com", "/"},
		{"https://cdn.other.com/img.png", "https://cdn.other.com/img.png"},
		{"/already/relative", "/already/relative"},
		{"::not a url", "::not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, p.URLWithoutDomain(tt.in))
		})
	}

	assert.Equal(t, "https://boxnovel.com/novel/abc", p.AbsURL("/novel/abc"))
	assert.Equal(t, "https://boxnovel.com/novel/abc", p.AbsURL("novel/abc"))
	assert.Equal(t, "https://x.org/a", p.AbsURL("https://x.org/a"))
	assert.Equal(t, "https://boxnovel.com/", p.BuildHeaders()["Referer"])
}

func TestSourceIDs(t *testing.T) {
	e := newEngine(t)
	explicit := New(e, Config{ID: 5, Name: "Box Novel"}, nil)
	generated := New(e, Config{Name: "Novel Bin"}, nil)

	assert.Equal(t, int64(5), explicit.ID())
	assert.Equal(t, core.GenerateSourceID("Novel Bin", "en", 1), generated.ID())
	assert.Positive(t, generated.ID())
}

func TestRequireExternalID(t *testing.T) {
	novel := core.NewNovel("/n", 1)
	_, err := RequireExternalID(novel)
	assert.ErrorIs(t, err, errors.ErrMissingExternalID)

	novel.ExternalNovelID = core.String("")
	_, err = RequireExternalID(novel)
	assert.ErrorIs(t, err, errors.ErrMissingExternalID)

	novel.ExternalNovelID = core.String("12")
	id, err := RequireExternalID(novel)
	require.NoError(t, err)
	assert.Equal(t, "12", id)
}

func TestBuildHeadersUserAgent(t *testing.T) {
	opts := engine.DefaultOptions()
	opts.Logger = logger.Nop()
	opts.Network.UserAgent = "configured/1.0"
	e, err := engine.New(opts)
	require.NoError(t, err)

	fromEngine := New(e, Config{Name: "Plain", BaseURL: "https://plain.example"}, nil)
	assert.Equal(t, "configured/1.0", fromEngine.BuildHeaders()["User-Agent"])

	own := New(e, Config{Name: "Own", BaseURL: "https://own.example", UserAgent: "site/3"}, nil)
	assert.Equal(t, "site/3", own.BuildHeaders()["User-Agent"])
	assert.Equal(t, "https://own.example/", own.BuildHeaders()["Referer"])
}
