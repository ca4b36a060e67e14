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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"Lectern/pkg/core"
	"Lectern/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ranobesSearch = `<html><body>
<div class="block story shortstory mod-poster">
  <h2 class="title"><a href="/novels/1234-lord-of-ash.html">Lord of Ash</a></h2>
  <ul><li class="current-rating">90</li></ul>
</div>
<div class="block story shortstory mod-poster">
  <h2 class="title"><a href="/novels/99-quiet.html">Quiet</a></h2>
</div>
<a id="nextlink" href="#">Next</a>
</body></html>`

const ranobesDetails = `<html><head>
<meta property="og:image" content="/covers/1234.jpg">
<meta name="keywords" content="Action, Fantasy">
</head><body>
<div itemprop="description">Ash falls.</div>
<span itemprop="alternateName">by Ember</span>
<span class="tag_list" itemprop="creator"><a href="/author/ember">Ember</a></span>
</body></html>`

func TestRanobesSearchPostsForm(t *testing.T) {
	var form map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/index.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"story":        r.PostForm.Get("story"),
			"search_start": r.PostForm.Get("search_start"),
			"result_from":  r.PostForm.Get("result_from"),
		}
		_, _ = io.WriteString(w, ranobesSearch)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	r := newRanobes(newTestEngine(t), srv.URL)
	page, err := r.SearchNovels(context.Background(), 3, "ash", nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"story": "ash", "search_start": "3", "result_from": "21"}, form)
	assert.True(t, page.HasNextPage)
	require.Len(t, page.Novels, 2)
	assert.Equal(t, "/novels/1234-lord-of-ash.html", page.Novels[0].URL)
	assert.Equal(t, "4.5", page.Novels[0].Rating.String())
	assert.Nil(t, page.Novels[1].Rating)
}

func TestRanobesSearchInvalidNovel(t *testing.T) {
	srv := serve(t, map[string]string{
		"/index.php": `<div class="block story shortstory mod-poster"><h2 class="title">no link</h2></div>`,
	})
	r := newRanobes(newTestEngine(t), srv.URL)

	_, err := r.SearchNovels(context.Background(), 1, "x", nil)
	assert.True(t, errors.IsInvalidNovel(err))
}

func TestRanobesDetailsThenChapters(t *testing.T) {
	srv := serve(t, map[string]string{
		"/novels/1234-lord-of-ash.html": ranobesDetails,
		"/v2/chapter/1234/list":         volumeChapters,
	})
	r := newRanobes(newTestEngine(t), srv.URL)
	novel := core.NewNamedNovel("Lord of Ash", "/novels/1234-lord-of-ash.html", r.ID())

	_, err := r.FetchChapterList(context.Background(), novel)
	assert.True(t, errors.IsMissingExternalID(err))

	details, err := r.FetchNovelDetails(context.Background(), novel)
	require.NoError(t, err)
	assert.Equal(t, "Ash falls.", *details.LongDescription)
	assert.Equal(t, []string{"Ember"}, details.Authors)
	assert.Equal(t, []string{"Action", "Fantasy"}, details.Genres)
	assert.Equal(t, srv.URL+"/covers/1234.jpg", *details.ImageURL)
	id, ok := details.ExternalID()
	require.True(t, ok)
	assert.Equal(t, "1234", id)

	chapters, err := r.FetchChapterList(context.Background(), details)
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, srv.URL+"/books/1234/11/mobile", chapters[0].URL)
}
