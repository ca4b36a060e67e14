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

package rpc

import (
	"context"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"testing"

	"Lectern/pkg/core"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	id   int64
	name string
	lang string
	fail error
}

func (s *stubSource) ID() int64                  { return s.id }
func (s *stubSource) Name() string               { return s.name }
func (s *stubSource) Lang() string               { return s.lang }
func (s *stubSource) SupportsLatest() bool       { return false }
func (s *stubSource) Filters() source.FilterList { return nil }

func (s *stubSource) SearchNovels(_ context.Context, page int, query string, _ source.FilterList) (*core.ResultPage, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	novel := core.NewNamedNovel(fmt.Sprintf("%s %s p%d", s.name, query, page), "/n/1", s.id)
	return &core.ResultPage{Novels: []*core.Novel{novel}, HasNextPage: true}, nil
}

func (s *stubSource) FetchNovelDetails(_ context.Context, novel *core.Novel) (*core.Novel, error) {
	out := novel.Clone()
	out.Name = "Detailed"
	out.ExternalNovelID = core.String("ext-9")
	return out, nil
}

func (s *stubSource) FetchChapterList(_ context.Context, novel *core.Novel) ([]*core.Chapter, error) {
	if novel.ExternalNovelID == nil {
		return nil, errors.Track(errors.ErrMissingExternalID).AsMissingExternalID().Error()
	}
	return []*core.Chapter{
		core.NewChapter("https://stub/"+*novel.ExternalNovelID+"/1", "Chapter 1"),
		core.NewChapter("https://stub/"+*novel.ExternalNovelID+"/2", "Chapter 2"),
	}, nil
}

func (s *stubSource) FetchPopular(context.Context, int) (source.Listing, error) {
	return source.Supported(&core.ResultPage{Novels: []*core.Novel{core.NewNamedNovel("Hot", "/hot", s.id)}}), nil
}

func (s *stubSource) FetchLatest(context.Context, int) (source.Listing, error) {
	return source.Unsupported(), nil
}

func newClient(t *testing.T, stubs ...*stubSource) *rpc.Client {
	t.Helper()

	opts := engine.DefaultOptions()
	opts.Logger = logger.Nop()
	e, err := engine.New(opts)
	require.NoError(t, err)
	for _, s := range stubs {
		require.NoError(t, e.RegisterSource(s))
	}

	server, err := NewServer(context.Background(), e, "1.2.3", WithConcurrency(2))
	require.NoError(t, err)

	serverConn, clientConn := net.Pipe()
	go server.ServeCodec(jsonrpc.NewServerCodec(serverConn))

	client := jsonrpc.NewClient(clientConn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestVersionAndSources(t *testing.T) {
	client := newClient(t, &stubSource{id: 1, name: "Alpha", lang: "en"}, &stubSource{id: 2, name: "Beta", lang: "ja"})

	var version VersionInfo
	require.NoError(t, client.Call("Version.Get", &struct{}{}, &version))
	assert.Equal(t, "1.2.3", version.Version)
	assert.Equal(t, 2, version.SourceCount)

	var sources []SourceInfo
	require.NoError(t, client.Call("Sources.List", &SourcesRequest{Lang: "japanese"}, &sources))
	require.Len(t, sources, 1)
	assert.Equal(t, "Beta", sources[0].Name)
	assert.True(t, sources[0].Capabilities.Search)
}

func TestSearchQuery(t *testing.T) {
	client := newClient(t,
		&stubSource{id: 1, name: "Alpha", lang: "en"},
		&stubSource{id: 2, name: "Beta", lang: "en", fail: errors.Track(fmt.Errorf("bad json")).AsParsing().Error()},
	)

	var reply SearchResponse
	require.NoError(t, client.Call("Search.Query", &SearchRequest{Query: "dao"}, &reply))
	assert.Equal(t, 1, reply.Page)
	require.Len(t, reply.Results, 2)
	assert.Equal(t, "Alpha dao p1", reply.Results[0].Page.Novels[0].Name)
	assert.Contains(t, reply.Results[1].Error, "bad json")

	err := client.Call("Search.Query", &SearchRequest{Query: "dao", SourceID: 2}, &reply)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("RPC Error %d (parsing)", ErrCodeParsing))

	err = client.Call("Search.Query", &SearchRequest{Query: "dao", SourceID: 99}, &reply)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("RPC Error %d", ErrCodeUnknownSource))
}

func TestNovelDetailsAndChapters(t *testing.T) {
	client := newClient(t, &stubSource{id: 1, name: "Alpha", lang: "en"})

	var novel core.Novel
	require.NoError(t, client.Call("Novel.Details", &NovelRequest{SourceID: 1, URL: "/n/1"}, &novel))
	assert.Equal(t, "Detailed", novel.Name)
	require.NotNil(t, novel.ExternalNovelID)

	var chapters ChaptersResponse
	require.NoError(t, client.Call("Novel.Chapters", &NovelRequest{SourceID: 1, URL: "/n/1"}, &chapters))
	assert.Equal(t, 2, chapters.Count)
	assert.Equal(t, "https://stub/ext-9/1", chapters.Chapters[0].URL)

	// passing back the detailed novel skips the extra details request
	require.NoError(t, client.Call("Novel.Chapters", &NovelRequest{SourceID: 1, Novel: &novel}, &chapters))
	assert.Equal(t, 2, chapters.Count)

	err := client.Call("Novel.Chapters", &NovelRequest{SourceID: 1, URL: "/n/1", SkipDetails: true}, &chapters)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("RPC Error %d (missing_external_id)", ErrCodeDetailsMissing))
}

func TestListings(t *testing.T) {
	client := newClient(t, &stubSource{id: 1, name: "Alpha", lang: "en"})

	var popular ListingResponse
	require.NoError(t, client.Call("Listing.Popular", &ListingRequest{SourceID: 1}, &popular))
	assert.True(t, popular.Supported)
	assert.Equal(t, "Hot", popular.Page.Novels[0].Name)

	var latest ListingResponse
	require.NoError(t, client.Call("Listing.Latest", &ListingRequest{SourceID: 1, Page: 2}, &latest))
	assert.False(t, latest.Supported)
	assert.Nil(t, latest.Page)
}

func TestNewErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{errors.Track(errors.ErrNotFound).Error(), ErrCodeNotFound},
		{errors.Track(fmt.Errorf("refused")).AsNetwork().Error(), ErrCodeNetwork},
		{errors.Track(errors.ErrInvalidNovel).Error(), ErrCodeInvalidNovel},
		{errors.Track(errors.ErrNotUsed).Error(), ErrCodeUnsupported},
		{fmt.Errorf("plain"), ErrCodeInternalError},
	}
	for _, tt := range tests {
		rpcErr := NewError(tt.err, "Test", "Call", nil)
		assert.Equal(t, tt.code, rpcErr.Code, tt.err.Error())
	}

	notFound := NewError(errors.Track(errors.ErrNotFound).Error(), "Novel", "Details", nil)
	assert.True(t, notFound.IsNetworkIssue())
	assert.False(t, notFound.IsRetryable())
	assert.Equal(t, "Call Novel.Details first and pass the returned novel",
		NewError(errors.Track(errors.ErrMissingExternalID).Error(), "Novel", "Chapters", nil).GetSuggestedAction())
}
