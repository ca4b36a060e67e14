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

package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"Lectern/pkg/core"
	"Lectern/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	id       int64
	fail     bool
	inFlight *atomic.Int32
	peak     *atomic.Int32
}

func (c *countingSource) ID() int64                  { return c.id }
func (c *countingSource) Name() string               { return fmt.Sprintf("src-%d", c.id) }
func (c *countingSource) Lang() string               { return "en" }
func (c *countingSource) SupportsLatest() bool       { return false }
func (c *countingSource) Filters() source.FilterList { return nil }

func (c *countingSource) SearchNovels(_ context.Context, page int, query string, _ source.FilterList) (*core.ResultPage, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)

	if c.fail {
		return nil, fmt.Errorf("site down")
	}
	return &core.ResultPage{Novels: []*core.Novel{core.NewNamedNovel(query, "/x", c.id)}}, nil
}

func (c *countingSource) FetchNovelDetails(_ context.Context, n *core.Novel) (*core.Novel, error) {
	return n, nil
}
func (c *countingSource) FetchChapterList(context.Context, *core.Novel) ([]*core.Chapter, error) {
	return nil, nil
}
func (c *countingSource) FetchPopular(context.Context, int) (source.Listing, error) {
	return source.Unsupported(), nil
}
func (c *countingSource) FetchLatest(context.Context, int) (source.Listing, error) {
	return source.Unsupported(), nil
}

func TestSearchAcrossSourcesBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	var sources []source.CatalogueSource
	for i := 1; i <= 6; i++ {
		sources = append(sources, &countingSource{id: int64(i), fail: i == 3, inFlight: &inFlight, peak: &peak})
	}

	ctx := WithConcurrency(context.Background(), 2)
	results := NewService(nil).SearchAcrossSources(ctx, sources, 1, "dao", nil)

	require.Len(t, results, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	for i, r := range results {
		assert.Equal(t, int64(i+1), r.SourceID)
		if r.SourceID == 3 {
			assert.Error(t, r.Err)
			assert.Contains(t, r.Error, "site down")
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, "dao", r.Page.Novels[0].Name)
	}
}

func TestGetConcurrency(t *testing.T) {
	assert.Equal(t, 7, GetConcurrency(context.Background(), 7))
	assert.Equal(t, 3, GetConcurrency(WithConcurrency(context.Background(), 3), 7))
	assert.Equal(t, 7, GetConcurrency(WithConcurrency(context.Background(), 0), 7))
}
