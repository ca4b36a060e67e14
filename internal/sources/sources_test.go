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

	"Lectern/pkg/engine"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/source"
	"Lectern/pkg/source/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	opts := engine.DefaultOptions()
	opts.Logger = logger.Nop()
	opts.Network.RateLimit = 0
	opts.Network.MaxRetries = 0
	e, err := engine.New(opts)
	require.NoError(t, err)
	return e
}

// serve answers each path with a fixed body
func serve(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAllAdaptersRegister(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, registry.LoadAll(e))
	assert.Equal(t, 7, e.SourceCount())

	neovel, err := e.Source(neovelID)
	require.NoError(t, err)
	assert.Equal(t, "Neovel", neovel.Name())

	box, err := e.CatalogueSource(boxNovelID)
	require.NoError(t, err)
	caps := source.CapabilitiesOf(box)
	assert.True(t, caps.Popular)
	assert.True(t, caps.Latest)
}

func TestListingsOfAdaptersWithoutThem(t *testing.T) {
	e := newTestEngine(t)
	n := newNovelBin(e, "https://novelbin.invalid")

	listing, err := n.FetchLatest(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, listing.Supported)
	assert.False(t, n.SupportsLatest())
}
