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

package engine

import (
	"context"
	"testing"

	"Lectern/pkg/core"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	id   int64
	name string
}

func (s stubSource) ID() int64    { return s.id }
func (s stubSource) Name() string { return s.name }
func (s stubSource) FetchNovelDetails(_ context.Context, n *core.Novel) (*core.Novel, error) {
	return n.Clone(), nil
}
func (s stubSource) FetchChapterList(context.Context, *core.Novel) ([]*core.Chapter, error) {
	return nil, nil
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.Logger = logger.Nop()
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

func TestRegistryKeyedByID(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.RegisterSource(stubSource{id: 5, name: "Box Novel"}))
	require.NoError(t, e.RegisterSource(stubSource{id: 3, name: "Neovel"}))

	src, err := e.Source(3)
	require.NoError(t, err)
	assert.Equal(t, "Neovel", src.Name())

	_, err = e.Source(42)
	assert.Equal(t, errors.CategoryConfiguration, errors.GetCategory(err))
	assert.Contains(t, err.Error(), "42")

	err = e.RegisterSource(stubSource{id: 5, name: "Duplicate"})
	assert.Equal(t, errors.CategoryConfiguration, errors.GetCategory(err))

	names := []string{}
	for _, s := range e.AllSources() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"Box Novel", "Neovel"}, names)
	assert.Equal(t, 2, e.SourceCount())

	_, err = e.CatalogueSource(3)
	assert.True(t, errors.IsUnsupported(err))
}

func TestEngineSharesClients(t *testing.T) {
	e := newTestEngine(t)

	assert.Same(t, e.Client(network.ClientAntiBot), e.Client(network.ClientAntiBot))
	assert.Equal(t, network.ClientAntiBot, e.Client(network.ClientAntiBot).Kind())
	assert.Equal(t, network.ClientDefault, e.Client(network.ClientDefault).Kind())
	assert.NotNil(t, e.Catalogs)
	assert.NoError(t, e.Shutdown())
}
