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

package registry

import (
	"context"
	"testing"

	"Lectern/pkg/core"
	"Lectern/pkg/engine"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed struct {
	id   int64
	name string
}

func (f fixed) ID() int64    { return f.id }
func (f fixed) Name() string { return f.name }
func (f fixed) FetchNovelDetails(_ context.Context, n *core.Novel) (*core.Novel, error) {
	return n, nil
}
func (f fixed) FetchChapterList(context.Context, *core.Novel) ([]*core.Chapter, error) {
	return nil, nil
}

func TestLoadAll(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(func(*engine.Engine) source.Source { return fixed{id: 3, name: "Neovel"} })
	Register(func(*engine.Engine) source.Source { return nil })
	Register(func(*engine.Engine) source.Source { return fixed{id: 3, name: "Clash"} })
	assert.Equal(t, 3, Count())

	opts := engine.DefaultOptions()
	opts.Logger = logger.Nop()
	e, err := engine.New(opts)
	require.NoError(t, err)

	err = LoadAll(e)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfiguration, errors.GetCategory(err))
	assert.Equal(t, 1, e.SourceCount())

	src, err := e.Source(3)
	require.NoError(t, err)
	assert.Equal(t, "Neovel", src.Name())
}
