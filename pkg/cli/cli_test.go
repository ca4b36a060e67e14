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

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"Lectern/pkg/core"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlainFormatter(buf *bytes.Buffer) *Formatter {
	color.NoColor = true
	return NewFormatter(buf)
}

func TestOutputJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputJSON(&buf, "success", map[string]int{"count": 2}, nil))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, map[string]interface{}{"count": float64(2)}, resp["data"])

	buf.Reset()
	require.NoError(t, OutputJSON(&buf, "success", "ignored", fmt.Errorf("boom")))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "boom", resp["error"])
}

func TestPrintResultPage(t *testing.T) {
	var buf bytes.Buffer
	f := newPlainFormatter(&buf)

	novel := core.NewNamedNovel("Sword God", "/book/1", 3)
	r := core.NormalizeRating(9, core.ScaleTen)
	novel.Rating = &r
	f.PrintResultPage("Results", &core.ResultPage{Novels: []*core.Novel{novel}, HasNextPage: true})

	out := buf.String()
	assert.Contains(t, out, "Sword God")
	assert.Contains(t, out, "/book/1")
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "--page")
}

func TestPrintNovelAndChapters(t *testing.T) {
	var buf bytes.Buffer
	f := newPlainFormatter(&buf)

	novel := core.NewNamedNovel("Sword God", "/book/1", 3)
	novel.ExternalNovelID = core.String("77")
	novel.Metadata.Set("Status", "Ongoing")
	f.PrintNovel(novel, "Neovel")

	ch := core.NewChapter("https://x/1", "Start")
	ch.OrderID = 0
	f.PrintChapters([]*core.Chapter{ch})

	out := buf.String()
	assert.Contains(t, out, "External ID: 77")
	assert.Contains(t, out, "Status: Ongoing")
	assert.Contains(t, out, "Chapters (1)")
	assert.Contains(t, out, "Start")
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	f := newPlainFormatter(&buf)

	assert.False(t, f.HandleError(nil, nil))
	assert.True(t, f.HandleError(fmt.Errorf("plain failure"), nil))
	assert.Contains(t, buf.String(), "plain failure")
}
