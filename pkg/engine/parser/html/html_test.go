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

package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<html><head><title> Shelf </title>
<meta property="og:image" content="/covers/1.jpg">
<meta name="keywords" content="Action, Drama"></head>
<body>
<div class="row"><h3 class="novel-title"><a href="/b/one">One</a></h3><img class="cover" src="//cdn.example.org/1.png"></div>
<div class="row"><h3 class="novel-title"><a href="https://other.org/b/two">  Two
  Words </a></h3></div>
<ul><li class="next"><a href="?page=2">Next</a></li><li class="next disabled">x</li></ul>
<p class="count">Chapters: 1,204 <span>new</span></p>
</body></html>`

func TestSelectAndResolve(t *testing.T) {
	doc, err := ParseString(fixture, "https://site.example.com/search?q=x")
	require.NoError(t, err)

	assert.Equal(t, "Shelf", doc.Title())
	assert.Equal(t, "https://site.example.com/covers/1.jpg", doc.Resolve(doc.Meta("og:image")))
	assert.Equal(t, "Action, Drama", doc.Meta("keywords"))

	rows := doc.Select("div.row").All()
	require.Len(t, rows, 2)

	link := rows[0].Find("h3.novel-title a").FirstOrNil()
	require.NotNil(t, link)
	assert.Equal(t, "One", link.Text())
	assert.Equal(t, "https://site.example.com/b/one", link.AbsAttr("href"))
	assert.Equal(t, "https://cdn.example.org/1.png", rows[0].Find("img.cover").FirstOrNil().AbsAttr("src"))

	second := rows[1].Find("a").FirstOrNil()
	assert.Equal(t, "Two Words", second.Text())
	assert.Equal(t, "https://other.org/b/two", second.AbsAttr("href"))
	assert.Nil(t, rows[1].Find("img.cover").FirstOrNil())
}

func TestSelectorNot(t *testing.T) {
	doc, err := ParseString(fixture, "")
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Select("li.next").Count())
	assert.Equal(t, 1, doc.Select("li.next").Not("li.next.disabled").Count())
	assert.False(t, doc.Select("li.prev").Exists())

	_, err = doc.Select("li.prev").First()
	assert.Error(t, err)
}

func TestElementText(t *testing.T) {
	doc, err := ParseString(fixture, "")
	require.NoError(t, err)

	p := doc.Select("p.count").FirstOrNil()
	require.NotNil(t, p)
	assert.Equal(t, "Chapters: 1,204", p.OwnText())

	n, ok := p.Number()
	assert.True(t, ok)
	assert.Equal(t, 1204.0, n)
	assert.Contains(t, p.HTML(), "<span>new</span>")
	assert.Equal(t, "", p.AbsAttr("href"))
}
