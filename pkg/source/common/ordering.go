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

// Package common holds the chapter-ordering protocols shared by adapters.
// Every function here assigns Chapter.OrderID so that 0 is the earliest
// chapter in reading order.
package common

import (
	"sort"
	"strings"

	"Lectern/pkg/core"
)

// AssignOrder numbers chapters 0..n-1 as listed. Use it when the site
// already lists oldest-first.
func AssignOrder(chapters []*core.Chapter) []*core.Chapter {
	for i, ch := range chapters {
		ch.OrderID = int64(i)
	}
	return chapters
}

// AssignReverseOrder reverses a newest-first listing in place and numbers
// it, so the first element in site order receives the highest OrderID.
func AssignReverseOrder(chapters []*core.Chapter) []*core.Chapter {
	for i, j := 0, len(chapters)-1; i < j; i, j = i+1, j-1 {
		chapters[i], chapters[j] = chapters[j], chapters[i]
	}
	return AssignOrder(chapters)
}

// Volume is one entry of a nested volume→chapter listing
type Volume struct {
	Chapters []VolumeChapter
}

// VolumeChapter is a chapter inside a Volume. VolumeIndex and Index are
// the site's labels and only feed the display name.
type VolumeChapter struct {
	URL         string
	Title       string
	VolumeIndex string
	Index       string
}

// Label is the display name "<volumeIndex>.<index> <title>"
func (c VolumeChapter) Label() string {
	label := c.VolumeIndex + "." + c.Index
	if title := strings.TrimSpace(c.Title); title != "" {
		label += " " + title
	}
	return label
}

// FlattenVolumes walks volumes in order and their chapters in order,
// assigning one OrderID sequence across the whole result.
func FlattenVolumes(volumes []Volume) []*core.Chapter {
	var chapters []*core.Chapter
	for _, v := range volumes {
		for _, c := range v.Chapters {
			ch := core.NewChapter(c.URL, c.Label())
			ch.OrderID = int64(len(chapters))
			chapters = append(chapters, ch)
		}
	}
	return chapters
}

// NumberedChapter is a chapter record carrying separate volume and
// chapter numbers
type NumberedChapter struct {
	Chapter *core.Chapter
	Volume  float64
	Number  float64
}

// fixedPoint truncates v to two decimal places as an integer
func fixedPoint(v float64) int64 {
	return int64(v * 100)
}

// SortByVolumeChapter orders records by volume then chapter number using
// a two-decimal fixed-point comparison; ties keep their input order. The
// sorted chapters are numbered 0..n-1.
func SortByVolumeChapter(records []NumberedChapter) []*core.Chapter {
	sorted := make([]NumberedChapter, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := fixedPoint(sorted[i].Volume), fixedPoint(sorted[j].Volume)
		if vi != vj {
			return vi < vj
		}
		return fixedPoint(sorted[i].Number) < fixedPoint(sorted[j].Number)
	})

	chapters := make([]*core.Chapter, len(sorted))
	for i, r := range sorted {
		chapters[i] = r.Chapter
	}
	return AssignOrder(chapters)
}
