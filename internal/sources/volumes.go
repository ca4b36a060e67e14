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
	"fmt"

	"Lectern/pkg/core"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/engine/parser"
	"Lectern/pkg/errors"
	"Lectern/pkg/source/common"
)

// parseVolumeChapters reads the structured chapter list shared by the
// JPMTL and Ranobes APIs: an array of volumes, each holding chapters with
// id, title, volume_index and index.
func parseVolumeChapters(resp *network.Response, chapterURL func(chapterID string) string) ([]*core.Chapter, error) {
	root, err := resp.JSON()
	if err != nil {
		return nil, err
	}
	if !root.IsArray() {
		return nil, errors.Track(fmt.Errorf("chapter payload is not an array of volumes")).AsParsing().Error()
	}

	var volumes []common.Volume
	for i, vol := range root.Array() {
		if !vol.IsObject() {
			return nil, errors.Track(fmt.Errorf("volume %d is not an object", i)).AsParsing().Error()
		}

		var v common.Volume
		for j, ch := range vol.Get("chapters").Array() {
			id := parser.NullFreeString(ch, "id")
			if !ch.IsObject() || id == nil {
				return nil, errors.Track(fmt.Errorf("chapter %d of volume %d has no id", j, i)).AsParsing().Error()
			}
			v.Chapters = append(v.Chapters, common.VolumeChapter{
				URL:         chapterURL(*id),
				Title:       parser.StringOr(ch, "title", ""),
				VolumeIndex: ch.Get("volume_index").String(),
				Index:       ch.Get("index").String(),
			})
		}
		volumes = append(volumes, v)
	}

	chapters := common.FlattenVolumes(volumes)
	if chapters == nil {
		chapters = []*core.Chapter{}
	}
	return chapters, nil
}
