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

package core

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// GenerateSourceID derives a stable, non-negative id from the source's
// name, language and version: the first 64 bits of
// MD5("name/lang/version") with the sign bit cleared.
func GenerateSourceID(name, lang string, versionID int) int64 {
	key := fmt.Sprintf("%s/%s/%d", strings.ToLower(name), lang, versionID)
	sum := md5.Sum([]byte(key))
	return int64(binary.BigEndian.Uint64(sum[:8]) & math.MaxInt64)
}
