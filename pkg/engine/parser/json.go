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

package parser

import (
	"fmt"
	"strings"

	"Lectern/pkg/errors"
	"github.com/tidwall/gjson"
)

// JSON validates content and returns its root
func JSON(content []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(content) {
		preview := string(content[:min(len(content), 200)])
		return gjson.Result{}, errors.Track(fmt.Errorf("invalid JSON payload")).
			WithContext("content_preview", preview).
			WithContext("body_length", len(content)).
			AsParsing().
			Error()
	}
	return gjson.ParseBytes(content), nil
}

// NullFreeString returns the trimmed string at path, or nil when the path
// is missing, null or blank.
func NullFreeString(r gjson.Result, path string) *string {
	v := r.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return nil
	}
	return &s
}

// StringOr returns the string at path or fallback
func StringOr(r gjson.Result, path, fallback string) string {
	if s := NullFreeString(r, path); s != nil {
		return *s
	}
	return fallback
}

// NullFreeInt returns the integer at path, or nil when missing or null.
// Numeric strings are accepted.
func NullFreeInt(r gjson.Result, path string) *int64 {
	v := r.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	if v.Type == gjson.String && strings.TrimSpace(v.Str) == "" {
		return nil
	}
	n := v.Int()
	return &n
}

// NullFreeFloat returns the number at path, or nil when missing or null
func NullFreeFloat(r gjson.Result, path string) *float64 {
	v := r.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	if v.Type == gjson.String && strings.TrimSpace(v.Str) == "" {
		return nil
	}
	f := v.Float()
	return &f
}

// Require returns the value at path or a parsing error
func Require(r gjson.Result, path string) (gjson.Result, error) {
	v := r.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return v, errors.Track(fmt.Errorf("missing field %q", path)).
			WithContext("path", path).
			AsParsing().
			Error()
	}
	return v, nil
}

// Strings collects the non-blank strings found at path in each element
// of an array; an empty path uses the elements themselves.
func Strings(arr gjson.Result, path string) []string {
	var out []string
	arr.ForEach(func(_, item gjson.Result) bool {
		if path != "" {
			item = item.Get(path)
		}
		if s := strings.TrimSpace(item.String()); s != "" && item.Type != gjson.Null {
			out = append(out, s)
		}
		return true
	})
	return out
}
