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

package source

import (
	"fmt"
	"strings"

	"Lectern/pkg/errors"
)

// Filter is one named search filter value
type Filter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FilterList is an ordered set of filters
type FilterList []Filter

// Value returns the value of the named filter, or fallback when the
// filter is absent or blank.
func (l FilterList) Value(name, fallback string) string {
	for _, f := range l {
		if f.Name == name && strings.TrimSpace(f.Value) != "" {
			return f.Value
		}
	}
	return fallback
}

// With returns a copy of l with name set to value
func (l FilterList) With(name, value string) FilterList {
	out := make(FilterList, 0, len(l)+1)
	replaced := false
	for _, f := range l {
		if f.Name == name {
			f.Value = value
			replaced = true
		}
		out = append(out, f)
	}
	if !replaced {
		out = append(out, Filter{Name: name, Value: value})
	}
	return out
}

// ParseFilters reads "name=value" pairs
func ParseFilters(pairs []string) (FilterList, error) {
	var list FilterList
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Track(fmt.Errorf("invalid filter %q, expected name=value", pair)).
				AsConfiguration().
				Error()
		}
		list = list.With(name, strings.TrimSpace(value))
	}
	return list, nil
}
