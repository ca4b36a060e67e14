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
	"strings"
)

// LanguageFilter selects sources by language. Entries may be codes ("en")
// or full names ("english"); matching ignores case.
type LanguageFilter struct {
	Languages []string
}

// NewLanguageFilter parses a comma-separated list. An empty list yields a
// nil filter, which matches everything.
func NewLanguageFilter(languageStr string) *LanguageFilter {
	var languages []string
	for _, part := range strings.Split(languageStr, ",") {
		if lang := strings.ToLower(strings.TrimSpace(part)); lang != "" {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		return nil
	}
	return &LanguageFilter{Languages: languages}
}

// Matches reports whether a source language passes the filter. A source
// without a language only passes when "unknown" is listed.
func (lf *LanguageFilter) Matches(lang string) bool {
	if lf == nil || len(lf.Languages) == 0 {
		return true
	}

	lang = strings.ToLower(lang)
	if lang == "" {
		for _, want := range lf.Languages {
			if want == "unknown" || want == "none" {
				return true
			}
		}
		return false
	}

	fullName := strings.ToLower(languageNames[lang])
	for _, want := range lf.Languages {
		if want == lang || (fullName != "" && want == fullName) {
			return true
		}
		if name, ok := languageNames[want]; ok && strings.ToLower(name) == lang {
			return true
		}
	}
	return false
}

// Apply keeps the sources whose language passes the filter
func (lf *LanguageFilter) Apply(sources []Source) []Source {
	if lf == nil {
		return sources
	}

	var kept []Source
	for _, src := range sources {
		lang := ""
		if cs, ok := src.(CatalogueSource); ok {
			lang = cs.Lang()
		}
		if lf.Matches(lang) {
			kept = append(kept, src)
		}
	}
	return kept
}

// LanguageName returns the display name for a language code, or the code
// itself when it is not known
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

var languageNames = map[string]string{
	"en":    "English",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh":    "Chinese",
	"zh-cn": "Chinese (Simplified)",
	"zh-tw": "Chinese (Traditional)",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"pt":    "Portuguese",
	"pt-br": "Portuguese (Brazil)",
	"ru":    "Russian",
	"id":    "Indonesian",
	"vi":    "Vietnamese",
	"th":    "Thai",
	"tr":    "Turkish",
	"ar":    "Arabic",
	"it":    "Italian",
	"pl":    "Polish",
}
