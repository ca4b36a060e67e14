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

package errors

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

//go:embed suggestions.json
var suggestionFS embed.FS

// SuggestionsMap holds suggestions for different error categories
type SuggestionsMap map[string][]string

// CLIFormatter provides user-friendly error formatting for the command line
type CLIFormatter struct {
	// ShowFunctionChain controls whether to show the function call chain
	ShowFunctionChain bool

	// ShowTimestamps controls whether chain entries carry their timestamp
	ShowTimestamps bool

	Suggestions SuggestionsMap

	HeaderStyle      *color.Color
	ErrorStyle       *color.Color
	NetworkStyle     *color.Color
	ParsingStyle     *color.Color
	SequenceStyle    *color.Color
	UnsupportedStyle *color.Color
	SectionStyle     *color.Color
	HighlightStyle   *color.Color
	SecondaryStyle   *color.Color
	DetailLabelStyle *color.Color
	DetailValueStyle *color.Color
}

// NewCLIFormatter creates a new CLI error formatter with default settings
func NewCLIFormatter() *CLIFormatter {
	f := &CLIFormatter{}
	f.initStyles()
	f.loadSuggestions()
	return f
}

// NewDebugCLIFormatter creates a CLI formatter that also prints the call chain
func NewDebugCLIFormatter() *CLIFormatter {
	f := NewCLIFormatter()
	f.ShowFunctionChain = true
	f.ShowTimestamps = true
	return f
}

func (f *CLIFormatter) initStyles() {
	f.HeaderStyle = color.New(color.Bold, color.FgCyan)
	f.ErrorStyle = color.New(color.FgRed)
	f.NetworkStyle = color.New(color.FgYellow)
	f.ParsingStyle = color.New(color.FgMagenta)
	f.SequenceStyle = color.New(color.FgBlue)
	f.UnsupportedStyle = color.New(color.FgHiBlack)
	f.SectionStyle = color.New(color.Underline, color.FgHiCyan)
	f.HighlightStyle = color.New(color.FgMagenta)
	f.SecondaryStyle = color.New(color.FgHiBlack)
	f.DetailLabelStyle = color.New(color.FgHiBlue)
	f.DetailValueStyle = color.New(color.FgWhite)
}

func (f *CLIFormatter) loadSuggestions() {
	f.Suggestions = make(SuggestionsMap)

	data, err := suggestionFS.ReadFile("suggestions.json")
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, &f.Suggestions)
}

// Format formats an error for CLI display
func (f *CLIFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var te *TrackedError
	if !As(err, &te) {
		return fmt.Sprintf("%s %s", f.HeaderStyle.Sprint("[ERROR]"), f.ErrorStyle.Sprint(err.Error()))
	}

	parts := []string{f.FormatSimple(err)}

	if suggestions := f.Suggestions[string(te.Category)]; len(suggestions) > 0 {
		lines := []string{"", f.SectionStyle.Sprint("Troubleshooting suggestions:")}
		for _, s := range suggestions {
			lines = append(lines, "  - "+f.DetailValueStyle.Sprint(s))
		}
		parts = append(parts, lines...)
	}

	if ctx := f.formatContext(te); ctx != "" {
		parts = append(parts, "", ctx)
	}

	if f.ShowFunctionChain && len(te.CallChain) > 0 {
		parts = append(parts, "", f.formatFunctionChain(te))
	}

	return strings.Join(parts, "\n")
}

// FormatSimple provides a one-line error format
func (f *CLIFormatter) FormatSimple(err error) string {
	if err == nil {
		return ""
	}

	var te *TrackedError
	if !As(err, &te) {
		return err.Error()
	}

	return fmt.Sprintf("%s %s",
		f.HeaderStyle.Sprint(categoryPrefix(te.Category)),
		f.categoryStyle(te.Category).Sprint(te.Error()))
}

func (f *CLIFormatter) formatContext(te *TrackedError) string {
	if len(te.Context) == 0 {
		return ""
	}

	keys := make([]string, 0, len(te.Context))
	for k := range te.Context {
		if k == "original_errors" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	lines := []string{f.SectionStyle.Sprint("Additional information:")}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %s",
			f.DetailLabelStyle.Sprint(k), f.DetailValueStyle.Sprint(te.Context[k])))
	}
	return strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatFunctionChain(te *TrackedError) string {
	parts := []string{f.SectionStyle.Sprint("Function Call Chain:")}

	for i, call := range te.CallChain {
		timestamp := ""
		if f.ShowTimestamps {
			timestamp = fmt.Sprintf("[%s] ", call.Timestamp.Format("15:04:05.000"))
		}

		parts = append(parts, fmt.Sprintf("  %d. %s%s() at %s:%d",
			i+1, timestamp, f.HighlightStyle.Sprint(call.ShortName),
			f.SecondaryStyle.Sprint(call.File), call.Line))

		if call.Operation != "" {
			parts = append(parts, "      Operation: "+f.DetailValueStyle.Sprint(call.Operation))
		}
	}

	return strings.Join(parts, "\n")
}

func categoryPrefix(category ErrorCategory) string {
	switch category {
	case CategoryNetwork:
		return "[NETWORK]"
	case CategoryParsing:
		return "[PARSING]"
	case CategoryMissingExternalID:
		return "[DETAILS REQUIRED]"
	case CategoryNotImplemented, CategoryNotUsed:
		return "[UNSUPPORTED]"
	case CategoryInvalidNovel:
		return "[INVALID NOVEL]"
	case CategoryProvider:
		return "[SOURCE]"
	case CategoryNotFound:
		return "[NOT FOUND]"
	case CategoryRateLimit:
		return "[RATE LIMIT]"
	case CategoryTimeout:
		return "[TIMEOUT]"
	case CategoryConfiguration:
		return "[CONFIG]"
	default:
		return "[ERROR]"
	}
}

func (f *CLIFormatter) categoryStyle(category ErrorCategory) *color.Color {
	switch category {
	case CategoryNetwork, CategoryNotFound, CategoryRateLimit, CategoryTimeout:
		return f.NetworkStyle
	case CategoryParsing, CategoryInvalidNovel:
		return f.ParsingStyle
	case CategoryMissingExternalID:
		return f.SequenceStyle
	case CategoryNotImplemented, CategoryNotUsed:
		return f.UnsupportedStyle
	default:
		return f.ErrorStyle
	}
}

// Global formatters for easy use
var (
	DefaultCLIFormatter = NewCLIFormatter()
	DebugCLIFormatter   = NewDebugCLIFormatter()
)

// FormatCLI formats an error with suggestions and context
func FormatCLI(err error) string {
	return DefaultCLIFormatter.Format(err)
}

// FormatCLISimple formats an error for simple CLI display
func FormatCLISimple(err error) string {
	return DefaultCLIFormatter.FormatSimple(err)
}

// FormatCLIDebug formats an error with the function call chain
func FormatCLIDebug(err error) string {
	return DebugCLIFormatter.Format(err)
}
