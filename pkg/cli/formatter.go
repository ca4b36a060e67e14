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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"Lectern/pkg/core"
	pkgerrors "Lectern/pkg/errors"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/source"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Formatter handles all CLI output formatting
type Formatter struct {
	// Writer is where the formatted output will be written
	Writer io.Writer

	// DisableColor disables colorized output
	DisableColor bool

	HeaderStyle      *color.Color
	TitleStyle       *color.Color
	SuccessStyle     *color.Color
	ErrorStyle       *color.Color
	WarningStyle     *color.Color
	InfoStyle        *color.Color
	SecondaryStyle   *color.Color
	SectionStyle     *color.Color
	DetailLabelStyle *color.Color
	DetailValueStyle *color.Color
	IDStyle          *color.Color
	PathStyle        *color.Color
	NumberStyle      *color.Color
}

// NewFormatter creates a formatter writing to w
func NewFormatter(w io.Writer) *Formatter {
	if w == nil {
		w = os.Stdout
	}
	f := &Formatter{Writer: w}
	f.initStyles()
	return f
}

func (f *Formatter) initStyles() {
	if f.DisableColor {
		color.NoColor = true
	}

	f.HeaderStyle = color.New(color.Bold, color.FgCyan)
	f.TitleStyle = color.New(color.Bold, color.FgWhite)
	f.SuccessStyle = color.New(color.FgGreen)
	f.ErrorStyle = color.New(color.FgRed)
	f.WarningStyle = color.New(color.FgYellow)
	f.InfoStyle = color.New(color.FgBlue)
	f.SecondaryStyle = color.New(color.FgHiBlack)
	f.SectionStyle = color.New(color.Underline, color.FgHiCyan)
	f.DetailLabelStyle = color.New(color.FgHiBlue)
	f.DetailValueStyle = color.New(color.FgWhite)
	f.IDStyle = color.New(color.FgHiMagenta)
	f.PathStyle = color.New(color.FgHiGreen)
	f.NumberStyle = color.New(color.FgHiYellow)
}

// PrintHeader prints a header followed by a divider
func (f *Formatter) PrintHeader(text string) {
	_, _ = f.HeaderStyle.Fprintln(f.Writer, text)
	f.PrintDivider()
}

// PrintTitle prints a title
func (f *Formatter) PrintTitle(text string) {
	_, _ = f.TitleStyle.Fprintln(f.Writer, text)
}

// PrintError prints an error message
func (f *Formatter) PrintError(text string) {
	_, _ = f.ErrorStyle.Fprintln(f.Writer, text)
}

// PrintWarning prints a warning message
func (f *Formatter) PrintWarning(text string) {
	_, _ = f.WarningStyle.Fprintln(f.Writer, text)
}

// PrintInfo prints an informational message
func (f *Formatter) PrintInfo(text string) {
	_, _ = f.InfoStyle.Fprintln(f.Writer, text)
}

// PrintDetail prints a labeled detail
func (f *Formatter) PrintDetail(label, value string) {
	_, _ = f.DetailLabelStyle.Fprintf(f.Writer, "%s: ", label)
	_, _ = f.DetailValueStyle.Fprintln(f.Writer, value)
}

// PrintDivider prints a horizontal divider
func (f *Formatter) PrintDivider() {
	_, _ = fmt.Fprintln(f.Writer, strings.Repeat("-", 80))
}

// PrintSection prints a section header between blank lines
func (f *Formatter) PrintSection(text string) {
	_, _ = fmt.Fprintln(f.Writer)
	_, _ = f.SectionStyle.Fprintln(f.Writer, text)
	_, _ = fmt.Fprintln(f.Writer)
}

// FormatNumber formats a number with styling
func (f *Formatter) FormatNumber(num interface{}) string {
	return f.NumberStyle.Sprintf("%v", num)
}

// PrintTable prints data in a table format
func (f *Formatter) PrintTable(headers []string, data [][]string) {
	table := tablewriter.NewTable(f.Writer)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Alignment.Global = tw.AlignLeft
		cfg.Row.Alignment.Global = tw.AlignLeft
		cfg.Header.Padding.Global = tw.Padding{Left: " ", Right: " "}
		cfg.Row.Padding.Global = tw.Padding{Left: " ", Right: " "}
	})

	table.Header(headers)
	if err := table.Bulk(data); err != nil {
		return
	}
	_ = table.Render()
}

// HandleError prints err and reports whether there was one. format is
// the engine's verbosity-aware error formatter.
func (f *Formatter) HandleError(err error, format func(error) string) bool {
	if err == nil {
		return false
	}
	if format == nil {
		format = pkgerrors.FormatCLI
	}
	f.PrintError(format(err))
	return true
}

// clientKinded is implemented by sources built on the shared provider
type clientKinded interface {
	ClientKind() network.ClientKind
}

type langed interface {
	Lang() string
}

// PrintSourceList prints one table row per source
func (f *Formatter) PrintSourceList(sources []source.Source) {
	f.PrintHeader("Available Novel Sources")

	if len(sources) == 0 {
		f.PrintWarning("No sources available.")
		return
	}

	rows := make([][]string, len(sources))
	for i, src := range sources {
		caps := source.CapabilitiesOf(src)
		lang, client := "", ""
		if l, ok := src.(langed); ok {
			lang = l.Lang()
		}
		if c, ok := src.(clientKinded); ok {
			client = c.ClientKind().String()
		}
		rows[i] = []string{
			strconv.FormatInt(src.ID(), 10),
			src.Name(),
			lang,
			client,
			yesNo(caps.Search),
			yesNo(caps.Popular),
			yesNo(caps.Latest),
		}
	}
	f.PrintTable([]string{"ID", "NAME", "LANG", "CLIENT", "SEARCH", "POPULAR", "LATEST"}, rows)
	f.PrintInfo("Pass a source id to search --source, details, chapters, popular or latest")
}

// PrintResultPage prints the novels of one page under title
func (f *Formatter) PrintResultPage(title string, page *core.ResultPage) {
	f.PrintSection(title)
	if page == nil || len(page.Novels) == 0 {
		f.PrintWarning("No novels found.")
		return
	}

	rows := make([][]string, len(page.Novels))
	for i, n := range page.Novels {
		rating := ""
		if n.Rating != nil {
			rating = n.Rating.String()
		}
		rows[i] = []string{strconv.Itoa(i + 1), n.Name, n.URL, rating}
	}
	f.PrintTable([]string{"#", "NAME", "URL", "RATING"}, rows)

	if page.HasNextPage {
		f.PrintInfo("More results are available; use --page to continue")
	}
}

// PrintNovel prints an enriched novel
func (f *Formatter) PrintNovel(n *core.Novel, sourceName string) {
	if n == nil {
		f.PrintError("No novel information available.")
		return
	}

	f.PrintHeader(n.Name)
	f.PrintDetail("Source", sourceName)
	f.PrintDetail("URL", f.PathStyle.Sprint(n.URL))
	if id, ok := n.ExternalID(); ok {
		f.PrintDetail("External ID", f.IDStyle.Sprint(id))
	}
	if len(n.Authors) > 0 {
		f.PrintDetail("Authors", strings.Join(n.Authors, ", "))
	}
	if len(n.Genres) > 0 {
		f.PrintDetail("Genres", strings.Join(n.Genres, ", "))
	}
	if n.Rating != nil {
		f.PrintDetail("Rating", n.Rating.String())
	}
	if n.ChaptersCount > 0 {
		f.PrintDetail("Chapters", f.FormatNumber(n.ChaptersCount))
	}
	if n.ImageURL != nil {
		f.PrintDetail("Cover", *n.ImageURL)
	}

	if len(n.Metadata) > 0 {
		f.PrintSection("Metadata")
		for _, key := range n.Metadata.Keys() {
			value, _ := n.Metadata.Get(key)
			f.PrintDetail(key, value)
		}
	}

	if n.LongDescription != nil {
		f.PrintSection("Description")
		_, _ = fmt.Fprintln(f.Writer, *n.LongDescription)
	}
}

// PrintChapters prints a chapter index in order
func (f *Formatter) PrintChapters(chapters []*core.Chapter) {
	f.PrintSection(fmt.Sprintf("Chapters (%d)", len(chapters)))
	if len(chapters) == 0 {
		f.PrintWarning("No chapters available.")
		return
	}

	rows := make([][]string, len(chapters))
	for i, ch := range chapters {
		translator := ""
		if ch.TranslatorSourceName != nil {
			translator = *ch.TranslatorSourceName
		}
		rows[i] = []string{strconv.FormatInt(ch.OrderID, 10), ch.Name, ch.URL, translator}
	}
	f.PrintTable([]string{"ORDER", "NAME", "URL", "TRANSLATOR"}, rows)
}

// PrintUnsupported reports a listing the source does not offer
func (f *Formatter) PrintUnsupported(sourceName, listing string) {
	f.PrintWarning(fmt.Sprintf("%s does not offer a %s listing (unsupported)", sourceName, listing))
}

// PrintVersionInfo prints version information
func (f *Formatter) PrintVersionInfo(version, goVersion, os, arch, logFile string) {
	f.PrintHeader("Lectern Version Information")

	f.PrintDetail("Version", version)
	f.PrintDetail("Go version", goVersion)
	f.PrintDetail("OS/Arch", fmt.Sprintf("%s/%s", os, arch))
	if logFile != "" {
		f.PrintDetail("Log file", f.PathStyle.Sprint(logFile))
	} else {
		f.PrintDetail("Logging to file", "disabled")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
