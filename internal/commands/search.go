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

package commands

import (
	"fmt"

	"Lectern/pkg/cli"
	"Lectern/pkg/engine/search"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
	"github.com/spf13/cobra"
)

var (
	searchSource  string
	searchPage    int
	searchFilters []string
	searchLang    string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search novels on one source or on all of them",
	Long: `Search novels by title. Without --source every source is searched
concurrently, bounded by --concurrency; a failing source does not hide the
results of the others.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		filters, err := source.ParseFilters(searchFilters)
		if err != nil {
			return err
		}

		var targets []source.CatalogueSource
		if searchSource != "" {
			id, err := parseSourceID(searchSource)
			if err != nil {
				return err
			}
			cs, err := appEngine.CatalogueSource(id)
			if err != nil {
				return err
			}
			targets = append(targets, cs)
		} else {
			for _, src := range source.NewLanguageFilter(searchLang).Apply(appEngine.AllSources()) {
				if cs, ok := src.(source.CatalogueSource); ok {
					targets = append(targets, cs)
				}
			}
		}

		ctx := search.WithConcurrency(cmd.Context(), maxConcurrency)
		results := appEngine.Search.SearchAcrossSources(ctx, targets, searchPage, query, filters)

		// a single explicit source reports its error directly
		if searchSource != "" && results[0].Err != nil {
			return results[0].Err
		}

		if apiMode {
			return cli.OutputJSON(cmd.OutOrStdout(), "success", map[string]interface{}{
				"query":   query,
				"page":    searchPage,
				"results": results,
			}, nil)
		}
		printSearchResults(cmd, query, results)
		return nil
	},
}

func printSearchResults(cmd *cobra.Command, query string, results []search.Result) {
	f := newFormatter(cmd)
	f.PrintHeader(fmt.Sprintf("Search Results for '%s'", query))

	total := 0
	for _, r := range results {
		if r.Page != nil {
			total += len(r.Page.Novels)
		}
	}
	f.PrintDetail("Total results", f.FormatNumber(total))

	for _, r := range results {
		title := fmt.Sprintf("Results from %s (%d)", r.SourceName, r.SourceID)
		if r.Err != nil {
			f.PrintSection(title)
			f.PrintError(errors.FormatCLISimple(r.Err))
			continue
		}
		f.PrintResultPage(title, r.Page)
	}
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchSource, "source", "", "Search only the source with this id")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Result page to fetch")
	searchCmd.Flags().StringVar(&searchLang, "lang", "", "Only search sources in these languages (comma-separated codes or names)")
	searchCmd.Flags().StringArrayVar(&searchFilters, "filter", nil, "Search filter as key=value (repeatable)")
}
