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
	"Lectern/pkg/cli"
	"Lectern/pkg/source"
	"github.com/spf13/cobra"
)

// SourceInfo describes a source in --json output
type SourceInfo struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Lang         string              `json:"lang,omitempty"`
	Capabilities source.Capabilities `json:"capabilities"`
	Filters      source.FilterList   `json:"filters,omitempty"`
}

var sourcesLang string

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all available novel sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := source.NewLanguageFilter(sourcesLang).Apply(appEngine.AllSources())

		if apiMode {
			infos := make([]SourceInfo, 0, len(all))
			for _, src := range all {
				info := SourceInfo{ID: src.ID(), Name: src.Name(), Capabilities: source.CapabilitiesOf(src)}
				if cs, ok := src.(source.CatalogueSource); ok {
					info.Lang = cs.Lang()
					info.Filters = cs.Filters()
				}
				infos = append(infos, info)
			}
			return cli.OutputJSON(cmd.OutOrStdout(), "success", infos, nil)
		}

		newFormatter(cmd).PrintSourceList(all)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)

	sourcesCmd.Flags().StringVar(&sourcesLang, "lang", "", "Only list sources in these languages (comma-separated codes or names)")
}
