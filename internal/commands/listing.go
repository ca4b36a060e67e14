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
	"context"
	"fmt"

	"Lectern/pkg/cli"
	"Lectern/pkg/source"
	"github.com/spf13/cobra"
)

var listingPage int

type listingFunc func(src source.CatalogueSource, ctx context.Context, page int) (source.Listing, error)

func newListingCmd(name, short string, fetch listingFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <source-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSourceID(args[0])
			if err != nil {
				return err
			}
			src, err := appEngine.CatalogueSource(id)
			if err != nil {
				return err
			}

			listing, err := fetch(src, cmd.Context(), listingPage)
			if err != nil {
				return err
			}

			if apiMode {
				return cli.OutputJSON(cmd.OutOrStdout(), "success", map[string]interface{}{
					"source_id": id,
					"listing":   name,
					"supported": listing.Supported,
					"page":      listing.Page,
				}, nil)
			}

			f := newFormatter(cmd)
			if !listing.Supported {
				f.PrintUnsupported(src.Name(), name)
				return nil
			}
			f.PrintResultPage(fmt.Sprintf("%s novels on %s (page %d)", name, src.Name(), listingPage), listing.Page)
			return nil
		},
	}
}

func init() {
	popularCmd := newListingCmd("popular", "Browse the popular listing of a source", source.CatalogueSource.FetchPopular)
	latestCmd := newListingCmd("latest", "Browse the latest-updates listing of a source", source.CatalogueSource.FetchLatest)

	for _, c := range []*cobra.Command{popularCmd, latestCmd} {
		c.Flags().IntVar(&listingPage, "page", 1, "Listing page to fetch")
		rootCmd.AddCommand(c)
	}
}
