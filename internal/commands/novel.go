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
	"Lectern/pkg/core"
	"github.com/spf13/cobra"
)

var skipDetails bool

var detailsCmd = &cobra.Command{
	Use:   "details <source-id> <url>",
	Short: "Show the details of a novel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSourceID(args[0])
		if err != nil {
			return err
		}
		src, err := appEngine.Source(id)
		if err != nil {
			return err
		}

		novel, err := src.FetchNovelDetails(cmd.Context(), core.NewNovel(args[1], id))
		if err != nil {
			return err
		}

		if apiMode {
			return cli.OutputJSON(cmd.OutOrStdout(), "success", novel, nil)
		}
		newFormatter(cmd).PrintNovel(novel, src.Name())
		return nil
	},
}

var chaptersCmd = &cobra.Command{
	Use:   "chapters <source-id> <url>",
	Short: "List the chapters of a novel",
	Long: `List the chapters of a novel in reading order. Details are fetched
first so sources that key their chapter index by an external id can
resolve it; --skip-details saves that request for sources that do not.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseSourceID(args[0])
		if err != nil {
			return err
		}
		src, err := appEngine.Source(id)
		if err != nil {
			return err
		}

		novel := core.NewNovel(args[1], id)
		if !skipDetails {
			if novel, err = src.FetchNovelDetails(cmd.Context(), novel); err != nil {
				return err
			}
		}

		chapters, err := src.FetchChapterList(cmd.Context(), novel)
		if err != nil {
			return err
		}

		if apiMode {
			return cli.OutputJSON(cmd.OutOrStdout(), "success", map[string]interface{}{
				"novel":    novel,
				"chapters": chapters,
				"count":    len(chapters),
			}, nil)
		}
		f := newFormatter(cmd)
		f.PrintTitle(novel.Name)
		f.PrintChapters(chapters)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(chaptersCmd)

	chaptersCmd.Flags().BoolVar(&skipDetails, "skip-details", false, "List chapters without fetching details first")
}
