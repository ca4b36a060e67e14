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
	"runtime"

	"Lectern/pkg/cli"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information for Lectern, including the log file location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logFile := ""
		if appEngine != nil {
			if lf, ok := appEngine.Logger.(interface{ LogFile() string }); ok {
				logFile = lf.LogFile()
			}
		}

		if apiMode {
			data := map[string]interface{}{
				"version":    version,
				"go_version": runtime.Version(),
				"os":         runtime.GOOS,
				"arch":       runtime.GOARCH,
				"log_file":   "disabled",
			}
			if logFile != "" {
				data["log_file"] = logFile
			}
			return cli.OutputJSON(cmd.OutOrStdout(), "success", data, nil)
		}

		newFormatter(cmd).PrintVersionInfo(version, runtime.Version(), runtime.GOOS, runtime.GOARCH, logFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
