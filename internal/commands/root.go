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

// Package commands implements the lectern command tree
package commands

import (
	"fmt"
	"os"
	"strconv"

	"Lectern/internal/config"
	"Lectern/pkg/cli"
	"Lectern/pkg/engine"
	"Lectern/pkg/errors"
	"Lectern/pkg/source/registry"
	"github.com/spf13/cobra"
)

var (
	appEngine      *engine.Engine
	maxConcurrency int
	version        = "dev"
	debugMode      bool
	verboseErrors  bool
	apiMode        bool
)

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Lectern extracts novel catalogs and chapter indexes from web novel sites.",
	Long: "Lectern searches web novel sites, reads novel details and lists chapter indexes " +
		"through one interface per site.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appEngine == nil {
			if err := initEngine(cmd); err != nil {
				return err
			}
		}
		SetupDebugMode()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func initEngine(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Track(err).AsConfiguration().Error()
	}
	if !cmd.Flags().Changed("concurrency") {
		maxConcurrency = cfg.Concurrency
	}

	e, err := engine.New(cfg.EngineOptions())
	if err != nil {
		return err
	}
	if err := registry.LoadAll(e); err != nil {
		// sources that did register stay usable
		e.Logger.Warn("Some sources failed to load: %v", err)
	}
	appEngine = e
	return nil
}

// SetupDebugMode applies the --debug and --verbose-errors flags
func SetupDebugMode() {
	if appEngine == nil {
		return
	}
	appEngine.SetDebugMode(debugMode)
	appEngine.SetVerboseMode(verboseErrors)
}

// Execute runs the command tree and reports any error once
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd, err)
	}
	if appEngine != nil {
		_ = appEngine.Shutdown()
	}
	if err != nil {
		os.Exit(1)
	}
}

func reportError(cmd *cobra.Command, err error) {
	if apiMode {
		_ = cli.OutputJSON(cmd.OutOrStdout(), "error", nil, err)
		return
	}

	format := errors.FormatCLI
	if appEngine != nil {
		format = appEngine.FormatError
	}
	newFormatter(cmd).HandleError(err, format)
}

func newFormatter(cmd *cobra.Command) *cli.Formatter {
	return cli.NewFormatter(cmd.OutOrStdout())
}

// parseSourceID reads a numeric source id argument
func parseSourceID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Track(fmt.Errorf("invalid source id %q", arg)).
			WithMessage("Source ids are numbers; run 'lectern sources' to list them").
			AsConfiguration().
			Error()
	}
	return id, nil
}

func init() {
	rootCmd.PersistentFlags().IntVar(&maxConcurrency, "concurrency", 4, "Maximum number of sources searched at once")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with detailed error information")
	rootCmd.PersistentFlags().BoolVar(&verboseErrors, "verbose-errors", false, "Show function call chains in errors")
	rootCmd.PersistentFlags().BoolVar(&apiMode, "json", false, "Print results as a JSON envelope")
}
