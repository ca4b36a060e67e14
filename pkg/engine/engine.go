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

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"Lectern/pkg/catalog"
	"Lectern/pkg/engine/logger"
	"Lectern/pkg/engine/network"
	"Lectern/pkg/engine/parser"
	"Lectern/pkg/engine/search"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
)

// Options configures an Engine
type Options struct {
	// LogFile defaults to ~/.lectern/logs/lectern.log; "-" disables the file
	LogFile       string
	LogLevel      logger.Level
	Network       network.Options
	CatalogPolicy catalog.Policy

	// Logger replaces the file logger, mainly for tests
	Logger logger.Logger
}

// DefaultOptions returns the options used by New when nothing is configured
func DefaultOptions() Options {
	return Options{
		LogLevel:      logger.LevelInfo,
		Network:       network.DefaultOptions(),
		CatalogPolicy: catalog.RetryOnFailure,
	}
}

// Engine is the central component providing shared services to sources
type Engine struct {
	Parser   *parser.Service
	Catalogs *catalog.Registry
	Search   *search.Service
	Logger   logger.Logger

	clients map[network.ClientKind]*network.Client

	// Source registry keyed by id
	sources     map[int64]source.Source
	sourceMutex sync.RWMutex

	// Error formatting options
	debugMode   bool
	verboseMode bool
}

// New creates an Engine. Both transports are built once here and shared
// by every source.
func New(opts Options) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewService(resolveLogFile(opts.LogFile))
	}
	log.SetLevel(opts.LogLevel)

	clients := make(map[network.ClientKind]*network.Client, 2)
	for _, kind := range []network.ClientKind{network.ClientDefault, network.ClientAntiBot} {
		client, err := network.NewClient(kind, opts.Network, log)
		if err != nil {
			return nil, err
		}
		clients[kind] = client
	}

	e := &Engine{
		Parser:   parser.NewService(log),
		Catalogs: catalog.NewRegistry(opts.CatalogPolicy, log),
		Search:   search.NewService(log),
		Logger:   log,
		clients:  clients,
		sources:  make(map[int64]source.Source),
	}

	log.Debug("Engine initialized (catalog policy %s)", opts.CatalogPolicy)
	return e, nil
}

func resolveLogFile(path string) string {
	switch path {
	case "-":
		return ""
	case "":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(homeDir, ".lectern", "logs", "lectern.log")
	default:
		return path
	}
}

// Client returns the shared transport of the given kind
func (e *Engine) Client(kind network.ClientKind) *network.Client {
	if c, ok := e.clients[kind]; ok {
		return c
	}
	return e.clients[network.ClientDefault]
}

// RegisterSource adds a source to the registry
func (e *Engine) RegisterSource(src source.Source) error {
	if src == nil {
		return errors.Track(fmt.Errorf("source is nil")).AsConfiguration().Error()
	}

	e.sourceMutex.Lock()
	defer e.sourceMutex.Unlock()

	id := src.ID()
	if existing, exists := e.sources[id]; exists {
		return errors.Track(fmt.Errorf("source id %d already registered by %s", id, existing.Name())).
			WithContext("source_name", src.Name()).
			AsConfiguration().
			Error()
	}

	e.sources[id] = src
	e.Logger.Debug("Registered source: %s (%d)", src.Name(), id)
	return nil
}

// Source retrieves a registered source by id
func (e *Engine) Source(id int64) (source.Source, error) {
	e.sourceMutex.RLock()
	defer e.sourceMutex.RUnlock()

	src, exists := e.sources[id]
	if !exists {
		return nil, errors.Track(fmt.Errorf("source %d not found", id)).
			WithContext("available_sources", e.sourceIDs()).
			WithMessagef("Unknown source id %d; run 'lectern sources' to list them", id).
			AsConfiguration().
			Error()
	}
	return src, nil
}

// CatalogueSource retrieves a source that supports search and browsing
func (e *Engine) CatalogueSource(id int64) (source.CatalogueSource, error) {
	src, err := e.Source(id)
	if err != nil {
		return nil, err
	}
	cs, ok := src.(source.CatalogueSource)
	if !ok {
		return nil, errors.Track(fmt.Errorf("source %s cannot be searched", src.Name())).
			AsNotImplemented().
			Error()
	}
	return cs, nil
}

// AllSources returns all registered sources ordered by name
func (e *Engine) AllSources() []source.Source {
	e.sourceMutex.RLock()
	defer e.sourceMutex.RUnlock()

	sources := make([]source.Source, 0, len(e.sources))
	for _, s := range e.sources {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Name() == sources[j].Name() {
			return sources[i].ID() < sources[j].ID()
		}
		return sources[i].Name() < sources[j].Name()
	})
	return sources
}

// SourceCount returns the number of registered sources
func (e *Engine) SourceCount() int {
	e.sourceMutex.RLock()
	defer e.sourceMutex.RUnlock()
	return len(e.sources)
}

// sourceIDs lists registered ids; callers hold the lock
func (e *Engine) sourceIDs() []int64 {
	ids := make([]int64, 0, len(e.sources))
	for id := range e.sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Shutdown closes the logger
func (e *Engine) Shutdown() error {
	e.Logger.Debug("Shutting down engine...")

	if closer, ok := e.Logger.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// SetDebugMode enables or disables debug logging to the console
func (e *Engine) SetDebugMode(enabled bool) {
	e.debugMode = enabled
	e.applyVerbosity()
	if enabled {
		e.Logger.Debug("Debug mode enabled")
	}
}

// SetVerboseMode enables or disables verbose error output
func (e *Engine) SetVerboseMode(enabled bool) {
	e.verboseMode = enabled
	e.applyVerbosity()
}

func (e *Engine) applyVerbosity() {
	loud := e.debugMode || e.verboseMode
	if loud {
		e.Logger.SetLevel(logger.LevelDebug)
	} else {
		e.Logger.SetLevel(logger.LevelInfo)
	}
	if svc, ok := e.Logger.(*logger.Service); ok {
		svc.SetConsoleOutput(loud)
	}
}

// FormatError formats an error based on the current verbosity settings
func (e *Engine) FormatError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case e.verboseMode:
		return errors.FormatCLIDebug(err)
	case e.debugMode:
		return errors.FormatCLI(err)
	default:
		return errors.FormatCLISimple(err)
	}
}
