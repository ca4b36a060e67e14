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

package registry

import (
	"sync"

	"Lectern/pkg/engine"
	"Lectern/pkg/errors"
	"Lectern/pkg/source"
)

// Constructor creates a source bound to an engine
type Constructor func(*engine.Engine) source.Source

// Registry holds source constructors
type Registry struct {
	constructors []Constructor
	mu           sync.RWMutex
}

// global registry instance, filled from adapter init functions
var global = &Registry{
	constructors: make([]Constructor, 0),
}

// Register adds a source constructor to the global registry
func Register(constructor Constructor) {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.constructors = append(global.constructors, constructor)
}

// LoadAll creates every registered source and adds it to the engine. A
// source that fails to register is logged and skipped; the joined errors
// are returned after all sources were tried.
func LoadAll(e *engine.Engine) error {
	global.mu.RLock()
	constructors := make([]Constructor, len(global.constructors))
	copy(constructors, global.constructors)
	global.mu.RUnlock()

	var errs []error
	for _, constructor := range constructors {
		src := constructor(e)
		if src == nil {
			continue
		}

		if err := e.RegisterSource(src); err != nil {
			e.Logger.Error("Failed to register source: %v", err)
			errs = append(errs, err)
		}
	}

	e.Logger.Debug("Loaded %d sources", e.SourceCount())
	return errors.Join(errs...)
}

// Clear removes all registered constructors (useful for testing)
func Clear() {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.constructors = global.constructors[:0]
}

// Count returns the number of registered constructors
func Count() int {
	global.mu.RLock()
	defer global.mu.RUnlock()

	return len(global.constructors)
}
