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

// Package catalog holds process-wide id→name tables that some sites only
// expose through a separate endpoint (genre and tag catalogs). A table is
// fetched on first need and then served from memory.
package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"Lectern/pkg/engine/logger"
	"Lectern/pkg/errors"
)

// Policy decides what happens after a failed fetch
type Policy int

const (
	// RetryOnFailure fetches again on the next access while unpopulated
	RetryOnFailure Policy = iota
	// FailOnce remembers the first failure for the process lifetime
	FailOnce
)

func (p Policy) String() string {
	if p == FailOnce {
		return "fail-once"
	}
	return "retry-on-failure"
}

// FetchFunc loads a full table
type FetchFunc func(ctx context.Context) (map[int]string, error)

// Lookup is an init-once id→name table.
//
// Concurrent first access may run the fetch more than once; the last
// successful result is stored and it never changes once readers see it.
type Lookup struct {
	name   string
	fetch  FetchFunc
	policy Policy
	logger logger.Logger

	table   atomic.Pointer[map[int]string]
	failed  atomic.Bool
	fetches atomic.Int64
}

// NewLookup creates an unpopulated lookup
func NewLookup(name string, fetch FetchFunc, policy Policy, log logger.Logger) *Lookup {
	if log == nil {
		log = logger.Nop()
	}
	return &Lookup{name: name, fetch: fetch, policy: policy, logger: log}
}

// Name returns the catalog name
func (l *Lookup) Name() string {
	return l.name
}

// FetchCount returns how many fetches have been issued
func (l *Lookup) FetchCount() int64 {
	return l.fetches.Load()
}

// Populated reports whether a table is stored
func (l *Lookup) Populated() bool {
	return l.table.Load() != nil
}

// Table returns the table, fetching it on first need. A failed fetch is
// logged and yields nil so dependent fields stay absent.
func (l *Lookup) Table(ctx context.Context) map[int]string {
	if t := l.table.Load(); t != nil {
		return *t
	}
	if l.policy == FailOnce && l.failed.Load() {
		return nil
	}

	l.fetches.Add(1)
	table, err := l.fetch(ctx)
	if err != nil {
		l.failed.Store(true)
		l.logger.Warn("[Catalog] %s fetch failed: %s", l.name, errors.FormatSimple(err))
		return nil
	}
	if table == nil {
		table = map[int]string{}
	}

	l.table.Store(&table)
	l.logger.Debug("[Catalog] %s loaded %d entries", l.name, len(table))
	return table
}

// Resolve returns the name for id
func (l *Lookup) Resolve(ctx context.Context, id int) (string, bool) {
	table := l.Table(ctx)
	if table == nil {
		return "", false
	}
	name, ok := table[id]
	return name, ok
}

// Names maps ids to names in input order, skipping unknown ids. It returns
// nil when nothing resolves.
func (l *Lookup) Names(ctx context.Context, ids []int) []string {
	if len(ids) == 0 {
		return nil
	}
	table := l.Table(ctx)
	if table == nil {
		return nil
	}

	var names []string
	for _, id := range ids {
		if name, ok := table[id]; ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Registry hands out one Lookup per name so every adapter instance shares
// the same table.
type Registry struct {
	policy  Policy
	logger  logger.Logger
	lookups map[string]*Lookup
	mu      sync.Mutex
}

// NewRegistry creates an empty registry
func NewRegistry(policy Policy, log logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{policy: policy, logger: log, lookups: make(map[string]*Lookup)}
}

// Lookup returns the lookup registered under name, creating it with fetch
// on first use. Later calls ignore fetch.
func (r *Registry) Lookup(name string, fetch FetchFunc) *Lookup {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.lookups[name]; ok {
		return l
	}
	l := NewLookup(name, fetch, r.policy, r.logger)
	r.lookups[name] = l
	return l
}

// Policy returns the failure policy applied to new lookups
func (r *Registry) Policy() Policy {
	return r.policy
}
