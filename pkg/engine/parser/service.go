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

package parser

import (
	"fmt"
	"regexp"
	"sync"

	"Lectern/pkg/engine/logger"
	"Lectern/pkg/engine/parser/html"
	"Lectern/pkg/errors"
	"github.com/tidwall/gjson"
)

// Service provides unified parsing capabilities
type Service struct {
	logger   logger.Logger
	patterns map[string]*regexp.Regexp
	mu       sync.RWMutex
}

// NewService creates a new parser service
func NewService(log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		logger:   log,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// ParseHTML parses markup served from baseURL
func (s *Service) ParseHTML(content []byte, baseURL string) (*html.Document, error) {
	return html.Parse(content, baseURL)
}

// ParseJSON validates content and returns its root
func (s *Service) ParseJSON(content []byte) (gjson.Result, error) {
	return JSON(content)
}

// Pattern returns a compiled expression, compiling it once per service
func (s *Service) Pattern(expr string) (*regexp.Regexp, error) {
	s.mu.RLock()
	re, ok := s.patterns[expr]
	s.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Track(err).
			WithContext("pattern", expr).
			AsParsing().
			Error()
	}

	s.mu.Lock()
	s.patterns[expr] = re
	s.mu.Unlock()
	return re, nil
}

// FindGroup returns capture group 1 of expr's first match in text
func (s *Service) FindGroup(expr, text string) (string, error) {
	re, err := s.Pattern(expr)
	if err != nil {
		return "", err
	}

	matches := re.FindStringSubmatch(text)
	if len(matches) < 2 {
		s.logger.Debug("[Parser] pattern %q did not match", expr)
		return "", errors.Track(fmt.Errorf("no match for pattern")).
			WithContext("pattern", expr).
			AsParsing().
			Error()
	}
	return matches[1], nil
}
