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

package errors

import (
	"fmt"
	"strings"
)

// SIMPLE API - short helpers for the common cases

// T (Track) wraps any error and records the calling function
func T(err error) error {
	if err == nil {
		return nil
	}
	return trackError(err)
}

// TN (Track Network) wraps a transport failure
func TN(err error) error {
	if err == nil {
		return nil
	}
	return Track(err).AsNetwork().Error()
}

// TP (Track Parsing) wraps a payload that did not have the expected shape
func TP(err error) error {
	if err == nil {
		return nil
	}
	return Track(err).AsParsing().Error()
}

// Join combines several errors into a single tracked error
func Join(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return T(nonNil[0])
	}

	messages := make([]string, len(nonNil))
	for i, err := range nonNil {
		messages[i] = err.Error()
	}

	te := trackError(fmt.Errorf("multiple errors: %s", strings.Join(messages, "; ")))
	te.Context["original_errors"] = nonNil
	for _, err := range nonNil {
		if category := GetCategory(err); category != CategoryUnknown {
			te.Category = category
			break
		}
	}
	return te
}

// IsNetwork checks if the error is a transport failure
func IsNetwork(err error) bool {
	return Is(err, ErrNetwork)
}

// IsParsing checks if the error is a payload-shape failure
func IsParsing(err error) bool {
	return Is(err, ErrParsing)
}

// IsTimeout checks if the error is timeout-related
func IsTimeout(err error) bool {
	var te *TrackedError
	if As(err, &te) {
		return te.IsCategory(CategoryTimeout)
	}
	return strings.Contains(strings.ToLower(err.Error()), "deadline exceeded")
}

// GetCategory returns the error category
func GetCategory(err error) ErrorCategory {
	var te *TrackedError
	if As(err, &te) {
		return te.Category
	}
	return classifyError(err)
}

// GetFunctionChain returns the function call path
func GetFunctionChain(err error) string {
	var te *TrackedError
	if As(err, &te) {
		return te.GetFunctionChain()
	}
	return ""
}

// FormatSimple is a one-line format for log files
func FormatSimple(err error) string {
	var te *TrackedError
	if !As(err, &te) {
		return err.Error()
	}

	chain := te.GetFunctionChain()
	if chain == "" {
		return fmt.Sprintf("[%s] %s", te.Category, err.Error())
	}

	return fmt.Sprintf("[%s] %s: %s", te.Category, chain, err.Error())
}

// GetContextValue returns one context entry of a tracked error, or nil
func GetContextValue(err error, key string) interface{} {
	var te *TrackedError
	if As(err, &te) {
		return te.Context[key]
	}
	return nil
}
