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
	"context"
	"runtime"
	"strings"
	"time"
)

// TrackedError wraps errors with automatic function call chain tracking
type TrackedError struct {
	Original    error                  `json:"original_error"`
	RootCause   error                  `json:"root_cause"`
	CallChain   []FunctionCall         `json:"call_chain"`
	Context     map[string]interface{} `json:"context,omitempty"`
	UserMessage string                 `json:"user_message,omitempty"`
	Category    ErrorCategory          `json:"category"`
}

// FunctionCall represents a single function in the call chain
type FunctionCall struct {
	Function  string    `json:"function"`
	ShortName string    `json:"short_name"`
	Package   string    `json:"package"`
	File      string    `json:"file"`
	Line      int       `json:"line"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation,omitempty"`
}

// ErrorCategory classifies a failure for hosts and for CLI formatting
type ErrorCategory string

const (
	CategoryNetwork           ErrorCategory = "network"
	CategoryParsing           ErrorCategory = "parsing"
	CategoryMissingExternalID ErrorCategory = "missing_external_id"
	CategoryNotImplemented    ErrorCategory = "not_implemented"
	CategoryNotUsed           ErrorCategory = "not_used"
	CategoryInvalidNovel      ErrorCategory = "invalid_novel"
	CategoryProvider          ErrorCategory = "provider"
	CategoryNotFound          ErrorCategory = "not_found"
	CategoryRateLimit         ErrorCategory = "rate_limit"
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryConfiguration     ErrorCategory = "configuration"
	CategoryUnknown           ErrorCategory = "unknown"
)

// categorySentinels lets a categorised error match its taxonomy sentinel
// even when the wrapped error is something else (a dial error, a gjson miss).
var categorySentinels = map[ErrorCategory][]error{
	CategoryNetwork:           {ErrNetwork},
	CategoryNotFound:          {ErrNetwork, ErrNotFound},
	CategoryRateLimit:         {ErrNetwork, ErrRateLimit},
	CategoryTimeout:           {ErrNetwork},
	CategoryParsing:           {ErrParsing},
	CategoryMissingExternalID: {ErrMissingExternalID},
	CategoryNotImplemented:    {ErrMissingImplementation},
	CategoryNotUsed:           {ErrNotUsed},
	CategoryInvalidNovel:      {ErrInvalidNovel},
}

func (e *TrackedError) Error() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if e.Original != nil {
		return e.Original.Error()
	}
	return "unknown error"
}

func (e *TrackedError) Unwrap() error {
	return e.Original
}

func (e *TrackedError) Is(target error) bool {
	if e.Original != nil && Is(e.Original, target) {
		return true
	}
	if e.RootCause != nil && Is(e.RootCause, target) {
		return true
	}
	for _, sentinel := range categorySentinels[e.Category] {
		if sentinel == target {
			return true
		}
	}
	return false
}

// GetFunctionChain returns the function call path as a string
func (e *TrackedError) GetFunctionChain() string {
	if len(e.CallChain) == 0 {
		return ""
	}

	functions := make([]string, len(e.CallChain))
	for i, call := range e.CallChain {
		functions[i] = call.ShortName
	}

	return strings.Join(functions, " -> ")
}

// IsCategory checks if error belongs to a specific category
func (e *TrackedError) IsCategory(category ErrorCategory) bool {
	return e.Category == category
}

// GetContext returns the context data associated with the error
func (e *TrackedError) GetContext() map[string]interface{} {
	if e.Context == nil {
		return make(map[string]interface{})
	}
	return e.Context
}

// trackError creates a TrackedError for err with the caller recorded, or
// appends the caller to an existing chain.
func trackError(err error) *TrackedError {
	call := currentCall()

	var tracked *TrackedError
	if As(err, &tracked) {
		tracked.CallChain = append(tracked.CallChain, call)
		return tracked
	}

	return &TrackedError{
		Original:  err,
		RootCause: findRootCause(err),
		CallChain: []FunctionCall{call},
		Context:   make(map[string]interface{}),
		Category:  classifyError(err),
	}
}

func currentCall() FunctionCall {
	pc, file, line, ok := getCaller()
	if !ok {
		return FunctionCall{Function: "unknown", ShortName: "unknown", Package: "unknown", File: "unknown", Timestamp: time.Now()}
	}

	fullName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		fullName = fn.Name()
	}

	short := extractShortFunctionName(fullName)
	return FunctionCall{
		Function:  fullName,
		ShortName: short,
		Package:   extractPackageName(fullName),
		File:      extractFileName(file),
		Line:      line,
		Timestamp: time.Now(),
		Operation: detectOperation(short),
	}
}

// getCaller walks up the stack to find the first frame outside this package
func getCaller() (uintptr, string, int, bool) {
	internalPatterns := []string{
		"pkg/errors/tracker.go",
		"pkg/errors/builder.go",
		"pkg/errors/simple.go",
	}

	for i := 1; i < 12; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		isInternal := false
		for _, pattern := range internalPatterns {
			if strings.HasSuffix(file, pattern) {
				isInternal = true
				break
			}
		}

		if !isInternal {
			return pc, file, line, true
		}
	}

	return runtime.Caller(1)
}

func extractShortFunctionName(fullName string) string {
	if idx := strings.LastIndex(fullName, "/"); idx != -1 {
		fullName = fullName[idx+1:]
	}
	// drop the package qualifier, keep receiver and method
	if idx := strings.Index(fullName, "."); idx != -1 {
		fullName = fullName[idx+1:]
	}
	fullName = strings.ReplaceAll(fullName, "(*", "")
	fullName = strings.ReplaceAll(fullName, ")", "")
	return fullName
}

func extractPackageName(fullName string) string {
	if idx := strings.LastIndex(fullName, "/"); idx != -1 {
		fullName = fullName[idx+1:]
	}
	if idx := strings.Index(fullName, "."); idx != -1 {
		return fullName[:idx]
	}
	return "unknown"
}

func extractFileName(fullPath string) string {
	if idx := strings.LastIndex(fullPath, "/"); idx != -1 {
		return fullPath[idx+1:]
	}
	return fullPath
}

func detectOperation(functionName string) string {
	lower := strings.ToLower(functionName)

	switch {
	case strings.Contains(lower, "search"):
		return "search"
	case strings.Contains(lower, "chapter"):
		return "chapters"
	case strings.Contains(lower, "detail"):
		return "details"
	case strings.Contains(lower, "popular"), strings.Contains(lower, "latest"):
		return "listing"
	case strings.Contains(lower, "parse"):
		return "parse"
	case strings.Contains(lower, "do"), strings.Contains(lower, "request"):
		return "http_request"
	default:
		return ""
	}
}

var classification = []struct {
	category ErrorCategory
	sentinel error
}{
	{CategoryMissingExternalID, ErrMissingExternalID},
	{CategoryNotImplemented, ErrMissingImplementation},
	{CategoryNotUsed, ErrNotUsed},
	{CategoryInvalidNovel, ErrInvalidNovel},
	{CategoryParsing, ErrParsing},
	{CategoryNotFound, ErrNotFound},
	{CategoryRateLimit, ErrRateLimit},
}

func classifyError(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	for _, c := range classification {
		if Is(err, c.sentinel) {
			return c.category
		}
	}
	if Is(err, context.DeadlineExceeded) || Is(err, context.Canceled) {
		return CategoryTimeout
	}
	if Is(err, ErrNetwork) {
		return CategoryNetwork
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case containsAny(errStr, "dial tcp", "connection refused", "no such host", "connection reset", "tls", "eof"):
		return CategoryNetwork
	case containsAny(errStr, "timeout", "deadline exceeded"):
		return CategoryTimeout
	case containsAny(errStr, "json", "unmarshal", "invalid character", "syntax error", "parse"):
		return CategoryParsing
	default:
		return CategoryUnknown
	}
}

func containsAny(s string, patterns ...string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func findRootCause(err error) error {
	root := err
	for {
		unwrapped := Unwrap(root)
		if unwrapped == nil {
			return root
		}
		root = unwrapped
	}
}
