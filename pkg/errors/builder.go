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
	"fmt"
)

// ErrorBuilder provides a fluent interface for building tracked errors
type ErrorBuilder struct {
	err *TrackedError
}

// Track wraps any error with automatic tracking and returns a builder
func Track(err error) *ErrorBuilder {
	if err == nil {
		return nil
	}
	return &ErrorBuilder{err: trackError(err)}
}

// New creates a new error with tracking
func New(message string) *ErrorBuilder {
	return Track(fmt.Errorf("%s", message))
}

// Newf creates a new formatted error with tracking
func Newf(format string, args ...interface{}) *ErrorBuilder {
	return Track(fmt.Errorf(format, args...))
}

// WithContext adds context data to the error
func (b *ErrorBuilder) WithContext(key string, value interface{}) *ErrorBuilder {
	if b == nil || b.err == nil {
		return b
	}

	b.err.Context[key] = value
	return b
}

// WithMessage sets a user-friendly message
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	if b == nil || b.err == nil {
		return b
	}

	b.err.UserMessage = message
	return b
}

// WithMessagef sets a formatted user-friendly message
func (b *ErrorBuilder) WithMessagef(format string, args ...interface{}) *ErrorBuilder {
	return b.WithMessage(fmt.Sprintf(format, args...))
}

// WithHTTPContext adds HTTP-related context
func (b *ErrorBuilder) WithHTTPContext(method, url string, statusCode int) *ErrorBuilder {
	return b.
		WithContext("method", method).
		WithContext("url", url).
		WithContext("status_code", statusCode)
}

// WithRetryContext adds retry-related context
func (b *ErrorBuilder) WithRetryContext(attempt, maxAttempts int) *ErrorBuilder {
	return b.
		WithContext("attempt", attempt).
		WithContext("max_attempts", maxAttempts)
}

// WithProvider records which source produced the error without touching
// the category, so the taxonomy sentinel still matches.
func (b *ErrorBuilder) WithProvider(sourceID int64, name string) *ErrorBuilder {
	return b.
		WithContext("source_id", sourceID).
		WithContext("source_name", name)
}

// AsCategory sets the error category
func (b *ErrorBuilder) AsCategory(category ErrorCategory) *ErrorBuilder {
	if b == nil || b.err == nil {
		return b
	}

	b.err.Category = category
	return b
}

// AsNetwork marks the error as a transport failure
func (b *ErrorBuilder) AsNetwork() *ErrorBuilder {
	return b.AsCategory(CategoryNetwork)
}

// AsParsing marks the error as an unexpected payload shape
func (b *ErrorBuilder) AsParsing() *ErrorBuilder {
	return b.AsCategory(CategoryParsing)
}

// AsMissingExternalID marks a sequencing violation: details must run first
func (b *ErrorBuilder) AsMissingExternalID() *ErrorBuilder {
	return b.AsCategory(CategoryMissingExternalID)
}

// AsNotImplemented marks a capability the adapter does not provide
func (b *ErrorBuilder) AsNotImplemented() *ErrorBuilder {
	return b.AsCategory(CategoryNotImplemented)
}

// AsNotUsed marks a hook the adapter deliberately never calls
func (b *ErrorBuilder) AsNotUsed() *ErrorBuilder {
	return b.AsCategory(CategoryNotUsed)
}

// AsInvalidNovel marks a fragment that cannot produce a minimal novel
func (b *ErrorBuilder) AsInvalidNovel() *ErrorBuilder {
	return b.AsCategory(CategoryInvalidNovel)
}

// AsProvider tags the error with a source; the category only changes when
// nothing more specific is known.
func (b *ErrorBuilder) AsProvider(sourceID int64) *ErrorBuilder {
	if b == nil || b.err == nil {
		return b
	}
	if b.err.Category == CategoryUnknown {
		b.err.Category = CategoryProvider
	}
	return b.WithContext("source_id", sourceID)
}

// AsNotFound marks the error as not-found
func (b *ErrorBuilder) AsNotFound() *ErrorBuilder {
	return b.AsCategory(CategoryNotFound)
}

// AsRateLimit marks the error as rate-limit-related
func (b *ErrorBuilder) AsRateLimit() *ErrorBuilder {
	return b.AsCategory(CategoryRateLimit)
}

// AsTimeout marks the error as timeout-related
func (b *ErrorBuilder) AsTimeout() *ErrorBuilder {
	return b.AsCategory(CategoryTimeout)
}

// AsConfiguration marks the error as a configuration problem
func (b *ErrorBuilder) AsConfiguration() *ErrorBuilder {
	return b.AsCategory(CategoryConfiguration)
}

// Error returns the tracked error
func (b *ErrorBuilder) Error() error {
	if b == nil || b.err == nil {
		return nil
	}
	return b.err
}

// IsRetryable checks if the error should be retried
func (b *ErrorBuilder) IsRetryable() bool {
	if b == nil || b.err == nil {
		return false
	}

	switch b.err.Category {
	case CategoryNetwork, CategoryTimeout, CategoryRateLimit:
		if statusCode, ok := b.err.Context["status_code"].(int); ok {
			return statusCode >= 500 || statusCode == 429
		}
		return true
	default:
		return false
	}
}

// FromContext creates an error from a context
func FromContext(ctx context.Context) *ErrorBuilder {
	err := ctx.Err()
	if err == nil {
		return nil
	}

	builder := Track(err).AsTimeout()
	if Is(err, context.Canceled) {
		return builder.WithMessage("Operation was cancelled")
	}
	return builder.WithMessage("Operation timed out")
}
