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

package rpc

import (
	"fmt"
	"time"

	"Lectern/pkg/errors"
)

// Error is the failure a host receives for a call. net/rpc only carries the
// message string, so Error() encodes the code and category as a prefix.
type Error struct {
	Code     int                    `json:"code"`
	Message  string                 `json:"message"`
	Category errors.ErrorCategory   `json:"category"`
	Data     map[string]interface{} `json:"data,omitempty"`

	FunctionChain string    `json:"function_chain,omitempty"`
	Service       string    `json:"service,omitempty"`
	Method        string    `json:"method,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("RPC Error %d (%s): %s", e.Code, e.Category, e.Message)
}

// Error codes, grouped by the failure a host can react to
const (
	// Request errors (1000-1099)
	ErrCodeInvalidInput   = -1001
	ErrCodeUnknownSource  = -1002
	ErrCodeConfiguration  = -1003
	ErrCodeDetailsMissing = -1004

	// Capability errors (1100-1199)
	ErrCodeUnsupported = -1101

	// Network errors (2000-2099)
	ErrCodeNetwork     = -2001
	ErrCodeNotFound    = -2002
	ErrCodeRateLimited = -2003
	ErrCodeTimeout     = -2004

	// Payload errors (3000-3099)
	ErrCodeParsing      = -3001
	ErrCodeInvalidNovel = -3002

	// Anything else (9000-9099)
	ErrCodeSourceError   = -9001
	ErrCodeInternalError = -9002
)

// NewError converts any error returned by the engine into an RPC error
func NewError(err error, service, method string, request map[string]interface{}) *Error {
	rpcErr := &Error{
		Message:   err.Error(),
		Category:  errors.GetCategory(err),
		Data:      make(map[string]interface{}, len(request)),
		Service:   service,
		Method:    method,
		Timestamp: time.Now(),
	}
	for k, v := range request {
		rpcErr.Data[k] = v
	}

	var te *errors.TrackedError
	if errors.As(err, &te) {
		rpcErr.FunctionChain = te.GetFunctionChain()
		for k, v := range te.GetContext() {
			if k == "original_errors" {
				continue
			}
			rpcErr.Data[k] = v
		}
	}

	rpcErr.Code = codeFor(rpcErr.Category, rpcErr.Data)
	return rpcErr
}

func codeFor(category errors.ErrorCategory, data map[string]interface{}) int {
	switch category {
	case errors.CategoryNetwork:
		return ErrCodeNetwork
	case errors.CategoryNotFound:
		return ErrCodeNotFound
	case errors.CategoryRateLimit:
		return ErrCodeRateLimited
	case errors.CategoryTimeout:
		return ErrCodeTimeout
	case errors.CategoryParsing:
		return ErrCodeParsing
	case errors.CategoryInvalidNovel:
		return ErrCodeInvalidNovel
	case errors.CategoryMissingExternalID:
		return ErrCodeDetailsMissing
	case errors.CategoryNotImplemented, errors.CategoryNotUsed:
		return ErrCodeUnsupported
	case errors.CategoryConfiguration:
		if _, ok := data["available_sources"]; ok {
			return ErrCodeUnknownSource
		}
		return ErrCodeConfiguration
	case errors.CategoryProvider:
		return ErrCodeSourceError
	default:
		return ErrCodeInternalError
	}
}

// InvalidInput reports a request field the server cannot work with
func InvalidInput(service, method, field string, value interface{}) *Error {
	err := errors.Newf("invalid value %v for field %s", value, field).AsConfiguration().Error()
	rpcErr := NewError(err, service, method, map[string]interface{}{
		"invalid_field": field,
		"invalid_value": value,
	})
	rpcErr.Code = ErrCodeInvalidInput
	return rpcErr
}

// IsNetworkIssue checks if the failure came from the transport
func (e *Error) IsNetworkIssue() bool {
	return e.Code <= ErrCodeNetwork && e.Code >= ErrCodeTimeout
}

// IsRetryable reports whether the same call may succeed later
func (e *Error) IsRetryable() bool {
	return e.IsNetworkIssue() && e.Code != ErrCodeNotFound
}

// GetSuggestedAction returns a short hint for the host's user
func (e *Error) GetSuggestedAction() string {
	switch {
	case e.Code == ErrCodeDetailsMissing:
		return "Call Novel.Details first and pass the returned novel"
	case e.Code == ErrCodeUnsupported:
		return "This source does not offer that operation; try another source"
	case e.Code == ErrCodeUnknownSource:
		return "Call Sources.List for the valid source ids"
	case e.IsRetryable():
		return "The site was unreachable or slow; try again later"
	case e.Code == ErrCodeParsing || e.Code == ErrCodeInvalidNovel:
		return "The site layout or API may have changed"
	default:
		return "An unexpected error occurred; check the log file"
	}
}
