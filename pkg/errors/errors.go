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

import stderrors "errors"

var (
	As     = stderrors.As
	Is     = stderrors.Is
	Unwrap = stderrors.Unwrap
)

// Source contract failures. Every adapter operation fails with one of these
// (wrapped in a TrackedError) so hosts can branch with Is.
var (
	ErrNetwork               = stderrors.New("network error")
	ErrParsing               = stderrors.New("parsing error")
	ErrMissingExternalID     = stderrors.New("missing external novel id")
	ErrMissingImplementation = stderrors.New("missing implementation")
	ErrNotUsed               = stderrors.New("not used")
	ErrInvalidNovel          = stderrors.New("invalid novel")
)

// Transport status sentinels, all of which also match ErrNetwork.
var (
	ErrNotFound   = &statusError{msg: "resource not found"}
	ErrForbidden  = &statusError{msg: "forbidden"}
	ErrBadRequest = &statusError{msg: "bad request"}
	ErrServer     = &statusError{msg: "server error"}
	ErrRateLimit  = &statusError{msg: "rate limit exceeded"}
	ErrEmptyBody  = &statusError{msg: "empty response body"}
)

type statusError struct {
	msg string
}

func (e *statusError) Error() string { return e.msg }

func (e *statusError) Is(target error) bool {
	return target == ErrNetwork
}

func IsNotFound(err error) bool    { return Is(err, ErrNotFound) }
func IsRateLimited(err error) bool { return Is(err, ErrRateLimit) }

// IsMissingExternalID reports whether a details fetch must run first.
func IsMissingExternalID(err error) bool { return Is(err, ErrMissingExternalID) }

// IsUnsupported reports whether the adapter deliberately lacks the capability.
func IsUnsupported(err error) bool {
	return Is(err, ErrMissingImplementation) || Is(err, ErrNotUsed)
}

func IsInvalidNovel(err error) bool { return Is(err, ErrInvalidNovel) }
