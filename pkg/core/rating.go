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

package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"Lectern/pkg/errors"
)

// Scale is the upper bound of the rating scale a site publishes
type Scale float64

const (
	ScaleFive    Scale = 5
	ScaleTen     Scale = 10
	ScaleHundred Scale = 100
)

// MaxRating is the top of the canonical scale
const MaxRating = 5.0

// Rating is a canonical 0.0-5.0 score. It stays numeric internally and is
// rendered as decimal text only when serialized.
type Rating float64

// NormalizeRating converts a value on scale to the canonical scale
func NormalizeRating(value float64, scale Scale) Rating {
	if scale <= 0 {
		scale = ScaleFive
	}
	r := value / (float64(scale) / MaxRating)
	switch {
	case r < 0:
		r = 0
	case r > MaxRating:
		r = MaxRating
	}
	return Rating(r)
}

// ParseRating parses text published on scale into a canonical rating
func ParseRating(text string, scale Scale) (Rating, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errors.Track(err).
			WithContext("rating", text).
			WithContext("scale", float64(scale)).
			AsParsing().
			Error()
	}
	return NormalizeRating(value, scale), nil
}

// RatingPtr parses text and returns nil when it is not a number
func RatingPtr(text string, scale Scale) *Rating {
	r, err := ParseRating(text, scale)
	if err != nil {
		return nil
	}
	return &r
}

// Float returns the numeric value
func (r Rating) Float() float64 {
	return float64(r)
}

// String renders the decimal form with at least one fractional digit,
// e.g. 4 -> "4.0" and 4.25 -> "4.25".
func (r Rating) String() string {
	s := strconv.FormatFloat(float64(r), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (r Rating) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		var value float64
		if err := json.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("rating: %w", err)
		}
		*r = Rating(value)
		return nil
	}

	parsed, err := ParseRating(text, ScaleFive)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
