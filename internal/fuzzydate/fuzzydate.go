// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package fuzzydate models dates known only to some precision (a day, a
// month, a season, a year or a decade) and derives a comparable instant
// from them for ordering.
package fuzzydate

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/MKhiriev/timeline-sync/models"
)

// Granularity is the precision at which a date is known.
type Granularity string

const (
	Day    Granularity = "day"
	Month  Granularity = "month"
	Season Granularity = "season"
	Year   Granularity = "year"
	Decade Granularity = "decade"
)

// IsValid reports whether g is a known granularity.
func (g Granularity) IsValid() bool {
	switch g {
	case Day, Month, Season, Year, Decade:
		return true
	}
	return false
}

// UnmarshalText rejects unknown granularities.
func (g *Granularity) UnmarshalText(text []byte) error {
	v := Granularity(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown granularity %q", models.ErrValidation, text)
	}
	*g = v
	return nil
}

// SeasonName is one of the four meteorological seasons (northern
// hemisphere).
type SeasonName string

const (
	Spring SeasonName = "spring"
	Summer SeasonName = "summer"
	Autumn SeasonName = "autumn"
	Winter SeasonName = "winter"
)

// seasonMidMonth is the middle month of each season. Winter of year Y is
// anchored on January of Y.
var seasonMidMonth = map[SeasonName]time.Month{
	Spring: time.April,
	Summer: time.July,
	Autumn: time.October,
	Winter: time.January,
}

// IsValid reports whether s is one of the four seasons.
func (s SeasonName) IsValid() bool {
	_, ok := seasonMidMonth[s]
	return ok
}

// UnmarshalText rejects unknown seasons.
func (s *SeasonName) UnmarshalText(text []byte) error {
	v := SeasonName(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: unknown season %q", models.ErrValidation, text)
	}
	*s = v
	return nil
}

// MinYear is the earliest accepted year.
const MinYear = 1900

// maxYearAhead is how far past the current year a date may lie.
const maxYearAhead = 10

// Parts carries the optional components of a fuzzy date. Which ones are
// required depends on the granularity; extras are ignored.
type Parts struct {
	Year   *int
	Month  *int
	Day    *int
	Season *SeasonName
}

// FuzzyDate is an approximate date of known precision. Only the fields
// required by Granularity are populated.
type FuzzyDate struct {
	Granularity Granularity `json:"granularity"`
	Year        int         `json:"year"`
	Month       *int        `json:"month,omitempty"`
	Day         *int        `json:"day,omitempty"`
	Season      *SeasonName `json:"season,omitempty"`
}

// wireFuzzyDate is the decoded form of a FuzzyDate before validation.
type wireFuzzyDate struct {
	Granularity string  `json:"granularity"`
	Year        *int    `json:"year"`
	Month       *int    `json:"month"`
	Day         *int    `json:"day"`
	Season      *string `json:"season"`
}

// UnmarshalJSON decodes and validates a FuzzyDate the same way [New] does.
// Invalid input is rejected with an error wrapping [models.ErrValidation],
// never corrected.
func (f *FuzzyDate) UnmarshalJSON(data []byte) error {
	var w wireFuzzyDate
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode fuzzy date: %w", err)
	}

	parts := Parts{Year: w.Year, Month: w.Month, Day: w.Day}
	if w.Season != nil {
		parts.Season = season(SeasonName(*w.Season))
	}

	fd, err := New(Granularity(w.Granularity), parts)
	if err != nil {
		return fmt.Errorf("decode fuzzy date: %w", err)
	}
	*f = fd
	return nil
}

// New validates parts against granularity and builds a FuzzyDate. It fails
// with an error wrapping [models.ErrValidation] when a required component is
// missing or out of range.
func New(granularity Granularity, parts Parts) (FuzzyDate, error) {
	return newAt(time.Now().Year(), granularity, parts)
}

// IsValidInput reports whether [New] would accept the input.
func IsValidInput(granularity Granularity, parts Parts) bool {
	return Validate(time.Now().Year(), granularity, parts) == nil
}

func newAt(currentYear int, granularity Granularity, parts Parts) (FuzzyDate, error) {
	if err := Validate(currentYear, granularity, parts); err != nil {
		return FuzzyDate{}, err
	}

	fd := FuzzyDate{Granularity: granularity, Year: *parts.Year}
	switch granularity {
	case Day:
		fd.Month = intPtr(*parts.Month)
		fd.Day = intPtr(*parts.Day)
	case Month:
		fd.Month = intPtr(*parts.Month)
	case Season:
		s := *parts.Season
		fd.Season = &s
	case Decade:
		fd.Year = fd.Year - fd.Year%10
	}

	return fd, nil
}

// Validate checks parts against granularity with currentYear as the
// reference for the upper year bound.
func Validate(currentYear int, granularity Granularity, parts Parts) error {
	if parts.Year == nil {
		return fmt.Errorf("%w: year is required for %s granularity", models.ErrValidation, granularity)
	}
	year := *parts.Year
	if year < MinYear || year > currentYear+maxYearAhead {
		return fmt.Errorf("%w: year %d outside [%d, %d]", models.ErrValidation, year, MinYear, currentYear+maxYearAhead)
	}

	switch granularity {
	case Day:
		if err := validateMonth(parts.Month); err != nil {
			return err
		}
		if parts.Day == nil {
			return fmt.Errorf("%w: day is required for day granularity", models.ErrValidation)
		}
		if d := *parts.Day; d < 1 || d > daysIn(year, time.Month(*parts.Month)) {
			return fmt.Errorf("%w: day %d is not valid for %d-%02d", models.ErrValidation, d, year, *parts.Month)
		}
	case Month:
		return validateMonth(parts.Month)
	case Season:
		if parts.Season == nil {
			return fmt.Errorf("%w: season is required for season granularity", models.ErrValidation)
		}
		if !parts.Season.IsValid() {
			return fmt.Errorf("%w: unknown season %q", models.ErrValidation, *parts.Season)
		}
	case Year, Decade:
	default:
		return fmt.Errorf("%w: unknown granularity %q", models.ErrValidation, granularity)
	}

	return nil
}

func validateMonth(month *int) error {
	if month == nil {
		return fmt.Errorf("%w: month is required", models.ErrValidation)
	}
	if *month < 1 || *month > 12 {
		return fmt.Errorf("%w: month %d outside [1, 12]", models.ErrValidation, *month)
	}
	return nil
}

// daysIn returns the number of days of month in year, honouring the
// Gregorian leap-year rules.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ApproximateDateTime is the instant used to order fuzzy dates. It is never
// a real capture time:
//   - Day: midnight UTC of that day;
//   - Month: the first of the month;
//   - Season: the 15th of the season's middle month;
//   - Year: January 1;
//   - Decade: January 1 of the decade's first year.
func (f FuzzyDate) ApproximateDateTime() time.Time {
	switch f.Granularity {
	case Day:
		return time.Date(f.Year, time.Month(deref(f.Month, 1)), deref(f.Day, 1), 0, 0, 0, 0, time.UTC)
	case Month:
		return time.Date(f.Year, time.Month(deref(f.Month, 1)), 1, 0, 0, 0, 0, time.UTC)
	case Season:
		m := time.January
		if f.Season != nil {
			m = seasonMidMonth[*f.Season]
		}
		return time.Date(f.Year, m, 15, 0, 0, 0, 0, time.UTC)
	case Decade:
		return time.Date(f.Year-f.Year%10, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// String renders the date at its own precision, e.g. "March 14, 2023",
// "Spring 2023" or "1980s".
func (f FuzzyDate) String() string {
	switch f.Granularity {
	case Day:
		return f.ApproximateDateTime().Format("January 2, 2006")
	case Month:
		return f.ApproximateDateTime().Format("January 2006")
	case Season:
		name := ""
		if f.Season != nil {
			name = string(*f.Season)
		}
		if name != "" {
			name = string(name[0]-'a'+'A') + name[1:]
		}
		return name + " " + strconv.Itoa(f.Year)
	case Decade:
		return strconv.Itoa(f.Year-f.Year%10) + "s"
	default:
		return strconv.Itoa(f.Year)
	}
}

// Sort returns dates ordered by ApproximateDateTime ascending. The sort is
// stable: equal instants keep their input order. The input is not modified.
func Sort(dates []FuzzyDate) []FuzzyDate {
	out := slices.Clone(dates)
	slices.SortStableFunc(out, func(a, b FuzzyDate) int {
		return a.ApproximateDateTime().Compare(b.ApproximateDateTime())
	})
	return out
}

func intPtr(v int) *int { return &v }

func season(s SeasonName) *SeasonName { return &s }

func deref(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
