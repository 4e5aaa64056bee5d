package ir

import (
	"fmt"
	"time"
)

// unixEpochOrdinal is the ordinal of 1970-01-01 when 0001-01-01 is ordinal 1.
const unixEpochOrdinal = 719163

const secondsPerDay = 24 * 60 * 60

// Date is a calendar date in the proleptic Gregorian calendar.
// The zero value is not a valid date; use Valid before trusting one that
// came from user data.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given triple without validating it.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO "YYYY-MM-DD" date and rejects impossible dates.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return DaysIn(year, time.February) == 29
}

// Valid reports whether the triple names a real calendar date.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysIn(d.Year, d.Month)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Ordinal returns the day ordinal of d, with 0001-01-01 as day 1.
// The result is only meaningful for valid dates.
func (d Date) Ordinal() int {
	return int(d.Time().Unix()/secondsPerDay) + unixEpochOrdinal
}

// DateFromOrdinal is the inverse of Date.Ordinal.
func DateFromOrdinal(n int) Date {
	return DateOf(time.Unix(int64(n-unixEpochOrdinal)*secondsPerDay, 0).UTC())
}

// AddDays shifts d by n days using ordinal arithmetic.
func (d Date) AddDays(n int) Date {
	return DateFromOrdinal(d.Ordinal() + n)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// YearDay returns the 1-based day of the year.
func (d Date) YearDay() int {
	return d.Time().YearDay()
}

// Key returns the (month, day) key of the date.
func (d Date) Key() DayKey {
	return DayKey{Month: d.Month, Day: d.Day}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes the date as YYYY-MM-DD, so JSON and YAML carry ISO
// strings.
func (d Date) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("marshal date: %s is not a calendar date", d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses a YYYY-MM-DD date.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
