package engine

import (
	"fmt"
	"time"

	"github.com/roach88/holical/internal/ir"
)

// Resolve evaluates a compiled value expression against the probe date.
//
// Wildcard fields take the probe's year, month or day. The result is always
// a valid calendar date; otherwise *InvalidDateError or
// *OrdinalOutOfRangeError is returned.
func Resolve(expr ir.DateExpr, probe ir.Date) (ir.Date, error) {
	switch expr.Kind {
	case ir.FixedDate:
		d := ir.NewDate(
			expr.Year.Or(probe.Year),
			time.Month(expr.Month.Or(int(probe.Month))),
			expr.Day.Or(probe.Day),
		)
		if !d.Valid() {
			return ir.Date{}, &InvalidDateError{Year: d.Year, Month: d.Month, Day: d.Day}
		}
		return d, nil

	case ir.NthWeekdayOfMonth:
		year := expr.Year.Or(probe.Year)
		month := time.Month(expr.Month.Or(int(probe.Month)))
		if month < time.January || month > time.December {
			return ir.Date{}, &InvalidDateError{Year: year, Month: month, Day: 1}
		}
		return nthWeekday(year, month, expr.Weekday, expr.Ordinal)

	default:
		return ir.Date{}, fmt.Errorf("unknown rule kind %d", expr.Kind)
	}
}

// WeekdaysIn returns the days of month whose weekday is wd, ascending.
func WeekdaysIn(year int, month time.Month, wd time.Weekday) []int {
	var days []int
	for day := 1; day <= ir.DaysIn(year, month); day++ {
		if ir.NewDate(year, month, day).Weekday() == wd {
			days = append(days, day)
		}
	}
	return days
}

// nthWeekday selects the ordinal-th occurrence of wd in the month.
// Ordinals are 1-based; negative ordinals count back from the last one.
func nthWeekday(year int, month time.Month, wd time.Weekday, ordinal int) (ir.Date, error) {
	days := WeekdaysIn(year, month, wd)

	idx := ordinal - 1
	if ordinal < 0 {
		idx = len(days) + ordinal
	}
	if ordinal == 0 || idx < 0 || idx >= len(days) {
		return ir.Date{}, &OrdinalOutOfRangeError{
			Ordinal: ordinal,
			Weekday: wd,
			Year:    year,
			Month:   month,
			Count:   len(days),
		}
	}
	return ir.NewDate(year, month, days[idx]), nil
}

// maxSnapSteps bounds a weekday snap: every weekday occurs in any 7 days.
const maxSnapSteps = 7

// ApplyOffset shifts a resolved date by a compiled offset.
//
// Day offsets use ordinal arithmetic, so they roll across month and year
// boundaries. Weekday snaps walk one day at a time, starting at d itself,
// forward or (Backward) back until the weekday matches.
func ApplyOffset(d ir.Date, off ir.Offset) (ir.Date, error) {
	switch off.Kind {
	case ir.OffsetNone:
		return d, nil
	case ir.OffsetDays:
		return d.AddDays(off.Days), nil
	case ir.OffsetSnap:
		step := 1
		if off.Backward {
			step = -1
		}
		ord := d.Ordinal()
		for i := 0; i <= maxSnapSteps; i++ {
			candidate := ir.DateFromOrdinal(ord + i*step)
			if candidate.Weekday() == off.Weekday {
				return candidate, nil
			}
		}
		return ir.Date{}, ErrSnapRunaway
	default:
		return ir.Date{}, fmt.Errorf("unknown offset kind %d", off.Kind)
	}
}

// Candidate resolves a rule against the probe date and applies its offset.
// The rule fires on probe when the candidate equals probe.
func Candidate(rule ir.Rule, probe ir.Date) (ir.Date, error) {
	d, err := Resolve(rule.Date, probe)
	if err != nil {
		return ir.Date{}, err
	}
	return ApplyOffset(d, rule.Offset)
}
