package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/holical/internal/ir"
)

// InvalidDateError reports a resolved (year, month, day) triple that is not a
// real calendar date, e.g. February 30. Dates are never clamped.
type InvalidDateError struct {
	Year  int
	Month time.Month
	Day   int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: year=%d month=%d day=%d", e.Year, int(e.Month), e.Day)
}

// OrdinalOutOfRangeError reports an Nth-weekday request that does not exist
// in the month, e.g. a fifth Monday in a month with four.
type OrdinalOutOfRangeError struct {
	Ordinal int
	Weekday time.Weekday
	Year    int
	Month   time.Month
	Count   int // occurrences of Weekday in the month
}

func (e *OrdinalOutOfRangeError) Error() string {
	return fmt.Sprintf("ordinal %d out of range: %04d-%02d has %d %s(s)",
		e.Ordinal, e.Year, int(e.Month), e.Count, e.Weekday)
}

// ErrSnapRunaway is an internal consistency fault: a weekday snap walked more
// than seven days without finding the weekday.
var ErrSnapRunaway = errors.New("weekday snap did not terminate within 7 steps")

// RuleError names the rule and country whose evaluation failed for a date.
type RuleError struct {
	Name    string
	Country string
	Index   int
	Source  string
	Date    ir.Date // probe date; zero for load-time errors
	Err     error
}

func (e *RuleError) Error() string {
	where := ""
	if e.Source != "" {
		where = " at " + e.Source
	}
	if e.Date.Valid() {
		return fmt.Sprintf("rule %q (country %q%s) on %s: %v", e.Name, e.Country, where, e.Date, e.Err)
	}
	return fmt.Sprintf("rule %q (country %q%s): %v", e.Name, e.Country, where, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// NewRuleError wraps err with the identity of rule.
func NewRuleError(rule ir.Rule, date ir.Date, err error) *RuleError {
	return &RuleError{
		Name:    rule.Record.Name,
		Country: rule.Record.Country,
		Index:   rule.Index,
		Source:  rule.Record.Source,
		Date:    date,
		Err:     err,
	}
}

// LifeEventError reports a life event whose (month, day) is outside the
// calendar key domain.
type LifeEventError struct {
	Event ir.LifeEvent
	Err   error
}

func (e *LifeEventError) Error() string {
	return fmt.Sprintf("life event %q: %v", e.Event.Text, e.Err)
}

func (e *LifeEventError) Unwrap() error {
	return e.Err
}

// IsInvalidDate returns true if err is or wraps an InvalidDateError.
func IsInvalidDate(err error) bool {
	var target *InvalidDateError
	return errors.As(err, &target)
}

// IsOrdinalOutOfRange returns true if err is or wraps an OrdinalOutOfRangeError.
func IsOrdinalOutOfRange(err error) bool {
	var target *OrdinalOutOfRangeError
	return errors.As(err, &target)
}
