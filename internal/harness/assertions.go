package harness

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/holical/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the day's items to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Day      string   // "MM-DD", empty for error_count
	Items    []string // Items of Day, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Day != "" {
		fmt.Fprintf(&buf, "\nItems on %s:\n", e.Day)
		for i, item := range e.Items {
			fmt.Fprintf(&buf, "  [%d] %q\n", i+1, item)
		}
	}

	return buf.String()
}

// parseDayKey parses an "MM-DD" day. February 29 is accepted.
func parseDayKey(s string) (ir.DayKey, error) {
	var m, d int
	if _, err := fmt.Sscanf(s, "%d-%d", &m, &d); err != nil || len(s) != 5 {
		return ir.DayKey{}, fmt.Errorf("date %q must be MM-DD", s)
	}
	key := ir.DayKey{Month: time.Month(m), Day: d}
	if !key.Valid() {
		return ir.DayKey{}, fmt.Errorf("date %q is not a calendar day", s)
	}
	return key, nil
}

// dayItems returns the items of the assertion's day.
func dayItems(cal *ir.CalendarYear, assertion Assertion) (ir.DayKey, []string, error) {
	key, err := parseDayKey(assertion.Date)
	if err != nil {
		return key, nil, err
	}
	if cal == nil {
		return key, nil, &AssertionError{
			Type:     assertion.Type,
			Expected: "a built calendar",
			Actual:   "build aborted",
		}
	}
	return key, cal.Day(key.Month, key.Day), nil
}

// assertDayContains checks that the day holds the expected text.
func assertDayContains(cal *ir.CalendarYear, assertion Assertion) error {
	key, items, err := dayItems(cal, assertion)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item == assertion.Text {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertDayContains,
		Expected: fmt.Sprintf("%q on %s", assertion.Text, key),
		Actual:   "not found",
		Day:      key.String(),
		Items:    items,
	}
}

// assertDayOrder checks that the expected items appear in order.
// Items don't need to be consecutive (intervening items are allowed).
func assertDayOrder(cal *ir.CalendarYear, assertion Assertion) error {
	key, items, err := dayItems(cal, assertion)
	if err != nil {
		return err
	}

	next := 0
	for _, item := range items {
		if next < len(assertion.Items) && item == assertion.Items[next] {
			next++
		}
	}
	if next == len(assertion.Items) {
		return nil
	}

	actual := fmt.Sprintf("missing or out of order: %q", assertion.Items[next])
	return &AssertionError{
		Type:     AssertDayOrder,
		Expected: fmt.Sprintf("items in order on %s: %q", key, assertion.Items),
		Actual:   actual,
		Day:      key.String(),
		Items:    items,
	}
}

// assertDayCount checks that the day holds exactly the expected number of items.
func assertDayCount(cal *ir.CalendarYear, assertion Assertion) error {
	key, items, err := dayItems(cal, assertion)
	if err != nil {
		return err
	}
	if len(items) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertDayCount,
		Expected: fmt.Sprintf("%d items on %s", assertion.Count, key),
		Actual:   fmt.Sprintf("%d items", len(items)),
		Day:      key.String(),
		Items:    items,
	}
}

// assertNoItems checks that the day is empty.
func assertNoItems(cal *ir.CalendarYear, assertion Assertion) error {
	key, items, err := dayItems(cal, assertion)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertNoItems,
		Expected: fmt.Sprintf("no items on %s", key),
		Actual:   fmt.Sprintf("%d items", len(items)),
		Day:      key.String(),
		Items:    items,
	}
}

// assertErrorCount checks the number of rule errors.
func assertErrorCount(result *Result, assertion Assertion) error {
	if len(result.BuildErrors) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertErrorCount,
		Expected: fmt.Sprintf("%d errors", assertion.Count),
		Actual:   fmt.Sprintf("%d errors: %q", len(result.BuildErrors), result.BuildErrors),
	}
}

// EvaluateAssertions checks every assertion against the result and returns
// the failure messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string

	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertDayContains:
			err = assertDayContains(result.Calendar, assertion)
		case AssertDayOrder:
			err = assertDayOrder(result.Calendar, assertion)
		case AssertDayCount:
			err = assertDayCount(result.Calendar, assertion)
		case AssertNoItems:
			err = assertNoItems(result.Calendar, assertion)
		case AssertErrorCount:
			err = assertErrorCount(result, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return failures
}
