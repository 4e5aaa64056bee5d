package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roach88/holical/internal/ir"
)

// renderCalendar writes the per-month text listing of a calendar.
//
// Each month with items gets a heading, then one line per item. The day
// number is printed on a day's first item only. Line breaks inside an item
// (anniversaries) are folded to single spaces.
func renderCalendar(w io.Writer, title string, footer []string, cal *ir.CalendarYear) {
	if title != "" {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintf(w, "%s %d\n", cal.Country, cal.Year)

	for m := time.January; m <= time.December; m++ {
		days := cal.Month(m)
		if len(days) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", m)
		for _, key := range days {
			for i, item := range cal.Day(key.Month, key.Day) {
				if i == 0 {
					fmt.Fprintf(w, "  %2d  %s\n", key.Day, foldLines(item))
				} else {
					fmt.Fprintf(w, "      %s\n", foldLines(item))
				}
			}
		}
	}

	var lines []string
	for _, line := range footer {
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		fmt.Fprintln(w)
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}
}

// foldLines collapses all whitespace runs, line breaks included, to one space.
func foldLines(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// renderErrors writes one line per rule error.
func renderErrors(w io.Writer, errs []error) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n✗ %d rule error(s)\n", len(errs))
	for _, err := range errs {
		fmt.Fprintf(w, "  [%s] %v\n", errorCode(err), err)
	}
}

// errorStrings converts errors to their messages, never returning nil.
func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// writeCanonical writes {"status":"ok","data":data} as canonical JSON.
// Used where the output must be byte-stable (calendars).
func writeCanonical(f *OutputFormatter, data map[string]any) error {
	out, err := ir.MarshalCanonical(map[string]any{
		"status": "ok",
		"data":   data,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
	}
	if _, err := fmt.Fprintf(f.Writer, "%s\n", out); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
	}
	return nil
}

// runToCanonicalMap converts run metadata for canonical JSON.
func runToCanonicalMap(run ir.CalendarRun) map[string]any {
	return map[string]any{
		"id":             run.ID,
		"seq":            run.Seq,
		"year":           run.Year,
		"country":        run.Country,
		"rules_hash":     run.RulesHash,
		"engine_version": run.EngineVersion,
		"item_count":     run.ItemCount,
		"error_count":    run.ErrorCount,
	}
}
