package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/holical/internal/ir"
)

// ErrorPolicy controls what BuildYear does when a rule fails to evaluate.
type ErrorPolicy int

const (
	// PolicyCollect skips the failing rule for that day, records the error
	// once per distinct (rule, message) and keeps building. This is the
	// default.
	PolicyCollect ErrorPolicy = iota
	// PolicyAbort stops at the first error and returns no calendar.
	PolicyAbort
)

// String returns the flag spelling of the policy.
func (p ErrorPolicy) String() string {
	if p == PolicyAbort {
		return "abort"
	}
	return "collect"
}

// ParsePolicy parses "collect" or "abort". The empty string is "collect".
func ParsePolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "collect", "continue", "skip":
		return PolicyCollect, nil
	case "abort", "fail-fast":
		return PolicyAbort, nil
	default:
		return PolicyCollect, fmt.Errorf("invalid error policy %q: must be collect or abort", s)
	}
}

// MinYear and MaxYear bound the years BuildYear accepts.
const (
	MinYear = 1
	MaxYear = 9999
)

// Options configures BuildYear.
type Options struct {
	// Country is recorded on the calendar. It does not filter rules.
	Country string

	// Policy selects abort or collect-and-continue on rule errors.
	Policy ErrorPolicy

	// RunIDs generates the calendar's run ID. Defaults to UUIDv7Generator.
	RunIDs RunIDGenerator
}

// BuildReport summarises one BuildYear pass.
type BuildReport struct {
	// DaysVisited is the number of probe dates evaluated (365 or 366).
	DaysVisited int

	// Matches is the number of rule names appended.
	Matches int

	// LifeEvents is the number of life events appended.
	LifeEvents int

	// Errors holds one error per distinct failing (rule, message) and one
	// per rejected life event, in discovery order.
	Errors []error

	// FailedEvaluations counts every failed rule evaluation, duplicates
	// included.
	FailedEvaluations int
}

// OK reports whether the build produced no errors.
func (r *BuildReport) OK() bool {
	return len(r.Errors) == 0
}

// BuildYear evaluates rules for every day of year and overlays events.
//
// Days are visited in calendar order by ordinal arithmetic from January 1 to
// December 31. Each day's matched rule names are appended in rule order; the
// life events are appended afterwards in the order supplied. The two sources
// only meet in the shared DayItems.
//
// With PolicyAbort the first error is returned together with the partial
// report and a nil calendar. With PolicyCollect the calendar is always
// returned and the report lists the failures.
func BuildYear(rules []ir.Rule, year int, events []ir.LifeEvent, opts Options) (*ir.CalendarYear, *BuildReport, error) {
	if year < MinYear || year > MaxYear {
		return nil, nil, fmt.Errorf("year %d out of range [%d, %d]", year, MinYear, MaxYear)
	}

	gen := opts.RunIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	runID := gen.Generate()

	slog.Debug("building calendar",
		"run_id", runID,
		"year", year,
		"country", opts.Country,
		"rules", len(rules),
		"life_events", len(events),
		"policy", opts.Policy.String())

	items := ir.NewDayItems()
	report := &BuildReport{}
	seen := make(map[string]bool)

	record := func(err error, key string) {
		report.FailedEvaluations++
		if seen[key] {
			return
		}
		seen[key] = true
		report.Errors = append(report.Errors, err)
		slog.Warn("rule evaluation failed", "run_id", runID, "error", err)
	}

	first := ir.NewDate(year, time.January, 1).Ordinal()
	last := ir.NewDate(year, time.December, 31).Ordinal()

	for ord := first; ord <= last; ord++ {
		probe := ir.DateFromOrdinal(ord)
		report.DaysVisited++

		names, errs := MatchDay(rules, probe)
		if len(errs) > 0 {
			if opts.Policy == PolicyAbort {
				report.Errors = append(report.Errors, errs[0])
				report.FailedEvaluations++
				return nil, report, errs[0]
			}
			for _, err := range errs {
				record(err, dedupeKey(err))
			}
		}

		for _, name := range names {
			// probe is valid, so Add cannot fail here.
			_ = items.Add(probe.Month, probe.Day, name)
			report.Matches++
		}
	}

	for _, ev := range events {
		if err := items.Add(ev.Month, ev.Day, ev.Text); err != nil {
			lifeErr := &LifeEventError{Event: ev, Err: err}
			if opts.Policy == PolicyAbort {
				report.Errors = append(report.Errors, lifeErr)
				return nil, report, lifeErr
			}
			report.Errors = append(report.Errors, lifeErr)
			slog.Warn("life event rejected", "run_id", runID, "error", lifeErr)
			continue
		}
		report.LifeEvents++
	}

	slog.Info("calendar built",
		"run_id", runID,
		"year", year,
		"country", opts.Country,
		"days", report.DaysVisited,
		"matches", report.Matches,
		"life_events", report.LifeEvents,
		"errors", len(report.Errors))

	return ir.NewCalendarYear(year, opts.Country, runID, items), report, nil
}

// dedupeKey identifies a failure by rule and underlying message, so a rule
// that fails every day is reported once while distinct failures (say, a
// missing fifth Monday in two different months) are each reported.
func dedupeKey(err error) string {
	if re, ok := err.(*RuleError); ok {
		return fmt.Sprintf("%d\x00%s\x00%v", re.Index, re.Name, re.Err)
	}
	return err.Error()
}
