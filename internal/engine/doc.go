// Package engine evaluates compiled holiday rules.
//
// The engine has three layers, leaf first:
//
//   - Resolve / ApplyOffset turn a rule's value and offset expressions into a
//     concrete candidate date for a probe date
//   - MatchDay evaluates every rule of a country for one probe date and
//     returns the names of the rules that fire, in rule order
//   - BuildYear drives MatchDay across every day of a year and overlays
//     externally supplied life events onto the resulting DayItems
//
// Everything here is synchronous and deterministic. Compiled rules are read
// only; each BuildYear call owns the DayItems it fills and hands it to the
// returned CalendarYear. Parallel builds for different (year, country)
// pairs need no coordination.
//
// Error policy: evaluation errors are data problems in the rule table, not
// programmer errors. A failing rule never stops the other rules of the same
// day from being evaluated. Whether BuildYear aborts on the first failure or
// collects every distinct failure and finishes the calendar is chosen with
// Options.Policy; collecting is the default.
package engine
