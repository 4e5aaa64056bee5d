package engine

import (
	"github.com/roach88/holical/internal/ir"
)

// Match is one rule that fired on a probe date.
type Match struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Index int    `json:"index"`
}

// MatchDay returns the names of the rules that fire on probe, in rule order.
//
// A rule fires when:
//  1. Its value expression resolves against probe's year/month (and day for
//     wildcard days) to a valid date
//  2. That date, after the rule's offset, equals probe
//  3. Its condition, if any, holds for probe
//
// A rule whose evaluation fails is skipped and reported as a *RuleError;
// the remaining rules are still evaluated. Names are not deduplicated.
func MatchDay(rules []ir.Rule, probe ir.Date) ([]string, []error) {
	matches, errs := MatchDayDetailed(rules, probe)
	if len(matches) == 0 {
		return nil, errs
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return names, errs
}

// MatchDayDetailed is MatchDay returning the rule type and index as well.
func MatchDayDetailed(rules []ir.Rule, probe ir.Date) ([]Match, []error) {
	var matches []Match
	var errs []error

	for _, rule := range rules {
		ok, err := fires(rule, probe)
		if err != nil {
			errs = append(errs, NewRuleError(rule, probe, err))
			continue
		}
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Name:  rule.Record.Name,
			Type:  rule.Record.Type,
			Index: rule.Index,
		})
	}

	return matches, errs
}

// fires reports whether a single rule fires on probe.
func fires(rule ir.Rule, probe ir.Date) (bool, error) {
	candidate, err := Candidate(rule, probe)
	if err != nil {
		return false, err
	}
	if candidate != probe {
		return false, nil
	}
	if rule.Condition != nil && !rule.Condition.Holds(probe) {
		return false, nil
	}
	return true, nil
}
