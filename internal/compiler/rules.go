package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/holical/internal/ir"
	"github.com/roach88/holical/internal/predicate"
)

// LoadMode controls how errors are handled while loading rules.
type LoadMode int

const (
	// LoadModeFailFast stops on the first malformed rule.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll skips malformed rules, reports each one and keeps
	// the rest.
	LoadModeCollectAll
)

// Wildcard is the token that takes a field from the probe date.
const Wildcard = "*"

// Weekdays are the weekday tokens, Monday first. The position is the
// Monday-based weekday index used by conditions.
var Weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// Months are the month tokens; position+1 is the month number.
var Months = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// WeekdayToken maps a weekday token to a time.Weekday.
func WeekdayToken(tok string) (time.Weekday, bool) {
	for i, w := range Weekdays {
		if w == tok {
			return time.Weekday((i + 1) % 7), true
		}
	}
	return 0, false
}

// MonthToken maps a month token to a time.Month.
func MonthToken(tok string) (time.Month, bool) {
	for i, m := range Months {
		if m == tok {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// RecordsFor returns the rule records of country in table order.
//
// Country sets are matched by NFC-normalized name; several sets with the same
// name are concatenated. Absent optional attributes default to "". Entries
// missing name or value yield a *MalformedRuleError; with
// LoadModeCollectAll they are skipped, with LoadModeFailFast loading stops.
func RecordsFor(table *ir.RuleTable, country string, mode LoadMode) ([]ir.RuleRecord, []error) {
	indexed, errs := indexedRecords(table, country, mode)
	records := make([]ir.RuleRecord, len(indexed))
	for i, r := range indexed {
		records[i] = r.rec
	}
	return records, errs
}

type indexedRecord struct {
	rec   ir.RuleRecord
	index int
}

func indexedRecords(table *ir.RuleTable, country string, mode LoadMode) ([]indexedRecord, []error) {
	var records []indexedRecord
	var errs []error

	want := ir.NormalizeName(country)
	index := 0
	for _, set := range table.Countries {
		if ir.NormalizeName(set.Name) != want {
			continue
		}
		for _, entry := range set.Entries {
			rec, err := recordFromEntry(entry, want, index)
			if err != nil {
				errs = append(errs, err)
				if mode == LoadModeFailFast {
					return records, errs
				}
			} else {
				records = append(records, indexedRecord{rec: rec, index: index})
			}
			index++
		}
	}

	return records, errs
}

func recordFromEntry(entry ir.RawEntry, country string, index int) (ir.RuleRecord, error) {
	name, hasName := entry.Attr(ir.AttrName)
	value, hasValue := entry.Attr(ir.AttrValue)
	offset, _ := entry.Attr(ir.AttrOffset)
	cond, _ := entry.Attr(ir.AttrIf)
	typ, _ := entry.Attr(ir.AttrType)

	if !hasName {
		return ir.RuleRecord{}, &MalformedRuleError{
			Code: ErrCodeMissingName, Country: country, Index: index, Source: entry.Source,
			Field: ir.AttrName, Message: "name is required",
		}
	}
	if !hasValue {
		return ir.RuleRecord{}, &MalformedRuleError{
			Code: ErrCodeMissingValue, Name: name, Country: country, Index: index, Source: entry.Source,
			Field: ir.AttrValue, Message: "value is required",
		}
	}

	return ir.RuleRecord{
		Name:      ir.NormalizeName(name),
		Value:     value,
		Offset:    offset,
		Condition: cond,
		Type:      typ,
		Country:   country,
		Source:    entry.Source,
	}, nil
}

// LoadRules filters table to country and compiles each record once.
//
// The returned rules keep table order; Rule.Index is the record's position
// among the country's entries, counting skipped ones, so it identifies the
// entry in error reports. An unknown country yields *UnknownCountryError.
func LoadRules(table *ir.RuleTable, country string, mode LoadMode) ([]ir.Rule, []error) {
	countries := ListCountries(table)
	if !containsName(countries, country) {
		return nil, []error{&UnknownCountryError{Country: country, Available: countries}}
	}

	records, errs := indexedRecords(table, country, mode)
	if len(errs) > 0 && mode == LoadModeFailFast {
		return nil, errs
	}

	rules := make([]ir.Rule, 0, len(records))
	for _, r := range records {
		rule, err := CompileRecord(r.rec, r.index)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		rules = append(rules, rule)
	}

	return rules, errs
}

func containsName(names []string, name string) bool {
	want := ir.NormalizeName(name)
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

// CompileRecord compiles one record's value, offset and condition.
func CompileRecord(rec ir.RuleRecord, index int) (ir.Rule, error) {
	malformed := func(code, field, token, msg string, err error) error {
		return &MalformedRuleError{
			Code: code, Name: rec.Name, Country: rec.Country, Index: index, Source: rec.Source,
			Field: field, Token: token, Message: msg, Err: err,
		}
	}

	expr, err := ParseValue(rec.Value)
	if err != nil {
		pe := err.(*parseError)
		return ir.Rule{}, malformed(pe.code, ir.AttrValue, pe.token, pe.msg, nil)
	}

	off, err := ParseOffset(rec.Offset)
	if err != nil {
		pe := err.(*parseError)
		return ir.Rule{}, malformed(pe.code, ir.AttrOffset, pe.token, pe.msg, nil)
	}

	rule := ir.Rule{
		Index:  index,
		Record: rec,
		Date:   expr,
		Offset: off,
	}

	if strings.TrimSpace(rec.Condition) != "" {
		cond, err := predicate.Parse(rec.Condition)
		if err != nil {
			return ir.Rule{}, malformed(ErrCodeBadCondition, ir.AttrIf, rec.Condition, err.Error(), err)
		}
		rule.Condition = cond
	}

	return rule, nil
}

// parseError is the internal error of ParseValue and ParseOffset; it carries
// the error code so CompileRecord can build a MalformedRuleError.
type parseError struct {
	code  string
	token string
	msg   string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// ParseValue compiles a value expression.
//
//	year/month/day            FixedDate; any field may be "*"
//	year/ordinal/weekday/month NthWeekdayOfMonth; year and month may be "*",
//	                          month may be a month token
//
// Any other number of fields is malformed.
func ParseValue(value string) (ir.DateExpr, error) {
	parts := strings.Split(value, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 3:
		year, err := parseField(parts[0])
		if err != nil {
			return ir.DateExpr{}, err
		}
		month, err := parseField(parts[1])
		if err != nil {
			return ir.DateExpr{}, err
		}
		day, err := parseField(parts[2])
		if err != nil {
			return ir.DateExpr{}, err
		}
		return ir.DateExpr{Kind: ir.FixedDate, Year: year, Month: month, Day: day}, nil

	case 4:
		year, err := parseField(parts[0])
		if err != nil {
			return ir.DateExpr{}, err
		}
		ordinal, err := strconv.Atoi(parts[1])
		if err != nil {
			return ir.DateExpr{}, &parseError{ErrCodeNotInteger, parts[1], fmt.Sprintf("ordinal %q is not an integer", parts[1])}
		}
		wd, ok := WeekdayToken(parts[2])
		if !ok {
			return ir.DateExpr{}, &parseError{ErrCodeUnknownWeekday, parts[2], fmt.Sprintf("unknown weekday %q, want one of %v", parts[2], Weekdays)}
		}
		month, err := parseMonthField(parts[3])
		if err != nil {
			return ir.DateExpr{}, err
		}
		return ir.DateExpr{Kind: ir.NthWeekdayOfMonth, Year: year, Month: month, Ordinal: ordinal, Weekday: wd}, nil

	default:
		return ir.DateExpr{}, &parseError{
			ErrCodeValueArity, value,
			fmt.Sprintf("value %q has %d slash(es), want 2 (year/month/day) or 3 (year/ordinal/weekday/month)", value, len(parts)-1),
		}
	}
}

func parseField(s string) (ir.Field, error) {
	if s == Wildcard {
		return ir.Wild, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ir.Field{}, &parseError{ErrCodeNotInteger, s, fmt.Sprintf("field %q is neither an integer nor %q", s, Wildcard)}
	}
	return ir.Lit(n), nil
}

func parseMonthField(s string) (ir.Field, error) {
	if m, ok := MonthToken(s); ok {
		return ir.Lit(int(m)), nil
	}
	if s == Wildcard {
		return ir.Wild, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return ir.Lit(n), nil
	}
	return ir.Field{}, &parseError{ErrCodeUnknownMonth, s, fmt.Sprintf("unknown month %q, want 1-12, %q or one of %v", s, Wildcard, Months)}
}

var signedInt = regexp.MustCompile(`^[+-]?[0-9]+$`)

// ParseOffset compiles an offset expression.
//
//	""          no offset
//	N, +N, -N   shift by N days
//	wd, -wd     snap forward (backward) to the nearest wd, inclusive
func ParseOffset(offset string) (ir.Offset, error) {
	s := strings.TrimSpace(offset)
	if s == "" {
		return ir.Offset{Kind: ir.OffsetNone}, nil
	}

	if signedInt.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return ir.Offset{}, &parseError{ErrCodeBadOffset, s, fmt.Sprintf("offset %q out of range", s)}
		}
		return ir.Offset{Kind: ir.OffsetDays, Days: n}, nil
	}

	backward := false
	tok := s
	if strings.HasPrefix(tok, "-") {
		backward = true
		tok = tok[1:]
	}
	wd, ok := WeekdayToken(tok)
	if !ok {
		return ir.Offset{}, &parseError{ErrCodeBadOffset, s, fmt.Sprintf("offset %q is neither a day count nor a weekday token (optionally prefixed with -)", s)}
	}
	return ir.Offset{Kind: ir.OffsetSnap, Weekday: wd, Backward: backward}, nil
}
