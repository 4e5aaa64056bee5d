package compiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/holical/internal/ir"
)

func entry(attrs ...string) ir.RawEntry {
	e := ir.RawEntry{Attributes: map[string]string{}}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attributes[attrs[i]] = attrs[i+1]
	}
	return e
}

func testTable() *ir.RuleTable {
	return &ir.RuleTable{Countries: []ir.CountrySet{
		{Name: "United States of America", Entries: []ir.RawEntry{
			entry("name", "New Year's Day", "value", "*/1/1", "type", "national"),
			entry("name", "Thanksgiving", "value", "*/4/thu/nov"),
		}},
		{Name: "Canada", Entries: []ir.RawEntry{
			entry("name", "Canada Day", "value", "*/7/1"),
		}},
		{Name: "United States of America", Entries: []ir.RawEntry{
			entry("name", "Independence Day", "value", "*/7/4", "offset", "", "if", "year >= 1776"),
		}},
	}}
}

func TestRecordsFor_FiltersAndConcatenates(t *testing.T) {
	records, errs := RecordsFor(testTable(), "United States of America", LoadModeCollectAll)
	require.Empty(t, errs)
	require.Len(t, records, 3)

	assert.Equal(t, "New Year's Day", records[0].Name)
	assert.Equal(t, "national", records[0].Type)
	assert.Equal(t, "", records[0].Offset, "absent offset defaults to empty")
	assert.Equal(t, "Thanksgiving", records[1].Name)
	assert.Equal(t, "Independence Day", records[2].Name)
	assert.Equal(t, "year >= 1776", records[2].Condition)
	for _, r := range records {
		assert.Equal(t, "United States of America", r.Country)
	}
}

func TestRecordsFor_UnknownCountryIsEmpty(t *testing.T) {
	records, errs := RecordsFor(testTable(), "Atlantis", LoadModeCollectAll)
	assert.Empty(t, records)
	assert.Empty(t, errs)
}

func TestRecordsFor_NormalizesCountryName(t *testing.T) {
	// "Côte d'Ivoire" with a combining circumflex in the table, precomposed
	// in the query.
	table := &ir.RuleTable{Countries: []ir.CountrySet{
		{Name: "Co\u0302te d'Ivoire", Entries: []ir.RawEntry{entry("name", "Fête", "value", "*/8/7")}},
	}}

	records, errs := RecordsFor(table, "Côte d'Ivoire", LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "Fête", records[0].Name)
}

func TestRecordsFor_MissingAttributes(t *testing.T) {
	table := &ir.RuleTable{Countries: []ir.CountrySet{{Name: "X", Entries: []ir.RawEntry{
		entry("value", "*/1/1"),
		entry("name", "No Value"),
		entry("name", "Fine", "value", "*/2/2"),
	}}}}

	records, errs := RecordsFor(table, "X", LoadModeCollectAll)
	require.Len(t, errs, 2)
	require.Len(t, records, 1)

	var mal *MalformedRuleError
	require.ErrorAs(t, errs[0], &mal)
	assert.Equal(t, ErrCodeMissingName, mal.Code)
	assert.Equal(t, 0, mal.Index)
	require.ErrorAs(t, errs[1], &mal)
	assert.Equal(t, ErrCodeMissingValue, mal.Code)
	assert.Equal(t, "No Value", mal.Name)

	records, errs = RecordsFor(table, "X", LoadModeFailFast)
	assert.Len(t, errs, 1)
	assert.Empty(t, records)
}

func TestLoadRules_UnknownCountry(t *testing.T) {
	rules, errs := LoadRules(testTable(), "Atlantis", LoadModeCollectAll)
	assert.Nil(t, rules)
	require.Len(t, errs, 1)

	var unknown *UnknownCountryError
	require.ErrorAs(t, errs[0], &unknown)
	assert.Equal(t, []string{"United States of America", "Canada"}, unknown.Available)
}

func TestLoadRules_CompilesOnce(t *testing.T) {
	rules, errs := LoadRules(testTable(), "United States of America", LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, rules, 3)

	assert.Equal(t, ir.FixedDate, rules[0].Date.Kind)
	assert.Equal(t, ir.NthWeekdayOfMonth, rules[1].Date.Kind)
	assert.Equal(t, time.Thursday, rules[1].Date.Weekday)
	assert.Equal(t, ir.Lit(11), rules[1].Date.Month)
	assert.Nil(t, rules[0].Condition)
	require.NotNil(t, rules[2].Condition)
	assert.Equal(t, "year >= 1776", rules[2].Condition.String())

	for i, r := range rules {
		assert.Equal(t, i, r.Index)
	}
}

func TestLoadRules_CollectKeepsIndexOfSkippedEntries(t *testing.T) {
	table := &ir.RuleTable{Countries: []ir.CountrySet{{Name: "X", Entries: []ir.RawEntry{
		entry("name", "A", "value", "*/1/1"),
		entry("name", "Broken", "value", "1/1"),
		entry("name", "Bad Offset", "value", "*/1/1", "offset", "+mon"),
		entry("name", "B", "value", "*/3/3"),
	}}}}

	rules, errs := LoadRules(table, "X", LoadModeCollectAll)
	require.Len(t, errs, 2)
	require.Len(t, rules, 2)
	assert.Equal(t, 0, rules[0].Index)
	assert.Equal(t, 3, rules[1].Index)

	var mal *MalformedRuleError
	require.ErrorAs(t, errs[0], &mal)
	assert.Equal(t, ErrCodeValueArity, mal.Code)
	assert.Equal(t, 1, mal.Index)
	require.ErrorAs(t, errs[1], &mal)
	assert.Equal(t, ErrCodeBadOffset, mal.Code)
	assert.Equal(t, 2, mal.Index)

	rules, errs = LoadRules(table, "X", LoadModeFailFast)
	assert.Nil(t, rules)
	assert.Len(t, errs, 1)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		value string
		want  ir.DateExpr
	}{
		{"*/1/1", ir.DateExpr{Kind: ir.FixedDate, Year: ir.Wild, Month: ir.Lit(1), Day: ir.Lit(1)}},
		{"2024/*/*", ir.DateExpr{Kind: ir.FixedDate, Year: ir.Lit(2024), Month: ir.Wild, Day: ir.Wild}},
		{" * / 12 / 25 ", ir.DateExpr{Kind: ir.FixedDate, Year: ir.Wild, Month: ir.Lit(12), Day: ir.Lit(25)}},
		{"*/4/thu/11", ir.DateExpr{Kind: ir.NthWeekdayOfMonth, Year: ir.Wild, Month: ir.Lit(11), Ordinal: 4, Weekday: time.Thursday}},
		{"*/-1/mon/may", ir.DateExpr{Kind: ir.NthWeekdayOfMonth, Year: ir.Wild, Month: ir.Lit(5), Ordinal: -1, Weekday: time.Monday}},
		{"2020/1/sun/*", ir.DateExpr{Kind: ir.NthWeekdayOfMonth, Year: ir.Lit(2020), Month: ir.Wild, Ordinal: 1, Weekday: time.Sunday}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue_Malformed(t *testing.T) {
	tests := []struct {
		value string
		code  string
	}{
		{"1/1", ErrCodeValueArity},
		{"", ErrCodeValueArity},
		{"*/1/1/1/1", ErrCodeValueArity},
		{"*/jan/1", ErrCodeNotInteger},
		{"*/x/mon/1", ErrCodeNotInteger},
		{"*/*/mon/1", ErrCodeNotInteger},
		{"*/1/monday/1", ErrCodeUnknownWeekday},
		{"*/1/Mon/1", ErrCodeUnknownWeekday},
		{"*/1/mon/january", ErrCodeUnknownMonth},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := CompileRecord(ir.RuleRecord{Name: "R", Value: tt.value, Country: "X"}, 0)
			require.Error(t, err)
			var mal *MalformedRuleError
			require.ErrorAs(t, err, &mal)
			assert.Equal(t, tt.code, mal.Code)
			assert.Equal(t, ir.AttrValue, mal.Field)
			assert.True(t, IsMalformed(err))
		})
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		offset string
		want   ir.Offset
	}{
		{"", ir.Offset{Kind: ir.OffsetNone}},
		{"  ", ir.Offset{Kind: ir.OffsetNone}},
		{"0", ir.Offset{Kind: ir.OffsetDays}},
		{"1", ir.Offset{Kind: ir.OffsetDays, Days: 1}},
		{"+2", ir.Offset{Kind: ir.OffsetDays, Days: 2}},
		{"-47", ir.Offset{Kind: ir.OffsetDays, Days: -47}},
		{"mon", ir.Offset{Kind: ir.OffsetSnap, Weekday: time.Monday}},
		{"-fri", ir.Offset{Kind: ir.OffsetSnap, Weekday: time.Friday, Backward: true}},
		{"sun", ir.Offset{Kind: ir.OffsetSnap, Weekday: time.Sunday}},
	}

	for _, tt := range tests {
		t.Run(tt.offset, func(t *testing.T) {
			got, err := ParseOffset(tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOffset_Malformed(t *testing.T) {
	for _, off := range []string{"+mon", "monday", "1.5", "--1", "- mon", "x"} {
		t.Run(off, func(t *testing.T) {
			_, err := CompileRecord(ir.RuleRecord{Name: "R", Value: "*/1/1", Offset: off, Country: "X"}, 0)
			var mal *MalformedRuleError
			require.ErrorAs(t, err, &mal)
			assert.Equal(t, ErrCodeBadOffset, mal.Code)
			assert.Equal(t, ir.AttrOffset, mal.Field)
		})
	}
}

func TestCompileRecord_BadCondition(t *testing.T) {
	_, err := CompileRecord(ir.RuleRecord{Name: "R", Value: "*/1/1", Condition: "year ==", Country: "X"}, 4)
	var mal *MalformedRuleError
	require.ErrorAs(t, err, &mal)
	assert.Equal(t, ErrCodeBadCondition, mal.Code)
	assert.Equal(t, 4, mal.Index)
	assert.NotNil(t, mal.Unwrap())
	assert.Contains(t, err.Error(), `rule "R"`)
	assert.Contains(t, err.Error(), `country "X"`)
}

func TestListCountries(t *testing.T) {
	assert.Equal(t, []string{"United States of America", "Canada"}, ListCountries(testTable()))
	assert.Empty(t, ListCountries(&ir.RuleTable{}))
}

func TestHasCountry(t *testing.T) {
	assert.True(t, HasCountry(testTable(), "Canada"))
	assert.False(t, HasCountry(testTable(), "canada"))
	assert.False(t, HasCountry(&ir.RuleTable{}, "Canada"))
}

func TestMalformedRuleError_UnnamedRule(t *testing.T) {
	err := &MalformedRuleError{Code: ErrCodeMissingName, Country: "X", Index: 2, Field: "name", Message: "name is required"}
	assert.Equal(t, `E120: rule #3 (country "X"): name: name is required`, err.Error())
}
