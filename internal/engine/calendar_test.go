package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/holical/internal/compiler"
	"github.com/roach88/holical/internal/ir"
)

func buildOpts() Options {
	return Options{Country: "Test", RunIDs: NewFixedGenerator("run-1")}
}

func TestBuildYear_DaysVisited(t *testing.T) {
	for year, want := range map[int]int{2023: 365, 2024: 366, 1900: 365, 2000: 366} {
		_, report, err := BuildYear(nil, year, nil, Options{RunIDs: NewFixedGenerator("r")})
		require.NoError(t, err)
		assert.Equal(t, want, report.DaysVisited, "year %d", year)
	}
}

func TestBuildYear_NewYearOnly(t *testing.T) {
	rules := []ir.Rule{rule(t, 0, "New Year's Day", "*/1/1", "", "")}

	cal, report, err := BuildYear(rules, 2024, nil, buildOpts())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Matches)

	assert.Equal(t, []ir.DayKey{{Month: time.January, Day: 1}}, cal.Days())
	assert.Equal(t, []string{"New Year's Day"}, cal.Day(time.January, 1))
	assert.Equal(t, 2024, cal.Year)
	assert.Equal(t, "Test", cal.Country)
	assert.Equal(t, "run-1", cal.RunID)
}

func TestBuildYear_Thanksgiving2024(t *testing.T) {
	rules := []ir.Rule{rule(t, 0, "Thanksgiving", "*/4/thu/11", "", "")}

	cal, _, err := BuildYear(rules, 2024, nil, buildOpts())
	require.NoError(t, err)
	assert.Equal(t, []ir.DayKey{{Month: time.November, Day: 28}}, cal.Days())
}

func TestBuildYear_SnapAcrossYearBoundary(t *testing.T) {
	// The value resolves in the probe's year, so a snap that leaves the
	// year is never seen by that year's build.
	rules := []ir.Rule{rule(t, 0, "Observed", "*/12/31", "mon", "")}

	cal, _, err := BuildYear(rules, 2023, nil, buildOpts())
	require.NoError(t, err)
	// 2023-12-31 is a Sunday, so the snap lands in 2024 and never fires.
	assert.Empty(t, cal.Days())
}

func TestBuildYear_WildcardDayFiresEveryDay(t *testing.T) {
	rules := []ir.Rule{rule(t, 0, "Every Day", "*/*/*", "", "")}

	cal, report, err := BuildYear(rules, 2023, nil, buildOpts())
	require.NoError(t, err)
	assert.Equal(t, 365, report.Matches)
	assert.Equal(t, 365, cal.ItemCount())
}

func TestBuildYear_LifeEventsAfterHolidays(t *testing.T) {
	rules := []ir.Rule{rule(t, 0, "Christmas Day", "*/12/25", "", "")}
	events := []ir.LifeEvent{
		{Month: time.December, Day: 25, Text: "Ada Lovelace, 34"},
		{Month: time.March, Day: 3, Text: "Bob and\n Alice, 10"},
		{Month: time.December, Day: 25, Text: "Carl, 5"},
	}

	cal, report, err := BuildYear(rules, 2024, events, buildOpts())
	require.NoError(t, err)
	assert.Equal(t, 3, report.LifeEvents)
	assert.Equal(t, []string{"Christmas Day", "Ada Lovelace, 34", "Carl, 5"}, cal.Day(time.December, 25))
	assert.Equal(t, []string{"Bob and\n Alice, 10"}, cal.Day(time.March, 3))
}

func TestBuildYear_LifeEventFeb29InCommonYear(t *testing.T) {
	// Feb 29 is in the key domain even when the year has no such day.
	events := []ir.LifeEvent{{Month: time.February, Day: 29, Text: "Leapling, 10"}}

	cal, report, err := BuildYear(nil, 2023, events, buildOpts())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, []string{"Leapling, 10"}, cal.Day(time.February, 29))
}

func TestBuildYear_InvalidLifeEvent(t *testing.T) {
	events := []ir.LifeEvent{
		{Month: time.February, Day: 30, Text: "Nobody"},
		{Month: time.April, Day: 1, Text: "Fool, 1"},
	}

	cal, report, err := BuildYear(nil, 2024, events, buildOpts())
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	var lifeErr *LifeEventError
	require.ErrorAs(t, report.Errors[0], &lifeErr)
	assert.Equal(t, "Nobody", lifeErr.Event.Text)
	assert.Equal(t, []string{"Fool, 1"}, cal.Day(time.April, 1))

	opts := buildOpts()
	opts.Policy = PolicyAbort
	cal, _, err = BuildYear(nil, 2024, events, opts)
	require.Error(t, err)
	assert.Nil(t, cal)
}

func TestBuildYear_MalformedRuleDoesNotAbort(t *testing.T) {
	table := &ir.RuleTable{Countries: []ir.CountrySet{{
		Name: "Test",
		Entries: []ir.RawEntry{
			{Attributes: map[string]string{"name": "Broken", "value": "1/1"}},
			{Attributes: map[string]string{"name": "New Year's Day", "value": "*/1/1"}},
		},
	}}}

	rules, errs := compiler.LoadRules(table, "Test", compiler.LoadModeCollectAll)
	require.Len(t, errs, 1)
	assert.True(t, compiler.IsMalformed(errs[0]))
	require.Len(t, rules, 1)
	assert.Equal(t, 1, rules[0].Index)

	cal, report, err := BuildYear(rules, 2024, nil, buildOpts())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, []string{"New Year's Day"}, cal.Day(time.January, 1))
}

func TestBuildYear_CollectDedupesPerRuleAndMessage(t *testing.T) {
	rules := []ir.Rule{
		rule(t, 0, "Leap Day", "*/2/29", "", ""),
		rule(t, 1, "Fifth Monday", "*/5/mon/*", "", ""),
		rule(t, 2, "New Year's Day", "*/1/1", "", ""),
	}

	cal, report, err := BuildYear(rules, 2023, nil, buildOpts())
	require.NoError(t, err)
	require.NotNil(t, cal)
	assert.Equal(t, []string{"New Year's Day"}, cal.Day(time.January, 1))
	assert.False(t, report.OK())

	var leap, fifth int
	for _, e := range report.Errors {
		var re *RuleError
		require.ErrorAs(t, e, &re)
		switch re.Name {
		case "Leap Day":
			leap++
			assert.True(t, IsInvalidDate(e))
		case "Fifth Monday":
			fifth++
			assert.True(t, IsOrdinalOutOfRange(e))
		}
	}
	assert.Equal(t, 1, leap, "same failure every day is reported once")
	// 2023 has four months with five Mondays (Jan, May, Jul, Oct), leaving
	// eight months without one.
	assert.Equal(t, 8, fifth)
	assert.Equal(t, 365+fifthFailures(2023), report.FailedEvaluations)
}

// fifthFailures counts the days of year whose month has fewer than five
// Mondays.
func fifthFailures(year int) int {
	n := 0
	for m := time.January; m <= time.December; m++ {
		if len(WeekdaysIn(year, m, time.Monday)) < 5 {
			n += ir.DaysIn(year, m)
		}
	}
	return n
}

func TestBuildYear_AbortReturnsFirstError(t *testing.T) {
	rules := []ir.Rule{
		rule(t, 0, "New Year's Day", "*/1/1", "", ""),
		rule(t, 1, "Fifth Monday", "*/5/mon/2", "", ""),
	}
	opts := buildOpts()
	opts.Policy = PolicyAbort

	cal, report, err := BuildYear(rules, 2023, nil, opts)
	require.Error(t, err)
	assert.Nil(t, cal)
	assert.True(t, IsOrdinalOutOfRange(err))
	assert.Equal(t, 1, report.DaysVisited, "aborts on the first probe")
}

func TestBuildYear_YearOutOfRange(t *testing.T) {
	_, _, err := BuildYear(nil, 0, nil, buildOpts())
	assert.Error(t, err)
	_, _, err = BuildYear(nil, 10000, nil, buildOpts())
	assert.Error(t, err)
}

func TestBuildYear_IndependentBuilds(t *testing.T) {
	rules := []ir.Rule{rule(t, 0, "New Year's Day", "*/1/1", "", "")}
	gen := NewFixedGenerator("a", "b")

	first, _, err := BuildYear(rules, 2024, nil, Options{RunIDs: gen})
	require.NoError(t, err)
	second, _, err := BuildYear(rules, 2024, nil, Options{RunIDs: gen})
	require.NoError(t, err)

	assert.Equal(t, first.ToCanonicalMap()["days"], second.ToCanonicalMap()["days"])
	assert.Equal(t, "a", first.RunID)
	assert.Equal(t, "b", second.RunID)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyCollect, p)

	p, err = ParsePolicy("ABORT")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)
	assert.Equal(t, "abort", p.String())

	_, err = ParsePolicy("explode")
	assert.Error(t, err)
}
