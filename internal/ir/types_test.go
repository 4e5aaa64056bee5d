package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleRecordJSONFieldNaming(t *testing.T) {
	rec := RuleRecord{
		Name:      "Election Day",
		Value:     "*/11/2",
		Offset:    "tue",
		Condition: "year % 2 == 0",
		Country:   "United States of America",
		Source:    "holidays.cue:9",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "year % 2 == 0", m["if"])
	assert.Equal(t, "tue", m["offset"])
	assert.NotContains(t, m, "type", "empty type is omitted")
	assert.Contains(t, m, "source")
}

func TestRuleKindString(t *testing.T) {
	assert.Equal(t, "fixed_date", FixedDate.String())
	assert.Equal(t, "nth_weekday_of_month", NthWeekdayOfMonth.String())
	assert.Equal(t, "unknown", RuleKind(0).String())
}

func TestFieldOr(t *testing.T) {
	assert.Equal(t, 7, Wild.Or(7))
	assert.Equal(t, 3, Lit(3).Or(7))
	assert.Equal(t, 0, Lit(0).Or(7), "a literal zero is not a wildcard")
}

func TestRawEntryAttr(t *testing.T) {
	e := RawEntry{Attributes: map[string]string{AttrName: "A", AttrOffset: ""}}

	v, ok := e.Attr(AttrName)
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	v, ok = e.Attr(AttrOffset)
	assert.True(t, ok, "present but empty")
	assert.Equal(t, "", v)

	_, ok = e.Attr(AttrIf)
	assert.False(t, ok)
}

func TestRuleName(t *testing.T) {
	r := Rule{Record: RuleRecord{Name: "Canada Day"}}
	assert.Equal(t, "Canada Day", r.Name())
}
