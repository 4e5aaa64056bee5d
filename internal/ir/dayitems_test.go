package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyValid(t *testing.T) {
	assert.True(t, DayKey{Month: time.February, Day: 29}.Valid())
	assert.False(t, DayKey{Month: time.February, Day: 30}.Valid())
	assert.True(t, DayKey{Month: time.December, Day: 31}.Valid())
	assert.False(t, DayKey{Month: time.April, Day: 31}.Valid())
	assert.False(t, DayKey{Month: 0, Day: 1}.Valid())
	assert.False(t, DayKey{Month: 13, Day: 1}.Valid())
	assert.False(t, DayKey{Month: time.May, Day: 0}.Valid())
}

func TestDayItemsAppendOnly(t *testing.T) {
	d := NewDayItems()
	require.NoError(t, d.Add(time.July, 4, "Independence Day"))
	require.NoError(t, d.Add(time.July, 4, "Independence Day"))
	require.NoError(t, d.Add(time.July, 4, "Sam, 40"))

	assert.Equal(t, []string{"Independence Day", "Independence Day", "Sam, 40"}, d.Day(time.July, 4))
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 3, d.Count())
	assert.Nil(t, d.Day(time.July, 5))
}

func TestDayItemsDayReturnsCopy(t *testing.T) {
	d := NewDayItems()
	require.NoError(t, d.Add(time.July, 4, "A"))

	got := d.Day(time.July, 4)
	got[0] = "changed"
	assert.Equal(t, []string{"A"}, d.Day(time.July, 4))
}

func TestDayItemsRejectsOutOfDomain(t *testing.T) {
	d := NewDayItems()
	err := d.Add(time.February, 30, "x")
	require.Error(t, err)

	var keyErr *DayKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, DayKey{Month: time.February, Day: 30}, keyErr.Key)
	assert.Equal(t, 0, d.Count())
}

func TestDayItemsKeysCalendarOrder(t *testing.T) {
	d := NewDayItems()
	require.NoError(t, d.Add(time.December, 25, "c"))
	require.NoError(t, d.Add(time.January, 10, "b"))
	require.NoError(t, d.Add(time.January, 2, "a"))

	assert.Equal(t, []DayKey{
		{Month: time.January, Day: 2},
		{Month: time.January, Day: 10},
		{Month: time.December, Day: 25},
	}, d.Keys())
}

func TestCalendarYearMonth(t *testing.T) {
	d := NewDayItems()
	require.NoError(t, d.Add(time.May, 27, "Memorial Day"))
	require.NoError(t, d.Add(time.May, 12, "Mother's Day"))
	require.NoError(t, d.Add(time.June, 1, "x"))

	cal := NewCalendarYear(2024, "US", "", d)
	assert.Equal(t, []DayKey{{Month: time.May, Day: 12}, {Month: time.May, Day: 27}}, cal.Month(time.May))
	assert.Empty(t, cal.Month(time.March))
	assert.Equal(t, 3, cal.ItemCount())
}
