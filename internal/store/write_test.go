package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/holical/internal/ir"
)

func TestAddLifeEvent_AssignsIDAndSeq(t *testing.T) {
	s := createMemoryStore(t)
	ctx := context.Background()

	a, err := s.AddLifeEvent(ctx, birth("Ada", 1815, time.December, 10))
	require.NoError(t, err)
	b, err := s.AddLifeEvent(ctx, marriage("Charles", "Mary", 1990, time.June, 2))
	require.NoError(t, err)

	assert.Len(t, a.ID, 36, "UUIDv7 string")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, int64(1), a.Seq)
	assert.Equal(t, int64(2), b.Seq)
	assert.Equal(t, "Mary", b.Spouse)
	assert.Equal(t, ir.NewDate(1815, time.December, 10), a.Date)
}

func TestAddLifeEvent_Idempotent(t *testing.T) {
	s := createMemoryStore(t)
	ctx := context.Background()

	rec := birth("Ada", 1815, time.December, 10)
	rec.ID = "fixed-id"

	first, err := s.AddLifeEvent(ctx, rec)
	require.NoError(t, err)
	second, err := s.AddLifeEvent(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	all, err := s.ListLifeEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddLifeEvent_StoresDeathDates(t *testing.T) {
	s := createMemoryStore(t)
	ctx := context.Background()

	rec := marriage("Charles", "Mary", 1950, time.May, 1)
	rec.Death = datePtr(2001, time.March, 3)
	rec.SpouseDeath = datePtr(2010, time.April, 4)

	got, err := s.AddLifeEvent(ctx, rec)
	require.NoError(t, err)
	require.NotNil(t, got.Death)
	require.NotNil(t, got.SpouseDeath)
	assert.Equal(t, *rec.Death, *got.Death)
	assert.Equal(t, *rec.SpouseDeath, *got.SpouseDeath)
}

func TestAddLifeEvent_NormalizesNames(t *testing.T) {
	s := createMemoryStore(t)

	got, err := s.AddLifeEvent(context.Background(), birth("Amélie", 1990, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, "Amélie", got.Name)
}

func TestAddLifeEvent_Invalid(t *testing.T) {
	s := createMemoryStore(t)
	ctx := context.Background()

	bad := []ir.LifeEventRecord{
		{Kind: "death", Name: "X", Date: ir.NewDate(2000, time.January, 1)},
		{Kind: ir.KindBirth, Date: ir.NewDate(2000, time.January, 1)},
		{Kind: ir.KindMarriage, Name: "X", Date: ir.NewDate(2000, time.January, 1)},
		{Kind: ir.KindBirth, Name: "X", Date: ir.NewDate(2001, time.February, 29)},
		{Kind: ir.KindBirth, Name: "X", Date: ir.NewDate(2000, time.January, 1), Death: datePtr(1999, time.January, 1)},
	}
	for _, rec := range bad {
		_, err := s.AddLifeEvent(ctx, rec)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidLifeEvent), err.Error())
	}

	all, err := s.ListLifeEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveCalendar_RoundTrip(t *testing.T) {
	s := createMemoryStore(t)
	ctx := context.Background()

	items := ir.NewDayItems()
	require.NoError(t, items.Add(time.December, 25, "Christmas"))
	require.NoError(t, items.Add(time.December, 25, "Ada, 36"))
	require.NoError(t, items.Add(time.June, 2, "Mary and\n Charles, 34"))
	cal := ir.NewCalendarYear(2024, "United States of America", "run-1", items)

	run, err := s.SaveCalendar(ctx, cal, ir.CalendarRun{RulesHash: "abc", EngineVersion: ir.EngineVersion, ErrorCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, 3, run.ItemCount)

	loaded, meta, err := s.LoadCalendar(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, meta)
	assert.Equal(t, cal.ToCanonicalMap(), loaded.ToCanonicalMap())
	assert.Equal(t, []string{"Christmas", "Ada, 36"}, loaded.Day(time.December, 25))
}

func TestSaveCalendar_DuplicateRunFails(t *testing.T) {
	s := createMemoryStore(t)
	ctx := context.Background()

	cal := ir.NewCalendarYear(2024, "X", "run-1", nil)
	_, err := s.SaveCalendar(ctx, cal, ir.CalendarRun{})
	require.NoError(t, err)
	_, err = s.SaveCalendar(ctx, cal, ir.CalendarRun{})
	assert.Error(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSaveCalendar_RequiresRunID(t *testing.T) {
	s := createMemoryStore(t)
	_, err := s.SaveCalendar(context.Background(), ir.NewCalendarYear(2024, "X", "", nil), ir.CalendarRun{})
	assert.Error(t, err)
}
