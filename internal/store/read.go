package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/holical/internal/ir"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// GetLifeEvent returns one stored life event by ID.
func (s *Store) GetLifeEvent(ctx context.Context, id string) (ir.LifeEventRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, kind, name, spouse, date, death, spouse_death
		FROM life_events
		WHERE id = ?
	`, id)
	rec, err := scanLifeEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.LifeEventRecord{}, fmt.Errorf("life event %q: %w", id, ErrNotFound)
	}
	return rec, err
}

// ListLifeEvents returns all stored life events in insertion order.
// Returns an empty slice (not nil) when the store holds none.
func (s *Store) ListLifeEvents(ctx context.Context) ([]ir.LifeEventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, kind, name, spouse, date, death, spouse_death
		FROM life_events
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query life events: %w", err)
	}
	defer rows.Close()

	records := []ir.LifeEventRecord{}
	for rows.Next() {
		rec, err := scanLifeEvent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate life events: %w", err)
	}
	return records, nil
}

// LifeEventFilter selects which stored events become calendar items.
type LifeEventFilter struct {
	Birthdays     bool
	Anniversaries bool
	// AliveOnly drops events of people (or spouses) who died before the year.
	AliveOnly bool
}

// DefaultLifeEventFilter includes birthdays and anniversaries of living people.
func DefaultLifeEventFilter() LifeEventFilter {
	return LifeEventFilter{Birthdays: true, Anniversaries: true, AliveOnly: true}
}

// LifeEvents renders the stored events for year as calendar items.
//
// Birthdays read "<name>, <age>" and anniversaries "<spouse> and\n <name>,
// <years>", where age and years count whole years to the calendar year.
// Events dated after year are skipped. Items keep insertion order.
func (s *Store) LifeEvents(ctx context.Context, year int, filter LifeEventFilter) ([]ir.LifeEvent, error) {
	records, err := s.ListLifeEvents(ctx)
	if err != nil {
		return nil, err
	}

	var events []ir.LifeEvent
	for _, rec := range records {
		if rec.Date.Year > year {
			continue
		}
		if filter.AliveOnly && !rec.AliveIn(year) {
			continue
		}
		n := year - rec.Date.Year
		switch rec.Kind {
		case ir.KindBirth:
			if !filter.Birthdays {
				continue
			}
			events = append(events, ir.LifeEvent{
				Month: rec.Date.Month,
				Day:   rec.Date.Day,
				Text:  fmt.Sprintf("%s, %d", rec.Name, n),
			})
		case ir.KindMarriage:
			if !filter.Anniversaries {
				continue
			}
			events = append(events, ir.LifeEvent{
				Month: rec.Date.Month,
				Day:   rec.Date.Day,
				Text:  fmt.Sprintf("%s and\n %s, %d", rec.Spouse, rec.Name, n),
			})
		}
	}
	return events, nil
}

// LoadCalendar returns a saved calendar and its run metadata.
func (s *Store) LoadCalendar(ctx context.Context, runID string) (*ir.CalendarYear, ir.CalendarRun, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, ir.CalendarRun{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT month, day, text
		FROM calendar_items
		WHERE run_id = ?
		ORDER BY month ASC, day ASC, pos ASC
	`, runID)
	if err != nil {
		return nil, ir.CalendarRun{}, fmt.Errorf("query calendar items: %w", err)
	}
	defer rows.Close()

	items := ir.NewDayItems()
	for rows.Next() {
		var month, day int
		var text string
		if err := rows.Scan(&month, &day, &text); err != nil {
			return nil, ir.CalendarRun{}, fmt.Errorf("scan calendar item: %w", err)
		}
		if err := items.Add(monthOf(month), day, text); err != nil {
			return nil, ir.CalendarRun{}, fmt.Errorf("load calendar item: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, ir.CalendarRun{}, fmt.Errorf("iterate calendar items: %w", err)
	}

	return ir.NewCalendarYear(run.Year, run.Country, run.ID, items), run, nil
}

// GetRun returns the metadata of a saved calendar run.
func (s *Store) GetRun(ctx context.Context, runID string) (ir.CalendarRun, error) {
	var run ir.CalendarRun
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, year, country, rules_hash, engine_version, item_count, error_count
		FROM calendar_runs
		WHERE id = ?
	`, runID).Scan(&run.ID, &run.Seq, &run.Year, &run.Country, &run.RulesHash,
		&run.EngineVersion, &run.ItemCount, &run.ErrorCount)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.CalendarRun{}, fmt.Errorf("run %q: %w", runID, ErrNotFound)
	}
	if err != nil {
		return ir.CalendarRun{}, fmt.Errorf("query run: %w", err)
	}
	return run, nil
}

// ListRuns returns all saved runs, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]ir.CalendarRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, year, country, rules_hash, engine_version, item_count, error_count
		FROM calendar_runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.CalendarRun{}
	for rows.Next() {
		var run ir.CalendarRun
		if err := rows.Scan(&run.ID, &run.Seq, &run.Year, &run.Country, &run.RulesHash,
			&run.EngineVersion, &run.ItemCount, &run.ErrorCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLifeEvent(sc scanner) (ir.LifeEventRecord, error) {
	var rec ir.LifeEventRecord
	var kind, date string
	var death, spouseDeath sql.NullString

	if err := sc.Scan(&rec.ID, &rec.Seq, &kind, &rec.Name, &rec.Spouse, &date, &death, &spouseDeath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ir.LifeEventRecord{}, err
		}
		return ir.LifeEventRecord{}, fmt.Errorf("scan life event: %w", err)
	}
	rec.Kind = ir.LifeEventKind(kind)

	var err error
	if rec.Date, err = unmarshalDate(date); err != nil {
		return ir.LifeEventRecord{}, err
	}
	if rec.Death, err = unmarshalOptionalDate(death); err != nil {
		return ir.LifeEventRecord{}, err
	}
	if rec.SpouseDeath, err = unmarshalOptionalDate(spouseDeath); err != nil {
		return ir.LifeEventRecord{}, err
	}
	return rec, nil
}
