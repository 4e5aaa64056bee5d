package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/holical/internal/ir"
)

// ErrInvalidLifeEvent reports a life event that cannot be stored.
var ErrInvalidLifeEvent = errors.New("invalid life event")

// AddLifeEvent stores a birth or marriage and returns the stored record.
//
// An empty ID is replaced with a UUIDv7. Seq is assigned by the store and
// increases with every insert, so ListLifeEvents returns insertion order.
// Inserting an existing ID is a no-op that returns the stored record.
func (s *Store) AddLifeEvent(ctx context.Context, rec ir.LifeEventRecord) (ir.LifeEventRecord, error) {
	if err := validateLifeEvent(rec); err != nil {
		return ir.LifeEventRecord{}, fmt.Errorf("add life event: %w", err)
	}
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rec.Kind == ir.KindBirth {
		rec.Spouse = ""
		rec.SpouseDeath = nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO life_events
		(id, seq, kind, name, spouse, date, death, spouse_death)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM life_events), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		string(rec.Kind),
		ir.NormalizeName(rec.Name),
		ir.NormalizeName(rec.Spouse),
		marshalDate(rec.Date),
		marshalOptionalDate(rec.Death),
		marshalOptionalDate(rec.SpouseDeath),
	)
	if err != nil {
		return ir.LifeEventRecord{}, fmt.Errorf("add life event: %w", err)
	}

	return s.GetLifeEvent(ctx, rec.ID)
}

func validateLifeEvent(rec ir.LifeEventRecord) error {
	if !rec.Kind.Valid() {
		return fmt.Errorf("%w: kind %q must be birth or marriage", ErrInvalidLifeEvent, rec.Kind)
	}
	if rec.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLifeEvent)
	}
	if rec.Kind == ir.KindMarriage && rec.Spouse == "" {
		return fmt.Errorf("%w: marriage requires a spouse", ErrInvalidLifeEvent)
	}
	if !rec.Date.Valid() {
		return fmt.Errorf("%w: date %s is not a calendar date", ErrInvalidLifeEvent, rec.Date)
	}
	for _, d := range []*ir.Date{rec.Death, rec.SpouseDeath} {
		if d == nil {
			continue
		}
		if !d.Valid() {
			return fmt.Errorf("%w: death date %s is not a calendar date", ErrInvalidLifeEvent, d)
		}
		if d.Before(rec.Date) && rec.Kind == ir.KindBirth {
			return fmt.Errorf("%w: death %s before birth %s", ErrInvalidLifeEvent, d, rec.Date)
		}
	}
	return nil
}

// SaveCalendar stores a built calendar with its metadata in one transaction.
// The run ID is the calendar's RunID. Saving the same run twice fails.
func (s *Store) SaveCalendar(ctx context.Context, cal *ir.CalendarYear, run ir.CalendarRun) (ir.CalendarRun, error) {
	if cal.RunID == "" {
		return ir.CalendarRun{}, errors.New("save calendar: run ID is required")
	}
	run.ID = cal.RunID
	run.Year = cal.Year
	run.Country = cal.Country
	run.ItemCount = cal.ItemCount()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ir.CalendarRun{}, fmt.Errorf("save calendar: begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO calendar_runs
		(id, seq, year, country, rules_hash, engine_version, item_count, error_count)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM calendar_runs), ?, ?, ?, ?, ?, ?)
		RETURNING seq
	`,
		run.ID,
		run.Year,
		run.Country,
		run.RulesHash,
		run.EngineVersion,
		run.ItemCount,
		run.ErrorCount,
	).Scan(&run.Seq)
	if err != nil {
		return ir.CalendarRun{}, fmt.Errorf("save calendar: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO calendar_items (run_id, month, day, pos, text)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return ir.CalendarRun{}, fmt.Errorf("save calendar: prepare: %w", err)
	}
	defer stmt.Close()

	for _, key := range cal.Days() {
		for pos, text := range cal.Day(key.Month, key.Day) {
			if _, err := stmt.ExecContext(ctx, run.ID, int(key.Month), key.Day, pos, text); err != nil {
				return ir.CalendarRun{}, fmt.Errorf("save calendar: insert item %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return ir.CalendarRun{}, fmt.Errorf("save calendar: commit: %w", err)
	}
	return run, nil
}

// monthOf converts a stored month number.
func monthOf(n int) time.Month {
	return time.Month(n)
}
