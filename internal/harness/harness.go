package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/holical/internal/compiler"
	"github.com/roach88/holical/internal/engine"
	"github.com/roach88/holical/internal/ir"
	"github.com/roach88/holical/internal/store"
)

// Harness is the scenario execution engine.
// It builds calendars with a fixed run ID against an isolated store.
type Harness struct {
	store  *store.Store
	runIDs *engine.FixedGenerator
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and seed the scenario's events
// 2. Read the rule table and load the country's rules
// 3. Build the year with the scenario's error policy
// 4. Evaluate assertions against the calendar and its errors
//
// Rule errors are part of the result, not a returned error. Run returns an
// error only when the scenario cannot be executed at all: an unreadable
// table, an unknown country or an event the store rejects.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}

	h := &Harness{
		store:  st,
		runIDs: engine.NewFixedGenerator(runID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	policy, err := engine.ParsePolicy(scenario.OnError)
	if err != nil {
		return nil, err
	}

	events, err := h.seedEvents(ctx, scenario)
	if err != nil {
		return nil, err
	}

	table, err := compiler.ReadTable(scenario.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	mode := compiler.LoadModeCollectAll
	if policy == engine.PolicyAbort {
		mode = compiler.LoadModeFailFast
	}

	result := NewResult()
	rules, loadErrs := compiler.LoadRules(table, scenario.Country, mode)
	for _, e := range loadErrs {
		var unknown *compiler.UnknownCountryError
		if errors.As(e, &unknown) {
			return nil, unknown
		}
		result.addBuildError(e)
	}

	if len(loadErrs) == 0 || policy == engine.PolicyCollect {
		cal, report, buildErr := engine.BuildYear(rules, scenario.Year, events, engine.Options{
			Country: ir.NormalizeName(scenario.Country),
			Policy:  policy,
			RunIDs:  h.runIDs,
		})
		if report == nil {
			return nil, buildErr
		}
		result.Calendar = cal
		result.Report = report
		for _, e := range report.Errors {
			result.addBuildError(e)
		}
	}

	h.logger.Debug("scenario built",
		"scenario", scenario.Name,
		"build_errors", len(result.BuildErrors))

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// seedEvents stores the scenario's events and renders them for the year.
func (h *Harness) seedEvents(ctx context.Context, scenario *Scenario) ([]ir.LifeEvent, error) {
	for i, step := range scenario.Events {
		rec, err := step.record()
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		rec.ID = fmt.Sprintf("event-%d", i+1)
		if _, err := h.store.AddLifeEvent(ctx, rec); err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
	}
	return h.store.LifeEvents(ctx, scenario.Year, scenario.lifeEventFilter())
}
