package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/holical/internal/ir"
)

// Snapshot returns the canonical JSON compared against a scenario's golden
// file: the calendar (absent when the build aborted) and the error count.
func Snapshot(name string, result *Result) ([]byte, error) {
	snapshot := map[string]any{
		"scenario_name": name,
		"error_count":   len(result.BuildErrors),
	}
	if result.Calendar != nil {
		snapshot["calendar"] = result.Calendar.ToCanonicalMap()
	}
	return ir.MarshalCanonical(snapshot)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check assertions.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
