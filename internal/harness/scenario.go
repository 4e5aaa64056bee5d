package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/holical/internal/engine"
	"github.com/roach88/holical/internal/ir"
	"github.com/roach88/holical/internal/store"
)

// DefaultRunID is the run ID of scenarios that do not set run_id.
const DefaultRunID = "scenario-run"

// Scenario defines one calendar build and the assertions it must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is the path of the rule table (.cue, .yaml, .yml or .xml).
	// Relative paths are resolved against the scenario file's directory.
	Rules string `yaml:"rules"`

	Country string `yaml:"country"`
	Year    int    `yaml:"year"`

	// OnError is "collect" (default) or "abort".
	OnError string `yaml:"on_error,omitempty"`

	// RunID is the fixed run ID given to the calendar.
	RunID string `yaml:"run_id,omitempty"`

	// Events are stored before the build and rendered through Filter.
	Events []EventStep `yaml:"events,omitempty"`

	// Filter selects which events become items. Defaults to birthdays and
	// anniversaries of living people.
	Filter *FilterSpec `yaml:"filter,omitempty"`

	// Assertions validate the built calendar.
	Assertions []Assertion `yaml:"assertions"`
}

// EventStep is one life event to seed into the store.
type EventStep struct {
	Kind        string `yaml:"kind"`
	Name        string `yaml:"name"`
	Spouse      string `yaml:"spouse,omitempty"`
	Date        string `yaml:"date"`
	Death       string `yaml:"death,omitempty"`
	SpouseDeath string `yaml:"spouse_death,omitempty"`
}

// FilterSpec mirrors store.LifeEventFilter.
type FilterSpec struct {
	Birthdays     bool `yaml:"birthdays"`
	Anniversaries bool `yaml:"anniversaries"`
	AliveOnly     bool `yaml:"alive_only"`
}

// Assertion validates the built calendar.
type Assertion struct {
	// Type specifies the assertion type:
	// - "day_contains": the day holds Text
	// - "day_order": the day holds Items in this relative order
	// - "day_count": the day holds exactly Count items
	// - "no_items": the day holds nothing
	// - "error_count": the build produced exactly Count errors
	Type string `yaml:"type"`

	// Date is the "MM-DD" day (all types but error_count).
	Date string `yaml:"date,omitempty"`

	// Text is the expected item (day_contains).
	Text string `yaml:"text,omitempty"`

	// Items is the expected order (day_order). Other items may intervene.
	Items []string `yaml:"items,omitempty"`

	// Count is the expected number (day_count, error_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertDayContains = "day_contains"
	AssertDayOrder    = "day_order"
	AssertDayCount    = "day_count"
	AssertNoItems     = "no_items"
	AssertErrorCount  = "error_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The rules path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the rules path relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) && basePath != "" {
		scenario.Rules = filepath.Join(basePath, scenario.Rules)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if _, err := os.Stat(scenario.Rules); os.IsNotExist(err) {
		return nil, fmt.Errorf("invalid scenario: rules file not found: %s", scenario.Rules)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Rules == "" {
		return fmt.Errorf("rules is required")
	}

	if s.Country == "" {
		return fmt.Errorf("country is required")
	}

	if s.Year < engine.MinYear || s.Year > engine.MaxYear {
		return fmt.Errorf("year %d out of range [%d, %d]", s.Year, engine.MinYear, engine.MaxYear)
	}

	if _, err := engine.ParsePolicy(s.OnError); err != nil {
		return err
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, ev := range s.Events {
		if _, err := ev.record(); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Type != AssertErrorCount {
		if _, err := parseDayKey(a.Date); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	}

	switch a.Type {
	case AssertDayContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for day_contains", index)
		}
	case AssertDayOrder:
		if len(a.Items) == 0 {
			return fmt.Errorf("assertions[%d]: items list is required for day_order", index)
		}
	case AssertDayCount, AssertErrorCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertNoItems:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// record converts the step to a storable life event.
func (e EventStep) record() (ir.LifeEventRecord, error) {
	rec := ir.LifeEventRecord{
		Kind:   ir.LifeEventKind(e.Kind),
		Name:   e.Name,
		Spouse: e.Spouse,
	}
	if !rec.Kind.Valid() {
		return rec, fmt.Errorf("kind %q must be birth or marriage", e.Kind)
	}

	var err error
	if rec.Date, err = ir.ParseDate(e.Date); err != nil {
		return rec, err
	}
	if rec.Death, err = optionalDate(e.Death); err != nil {
		return rec, err
	}
	if rec.SpouseDeath, err = optionalDate(e.SpouseDeath); err != nil {
		return rec, err
	}
	return rec, nil
}

func optionalDate(s string) (*ir.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ir.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// lifeEventFilter returns the store filter for the scenario.
func (s *Scenario) lifeEventFilter() store.LifeEventFilter {
	if s.Filter == nil {
		return store.DefaultLifeEventFilter()
	}
	return store.LifeEventFilter{
		Birthdays:     s.Filter.Birthdays,
		Anniversaries: s.Filter.Anniversaries,
		AliveOnly:     s.Filter.AliveOnly,
	}
}
