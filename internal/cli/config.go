package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/holical/internal/engine"
)

// Report year bounds accepted by the year command.
const (
	MinReportYear = 1000
	MaxReportYear = 3000
)

// Default report texts.
const (
	DefaultTitle = "Birthday and Anniversary Report"
	DefaultText1 = "My Calendar"
	DefaultText2 = "Produced with holical"
)

// ReportConfig holds the options of a year report. It can be read from a
// YAML file with --config; command-line flags override file values.
type ReportConfig struct {
	Rules    string `yaml:"rules"`
	Country  string `yaml:"country"`
	Year     int    `yaml:"year"`
	EventsDB string `yaml:"events_db"`

	Birthdays     *bool `yaml:"birthdays"`
	Anniversaries *bool `yaml:"anniversaries"`
	AliveOnly     *bool `yaml:"alive_only"`

	// Title is printed above the calendar, Text (up to three lines) below it.
	Title string   `yaml:"title"`
	Text  []string `yaml:"text"`

	OnError string `yaml:"on_error"`
}

// DefaultReportConfig returns the defaults applied before the config file
// and flags.
func DefaultReportConfig() ReportConfig {
	yes := true
	return ReportConfig{
		Birthdays:     &yes,
		Anniversaries: &yes,
		AliveOnly:     &yes,
		Title:         DefaultTitle,
		Text:          []string{DefaultText1, DefaultText2},
		OnError:       engine.PolicyCollect.String(),
	}
}

// LoadReportConfig reads a report config file. Unknown keys are rejected.
func LoadReportConfig(path string) (*ReportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ReportConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// check validates the fields that are set.
func (c *ReportConfig) check() error {
	if c.Year != 0 && (c.Year < MinReportYear || c.Year > MaxReportYear) {
		return fmt.Errorf("year %d out of range [%d, %d]", c.Year, MinReportYear, MaxReportYear)
	}
	if len(c.Text) > 3 {
		return fmt.Errorf("text holds %d lines, at most 3 allowed", len(c.Text))
	}
	if _, err := engine.ParsePolicy(c.OnError); err != nil {
		return err
	}
	return nil
}

// merge overlays the non-zero fields of other onto c.
func (c *ReportConfig) merge(other *ReportConfig) {
	if other.Rules != "" {
		c.Rules = other.Rules
	}
	if other.Country != "" {
		c.Country = other.Country
	}
	if other.Year != 0 {
		c.Year = other.Year
	}
	if other.EventsDB != "" {
		c.EventsDB = other.EventsDB
	}
	if other.Birthdays != nil {
		c.Birthdays = other.Birthdays
	}
	if other.Anniversaries != nil {
		c.Anniversaries = other.Anniversaries
	}
	if other.AliveOnly != nil {
		c.AliveOnly = other.AliveOnly
	}
	if other.Title != "" {
		c.Title = other.Title
	}
	if other.Text != nil {
		c.Text = other.Text
	}
	if other.OnError != "" {
		c.OnError = other.OnError
	}
}
