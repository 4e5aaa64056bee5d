package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/holical/internal/compiler"
	"github.com/roach88/holical/internal/engine"
	"github.com/roach88/holical/internal/ir"
	"github.com/roach88/holical/internal/store"
)

// YearOptions holds flags for the year command.
type YearOptions struct {
	*RootOptions
	Config        string
	Country       string
	Year          int
	EventsDB      string
	Save          bool
	OnError       string
	Title         string
	Birthdays     bool
	Anniversaries bool
	AliveOnly     bool

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator

	// Now returns the current time; the default year is Now's year.
	Now func() time.Time
}

// NewYearCommand creates the year command.
func NewYearCommand(rootOpts *RootOptions) *cobra.Command {
	return newYearCommand(&YearOptions{RootOptions: rootOpts})
}

func newYearCommand(opts *YearOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "year [rules-file]",
		Short: "Build the calendar of one year",
		Long: `Evaluate a country's rules for every day of a year and add birthdays
and anniversaries from an events database.

Options can be read from a YAML file with --config; flags override it.
With --save the calendar is stored in the events database and can be
printed again with "holical show".

Exit codes:
  0 - Calendar built without rule errors
  1 - Rule errors (the calendar is still printed unless --on-error=abort)
  2 - Command error (bad flags, missing files, database errors)

Examples:
  holical year holidays.xml --country "United States of America" --year 2024
  holical year holidays.cue --country Canada --events-db family.db --save
  holical year --config report.yaml --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveYearConfig(opts, args, cmd)
			if err != nil {
				formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
				return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeBadFlag, Message: err.Error()})
			}
			return runYear(opts, cfg, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "report config YAML file")
	cmd.Flags().StringVar(&opts.Country, "country", "", "country name")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "calendar year (default: current year)")
	cmd.Flags().StringVar(&opts.EventsDB, "events-db", "", "SQLite database with birthdays and anniversaries")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "store the calendar in --events-db")
	cmd.Flags().StringVar(&opts.OnError, "on-error", "collect", "rule error policy (collect|abort)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "report title")
	cmd.Flags().BoolVar(&opts.Birthdays, "birthdays", true, "include birthdays")
	cmd.Flags().BoolVar(&opts.Anniversaries, "anniversaries", true, "include anniversaries")
	cmd.Flags().BoolVar(&opts.AliveOnly, "alive-only", true, "include only living people")

	return cmd
}

// resolveYearConfig applies defaults, then the config file, then the flags
// the user set.
func resolveYearConfig(opts *YearOptions, args []string, cmd *cobra.Command) (ReportConfig, error) {
	cfg := DefaultReportConfig()

	if opts.Config != "" {
		fileCfg, err := LoadReportConfig(opts.Config)
		if err != nil {
			return cfg, err
		}
		cfg.merge(fileCfg)
	}

	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Rules = args[0]
	}
	if flags.Changed("country") {
		cfg.Country = opts.Country
	}
	if flags.Changed("year") {
		cfg.Year = opts.Year
	}
	if flags.Changed("events-db") {
		cfg.EventsDB = opts.EventsDB
	}
	if flags.Changed("on-error") {
		cfg.OnError = opts.OnError
	}
	if flags.Changed("title") {
		cfg.Title = opts.Title
	}
	if flags.Changed("birthdays") {
		cfg.Birthdays = &opts.Birthdays
	}
	if flags.Changed("anniversaries") {
		cfg.Anniversaries = &opts.Anniversaries
	}
	if flags.Changed("alive-only") {
		cfg.AliveOnly = &opts.AliveOnly
	}

	if cfg.Year == 0 {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		cfg.Year = now().Year()
	}

	if cfg.Rules == "" {
		return cfg, errors.New("a rules file is required (argument or config \"rules\")")
	}
	if cfg.Country == "" {
		return cfg, errors.New("--country is required")
	}
	if opts.Save && cfg.EventsDB == "" {
		return cfg, errors.New("--save requires --events-db")
	}
	if err := cfg.check(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runYear(opts *YearOptions, cfg ReportConfig, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	policy, _ := engine.ParsePolicy(cfg.OnError) // checked by resolveYearConfig
	mode := compiler.LoadModeCollectAll
	if policy == engine.PolicyAbort {
		mode = compiler.LoadModeFailFast
	}

	table, err := LoadTable(cfg.Rules)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	rules, loadErrs := compiler.LoadRules(table, cfg.Country, mode)
	var unknown *compiler.UnknownCountryError
	if len(loadErrs) > 0 && errors.As(loadErrs[0], &unknown) {
		return formatter.Fail(ExitCommandError, unknown)
	}
	if len(loadErrs) > 0 && policy == engine.PolicyAbort {
		return formatter.Fail(ExitFailure, loadErrs[0])
	}
	formatter.VerboseLog("%d rule(s) loaded for %s", len(rules), cfg.Country)

	var st *store.Store
	if cfg.EventsDB != "" {
		st, err = store.Open(cfg.EventsDB)
		if err != nil {
			return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
		}
		defer closeStore(st)
	}

	events, err := loadLifeEvents(ctx, st, cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}
	formatter.VerboseLog("%d life event(s) for %d", len(events), cfg.Year)

	cal, report, err := engine.BuildYear(rules, cfg.Year, events, engine.Options{
		Country: ir.NormalizeName(cfg.Country),
		Policy:  policy,
		RunIDs:  opts.RunIDs,
	})
	if err != nil {
		if report == nil {
			return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeBadFlag, Message: err.Error()})
		}
		return formatter.Fail(ExitFailure, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error()})
	}

	allErrs := append(loadErrs, report.Errors...)

	saved := false
	if opts.Save {
		if err := saveCalendar(ctx, st, table, cal, len(allErrs)); err != nil {
			return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
		}
		saved = true
		formatter.VerboseLog("saved run %s", cal.RunID)
	}

	if formatter.JSON() {
		if err := writeCanonical(formatter, map[string]any{
			"calendar": cal.ToCanonicalMap(),
			"errors":   errorStrings(allErrs),
			"saved":    saved,
		}); err != nil {
			return err
		}
	} else {
		renderCalendar(formatter.Writer, cfg.Title, cfg.Text, cal)
		if saved {
			fmt.Fprintf(formatter.Writer, "\nSaved as run %s\n", cal.RunID)
		}
		renderErrors(formatter.Writer, allErrs)
	}

	if len(allErrs) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d rule error(s)", len(allErrs)))
	}
	return nil
}

// loadLifeEvents renders the stored events for the report year.
// Without a store there are none.
func loadLifeEvents(ctx context.Context, st *store.Store, cfg ReportConfig) ([]ir.LifeEvent, error) {
	if st == nil {
		return nil, nil
	}
	filter := store.LifeEventFilter{
		Birthdays:     *cfg.Birthdays,
		Anniversaries: *cfg.Anniversaries,
		AliveOnly:     *cfg.AliveOnly,
	}
	return st.LifeEvents(ctx, cfg.Year, filter)
}

// saveCalendar stores the calendar with the hash of the table it came from.
func saveCalendar(ctx context.Context, st *store.Store, table *ir.RuleTable, cal *ir.CalendarYear, errorCount int) error {
	hash, err := ir.TableHash(table)
	if err != nil {
		return fmt.Errorf("hash rule table: %w", err)
	}
	_, err = st.SaveCalendar(ctx, cal, ir.CalendarRun{
		RulesHash:     hash,
		EngineVersion: ir.EngineVersion,
		ErrorCount:    errorCount,
	})
	return err
}
