package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/holical/internal/ir"
	"github.com/roach88/holical/internal/store"
)

// EventsOptions holds flags shared by the events subcommands.
type EventsOptions struct {
	*RootOptions
	Database string
}

// EventAddOptions holds flags for events add.
type EventAddOptions struct {
	*EventsOptions
	ID          string
	Kind        string
	Name        string
	Spouse      string
	Date        string
	Death       string
	SpouseDeath string
}

// EventsResult is the JSON payload of events list.
type EventsResult struct {
	Events []ir.LifeEventRecord `json:"events"`
}

// NewEventsCommand creates the events command and its subcommands.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Maintain birthdays and anniversaries",
		Long: `Add and list the births and marriages kept in a SQLite database.
The year command turns them into birthday and anniversary items.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newEventsAddCommand(opts))
	cmd.AddCommand(newEventsListCommand(opts))

	return cmd
}

func newEventsAddCommand(eventsOpts *EventsOptions) *cobra.Command {
	opts := &EventAddOptions{EventsOptions: eventsOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a birth or marriage",
		Long: `Add a birth or marriage to the events database.

Examples:
  holical events add --db family.db --kind birth --name "Ada" --date 1988-12-10
  holical events add --db family.db --kind marriage --name "Charles" --spouse "Mary" --date 1990-06-02`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventsAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "event ID (default: generated UUIDv7)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "birth or marriage (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "person's name (required)")
	cmd.Flags().StringVar(&opts.Spouse, "spouse", "", "spouse's name (marriages)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "birth or wedding date as YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.Death, "death", "", "person's death date as YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.SpouseDeath, "spouse-death", "", "spouse's death date as YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newEventsListCommand(eventsOpts *EventsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored births and marriages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventsList(eventsOpts, cmd)
		},
	}
}

func runEventsAdd(opts *EventAddOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	rec, err := opts.record()
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeBadFlag, Message: err.Error()})
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}
	defer closeStore(st)

	stored, err := st.AddLifeEvent(commandContext(cmd), rec)
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}

	if formatter.JSON() {
		return formatter.Success(stored)
	}
	fmt.Fprintf(formatter.Writer, "✓ Added %s\n", describeEvent(stored))
	formatter.VerboseLog("id %s", stored.ID)
	return nil
}

func runEventsList(opts *EventsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}
	defer closeStore(st)

	records, err := st.ListLifeEvents(commandContext(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}

	if formatter.JSON() {
		return formatter.Success(EventsResult{Events: records})
	}
	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No events.")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(formatter.Writer, "%4d  %s\n", rec.Seq, describeEvent(rec))
	}
	return nil
}

// record converts the flags to a life event record.
func (o *EventAddOptions) record() (ir.LifeEventRecord, error) {
	rec := ir.LifeEventRecord{
		ID:     o.ID,
		Kind:   ir.LifeEventKind(o.Kind),
		Name:   o.Name,
		Spouse: o.Spouse,
	}
	if !rec.Kind.Valid() {
		return rec, fmt.Errorf("--kind %q must be birth or marriage", o.Kind)
	}

	var err error
	if rec.Date, err = ir.ParseDate(o.Date); err != nil {
		return rec, fmt.Errorf("--date: %w", err)
	}
	if rec.Death, err = parseOptionalDate(o.Death); err != nil {
		return rec, fmt.Errorf("--death: %w", err)
	}
	if rec.SpouseDeath, err = parseOptionalDate(o.SpouseDeath); err != nil {
		return rec, fmt.Errorf("--spouse-death: %w", err)
	}
	return rec, nil
}

func parseOptionalDate(s string) (*ir.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ir.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// describeEvent formats a record on one line.
func describeEvent(rec ir.LifeEventRecord) string {
	s := fmt.Sprintf("%s %s %s", rec.Date, rec.Kind, rec.Name)
	if rec.Kind == ir.KindMarriage {
		s += " & " + rec.Spouse
	}
	if rec.Death != nil {
		s += fmt.Sprintf(" (died %s)", rec.Death)
	}
	if rec.SpouseDeath != nil {
		s += fmt.Sprintf(" (spouse died %s)", rec.SpouseDeath)
	}
	return s
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
