package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/holical/internal/ir"
	"github.com/roach88/holical/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Run      string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a saved calendar",
		Long: `Print a calendar saved by "holical year --save".
Without --run, list the saved runs.

Examples:
  holical show --db family.db
  holical show --db family.db --run 019b0c4e-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run ID to print")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}
	defer closeStore(st)

	if opts.Run == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
		}
		return outputRuns(formatter, runs)
	}

	cal, run, err := st.LoadCalendar(ctx, opts.Run)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeNotFound, Message: err.Error()})
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}

	if formatter.JSON() {
		hash, err := ir.CalendarHash(cal)
		if err != nil {
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
		return writeCanonical(formatter, map[string]any{
			"calendar":      cal.ToCanonicalMap(),
			"calendar_hash": hash,
			"run":           runToCanonicalMap(run),
		})
	}

	renderCalendar(formatter.Writer, fmt.Sprintf("Run %s", run.ID), nil, cal)
	if run.ErrorCount > 0 {
		fmt.Fprintf(formatter.Writer, "\n%d rule error(s) when built\n", run.ErrorCount)
	}
	return nil
}

func outputRuns(formatter *OutputFormatter, runs []ir.CalendarRun) error {
	if formatter.JSON() {
		list := make([]any, len(runs))
		for i, run := range runs {
			list[i] = runToCanonicalMap(run)
		}
		return writeCanonical(formatter, map[string]any{"runs": list})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No saved runs.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %d  %s  %d item(s)  %d error(s)\n",
			run.ID, run.Year, run.Country, run.ItemCount, run.ErrorCount)
	}
	return nil
}
