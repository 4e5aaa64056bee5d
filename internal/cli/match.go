package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/holical/internal/compiler"
	"github.com/roach88/holical/internal/engine"
	"github.com/roach88/holical/internal/ir"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Country string
	Date    string
}

// MatchResult is the JSON payload of the match command.
type MatchResult struct {
	Date    string         `json:"date"`
	Country string         `json:"country"`
	Matches []engine.Match `json:"matches"`
	Errors  []string       `json:"errors,omitempty"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <rules-file>",
		Short: "List the holidays of one date",
		Long: `Evaluate every rule of a country against one date and print the
names of the rules that fire, in table order.

Malformed or failing rules are skipped and reported; the exit code is
then 1.

Example:
  holical match holidays.xml --country "United States of America" --date 2024-11-28`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Country, "country", "", "country name (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "date as YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func runMatch(opts *MatchOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	probe, err := ir.ParseDate(opts.Date)
	if err != nil {
		return formatter.Fail(ExitCommandError, &LoadError{Code: ErrCodeBadFlag, Message: err.Error()})
	}

	table, err := LoadTable(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	rules, loadErrs := compiler.LoadRules(table, opts.Country, compiler.LoadModeCollectAll)
	var unknown *compiler.UnknownCountryError
	if len(loadErrs) > 0 && errors.As(loadErrs[0], &unknown) {
		return formatter.Fail(ExitCommandError, unknown)
	}
	formatter.VerboseLog("%d rule(s) loaded for %s", len(rules), opts.Country)

	matches, evalErrs := engine.MatchDayDetailed(rules, probe)
	allErrs := append(loadErrs, evalErrs...)

	if formatter.JSON() {
		if matches == nil {
			matches = []engine.Match{}
		}
		if err := formatter.Success(MatchResult{
			Date:    probe.String(),
			Country: ir.NormalizeName(opts.Country),
			Matches: matches,
			Errors:  errorStrings(allErrs),
		}); err != nil {
			return err
		}
	} else {
		if len(matches) == 0 {
			fmt.Fprintf(formatter.Writer, "No holidays on %s (%s)\n", probe, probe.Weekday())
		}
		for _, m := range matches {
			if opts.Verbose && m.Type != "" {
				fmt.Fprintf(formatter.Writer, "%s [%s]\n", m.Name, m.Type)
				continue
			}
			fmt.Fprintln(formatter.Writer, m.Name)
		}
		renderErrors(formatter.Writer, allErrs)
	}

	if len(allErrs) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d rule error(s)", len(allErrs)))
	}
	return nil
}
