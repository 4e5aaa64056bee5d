package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/holical/internal/compiler"
)

// CountriesResult is the JSON payload of the countries command.
type CountriesResult struct {
	Countries []string `json:"countries"`
}

// NewCountriesCommand creates the countries command.
func NewCountriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "countries <rules-file>",
		Short: "List the countries of a rule table",
		Long: `List the distinct country names of a rule table, in first-appearance order.

Example:
  holical countries holidays.xml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCountries(rootOpts, args[0], cmd)
		},
	}
}

func runCountries(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	table, err := LoadTable(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	countries := compiler.ListCountries(table)
	if countries == nil {
		countries = []string{}
	}
	formatter.VerboseLog("%d countries in %s", len(countries), path)

	if formatter.JSON() {
		return formatter.Success(CountriesResult{Countries: countries})
	}
	for _, c := range countries {
		fmt.Fprintln(formatter.Writer, c)
	}
	return nil
}
