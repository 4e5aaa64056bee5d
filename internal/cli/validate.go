package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/holical/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Rules  int                        `json:"rules"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Country string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <rules-file>",
		Short: "Check every rule of a rule table",
		Long: `Compile every rule of every country (or of --country only) and report
all malformed rules without stopping at the first one.

Exit codes:
  0 - All rules valid
  1 - One or more malformed rules
  2 - Command error (missing file, unknown country, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Country, "country", "", "validate only this country")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	table, err := LoadTable(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, err)
	}

	if opts.Country != "" && !compiler.HasCountry(table, opts.Country) {
		return formatter.Fail(ExitCommandError, &compiler.UnknownCountryError{
			Country:   opts.Country,
			Available: compiler.ListCountries(table),
		})
	}

	validationErrors, valid := compiler.ValidateTable(table, opts.Country)
	formatter.VerboseLog("%d rule(s) compiled, %d error(s)", valid, len(validationErrors))

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, valid, validationErrors)
	}
	return outputValidateSuccess(formatter, valid)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, rules int) error {
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Rules: rules})
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d rules valid\n", rules)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, rules int, errs []compiler.ValidationError) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Rules:  rules,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
