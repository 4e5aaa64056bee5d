package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/holical/internal/ir"
)

// ValidationError is one problem found by ValidateTable.
type ValidationError struct {
	Code    string `json:"code"`
	Country string `json:"country"`
	Rule    string `json:"rule,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	where := e.Country
	if e.Rule != "" {
		where = fmt.Sprintf("%s/%s", e.Country, e.Rule)
	}
	if e.Source != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Source, where, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, where, e.Message)
}

// ValidateTable compiles every rule of every country (or only country when
// it is non-empty) and returns all problems found. It never stops early.
// The second result is the number of rules that compiled.
func ValidateTable(table *ir.RuleTable, country string) ([]ValidationError, int) {
	countries := ListCountries(table)
	if country != "" {
		if !containsName(countries, country) {
			return []ValidationError{{
				Code:    ErrCodeUnknownCountry,
				Country: country,
				Message: fmt.Sprintf("country not found (available: %v)", countries),
			}}, 0
		}
		countries = []string{ir.NormalizeName(country)}
	}

	var out []ValidationError
	valid := 0
	for _, c := range countries {
		rules, errs := LoadRules(table, c, LoadModeCollectAll)
		valid += len(rules)
		for _, err := range errs {
			out = append(out, toValidationError(c, err))
		}
	}
	return out, valid
}

func toValidationError(country string, err error) ValidationError {
	var mal *MalformedRuleError
	if errors.As(err, &mal) {
		return ValidationError{
			Code:    mal.Code,
			Country: mal.Country,
			Rule:    mal.Name,
			Field:   mal.Field,
			Message: mal.Message,
			Source:  mal.Source,
		}
	}
	return ValidationError{Code: ErrCodeUnknownCountry, Country: country, Message: err.Error()}
}
