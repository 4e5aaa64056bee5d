package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Rule error codes (E120-E129), shared with the CLI's JSON error envelope.
const (
	ErrCodeMissingName    = "E120" // date entry has no name
	ErrCodeMissingValue   = "E121" // date entry has no value
	ErrCodeValueArity     = "E122" // value is not 3 or 4 slash-separated fields
	ErrCodeNotInteger     = "E123" // field is neither an integer nor "*"
	ErrCodeUnknownWeekday = "E124" // weekday token not in mon..sun
	ErrCodeUnknownMonth   = "E125" // month token not in jan..dec
	ErrCodeBadOffset      = "E126" // offset is not an integer or weekday token
	ErrCodeBadCondition   = "E127" // condition does not parse
	ErrCodeUnknownCountry = "E128" // country not present in the table
)

// MalformedRuleError reports a rule record whose structure or expressions
// cannot be compiled. It is a data error in the rule table.
type MalformedRuleError struct {
	Code    string
	Name    string // rule name, may be empty when the name is missing
	Country string
	Index   int
	Source  string // "file:line" when known
	Field   string // name, value, offset or if
	Token   string // offending text
	Message string
	Err     error // underlying error, e.g. a predicate syntax error
}

func (e *MalformedRuleError) Error() string {
	who := fmt.Sprintf("rule %q", e.Name)
	if e.Name == "" {
		who = fmt.Sprintf("rule #%d", e.Index+1)
	}
	where := ""
	if e.Source != "" {
		where = " at " + e.Source
	}
	return fmt.Sprintf("%s: %s (country %q%s): %s: %s", e.Code, who, e.Country, where, e.Field, e.Message)
}

func (e *MalformedRuleError) Unwrap() error {
	return e.Err
}

// IsMalformed returns true if err is or wraps a MalformedRuleError.
func IsMalformed(err error) bool {
	var target *MalformedRuleError
	return errors.As(err, &target)
}

// UnknownCountryError reports a country that has no country set in the table.
type UnknownCountryError struct {
	Country   string
	Available []string
}

func (e *UnknownCountryError) Error() string {
	return fmt.Sprintf("%s: country %q not found in rule table (available: %v)", ErrCodeUnknownCountry, e.Country, e.Available)
}

// CompileError reports a rule table that cannot be decoded.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// sourceOf formats a CUE position as "file:line".
func sourceOf(v cue.Value) string {
	pos := v.Pos()
	if !pos.IsValid() {
		return ""
	}
	return fmt.Sprintf("%s:%d", pos.Filename(), pos.Line())
}
