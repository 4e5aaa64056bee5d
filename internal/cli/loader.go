package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"cuelang.org/go/cue/token"

	"github.com/roach88/holical/internal/compiler"
	"github.com/roach88/holical/internal/ir"
)

// LoadError represents an error that occurred while reading a rule table.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadTable reads a rule table file (.cue, .yaml, .yml or .xml).
// Every failure is returned as a *LoadError carrying a CLI error code.
func LoadTable(path string) (*ir.RuleTable, error) {
	table, err := compiler.ReadTable(path)
	if err == nil {
		return table, nil
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules file not found: %s", path)}
	case errors.Is(err, compiler.ErrUnsupportedFormat):
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: err.Error()}
	}
	return nil, convertCompileError(err, path)
}

// convertCompileError converts a decoder error to a LoadError with position info.
func convertCompileError(err error, path string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeLoadFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: fmt.Sprintf("%s: %v", path, err),
	}
}

// Error code constants, unified across all CLI commands.
// Rule errors use the compiler's E120-E128 codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeBadFlag     = "E002" // Invalid flag or config value
	ErrCodeStore       = "E003" // Database open/read/write error
	ErrCodeLoadFailed  = "E004" // Rule table failed to decode
	ErrCodeNotFound    = "E005" // Path or record not found
	ErrCodeBuildFailed = "E006" // Calendar build aborted
	ErrCodeWriteFailed = "E007" // Output write error
	ErrCodeUnsupported = "E008" // Unknown rule table extension
)

// errorCode returns the code to report for err.
func errorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	var mal *compiler.MalformedRuleError
	if errors.As(err, &mal) {
		return mal.Code
	}
	var unknown *compiler.UnknownCountryError
	if errors.As(err, &unknown) {
		return compiler.ErrCodeUnknownCountry
	}
	return ErrCodeGeneric
}
