package harness

import (
	"github.com/roach88/holical/internal/engine"
	"github.com/roach88/holical/internal/ir"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Calendar is the built calendar. Nil when the build aborted.
	Calendar *ir.CalendarYear `json:"-"`

	// Report is the engine's build report. Nil when rule loading aborted.
	Report *engine.BuildReport `json:"-"`

	// BuildErrors holds rule loading and evaluation errors, in order.
	// error_count assertions count these.
	BuildErrors []string `json:"build_errors,omitempty"`

	// Errors holds assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		BuildErrors: []string{},
		Errors:      []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addBuildError records a rule error. It does not fail the result.
func (r *Result) addBuildError(err error) {
	r.BuildErrors = append(r.BuildErrors, err.Error())
}
