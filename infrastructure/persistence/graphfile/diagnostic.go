package graphfile

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Diagnostic is one problem found while reading a graph file.
// A fatal diagnostic stopped the parse; the others only skipped a record.
type Diagnostic struct {
	Source string
	Line   int
	Fatal  bool
	Err    error
}

func (d *Diagnostic) Error() string {
	if d.Source != "" {
		return fmt.Sprintf("%s:%d: %v", d.Source, d.Line, d.Err)
	}
	return fmt.Sprintf("line %d: %v", d.Line, d.Err)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics flattens a Read error into its individual diagnostics
func Diagnostics(err error) []*Diagnostic {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]*Diagnostic, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			var d *Diagnostic
			if errors.As(e, &d) {
				out = append(out, d)
			}
		}
		return out
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return []*Diagnostic{d}
	}
	return nil
}

// IsAborted reports whether a Read error stopped the parse early, as opposed
// to carrying only skipped-record diagnostics
func IsAborted(err error) bool {
	for _, d := range Diagnostics(err) {
		if d.Fatal {
			return true
		}
	}
	return false
}

// Count splits a Read error into skipped-record warnings and fatal diagnostics
func Count(err error) (warnings, fatal int) {
	for _, d := range Diagnostics(err) {
		if d.Fatal {
			fatal++
		} else {
			warnings++
		}
	}
	return warnings, fatal
}
