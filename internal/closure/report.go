package closure

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Version is the closurec release reported in output.
const Version = "0.1.0"

// Fail-on thresholds. FailOnAny follows Check: any non-blank stderr fails.
const (
	FailOnAny     = "any"
	FailOnWarning = "warning"
	FailOnError   = "error"
	FailOnNone    = "none"
)

// ValidFailOn reports whether s is a known fail-on threshold.
func ValidFailOn(s string) bool {
	switch s {
	case FailOnAny, FailOnWarning, FailOnError, FailOnNone:
		return true
	}
	return false
}

// Fails reports whether r fails the given threshold. Rules only influence
// the warning and error thresholds; "any" looks at the raw stderr.
func Fails(r Result, failOn string) bool {
	switch failOn {
	case FailOnNone:
		return false
	case FailOnWarning:
		return hasSeverity(r.Diagnostics, SeverityWarning)
	case FailOnError:
		return hasSeverity(r.Diagnostics, SeverityError)
	default:
		return !r.Valid
	}
}

func hasSeverity(diags []Diagnostic, min Severity) bool {
	for _, d := range diags {
		if SeverityRank(d.Severity) >= SeverityRank(min) {
			return true
		}
	}
	return false
}

// BuildReport assembles a report over results.
func BuildReport(mode Mode, level string, results []Result, failOn string, elapsed time.Duration) *Report {
	if results == nil {
		results = []Result{}
	}
	summary := Summary{Files: len(results)}
	for i := range results {
		if results[i].Diagnostics == nil {
			results[i].Diagnostics = []Diagnostic{}
		}
		r := results[i]
		if Fails(r, failOn) {
			summary.Failed++
		}
		c := CountDiagnostics(r.Diagnostics)
		summary.Counts.Errors += c.Errors
		summary.Counts.Warnings += c.Warnings
	}
	return &Report{
		Tool:    "closurec",
		Version: Version,
		RunID:   uuid.NewString(),
		Mode:    mode,
		Level:   level,
		Summary: summary,
		Results: results,
		Timing:  Timing{TotalMs: elapsed.Milliseconds()},
	}
}

// String renders the summary as "N file(s), E error(s), W warning(s)".
func (s Summary) String() string {
	return fmt.Sprintf("%d file(s), %d error(s), %d warning(s)", s.Files, s.Counts.Errors, s.Counts.Warnings)
}
