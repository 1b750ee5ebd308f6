package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dshills/closurec/internal/closure"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *closure.Report) error {
	ew := &errWriter{w: w}

	ew.printf("closurec %s (%s)\n", report.Mode, report.Level)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files: %d, failed: %d\n", report.Summary.Files, report.Summary.Failed)
	ew.printf("Diagnostics: %d error(s), %d warning(s)\n",
		report.Summary.Counts.Errors, report.Summary.Counts.Warnings)
	ew.println(strings.Repeat("─", 60))

	total := report.Summary.Counts.Errors + report.Summary.Counts.Warnings
	if total == 0 && report.Summary.Failed == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	for _, r := range report.Results {
		if len(r.Diagnostics) == 0 {
			continue
		}
		c := closure.CountDiagnostics(r.Diagnostics)
		ew.printf("\n%s  (%d error(s), %d warning(s))\n", r.Input, c.Errors, c.Warnings)
		ew.println(strings.Repeat("─", 40))

		for _, d := range sortDiagnostics(r.Diagnostics) {
			ew.printf("  %s %s", severityIcon(d.Severity), location(d))
			if d.Code != "" {
				ew.printf("  %s", d.Code)
			}
			ew.println("")
			for _, line := range wrapText(d.Message, 70) {
				ew.printf("    %s\n", line)
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms\n", report.Timing.TotalMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

// sortDiagnostics returns a copy ordered by severity (errors first), then
// by position.
func sortDiagnostics(diags []closure.Diagnostic) []closure.Diagnostic {
	sorted := make([]closure.Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := closure.SeverityRank(sorted[i].Severity), closure.SeverityRank(sorted[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].Column < sorted[j].Column
	})
	return sorted
}

func location(d closure.Diagnostic) string {
	switch {
	case d.Line == 0:
		return d.Path
	case d.Column == 0:
		return fmt.Sprintf("%s:%d", d.Path, d.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", d.Path, d.Line, d.Column)
	}
}

func severityIcon(s closure.Severity) string {
	switch s {
	case closure.SeverityError:
		return "[E]"
	case closure.SeverityWarning:
		return "[W]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
