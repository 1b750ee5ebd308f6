package closure

import (
	"regexp"
	"strconv"
	"strings"
)

// diagLine matches "path:line[:col]: SEVERITY - [CODE] message". The code
// is absent in output from older compiler releases.
var diagLine = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?: (ERROR|WARNING) - (?:\[([A-Za-z0-9_.]+)\] )?(.*)$`)

// summaryLine matches the trailing "N error(s), M warning(s)" line.
var summaryLine = regexp.MustCompile(`^(\d+) error\(s\), (\d+) warning\(s\)`)

// ParseDiagnostics extracts diagnostics from compiler stderr. Source
// excerpts, caret lines and the summary line are skipped.
func ParseDiagnostics(stderr string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimRight(line, "\r")
		m := diagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d := Diagnostic{
			Path:     m[1],
			Severity: parseSeverity(m[4]),
			Code:     m[5],
			Message:  strings.TrimSpace(m[6]),
		}
		d.Line, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			d.Column, _ = strconv.Atoi(m[3])
		}
		diags = append(diags, d)
	}
	return diags
}

// ParseSummary returns the counts from the compiler's summary line, and
// false if stderr has none.
func ParseSummary(stderr string) (Counts, bool) {
	for _, line := range strings.Split(stderr, "\n") {
		m := summaryLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		var c Counts
		c.Errors, _ = strconv.Atoi(m[1])
		c.Warnings, _ = strconv.Atoi(m[2])
		return c, true
	}
	return Counts{}, false
}

// CountDiagnostics totals diagnostics by severity.
func CountDiagnostics(diags []Diagnostic) Counts {
	var c Counts
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			c.Errors++
		case SeverityWarning:
			c.Warnings++
		}
	}
	return c
}

func parseSeverity(s string) Severity {
	if s == "ERROR" {
		return SeverityError
	}
	return SeverityWarning
}
