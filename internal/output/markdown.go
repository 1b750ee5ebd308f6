package output

import (
	"io"
	"strings"

	"github.com/dshills/closurec/internal/closure"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *closure.Report) error {
	ew := &errWriter{w: w}
	counts := report.Summary.Counts

	ew.printf("## Closure Compiler %s\n\n", report.Mode)

	ew.printf("| | Count |\n")
	ew.printf("|---|---|\n")
	ew.printf("| Files | %d |\n", report.Summary.Files)
	ew.printf("| Failed | %d |\n", report.Summary.Failed)
	ew.printf("| Errors | %d |\n", counts.Errors)
	ew.printf("| Warnings | %d |\n\n", counts.Warnings)

	if counts.Errors+counts.Warnings == 0 && report.Summary.Failed == 0 {
		ew.println("No issues found. :white_check_mark:")
		return ew.err
	}

	for _, r := range report.Results {
		if len(r.Diagnostics) == 0 {
			continue
		}
		c := closure.CountDiagnostics(r.Diagnostics)
		ew.printf("<details>\n<summary>%s <code>%s</code> (%d error(s), %d warning(s))</summary>\n\n",
			mdResultIcon(c), r.Input, c.Errors, c.Warnings)

		ew.println("| Severity | Location | Code | Message |")
		ew.println("|----------|----------|------|---------|")
		for _, d := range sortDiagnostics(r.Diagnostics) {
			code := d.Code
			if code == "" {
				code = "-"
			}
			ew.printf("| %s %s | `%s` | %s | %s |\n",
				mdSeverityIcon(d.Severity), d.Severity, location(d), code, mdEscape(d.Message))
		}
		ew.println("\n</details>\n")
	}

	ew.printf("*Compiled with %s in %dms*\n", report.Level, report.Timing.TotalMs)

	return ew.err
}

func mdResultIcon(c closure.Counts) string {
	if c.Errors > 0 {
		return ":x:"
	}
	return ":warning:"
}

func mdSeverityIcon(s closure.Severity) string {
	switch s {
	case closure.SeverityError:
		return ":red_circle:"
	case closure.SeverityWarning:
		return ":orange_circle:"
	default:
		return ":white_circle:"
	}
}

// mdEscape keeps a message on one table row.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
