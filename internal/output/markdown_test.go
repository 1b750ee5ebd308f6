package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownWriter_NoDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, emptyReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "## Closure Compiler check") {
		t.Error("Missing heading")
	}
	if !strings.Contains(out, "No issues found") {
		t.Error("Missing no issues message")
	}
	if strings.Contains(out, "<details>") {
		t.Error("Should not have collapsible sections with no diagnostics")
	}
}

func TestMarkdownWriter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "| Errors | 1 |") {
		t.Error("Missing errors count in summary table")
	}
	if !strings.Contains(out, "<summary>:x: <code>bad.js</code> (1 error(s), 1 warning(s))</summary>") {
		t.Errorf("Missing file section:\n%s", out)
	}
	if !strings.Contains(out, "| :red_circle: error | `bad.js:3` | JSC_UNDEFINED_VARIABLE | variable x is undeclared |") {
		t.Errorf("Missing error row:\n%s", out)
	}
	if strings.Count(out, "<details>") != 1 {
		t.Error("Only files with diagnostics should get a section")
	}
	if !strings.Contains(out, "*Compiled with ADVANCED in 1234ms*") {
		t.Error("Missing timing footer")
	}
}

func TestMdEscape(t *testing.T) {
	if got := mdEscape("a | b\nc"); got != `a \| b c` {
		t.Errorf("mdEscape = %q", got)
	}
}
