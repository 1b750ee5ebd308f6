package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dshills/closurec/internal/closure"
)

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var parsed closure.Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.Tool != "closurec" {
		t.Errorf("Tool = %q, want %q", parsed.Tool, "closurec")
	}
	if len(parsed.Results) != 2 {
		t.Fatalf("Results count = %d, want 2", len(parsed.Results))
	}
	if got := parsed.Results[1].Diagnostics[1].Code; got != "JSC_UNDEFINED_VARIABLE" {
		t.Errorf("Code = %q, want JSC_UNDEFINED_VARIABLE", got)
	}
	if parsed.Summary.Counts.Errors != 1 {
		t.Errorf("Errors = %d, want 1", parsed.Summary.Counts.Errors)
	}
}

func TestJSONWriter_EmptyDiagnosticsIsArray(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{}
	report := sampleReport()
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"diagnostics": []`)) {
		t.Error("empty diagnostics should encode as []")
	}
}

func TestJSONWriter_NoHTMLEscape(t *testing.T) {
	report := sampleReport()
	report.Results[0].Diagnostics = []closure.Diagnostic{
		{Path: "a.js", Line: 1, Severity: closure.SeverityWarning, Message: "a < b && c"},
	}
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"a < b && c"`)) {
		t.Errorf("message should not be HTML escaped:\n%s", buf.String())
	}
}

func TestJSONWriter_SingleLine(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{Indent: "-"}).Write(&buf, emptyReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if n := bytes.Count(buf.Bytes(), []byte("\n")); n != 1 {
		t.Errorf("got %d newlines, want 1", n)
	}
}
