package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/closurec/internal/closure"
)

// JSONWriter encodes the report as indented JSON. HTML escaping is off so
// compiler messages quoting source ("a < b && c") stay readable.
type JSONWriter struct {
	// Indent defaults to two spaces; "-" writes the report on one line.
	Indent string
}

func (j *JSONWriter) Write(w io.Writer, report *closure.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	switch j.Indent {
	case "":
		enc.SetIndent("", "  ")
	case "-":
	default:
		enc.SetIndent("", j.Indent)
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}
