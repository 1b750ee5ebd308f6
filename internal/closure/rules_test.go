package closure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRules_EmptyPath(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestLoadRules_YAML(t *testing.T) {
	path := writeRules(t, `
suppress:
  - JSC_UNUSED_*
severityOverrides:
  JSC_UNDEFINED_VARIABLE: warning
`)
	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"JSC_UNUSED_*"}, rules.Suppress)
	assert.Equal(t, SeverityWarning, rules.SeverityOverrides["JSC_UNDEFINED_VARIABLE"])
}

func TestLoadRules_JSON(t *testing.T) {
	path := writeRules(t, `{"suppress": ["JSC_A"]}`)
	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"JSC_A"}, rules.Suppress)
}

func TestLoadRules_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "suppress: [unterminated"},
		{"bad severity", "severityOverrides:\n  JSC_A: fatal\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(writeRules(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRules_Apply(t *testing.T) {
	rules := &Rules{
		Suppress:          []string{"JSC_UNUSED_*"},
		SeverityOverrides: map[string]Severity{"JSC_TYPE_MISMATCH": SeverityError},
	}
	diags := []Diagnostic{
		{Code: "JSC_UNUSED_LOCAL", Severity: SeverityWarning},
		{Code: "JSC_TYPE_MISMATCH", Severity: SeverityWarning},
		{Code: "", Severity: SeverityError, Message: "raw"},
	}

	got := rules.Apply(diags)
	require.Len(t, got, 2)
	assert.Equal(t, "JSC_TYPE_MISMATCH", got[0].Code)
	assert.Equal(t, SeverityError, got[0].Severity)
	assert.Equal(t, "raw", got[1].Message)

	assert.Equal(t, SeverityWarning, diags[1].Severity, "input must not be modified")
}

func TestRules_ApplyNil(t *testing.T) {
	var rules *Rules
	diags := []Diagnostic{{Code: "JSC_A"}}
	assert.Equal(t, diags, rules.Apply(diags))
}

func TestRules_ApplyResults(t *testing.T) {
	rules := &Rules{Suppress: []string{"JSC_A"}}
	results := []Result{
		{Diagnostics: []Diagnostic{{Code: "JSC_A"}, {Code: "JSC_B"}}},
		{Diagnostics: []Diagnostic{{Code: "JSC_A"}}},
	}
	rules.ApplyResults(results)
	assert.Len(t, results[0].Diagnostics, 1)
	assert.Empty(t, results[1].Diagnostics)
}
