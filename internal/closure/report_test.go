package closure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFails(t *testing.T) {
	clean := Result{Valid: true}
	warned := Result{Valid: false, Diagnostics: []Diagnostic{{Severity: SeverityWarning}}}
	errored := Result{Valid: false, Diagnostics: []Diagnostic{{Severity: SeverityError}}}
	suppressed := Result{Valid: false}

	tests := []struct {
		failOn string
		result Result
		want   bool
	}{
		{FailOnAny, clean, false},
		{FailOnAny, warned, true},
		{FailOnAny, suppressed, true},
		{FailOnWarning, warned, true},
		{FailOnWarning, errored, true},
		{FailOnWarning, suppressed, false},
		{FailOnError, warned, false},
		{FailOnError, errored, true},
		{FailOnNone, errored, false},
		{"", warned, true},
	}
	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			assert.Equal(t, tt.want, Fails(tt.result, tt.failOn))
		})
	}
}

func TestValidFailOn(t *testing.T) {
	for _, s := range []string{"any", "warning", "error", "none"} {
		assert.True(t, ValidFailOn(s), s)
	}
	assert.False(t, ValidFailOn("fatal"))
}

func TestBuildReport(t *testing.T) {
	results := []Result{
		{Input: "a.js", Valid: true},
		{Input: "b.js", Diagnostics: []Diagnostic{
			{Severity: SeverityError},
			{Severity: SeverityWarning},
			{Severity: SeverityWarning},
		}},
	}

	r := BuildReport(ModeCheck, LevelAdvanced, results, FailOnError, 1500*time.Millisecond)

	assert.Equal(t, "closurec", r.Tool)
	assert.Equal(t, Version, r.Version)
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, ModeCheck, r.Mode)
	assert.Equal(t, LevelAdvanced, r.Level)
	assert.Equal(t, 2, r.Summary.Files)
	assert.Equal(t, 1, r.Summary.Failed)
	assert.Equal(t, Counts{Errors: 1, Warnings: 2}, r.Summary.Counts)
	assert.Equal(t, int64(1500), r.Timing.TotalMs)
	require.Len(t, r.Results, 2)
	assert.NotNil(t, r.Results[0].Diagnostics)
	assert.Equal(t, "2 file(s), 1 error(s), 2 warning(s)", r.Summary.String())
}

func TestBuildReport_Empty(t *testing.T) {
	r := BuildReport(ModeOptimize, LevelWhitespaceOnly, nil, FailOnAny, 0)
	assert.NotNil(t, r.Results)
	assert.Zero(t, r.Summary.Files)

	other := BuildReport(ModeOptimize, LevelWhitespaceOnly, nil, FailOnAny, 0)
	assert.NotEqual(t, r.RunID, other.RunID)
}
