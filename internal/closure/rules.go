package closure

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Rules adjusts compiler diagnostics before they are reported. Rules files
// are YAML; JSON files parse as well.
type Rules struct {
	// Suppress lists diagnostic codes to drop. Entries may be globs such
	// as JSC_UNUSED_*.
	Suppress []string `yaml:"suppress,omitempty" json:"suppress,omitempty"`
	// SeverityOverrides maps a diagnostic code to the severity it is
	// reported with.
	SeverityOverrides map[string]Severity `yaml:"severityOverrides,omitempty" json:"severityOverrides,omitempty"`
}

// LoadRules loads a rules file from disk. Returns nil Rules and nil error if path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}
	if err := rules.validate(); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return &rules, nil
}

func (r *Rules) validate() error {
	for _, pattern := range r.Suppress {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("suppress pattern %q: %w", pattern, err)
		}
	}
	for code, sev := range r.SeverityOverrides {
		if sev != SeverityError && sev != SeverityWarning {
			return fmt.Errorf("severity override for %s must be %q or %q, got %q",
				code, SeverityError, SeverityWarning, sev)
		}
	}
	return nil
}

// Apply returns diags with suppressed codes removed and severity overrides
// applied. Diagnostics without a code are never suppressed.
func (r *Rules) Apply(diags []Diagnostic) []Diagnostic {
	if r == nil || (len(r.Suppress) == 0 && len(r.SeverityOverrides) == 0) {
		return diags
	}

	var patterns []glob.Glob
	for _, p := range r.Suppress {
		if g, err := glob.Compile(p); err == nil {
			patterns = append(patterns, g)
		}
	}

	kept := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Code != "" && matchesAny(d.Code, patterns) {
			continue
		}
		if sev, ok := r.SeverityOverrides[d.Code]; ok && d.Code != "" {
			d.Severity = sev
		}
		kept = append(kept, d)
	}
	return kept
}

// ApplyResults applies the rules to the diagnostics of every result.
func (r *Rules) ApplyResults(results []Result) {
	for i := range results {
		results[i].Diagnostics = r.Apply(results[i].Diagnostics)
	}
}

func matchesAny(code string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(code) {
			return true
		}
	}
	return false
}
