package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/closurec/internal/closure"
)

// unclassifiedRule is the rule ID for diagnostics that carry no code.
const unclassifiedRule = "closurec/unclassified"

// SARIFWriter outputs diagnostics in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *closure.Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

func buildSARIF(report *closure.Report) sarifLog {
	rulesMap := make(map[string]sarifRule)
	var ruleOrder []string
	results := []sarifResult{}

	for _, r := range report.Results {
		for _, d := range r.Diagnostics {
			ruleID := ruleIDFor(d)

			if _, ok := rulesMap[ruleID]; !ok {
				rulesMap[ruleID] = sarifRule{
					ID:               ruleID,
					ShortDescription: sarifMessage{Text: d.Message},
					DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(d.Severity)},
				}
				ruleOrder = append(ruleOrder, ruleID)
			}

			result := sarifResult{
				RuleID:  ruleID,
				Level:   severityToLevel(d.Severity),
				Message: sarifMessage{Text: d.Message},
			}

			path := d.Path
			if path == "" {
				path = r.Input
			}
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: path},
				},
			}
			// SARIF lines are 1-based; line 0 means the position is unknown.
			if d.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine: d.Line,
					// The compiler reports 0-based columns.
					StartColumn: d.Column + 1,
				}
			}
			result.Locations = append(result.Locations, loc)

			results = append(results, result)
		}
	}

	rules := make([]sarifRule, 0, len(ruleOrder))
	for _, id := range ruleOrder {
		rules = append(rules, rulesMap[id])
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           report.Tool,
						Version:        report.Version,
						InformationURI: "https://github.com/google/closure-compiler",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// severityToLevel maps diagnostic severity to SARIF level.
func severityToLevel(s closure.Severity) string {
	switch s {
	case closure.SeverityError:
		return "error"
	case closure.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func ruleIDFor(d closure.Diagnostic) string {
	if d.Code == "" {
		return unclassifiedRule
	}
	return d.Code
}
