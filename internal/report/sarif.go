package report

import (
	"encoding/json"
	"fmt"

	"symscan/internal/scan"
	"symscan/internal/shared/version"
)

// SARIF v2.1.0 output for editor and code-scanning integrations.

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDUnusedImport      = "SYM001"
	ruleIDUnusedDeclaration = "SYM002"
	ruleIDUnresolvedImport  = "SYM003"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
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
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
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
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a scan report. File
// paths in the report are already repo-relative with forward slashes, so
// they are emitted as-is under the %SRCROOT% base.
func GenerateSARIF(rep *scan.Report) ([]byte, error) {
	results := make([]sarifResult, 0)

	for _, f := range rep.Files {
		for _, imp := range f.UnusedImports {
			text := fmt.Sprintf("Unused import: %s", imp.Source)
			if bound := boundNames(imp); bound != "" && bound != imp.Source {
				text = fmt.Sprintf("Unused import: %s (binds %s)", imp.Source, bound)
			}
			results = append(results, sarifResult{
				RuleID:    ruleIDUnusedImport,
				Level:     "warning",
				Message:   sarifMessage{Text: text},
				Locations: []sarifLocation{findingLocation(f.Path, imp.Line)},
			})
		}
	}

	for _, f := range rep.Files {
		for _, d := range f.UnusedDeclarations {
			results = append(results, sarifResult{
				RuleID:    ruleIDUnusedDeclaration,
				Level:     "warning",
				Message:   sarifMessage{Text: fmt.Sprintf("Unused %s: %s", d.Kind, d.Name)},
				Locations: []sarifLocation{findingLocation(f.Path, d.Line)},
			})
		}
	}

	for _, f := range rep.Files {
		for _, res := range f.Unresolved() {
			results = append(results, sarifResult{
				RuleID:    ruleIDUnresolvedImport,
				Level:     "error",
				Message:   sarifMessage{Text: fmt.Sprintf("Unresolved relative import: %s", res.Import.Source)},
				Locations: []sarifLocation{findingLocation(f.Path, res.Import.Line)},
			})
		}
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "symscan",
						Version: version.Version,
						Rules:   buildSARIFRules(rep.Totals),
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}

// buildSARIFRules returns only the rules that produced findings.
func buildSARIFRules(totals scan.Totals) []sarifRule {
	rules := make([]sarifRule, 0, 3)
	if totals.UnusedImports > 0 {
		rules = append(rules, sarifRule{
			ID:               ruleIDUnusedImport,
			Name:             "UnusedImport",
			ShortDescription: sarifMessage{Text: "An imported module or name is never used in the file."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}
	if totals.UnusedDeclarations > 0 {
		rules = append(rules, sarifRule{
			ID:               ruleIDUnusedDeclaration,
			Name:             "UnusedDeclaration",
			ShortDescription: sarifMessage{Text: "A top-level declaration is never referenced in its file."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}
	if totals.Unresolved > 0 {
		rules = append(rules, sarifRule{
			ID:               ruleIDUnresolvedImport,
			Name:             "UnresolvedImport",
			ShortDescription: sarifMessage{Text: "A relative import does not resolve to any scanned file."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	return rules
}

func findingLocation(path string, line int) sarifLocation {
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       path,
				URIBaseID: "%SRCROOT%",
			},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line}
	}
	return loc
}
