package report

import (
	"encoding/json"
	"strings"
	"testing"

	"symscan/internal/parser"
	"symscan/internal/scan"
)

func TestGenerateSARIF_Empty(t *testing.T) {
	data, err := GenerateSARIF(&scan.Report{RunID: "run-0"})
	if err != nil {
		t.Fatalf("GenerateSARIF returned error: %v", err)
	}
	var doc sarifReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Schema != sarifSchema {
		t.Errorf("$schema = %q, want %q", doc.Schema, sarifSchema)
	}
	if doc.Version != sarifVersion {
		t.Errorf("version = %q, want %q", doc.Version, sarifVersion)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(doc.Runs))
	}
	if len(doc.Runs[0].Results) != 0 {
		t.Errorf("expected 0 results, got %d", len(doc.Runs[0].Results))
	}
	if len(doc.Runs[0].Tool.Driver.Rules) != 0 {
		t.Errorf("expected no rules for a clean run, got %d", len(doc.Runs[0].Tool.Driver.Rules))
	}
}

func TestGenerateSARIF_Findings(t *testing.T) {
	data, err := GenerateSARIF(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc sarifReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	run := doc.Runs[0]
	if run.Tool.Driver.Name != "symscan" {
		t.Errorf("driver name = %q, want symscan", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(run.Tool.Driver.Rules))
	}

	results := run.Results
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	imp := results[0]
	if imp.RuleID != ruleIDUnusedImport {
		t.Errorf("ruleId = %q, want %q", imp.RuleID, ruleIDUnusedImport)
	}
	if imp.Level != "warning" {
		t.Errorf("level = %q, want warning", imp.Level)
	}
	if !strings.Contains(imp.Message.Text, "requests") {
		t.Errorf("message text %q does not name the import", imp.Message.Text)
	}

	decl := results[1]
	if decl.RuleID != ruleIDUnusedDeclaration {
		t.Errorf("ruleId = %q, want %q", decl.RuleID, ruleIDUnusedDeclaration)
	}
	if decl.Message.Text != "Unused function: helper" {
		t.Errorf("message text = %q", decl.Message.Text)
	}

	unres := results[2]
	if unres.RuleID != ruleIDUnresolvedImport {
		t.Errorf("ruleId = %q, want %q", unres.RuleID, ruleIDUnresolvedImport)
	}
	if unres.Level != "error" {
		t.Errorf("level = %q, want error", unres.Level)
	}
	if len(unres.Locations) == 0 {
		t.Fatal("expected location on unresolved result")
	}
	loc := unres.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "web/app.js" {
		t.Errorf("URI = %q, want web/app.js", loc.ArtifactLocation.URI)
	}
	if loc.ArtifactLocation.URIBaseID != "%SRCROOT%" {
		t.Errorf("uriBaseId should be %%SRCROOT%%")
	}
	if loc.Region == nil || loc.Region.StartLine != 3 {
		t.Errorf("expected region.startLine = 3")
	}
}

func TestGenerateSARIF_AliasedImportMessage(t *testing.T) {
	rep := &scan.Report{
		RunID: "run-2",
		Files: []scan.FileReport{
			{
				Path:        "src/plot.py",
				Language:    parser.LangPython,
				SyntaxValid: true,
				UnusedImports: []parser.Import{
					parser.NewImport("numpy", []parser.ImportedName{{Name: "numpy", Alias: "np"}}, 1, parser.KindPlainImport),
				},
			},
		},
		Totals: scan.Totals{Files: 1, UnusedImports: 1},
	}
	data, err := GenerateSARIF(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc sarifReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	got := doc.Runs[0].Results[0].Message.Text
	if got != "Unused import: numpy (binds np)" {
		t.Errorf("message text = %q", got)
	}
}

func TestGenerateSARIF_RulesOnlyForPresentFindings(t *testing.T) {
	rep := sampleReport()
	rep.Files = rep.Files[:1]
	rep.Files[0].UnusedDeclarations = nil
	rep.Totals = scan.Totals{Files: 1, UnusedImports: 1}

	data, err := GenerateSARIF(rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc sarifReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	rules := doc.Runs[0].Tool.Driver.Rules
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0].ID != ruleIDUnusedImport {
		t.Errorf("rule id = %q, want %q", rules[0].ID, ruleIDUnusedImport)
	}
}
