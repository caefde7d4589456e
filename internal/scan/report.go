package scan

import (
	"time"

	"symscan/internal/parser"
)

// Import resolution outcomes.
const (
	StatusLocal      = "local"
	StatusStdlib     = "stdlib"
	StatusExternal   = "external"
	StatusUnresolved = "unresolved"
)

// ImportResolution ties one import to the repository file it resolved to.
// Target is set only for local resolutions.
type ImportResolution struct {
	Import parser.Import `json:"import"`
	Status string        `json:"status"`
	Target string        `json:"target,omitempty"`
}

// FileReport holds the findings for one scanned file. Path is repo-relative
// with forward slashes. UnusedDeclarations keep their line-then-name order.
type FileReport struct {
	Path               string               `json:"path"`
	Language           string               `json:"language"`
	SyntaxValid        bool                 `json:"syntax_valid"`
	Imports            []ImportResolution   `json:"imports,omitempty"`
	UnusedImports      []parser.Import      `json:"unused_imports,omitempty"`
	UnusedDeclarations []parser.Declaration `json:"unused_declarations,omitempty"`
}

// Unresolved returns the resolutions that found no target. Relative imports
// land here when the file they point at is missing; bare specifiers that
// match neither the repository nor a standard library are reported as
// external instead.
func (f FileReport) Unresolved() []ImportResolution {
	var out []ImportResolution
	for _, imp := range f.Imports {
		if imp.Status == StatusUnresolved {
			out = append(out, imp)
		}
	}
	return out
}

type Totals struct {
	Files              int `json:"files"`
	UnusedImports      int `json:"unused_imports"`
	UnusedDeclarations int `json:"unused_declarations"`
	Unresolved         int `json:"unresolved"`
}

// Report is the outcome of one scan run. Files are sorted by path.
type Report struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Files     []FileReport  `json:"files"`
	Totals    Totals        `json:"totals"`
}

func tally(files []FileReport) Totals {
	t := Totals{Files: len(files)}
	for _, f := range files {
		t.UnusedImports += len(f.UnusedImports)
		t.UnusedDeclarations += len(f.UnusedDeclarations)
		for _, imp := range f.Imports {
			if imp.Status == StatusUnresolved {
				t.Unresolved++
			}
		}
	}
	return t
}
