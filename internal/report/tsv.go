package report

import (
	"fmt"
	"strings"

	"symscan/internal/parser"
	"symscan/internal/scan"
)

type TSVGenerator struct {
	report *scan.Report
}

func NewTSVGenerator(rep *scan.Report) *TSVGenerator {
	return &TSVGenerator{report: rep}
}

// Generate produces the combined findings table: every unused import, unused
// declaration and unresolved import of the run, one row each.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tFile\tLanguage\tSubject\tLine\tDetail\n")
	for _, f := range t.report.Files {
		for _, imp := range f.UnusedImports {
			buf.WriteString(fmt.Sprintf("unused_import\t%s\t%s\t%s\t%d\t%s\n",
				f.Path, f.Language, imp.Source, imp.Line, boundNames(imp)))
		}
		for _, d := range f.UnusedDeclarations {
			buf.WriteString(fmt.Sprintf("unused_declaration\t%s\t%s\t%s\t%d\t%s\n",
				f.Path, f.Language, d.Name, d.Line, d.Kind))
		}
		for _, ir := range f.Unresolved() {
			buf.WriteString(fmt.Sprintf("unresolved_import\t%s\t%s\t%s\t%d\t%s\n",
				f.Path, f.Language, ir.Import.Source, ir.Import.Line, ir.Import.Kind))
		}
	}

	return buf.String(), nil
}

func (t *TSVGenerator) GenerateUnusedImports() (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tFile\tLanguage\tModule\tNames\tKind\tLine\n")
	for _, f := range t.report.Files {
		for _, imp := range f.UnusedImports {
			buf.WriteString(fmt.Sprintf("unused_import\t%s\t%s\t%s\t%s\t%s\t%d\n",
				f.Path,
				f.Language,
				imp.Source,
				boundNames(imp),
				imp.Kind,
				imp.Line,
			))
		}
	}

	return buf.String(), nil
}

func (t *TSVGenerator) GenerateUnusedDeclarations() (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tFile\tLanguage\tName\tKind\tDescriptor\tLine\n")
	for _, f := range t.report.Files {
		for _, d := range f.UnusedDeclarations {
			buf.WriteString(fmt.Sprintf("unused_declaration\t%s\t%s\t%s\t%s\t%s\t%d\n",
				f.Path,
				f.Language,
				d.Name,
				d.Kind,
				d.Descriptor,
				d.Line,
			))
		}
	}

	return buf.String(), nil
}

func (t *TSVGenerator) GenerateUnresolvedImports() (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tFile\tLanguage\tModule\tKind\tLine\n")
	for _, f := range t.report.Files {
		for _, ir := range f.Unresolved() {
			buf.WriteString(fmt.Sprintf("unresolved_import\t%s\t%s\t%s\t%s\t%d\n",
				f.Path,
				f.Language,
				ir.Import.Source,
				ir.Import.Kind,
				ir.Import.Line,
			))
		}
	}

	return buf.String(), nil
}

func boundNames(imp parser.Import) string {
	names := make([]string, 0, len(imp.Names))
	for _, n := range imp.Names {
		names = append(names, n.BoundName())
	}
	return strings.Join(names, ",")
}
