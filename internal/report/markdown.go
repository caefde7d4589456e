package report

import (
	"fmt"
	"strings"
	"time"

	"symscan/internal/scan"
	"symscan/internal/shared/version"
)

type MarkdownOptions struct {
	ProjectName         string
	GeneratedAt         time.Time
	TableOfContents     bool
	CollapsibleSections bool
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(rep *scan.Report, opts MarkdownOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Symbol Scan Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + version.Version + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Scan Report\n\n")
	if opts.TableOfContents {
		b.WriteString("## Table of Contents\n")
		b.WriteString("- [Executive Summary](#executive-summary)\n")
		b.WriteString("- [Unused Imports](#unused-imports)\n")
		b.WriteString("- [Unused Declarations](#unused-declarations)\n")
		b.WriteString("- [Unresolved Imports](#unresolved-imports)\n")
		b.WriteString("- [Parse Failures](#parse-failures)\n")
		b.WriteString("\n")
	}

	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Run ID | `%s` |\n", rep.RunID))
	b.WriteString(fmt.Sprintf("| Scan Duration | %s |\n", rep.Duration.Round(time.Millisecond)))
	b.WriteString(fmt.Sprintf("| Files Scanned | %d |\n", rep.Totals.Files))
	b.WriteString(fmt.Sprintf("| Unused Imports | %d |\n", rep.Totals.UnusedImports))
	b.WriteString(fmt.Sprintf("| Unused Declarations | %d |\n", rep.Totals.UnusedDeclarations))
	b.WriteString(fmt.Sprintf("| Unresolved Imports | %d |\n", rep.Totals.Unresolved))
	b.WriteString(fmt.Sprintf("| Parse Failures | %d |\n\n", countParseFailures(rep)))

	m.writeUnusedImports(&b, rep, opts.CollapsibleSections)
	m.writeUnusedDeclarations(&b, rep, opts.CollapsibleSections)
	m.writeUnresolvedImports(&b, rep, opts.CollapsibleSections)
	m.writeParseFailures(&b, rep, opts.CollapsibleSections)

	return b.String(), nil
}

func (m *MarkdownGenerator) writeUnusedImports(b *strings.Builder, rep *scan.Report, collapsible bool) {
	b.WriteString("## Unused Imports\n")
	rows := make([]string, 0)
	for _, f := range rep.Files {
		for _, imp := range f.UnusedImports {
			rows = append(rows, fmt.Sprintf(
				"| `%s` | `%s` | `%s` | %s | %d |\n",
				f.Path, imp.Source, boundNames(imp), imp.Kind, imp.Line,
			))
		}
	}
	if len(rows) == 0 {
		b.WriteString("No unused imports detected.\n\n")
		return
	}
	m.writeTableWithCollapse(
		b,
		"Unused import details",
		collapsible,
		len(rows) > 15,
		[]string{"| File | Module | Names | Kind | Line |\n", "| --- | --- | --- | --- | --- |\n"},
		rows,
	)
}

func (m *MarkdownGenerator) writeUnusedDeclarations(b *strings.Builder, rep *scan.Report, collapsible bool) {
	b.WriteString("## Unused Declarations\n")
	rows := make([]string, 0)
	for _, f := range rep.Files {
		for _, d := range f.UnusedDeclarations {
			rows = append(rows, fmt.Sprintf(
				"| `%s` | `%s` | %s | %s | %d |\n",
				f.Path, d.Name, d.Kind, nonEmpty(d.Descriptor, "-"), d.Line,
			))
		}
	}
	if len(rows) == 0 {
		b.WriteString("No unused declarations detected.\n\n")
		return
	}
	m.writeTableWithCollapse(
		b,
		"Unused declaration details",
		collapsible,
		len(rows) > 10,
		[]string{"| File | Name | Kind | Descriptor | Line |\n", "| --- | --- | --- | --- | --- |\n"},
		rows,
	)
}

func (m *MarkdownGenerator) writeUnresolvedImports(b *strings.Builder, rep *scan.Report, collapsible bool) {
	b.WriteString("## Unresolved Imports\n")
	rows := make([]string, 0)
	for _, f := range rep.Files {
		for _, res := range f.Unresolved() {
			rows = append(rows, fmt.Sprintf(
				"| `%s` | `%s` | %s | %d |\n",
				f.Path, res.Import.Source, res.Import.Kind, res.Import.Line,
			))
		}
	}
	if len(rows) == 0 {
		b.WriteString("No unresolved imports detected.\n\n")
		return
	}
	m.writeTableWithCollapse(
		b,
		"Unresolved import details",
		collapsible,
		len(rows) > 10,
		[]string{"| File | Module | Kind | Line |\n", "| --- | --- | --- | --- |\n"},
		rows,
	)
}

func (m *MarkdownGenerator) writeParseFailures(b *strings.Builder, rep *scan.Report, collapsible bool) {
	b.WriteString("## Parse Failures\n")
	rows := make([]string, 0)
	for _, f := range rep.Files {
		if f.SyntaxValid {
			continue
		}
		rows = append(rows, fmt.Sprintf("| `%s` | %s |\n", f.Path, f.Language))
	}
	if len(rows) == 0 {
		b.WriteString("No parse failures detected.\n\n")
		return
	}
	m.writeTableWithCollapse(
		b,
		"Parse failure details",
		collapsible,
		len(rows) > 10,
		[]string{"| File | Language |\n", "| --- | --- |\n"},
		rows,
	)
}

func (m *MarkdownGenerator) writeTableWithCollapse(
	b *strings.Builder,
	summary string,
	collapsible bool,
	collapse bool,
	header []string,
	rows []string,
) {
	if collapsible && collapse {
		b.WriteString("<details>\n")
		b.WriteString("<summary>")
		b.WriteString(summary)
		b.WriteString("</summary>\n\n")
	}
	for _, line := range header {
		b.WriteString(line)
	}
	for _, line := range rows {
		b.WriteString(line)
	}
	b.WriteString("\n")
	if collapsible && collapse {
		b.WriteString("</details>\n\n")
	}
}

func countParseFailures(rep *scan.Report) int {
	n := 0
	for _, f := range rep.Files {
		if !f.SyntaxValid {
			n++
		}
	}
	return n
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
