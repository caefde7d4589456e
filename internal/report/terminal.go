package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"symscan/internal/scan"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

const maxOffenders = 5

// Summary renders a short terminal digest of a scan run: totals plus the
// files carrying the most findings.
func Summary(rep *scan.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("scan %s", rep.RunID)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d files in %s", rep.Totals.Files, rep.Duration.Round(time.Millisecond))))
	b.WriteString("\n")

	total := rep.Totals.UnusedImports + rep.Totals.UnusedDeclarations + rep.Totals.Unresolved
	if total == 0 {
		b.WriteString(successStyle.Render("no findings"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		warnStyle.Render(fmt.Sprintf("unused imports: %d", rep.Totals.UnusedImports)),
		warnStyle.Render(fmt.Sprintf("unused declarations: %d", rep.Totals.UnusedDeclarations)),
		errorStyle.Render(fmt.Sprintf("unresolved: %d", rep.Totals.Unresolved)),
	))

	for _, o := range topOffenders(rep) {
		b.WriteString(fmt.Sprintf("  %s %s\n", mutedStyle.Render(fmt.Sprintf("%3d", o.count)), o.path))
	}

	return b.String()
}

type offender struct {
	path  string
	count int
}

func topOffenders(rep *scan.Report) []offender {
	var offenders []offender
	for _, f := range rep.Files {
		n := len(f.UnusedImports) + len(f.UnusedDeclarations) + len(f.Unresolved())
		if n > 0 {
			offenders = append(offenders, offender{path: f.Path, count: n})
		}
	}

	sort.Slice(offenders, func(i, j int) bool {
		if offenders[i].count != offenders[j].count {
			return offenders[i].count > offenders[j].count
		}
		return offenders[i].path < offenders[j].path
	})

	if len(offenders) > maxOffenders {
		offenders = offenders[:maxOffenders]
	}
	return offenders
}
