package resolver

import (
	"sort"

	"symscan/internal/parser"
)

// UnusedImports returns the imports none of whose bound names appear in the
// file's identifier references. The bound name is the alias when one exists,
// the imported name otherwise. Imports that bind nothing (side-effect and
// bare require forms) are never reported.
func UnusedImports(res parser.ParseResult) []parser.Import {
	used := usedNames(res)
	var unused []parser.Import
	for _, imp := range res.Imports {
		if len(imp.Names) == 0 {
			continue
		}
		referenced := false
		for _, name := range imp.Names {
			if used[name.BoundName()] {
				referenced = true
				break
			}
		}
		if !referenced {
			unused = append(unused, imp)
		}
	}
	return unused
}

// DeclarationOption adjusts which declarations UnusedDeclarations reports.
type DeclarationOption func(*declarationOptions)

type declarationOptions struct {
	skipExported func(string) bool
}

// WithExportedSkipped exempts names the caller considers public API, for
// library entry points that are legitimately unreferenced inside their own
// file.
func WithExportedSkipped(isExported func(string) bool) DeclarationOption {
	return func(o *declarationOptions) {
		o.skipExported = isExported
	}
}

// UnusedDeclarations returns the names of top-level declarations never
// referenced in the file, ordered by declaration line and then name.
func UnusedDeclarations(res parser.ParseResult, opts ...DeclarationOption) []string {
	var options declarationOptions
	for _, opt := range opts {
		opt(&options)
	}

	used := usedNames(res)
	var unused []string
	for name := range res.Declarations {
		if used[name] {
			continue
		}
		if options.skipExported != nil && options.skipExported(name) {
			continue
		}
		unused = append(unused, name)
	}

	sort.Slice(unused, func(i, j int) bool {
		a, b := res.Declarations[unused[i]], res.Declarations[unused[j]]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return unused[i] < unused[j]
	})
	return unused
}

func usedNames(res parser.ParseResult) map[string]bool {
	used := make(map[string]bool, len(res.Identifiers))
	for _, id := range res.Identifiers {
		used[id.Name] = true
	}
	return used
}
