package parser

import (
	"regexp"
	"strings"
)

// Line-anchored patterns for degraded extraction when the syntax tree is
// unavailable. Lower fidelity than the native path: multi-line statements
// and nested constructs are missed.
var (
	pyImportPattern = regexp.MustCompile(`(?m)^import\s+([\w.]+)(?:\s+as\s+(\w+))?`)
	pyFromPattern   = regexp.MustCompile(`(?m)^from\s+(\.{1,3}[\w.]*|[\w.]+)\s+import\s+([^\n]+)`)
	pyDefPattern    = regexp.MustCompile(`(?m)^def\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\(`)
	pyClassPattern  = regexp.MustCompile(`(?m)^class\s+([a-zA-Z_][a-zA-Z0-9_]*)`)
	pyWordPattern   = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\b`)
)

// pythonKeywords filters the per-line word scan below.
var pythonKeywords = map[string]bool{
	"if": true, "else": true, "elif": true, "for": true, "while": true,
	"return": true, "def": true, "class": true, "import": true,
	"from": true, "as": true, "try": true, "except": true,
	"finally": true, "with": true, "lambda": true, "and": true,
	"or": true, "not": true, "in": true, "is": true,
	"True": true, "False": true, "None": true,
}

// extractWithRegex recovers what it can from source the native parser
// rejected: top-of-line imports and definitions, plus a per-line word scan
// for identifiers.
func (p *PythonParser) extractWithRegex(res *ParseResult) {
	src := res.Raw

	for _, m := range pyImportPattern.FindAllStringSubmatchIndex(src, -1) {
		module := src[m[2]:m[3]]
		name := ImportedName{Name: module}
		if m[4] >= 0 {
			name.Alias = src[m[4]:m[5]]
		}
		res.Imports = append(res.Imports,
			NewImport(module, []ImportedName{name}, lineAt(src, m[0]), KindPlainImport))
	}

	for _, m := range pyFromPattern.FindAllStringSubmatchIndex(src, -1) {
		module := src[m[2]:m[3]]
		var names []ImportedName
		for _, item := range strings.Split(src[m[4]:m[5]], ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			name := ImportedName{Name: item}
			if base, alias, ok := strings.Cut(item, " as "); ok {
				name = ImportedName{Name: strings.TrimSpace(base), Alias: strings.TrimSpace(alias)}
			}
			names = append(names, name)
		}
		res.Imports = append(res.Imports,
			NewImport(module, names, lineAt(src, m[0]), KindFromImport))
	}

	for _, m := range pyDefPattern.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		res.Declarations[name] = Declaration{
			Name: name, Kind: DeclFunction, Line: lineAt(src, m[0]), Descriptor: "function",
		}
	}

	for _, m := range pyClassPattern.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		res.Declarations[name] = Declaration{
			Name: name, Kind: DeclClass, Line: lineAt(src, m[0]), Descriptor: "class",
		}
	}

	for lineNo, line := range strings.Split(src, "\n") {
		for _, word := range pyWordPattern.FindAllString(line, -1) {
			if pythonKeywords[word] {
				continue
			}
			res.Identifiers = append(res.Identifiers, Identifier{Line: lineNo + 1, Name: word})
		}
	}
}

func lineAt(src string, offset int) int {
	return 1 + strings.Count(src[:offset], "\n")
}
