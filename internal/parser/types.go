package parser

import "strings"

// ImportKind classifies how a module is brought into scope. The wire values
// match the tags the surrounding tooling stores in reports.
type ImportKind string

const (
	KindPlainImport ImportKind = "import"
	KindFromImport  ImportKind = "from_import"
	KindNamespace   ImportKind = "namespace"
	KindNamed       ImportKind = "named"
	KindDefault     ImportKind = "default"
	KindSideEffect  ImportKind = "side_effect"
	KindRequire     ImportKind = "require"
	KindDynamic     ImportKind = "dynamic"
)

// DeclarationKind classifies a top-level binding.
type DeclarationKind string

const (
	DeclVariable  DeclarationKind = "variable"
	DeclFunction  DeclarationKind = "function"
	DeclClass     DeclarationKind = "class"
	DeclInterface DeclarationKind = "interface"
	DeclTypeAlias DeclarationKind = "type"
	DeclEnum      DeclarationKind = "enum"
)

// ImportedName is one bound name of an import clause. Alias is empty when the
// name is bound as written.
type ImportedName struct {
	Name  string
	Alias string
}

// BoundName returns the identifier the import actually binds in this file:
// the alias when present, the original name otherwise.
func (n ImportedName) BoundName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// Import is one normalized import/require statement.
type Import struct {
	Source     string
	Names      []ImportedName
	Line       int
	Kind       ImportKind
	IsRelative bool
}

// NewImport builds an Import and derives IsRelative from the specifier.
// Relativity is never taken from the caller: a specifier is relative iff it
// starts with "./" or "../", or carries leading relative-import dots the way
// Python from-imports do ("." for one level, ".." for two, and so on, with
// the module name appended after the dots).
func NewImport(source string, names []ImportedName, line int, kind ImportKind) Import {
	return Import{
		Source:     source,
		Names:      names,
		Line:       line,
		Kind:       kind,
		IsRelative: isRelativeSource(source),
	}
}

func isRelativeSource(source string) bool {
	if strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") {
		return true
	}
	return strings.HasPrefix(source, ".")
}

// Declaration is one top-level named binding. Descriptor carries the
// free-text flavor ("const", "async function", "annotated variable");
// Signature is only reconstructed for functions.
type Declaration struct {
	Name       string
	Kind       DeclarationKind
	Line       int
	Descriptor string
	Signature  string
}

// Identifier is one free identifier reference in load/use position.
type Identifier struct {
	Line int
	Name string
}

// ParseResult is the complete, immutable output of parsing one source file.
// Declarations are keyed by name; a duplicate top-level name keeps the latest
// binding, matching shadowing, except Python variables which keep their first
// occurrence. Raw retains the input so downstream tools can re-slice by line
// without re-reading the file.
type ParseResult struct {
	Language     string
	Imports      []Import
	Declarations map[string]Declaration
	Identifiers  []Identifier
	SyntaxValid  bool
	Errors       []string
	Raw          string
}

func newParseResult(language, raw string) *ParseResult {
	return &ParseResult{
		Language:     language,
		Declarations: make(map[string]Declaration),
		SyntaxValid:  true,
		Raw:          raw,
	}
}

// LanguageParser is implemented once per supported language. Parse never
// fails on malformed content; degraded input degrades the result instead
// (SyntaxValid, Errors) so callers can still extract partial information.
type LanguageParser interface {
	Parse(content, filename string) ParseResult
}
