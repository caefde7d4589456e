package parser

import (
	"path/filepath"
	"regexp"
	"strings"
)

// requirePattern catches require calls the token scan missed (nested in
// expressions, minified code). Duplicates against the token scan are
// suppressed by source.
var requirePattern = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)

// typescriptMarkers decide the language tag when no usable extension is
// available.
var typescriptMarkers = []string{"interface ", ": string", ": number", "enum ", "declare ", "<>"}

// declarationKeywords are keywords whose following identifier is a binding,
// not a reference. as and from ride along so import clauses and type casts
// do not leak into the identifier list.
var declarationKeywords = map[string]bool{
	"const": true, "let": true, "var": true, "function": true,
	"class": true, "interface": true, "type": true, "enum": true,
	"as": true, "from": true,
}

// JavaScriptParser extracts imports, declarations and identifier references
// from JavaScript and TypeScript source via the package token stream. It
// tolerates malformed input: whatever the scans recognize is reported and
// the rest is ignored.
type JavaScriptParser struct{}

func NewJavaScriptParser() *JavaScriptParser { return &JavaScriptParser{} }

func (p *JavaScriptParser) Parse(content, filename string) ParseResult {
	res := newParseResult(p.languageTag(content, filename), content)
	toks := tokenize(content)
	p.collectImports(toks, content, res)
	p.collectDeclarations(toks, res)
	p.collectIdentifiers(toks, res)
	return *res
}

// languageTag trusts the file extension when one is given and falls back to
// content markers otherwise.
func (p *JavaScriptParser) languageTag(content, filename string) string {
	if filename != "" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".ts", ".tsx":
			return LangTypeScript
		case ".js", ".jsx", ".mjs", ".cjs":
			return LangJavaScript
		}
	}
	for _, marker := range typescriptMarkers {
		if strings.Contains(content, marker) {
			return LangTypeScript
		}
	}
	return LangJavaScript
}

func (p *JavaScriptParser) collectImports(toks []token, content string, res *ParseResult) {
	n := len(toks)
	for i := 0; i < n; i++ {
		tok := toks[i]
		switch {
		case tok.Kind == tokKeyword && tok.Text == "import":
			p.scanImportStatement(toks, i, res)
		case tok.Kind == tokIdent && tok.Text == "require":
			if i+2 < n && toks[i+1].Kind == "(" && toks[i+2].Kind == tokString {
				res.Imports = append(res.Imports,
					NewImport(stripQuotes(toks[i+2].Text), nil, tok.Line, KindRequire))
			}
		}
	}
	p.collectRequireCalls(content, res)
}

// scanImportStatement classifies one import statement starting at the
// import keyword. A statement whose from clause never yields a string emits
// nothing.
func (p *JavaScriptParser) scanImportStatement(toks []token, i int, res *ParseResult) {
	n := len(toks)
	line := toks[i].Line
	if i+1 >= n {
		return
	}
	next := toks[i+1]
	switch {
	case next.Kind == tokOp && next.Text == "*":
		// import * as ns from 'mod'
		if i+3 < n && toks[i+2].Kind == tokKeyword && toks[i+2].Text == "as" &&
			toks[i+3].Kind == tokIdent {
			if source, ok := sourceAfterFrom(toks, i+4); ok {
				names := []ImportedName{{Name: "*", Alias: toks[i+3].Text}}
				res.Imports = append(res.Imports, NewImport(source, names, line, KindNamespace))
			}
		}

	case next.Kind == "{":
		// import { a, b as c } from 'mod'
		names, j := namedClause(toks, i+2)
		if source, ok := sourceAfterFrom(toks, j); ok {
			res.Imports = append(res.Imports, NewImport(source, names, line, KindNamed))
		}

	case next.Kind == tokIdent:
		// import def from 'mod', optionally followed by a named clause; the
		// combined form counts as a named import.
		names := []ImportedName{{Name: next.Text}}
		kind := KindDefault
		j := i + 2
		if j+1 < n && toks[j].Kind == "," && toks[j+1].Kind == "{" {
			named, after := namedClause(toks, j+2)
			names = append(names, named...)
			j = after
			if len(named) > 0 {
				kind = KindNamed
			}
		}
		if source, ok := sourceAfterFrom(toks, j); ok {
			res.Imports = append(res.Imports, NewImport(source, names, line, kind))
		}

	case next.Kind == tokString:
		// import 'polyfill'
		res.Imports = append(res.Imports,
			NewImport(stripQuotes(next.Text), nil, line, KindSideEffect))

	case next.Kind == "(":
		// dynamic import('mod')
		if i+2 < n && toks[i+2].Kind == tokString {
			res.Imports = append(res.Imports,
				NewImport(stripQuotes(toks[i+2].Text), nil, line, KindDynamic))
		}
	}
}

// namedClause reads the contents of a {a, b as c} clause starting at the
// first token after the opening brace. It returns the collected names and
// the index of the closing brace (or end of stream).
func namedClause(toks []token, start int) ([]ImportedName, int) {
	var names []ImportedName
	n := len(toks)
	j := start
	for j < n && toks[j].Kind != "}" {
		if toks[j].Kind == tokIdent {
			name := ImportedName{Name: toks[j].Text}
			if j+2 < n && toks[j+1].Kind == tokKeyword && toks[j+1].Text == "as" &&
				toks[j+2].Kind == tokIdent {
				name.Alias = toks[j+2].Text
				j += 2
			}
			names = append(names, name)
		}
		j++
	}
	return names, j
}

// sourceAfterFrom scans forward for the from keyword and returns the
// unquoted specifier after it.
func sourceAfterFrom(toks []token, start int) (string, bool) {
	n := len(toks)
	j := start
	for j < n && !(toks[j].Kind == tokKeyword && toks[j].Text == "from") {
		j++
	}
	if j+1 < n && toks[j+1].Kind == tokString {
		return stripQuotes(toks[j+1].Text), true
	}
	return "", false
}

func (p *JavaScriptParser) collectRequireCalls(content string, res *ParseResult) {
	seen := make(map[string]bool)
	for _, imp := range res.Imports {
		if imp.Kind == KindRequire {
			seen[imp.Source] = true
		}
	}
	for _, m := range requirePattern.FindAllStringSubmatchIndex(content, -1) {
		source := content[m[2]:m[3]]
		if seen[source] {
			continue
		}
		seen[source] = true
		res.Imports = append(res.Imports, NewImport(source, nil, lineAt(content, m[0]), KindRequire))
	}
}

func (p *JavaScriptParser) collectDeclarations(toks []token, res *ParseResult) {
	n := len(toks)
	for i := 0; i < n; i++ {
		tok := toks[i]
		if tok.Kind != tokKeyword || i+1 >= n {
			continue
		}
		switch tok.Text {
		case "const", "let", "var":
			switch toks[i+1].Kind {
			case "{":
				p.recordDestructured(toks, i+2, "}", tok.Text, res)
			case "[":
				p.recordDestructured(toks, i+2, "]", tok.Text, res)
			case tokIdent:
				p.recordDeclaration(toks[i+1], DeclVariable, tok.Text, res)
			}
		case "function":
			if toks[i+1].Kind == tokIdent {
				p.recordDeclaration(toks[i+1], DeclFunction, "function", res)
			}
		case "class":
			if toks[i+1].Kind == tokIdent {
				p.recordDeclaration(toks[i+1], DeclClass, "class", res)
			}
		case "interface":
			if toks[i+1].Kind == tokIdent {
				p.recordDeclaration(toks[i+1], DeclInterface, "interface", res)
			}
		case "enum":
			if toks[i+1].Kind == tokIdent {
				p.recordDeclaration(toks[i+1], DeclEnum, "enum", res)
			}
		case "type":
			// only "type X =" counts; bare "type" is too common as a name
			if i+2 < n && toks[i+1].Kind == tokIdent &&
				toks[i+2].Kind == tokOp && toks[i+2].Text == "=" {
				p.recordDeclaration(toks[i+1], DeclTypeAlias, "type", res)
			}
		}
	}
}

// recordDestructured records every identifier inside a {...} or [...]
// destructuring pattern as a variable declaration.
func (p *JavaScriptParser) recordDestructured(toks []token, start int, closer, descriptor string, res *ParseResult) {
	for j := start; j < len(toks) && toks[j].Kind != closer; j++ {
		if toks[j].Kind == tokIdent {
			p.recordDeclaration(toks[j], DeclVariable, descriptor, res)
		}
	}
}

// recordDeclaration stores a declaration unless the name is a reserved word
// or a known built-in. Repeated names keep the latest binding.
func (p *JavaScriptParser) recordDeclaration(tok token, kind DeclarationKind, descriptor string, res *ParseResult) {
	if isNoiseName(tok.Text) {
		return
	}
	res.Declarations[tok.Text] = Declaration{
		Name:       tok.Text,
		Kind:       kind,
		Line:       tok.Line,
		Descriptor: descriptor,
	}
}

func (p *JavaScriptParser) collectIdentifiers(toks []token, res *ParseResult) {
	inImport := false
	for i, tok := range toks {
		if tok.Kind == tokKeyword && tok.Text == "import" {
			inImport = true
			continue
		}
		if inImport {
			// the specifier string or a semicolon ends the import clause
			if tok.Kind == tokString || tok.Kind == ";" {
				inImport = false
			}
			continue
		}
		if tok.Kind != tokIdent || isNoiseName(tok.Text) {
			continue
		}
		if i > 0 {
			prev := toks[i-1]
			if prev.Kind == "." {
				continue
			}
			if prev.Kind == tokKeyword && declarationKeywords[prev.Text] {
				continue
			}
		}
		res.Identifiers = append(res.Identifiers, Identifier{Line: tok.Line, Name: tok.Text})
	}
}

func stripQuotes(s string) string {
	return strings.Trim(s, `'"`)
}
