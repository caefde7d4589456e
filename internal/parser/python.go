package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// PythonParser extracts imports, declarations and identifier references from
// Python source. The primary path parses a native syntax tree; when the tree
// cannot be built cleanly the parser degrades to line-based extraction and
// records a diagnostic instead of failing.
type PythonParser struct{}

func NewPythonParser() *PythonParser { return &PythonParser{} }

func (p *PythonParser) Parse(content, filename string) ParseResult {
	res := newParseResult(LangPython, content)
	source := []byte(content)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(tree_sitter_python.Language()))

	tree := parser.Parse(source, nil)
	if tree != nil {
		defer tree.Close()
	}
	if tree == nil || tree.RootNode().HasError() {
		res.SyntaxValid = false
		res.Errors = append(res.Errors, "python parse failed, using line-based extraction")
		p.extractWithRegex(res)
		return *res
	}

	root := tree.RootNode()
	ctx := &ExtractionContext{Source: source, Result: res}

	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_statement":        p.importStatement,
		"import_from_statement":   p.importFromStatement,
		"future_import_statement": p.importFromStatement,
	})
	engine.Walk(ctx, root)

	for i := uint(0); i < root.ChildCount(); i++ {
		p.declareTopLevel(ctx, root.Child(i))
	}

	p.loadWalk(ctx, root)
	return *res
}

// importStatement emits one plain import per clause of "import a.b as c, d".
func (p *PythonParser) importStatement(ctx *ExtractionContext, node *sitter.Node) bool {
	line := ctx.Line(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			module := ctx.Text(child)
			ctx.Result.Imports = append(ctx.Result.Imports,
				NewImport(module, []ImportedName{{Name: module}}, line, KindPlainImport))
		case "aliased_import":
			module := ctx.Text(child.ChildByFieldName("name"))
			alias := ctx.Text(child.ChildByFieldName("alias"))
			ctx.Result.Imports = append(ctx.Result.Imports,
				NewImport(module, []ImportedName{{Name: module, Alias: alias}}, line, KindPlainImport))
		}
	}
	return true
}

// importFromStatement emits a single from-import. A relative module keeps its
// leading dots in the source ("..pkg", or just "." for the bare form), which
// is also what marks the import relative.
func (p *PythonParser) importFromStatement(ctx *ExtractionContext, node *sitter.Node) bool {
	source := ctx.Text(node.ChildByFieldName("module_name"))

	var names []ImportedName
	seenImportKeyword := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch {
		case child.Kind() == "import":
			seenImportKeyword = true
		case !seenImportKeyword:
			// module part, already captured
		case child.Kind() == "dotted_name" || child.Kind() == "identifier":
			names = append(names, ImportedName{Name: ctx.Text(child)})
		case child.Kind() == "aliased_import":
			names = append(names, ImportedName{
				Name:  ctx.Text(child.ChildByFieldName("name")),
				Alias: ctx.Text(child.ChildByFieldName("alias")),
			})
		case child.Kind() == "wildcard_import":
			names = append(names, ImportedName{Name: "*"})
		}
	}

	ctx.Result.Imports = append(ctx.Result.Imports,
		NewImport(source, names, ctx.Line(node), KindFromImport))
	return true
}

// declareTopLevel records module-level bindings: functions, classes and
// simple assignment targets. Nested definitions are scoped locals, not
// module declarations.
func (p *PythonParser) declareTopLevel(ctx *ExtractionContext, node *sitter.Node) {
	switch node.Kind() {
	case "function_definition":
		p.declareFunction(ctx, node)
	case "class_definition":
		p.declareClass(ctx, node)
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			p.declareTopLevel(ctx, def)
		}
	case "expression_statement":
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child.Kind() == "assignment" {
				p.declareAssignment(ctx, child)
			}
		}
	}
}

func (p *PythonParser) declareFunction(ctx *ExtractionContext, node *sitter.Node) {
	name := ctx.Text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}

	descriptor := "function"
	if p.isAsync(node) {
		descriptor = "async function"
	}

	ctx.Result.Declarations[name] = Declaration{
		Name:       name,
		Kind:       DeclFunction,
		Line:       ctx.Line(node),
		Descriptor: descriptor,
		Signature:  p.buildSignature(ctx, node, name),
	}
}

func (p *PythonParser) declareClass(ctx *ExtractionContext, node *sitter.Node) {
	name := ctx.Text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	ctx.Result.Declarations[name] = Declaration{
		Name:       name,
		Kind:       DeclClass,
		Line:       ctx.Line(node),
		Descriptor: "class",
	}
}

// declareAssignment records a plain-identifier assignment target. The first
// occurrence wins so a module constant keeps its defining line. Chained
// assignments (x = y = 1) nest on the right side.
func (p *PythonParser) declareAssignment(ctx *ExtractionContext, node *sitter.Node) {
	left := node.ChildByFieldName("left")
	if left != nil && left.Kind() == "identifier" {
		name := ctx.Text(left)
		if _, exists := ctx.Result.Declarations[name]; !exists {
			descriptor := "variable"
			if node.ChildByFieldName("type") != nil {
				descriptor = "annotated variable"
			}
			ctx.Result.Declarations[name] = Declaration{
				Name:       name,
				Kind:       DeclVariable,
				Line:       ctx.Line(left),
				Descriptor: descriptor,
			}
		}
	}
	if right := node.ChildByFieldName("right"); right != nil && right.Kind() == "assignment" {
		p.declareAssignment(ctx, right)
	}
}

func (p *PythonParser) isAsync(node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		switch node.Child(i).Kind() {
		case "async":
			return true
		case "def":
			return false
		}
	}
	return false
}

// buildSignature reconstructs "[async ]def name(a, b: T, *va, **kw) -> R".
// Defaults are omitted; annotations only appear when they are simple names.
func (p *PythonParser) buildSignature(ctx *ExtractionContext, node *sitter.Node, name string) string {
	var parts []string
	params := node.ChildByFieldName("parameters")
	if params != nil {
		for i := uint(0); i < params.ChildCount(); i++ {
			child := params.Child(i)
			switch child.Kind() {
			case "(", ")", ",":
			case "typed_parameter":
				part := ctx.Text(child.Child(0))
				if ann := ctx.Text(child.ChildByFieldName("type")); isSimpleName(ann) {
					part += ": " + ann
				}
				parts = append(parts, part)
			case "default_parameter":
				parts = append(parts, ctx.Text(child.ChildByFieldName("name")))
			case "typed_default_parameter":
				part := ctx.Text(child.ChildByFieldName("name"))
				if ann := ctx.Text(child.ChildByFieldName("type")); isSimpleName(ann) {
					part += ": " + ann
				}
				parts = append(parts, part)
			default:
				parts = append(parts, ctx.Text(child))
			}
		}
	}

	sig := "def " + name + "(" + strings.Join(parts, ", ") + ")"
	if p.isAsync(node) {
		sig = "async " + sig
	}
	if ret := ctx.Text(node.ChildByFieldName("return_type")); isSimpleName(ret) {
		sig += " -> " + ret
	}
	return sig
}

// loadWalk collects identifiers in load position. Binding occurrences
// (definition names, parameters, assignment and loop targets, import
// clauses, global/nonlocal lists, keyword-argument names) and attribute
// names are excluded; the object of an attribute access, call arguments,
// decorators, annotations, defaults and subscripts are reads.
func (p *PythonParser) loadWalk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		ctx.Result.Identifiers = append(ctx.Result.Identifiers,
			Identifier{Line: ctx.Line(node), Name: ctx.Text(node)})

	case "attribute":
		p.loadWalk(ctx, node.ChildByFieldName("object"))

	case "import_statement", "import_from_statement", "future_import_statement",
		"global_statement", "nonlocal_statement":
		// bound names only, nothing is read

	case "function_definition":
		p.loadParameters(ctx, node.ChildByFieldName("parameters"))
		p.loadWalk(ctx, node.ChildByFieldName("return_type"))
		p.loadWalk(ctx, node.ChildByFieldName("body"))

	case "lambda":
		p.loadParameters(ctx, node.ChildByFieldName("parameters"))
		p.loadWalk(ctx, node.ChildByFieldName("body"))

	case "class_definition":
		p.loadWalk(ctx, node.ChildByFieldName("superclasses"))
		p.loadWalk(ctx, node.ChildByFieldName("body"))

	case "assignment":
		p.bindTarget(ctx, node.ChildByFieldName("left"))
		p.loadWalk(ctx, node.ChildByFieldName("type"))
		p.loadWalk(ctx, node.ChildByFieldName("right"))

	case "augmented_assignment":
		p.bindTarget(ctx, node.ChildByFieldName("left"))
		p.loadWalk(ctx, node.ChildByFieldName("right"))

	case "named_expression":
		p.bindTarget(ctx, node.ChildByFieldName("name"))
		p.loadWalk(ctx, node.ChildByFieldName("value"))

	case "for_statement":
		p.bindTarget(ctx, node.ChildByFieldName("left"))
		p.loadWalk(ctx, node.ChildByFieldName("right"))
		p.loadWalk(ctx, node.ChildByFieldName("body"))
		p.loadWalk(ctx, node.ChildByFieldName("alternative"))

	case "for_in_clause":
		p.bindTarget(ctx, node.ChildByFieldName("left"))
		p.loadWalk(ctx, node.ChildByFieldName("right"))

	case "as_pattern":
		p.loadWalk(ctx, node.Child(0))

	case "keyword_argument":
		p.loadWalk(ctx, node.ChildByFieldName("value"))

	default:
		for i := uint(0); i < node.ChildCount(); i++ {
			p.loadWalk(ctx, node.Child(i))
		}
	}
}

// bindTarget handles the left side of an assignment or loop. Plain names
// bind and are skipped; names feeding attribute and subscript targets are
// ordinary reads (a.b = x and a[i] = x both read a).
func (p *PythonParser) bindTarget(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		// binds
	case "attribute", "subscript":
		p.loadWalk(ctx, node)
	default:
		for i := uint(0); i < node.ChildCount(); i++ {
			p.bindTarget(ctx, node.Child(i))
		}
	}
}

// loadParameters reads the non-binding parts of a parameter list: type
// annotations and default values.
func (p *PythonParser) loadParameters(ctx *ExtractionContext, params *sitter.Node) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "typed_parameter":
			p.loadWalk(ctx, child.ChildByFieldName("type"))
		case "default_parameter":
			p.loadWalk(ctx, child.ChildByFieldName("value"))
		case "typed_default_parameter":
			p.loadWalk(ctx, child.ChildByFieldName("type"))
			p.loadWalk(ctx, child.ChildByFieldName("value"))
		}
	}
}

func isSimpleName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if c >= '0' && c <= '9' && i > 0 {
			continue
		}
		return false
	}
	return true
}
