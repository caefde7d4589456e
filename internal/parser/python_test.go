package parser

import (
	"reflect"
	"testing"
)

func TestPythonImports(t *testing.T) {
	code := `import os
import sys as system
from auth.utils import login as auth_login
from . import local_mod
from ..parent import parent_thing
from typing import *
import json, re
`
	res := NewPythonParser().Parse(code, "app.py")
	if !res.SyntaxValid {
		t.Fatalf("valid source flagged invalid: %v", res.Errors)
	}
	if res.Language != LangPython {
		t.Errorf("language = %s", res.Language)
	}
	if len(res.Imports) != 8 {
		t.Fatalf("expected 8 imports, got %d: %+v", len(res.Imports), res.Imports)
	}

	want := []struct {
		source   string
		kind     ImportKind
		relative bool
		line     int
		names    []ImportedName
	}{
		{"os", KindPlainImport, false, 1, []ImportedName{{Name: "os"}}},
		{"sys", KindPlainImport, false, 2, []ImportedName{{Name: "sys", Alias: "system"}}},
		{"auth.utils", KindFromImport, false, 3, []ImportedName{{Name: "login", Alias: "auth_login"}}},
		{".", KindFromImport, true, 4, []ImportedName{{Name: "local_mod"}}},
		{"..parent", KindFromImport, true, 5, []ImportedName{{Name: "parent_thing"}}},
		{"typing", KindFromImport, false, 6, []ImportedName{{Name: "*"}}},
		{"json", KindPlainImport, false, 7, []ImportedName{{Name: "json"}}},
		{"re", KindPlainImport, false, 7, []ImportedName{{Name: "re"}}},
	}
	for i, w := range want {
		imp := res.Imports[i]
		if imp.Source != w.source || imp.Kind != w.kind || imp.IsRelative != w.relative || imp.Line != w.line {
			t.Errorf("import %d = %+v, want %+v", i, imp, w)
		}
		if !reflect.DeepEqual(imp.Names, w.names) {
			t.Errorf("import %d names = %+v, want %+v", i, imp.Names, w.names)
		}
	}
}

func TestPythonDeclarations(t *testing.T) {
	code := `CONFIG = {"a": 1}
CONFIG = reload()
count: int = 0

def process(data):
    inner = 1
    def nested():
        pass
    return inner

async def fetch(url: str, timeout=5, *args, **kwargs) -> bool:
    return True

@decorator
class Runner:
    def method(self):
        pass
`
	res := NewPythonParser().Parse(code, "app.py")
	if !res.SyntaxValid {
		t.Fatalf("valid source flagged invalid: %v", res.Errors)
	}

	config, ok := res.Declarations["CONFIG"]
	if !ok || config.Line != 1 {
		t.Errorf("CONFIG should keep its first line, got %+v", config)
	}
	if config.Descriptor != "variable" || config.Kind != DeclVariable {
		t.Errorf("CONFIG = %+v", config)
	}

	count := res.Declarations["count"]
	if count.Descriptor != "annotated variable" || count.Line != 3 {
		t.Errorf("count = %+v", count)
	}

	process := res.Declarations["process"]
	if process.Kind != DeclFunction || process.Signature != "def process(data)" {
		t.Errorf("process = %+v", process)
	}

	fetch := res.Declarations["fetch"]
	if fetch.Descriptor != "async function" {
		t.Errorf("fetch descriptor = %q", fetch.Descriptor)
	}
	wantSig := "async def fetch(url: str, timeout, *args, **kwargs) -> bool"
	if fetch.Signature != wantSig {
		t.Errorf("fetch signature = %q, want %q", fetch.Signature, wantSig)
	}

	runner := res.Declarations["Runner"]
	if runner.Kind != DeclClass || runner.Line != 15 {
		t.Errorf("Runner = %+v", runner)
	}

	for _, nested := range []string{"inner", "nested", "method"} {
		if _, ok := res.Declarations[nested]; ok {
			t.Errorf("%q is not module-level and must not be declared", nested)
		}
	}
}

func TestPythonIdentifiers(t *testing.T) {
	code := `import os
import sys

def main(argv):
    path = os.getcwd()
    print(path, len(argv))
`
	res := NewPythonParser().Parse(code, "app.py")

	type ref struct {
		line int
		name string
	}
	got := map[ref]bool{}
	names := map[string]bool{}
	for _, id := range res.Identifiers {
		got[ref{id.Line, id.Name}] = true
		names[id.Name] = true
	}

	for _, want := range []ref{{5, "os"}, {6, "print"}, {6, "path"}, {6, "len"}, {6, "argv"}} {
		if !got[want] {
			t.Errorf("missing reference %+v in %+v", want, res.Identifiers)
		}
	}
	if names["sys"] {
		t.Error("unused import name must not appear as a reference")
	}
	if names["main"] {
		t.Error("function name is a binding, not a reference")
	}
	if got[ref{4, "argv"}] {
		t.Error("parameter binding must not count as a reference")
	}
	if names["getcwd"] {
		t.Error("attribute names are not references")
	}
}

func TestPythonAttributeObjectIsReference(t *testing.T) {
	res := NewPythonParser().Parse("import os\nos.getcwd()\n", "x.py")
	found := false
	for _, id := range res.Identifiers {
		if id.Name == "os" && id.Line == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("os should be referenced on line 2: %+v", res.Identifiers)
	}
}

func TestPythonImportOnlyBindingIsNotReference(t *testing.T) {
	res := NewPythonParser().Parse("import os\nprint(1)\n", "x.py")
	for _, id := range res.Identifiers {
		if id.Name == "os" {
			t.Errorf("os is never read, identifiers = %+v", res.Identifiers)
		}
	}
}

func TestPythonFallbackOnSyntaxError(t *testing.T) {
	code := `import os
from . import helpers

def broken(:
    pass

def ok():
    return os.getcwd()
`
	res := NewPythonParser().Parse(code, "bad.py")
	if res.SyntaxValid {
		t.Fatal("unbalanced definition should invalidate the tree")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected one diagnostic, got %v", res.Errors)
	}

	bySource := map[string]Import{}
	for _, imp := range res.Imports {
		bySource[imp.Source] = imp
	}
	if imp, ok := bySource["os"]; !ok || imp.Kind != KindPlainImport || imp.Line != 1 {
		t.Errorf("os import not recovered: %+v", res.Imports)
	}
	if imp, ok := bySource["."]; !ok || !imp.IsRelative || len(imp.Names) != 1 || imp.Names[0].Name != "helpers" {
		t.Errorf("relative import not recovered: %+v", res.Imports)
	}

	if decl, ok := res.Declarations["broken"]; !ok || decl.Line != 4 {
		t.Errorf("broken not recovered: %+v", res.Declarations)
	}
	if decl, ok := res.Declarations["ok"]; !ok || decl.Line != 7 {
		t.Errorf("ok not recovered: %+v", res.Declarations)
	}

	usedOS := false
	for _, id := range res.Identifiers {
		if id.Name == "os" && id.Line == 8 {
			usedOS = true
		}
	}
	if !usedOS {
		t.Errorf("fallback word scan should keep os on line 8: %+v", res.Identifiers)
	}
}

func TestPythonParseIdempotent(t *testing.T) {
	code := "import os\n\nVALUE = os.getenv(\"HOME\")\n"
	p := NewPythonParser()
	first := p.Parse(code, "x.py")
	second := p.Parse(code, "x.py")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parse not idempotent:\n%+v\n%+v", first, second)
	}
	if first.Raw != code {
		t.Errorf("raw source not retained")
	}
}
