package scan

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"symscan/internal/config"
	"symscan/internal/core/errors"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testConfig(root string) *config.Config {
	return &config.Config{
		Roots:   []string{root},
		Workers: 2,
		Exclude: config.Exclude{Dirs: []string{"node_modules", ".git"}},
	}
}

func fileByPath(t *testing.T, rep *Report, path string) FileReport {
	t.Helper()
	for _, f := range rep.Files {
		if f.Path == path {
			return f
		}
	}
	t.Fatalf("no report for %s, have %v", path, rep.Files)
	return FileReport{}
}

func declNames(f FileReport) []string {
	var names []string
	for _, d := range f.UnusedDeclarations {
		names = append(names, d.Name)
	}
	return names
}

func TestServiceRun(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/__init__.py": "",
		"src/app.py": `import os
import requests
from . import util

util.helper()
os.getcwd()
`,
		"src/util.py": `def helper():
    return 1

def _hidden():
    return 2
`,
		"src/broken.py": "def broken(:\n    pass\n",
		"web/index.js": `const fs = require('fs');
const helper = require('./helper');

helper(fs);
`,
		"web/helper.js": `module.exports = function (x) {
  return x;
};
`,
		"node_modules/junk/blob.js": "const ignored = 1;\n",
	})

	svc, err := NewService(testConfig(root))
	if err != nil {
		t.Fatal(err)
	}
	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if rep.RunID == "" {
		t.Error("Expected a run ID")
	}
	if rep.Totals.Files != 6 {
		t.Errorf("Expected 6 files, got %d", rep.Totals.Files)
	}
	if !sort.SliceIsSorted(rep.Files, func(i, j int) bool {
		return rep.Files[i].Path < rep.Files[j].Path
	}) {
		t.Error("Files should be sorted by path")
	}

	app := fileByPath(t, rep, "src/app.py")
	statuses := map[string]string{}
	for _, ir := range app.Imports {
		statuses[ir.Import.Source] = ir.Status
	}
	want := map[string]string{"os": StatusStdlib, "requests": StatusExternal, ".": StatusLocal}
	if !reflect.DeepEqual(statuses, want) {
		t.Errorf("Expected statuses %v, got %v", want, statuses)
	}
	for _, ir := range app.Imports {
		if ir.Import.Source == "." && ir.Target != "src/__init__.py" {
			t.Errorf("Expected package import to resolve to src/__init__.py, got %q", ir.Target)
		}
	}
	if len(app.UnusedImports) != 1 || app.UnusedImports[0].Source != "requests" {
		t.Errorf("Expected requests unused, got %v", app.UnusedImports)
	}

	util := fileByPath(t, rep, "src/util.py")
	if !reflect.DeepEqual(declNames(util), []string{"helper", "_hidden"}) {
		t.Errorf("Unexpected unused declarations: %v", util.UnusedDeclarations)
	}

	if broken := fileByPath(t, rep, "src/broken.py"); broken.SyntaxValid {
		t.Error("Expected broken.py to be flagged syntactically invalid")
	}

	index := fileByPath(t, rep, "web/index.js")
	if len(index.UnusedImports) != 0 {
		t.Errorf("Expected no unused imports in index.js, got %v", index.UnusedImports)
	}

	if rep.Totals.UnusedImports != 1 {
		t.Errorf("Expected 1 unused import total, got %d", rep.Totals.UnusedImports)
	}
	if rep.Totals.Unresolved != 0 {
		t.Errorf("Expected no unresolved imports, got %d", rep.Totals.Unresolved)
	}
}

func TestServiceRunSkipExported(t *testing.T) {
	root := writeTree(t, map[string]string{
		"util.py": `def helper():
    return 1

def _hidden():
    return 2
`,
	})

	cfg := testConfig(root)
	cfg.Unused.SkipExported = true
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	util := fileByPath(t, rep, "util.py")
	if !reflect.DeepEqual(declNames(util), []string{"_hidden"}) {
		t.Errorf("Expected only _hidden, got %v", util.UnusedDeclarations)
	}
}

func TestServiceRunUnresolved(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.js": "import { x } from './missing';\nx();\n",
	})

	svc, err := NewService(testConfig(root))
	if err != nil {
		t.Fatal(err)
	}
	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if rep.Totals.Unresolved != 1 {
		t.Fatalf("Expected 1 unresolved import, got %d", rep.Totals.Unresolved)
	}
	app := fileByPath(t, rep, "app.js")
	unresolved := app.Unresolved()
	if len(unresolved) != 1 || unresolved[0].Import.Source != "./missing" {
		t.Errorf("Unexpected unresolved set: %v", unresolved)
	}
}

func TestServiceRunNestedRoots(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/app.py": "x = 1\n",
		"other.py":   "y = 2\n",
	})

	cfg := testConfig(root)
	cfg.Roots = []string{filepath.Join(root, "src"), root, root}
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if rep.Totals.Files != 2 {
		t.Fatalf("Expected 2 files, got %d: %v", rep.Totals.Files, rep.Files)
	}
	fileByPath(t, rep, "src/app.py")
	fileByPath(t, rep, "other.py")
}

func TestServiceExcludePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.js":               "const a = 1;\n",
		"b.min.js":           "const b=1;\n",
		"node_modules/c.js":  "const c = 1;\n",
		"vendor/sub/deep.py": "x = 1\n",
		"README.md":          "not source\n",
	})

	cfg := testConfig(root)
	cfg.Exclude.Files = []string{"*.min.js"}
	cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, "vendor")
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if rep.Totals.Files != 1 || rep.Files[0].Path != "a.js" {
		t.Errorf("Expected only a.js to be scanned, got %v", rep.Files)
	}
}

func TestNewServiceBadPattern(t *testing.T) {
	cfg := &config.Config{Roots: []string{"."}, Workers: 1, Exclude: config.Exclude{Dirs: []string{"[unclosed"}}}
	if _, err := NewService(cfg); !errors.IsCode(err, errors.CodeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
