package resolver

import "testing"

func TestResolveRelativeImport(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		currentFile string
		known       map[string]string
		want        string
		found       bool
	}{
		{
			name:        "exact path",
			source:      "./helper.ts",
			currentFile: "src/app.ts",
			known:       map[string]string{"src/helper.ts": "helper"},
			want:        "src/helper.ts",
			found:       true,
		},
		{
			name:        "extension inferred",
			source:      "./helper",
			currentFile: "src/app.ts",
			known:       map[string]string{"src/helper.ts": "helper"},
			want:        "src/helper.ts",
			found:       true,
		},
		{
			name:        "parent directory",
			source:      "../util/fmt",
			currentFile: "src/app/main.js",
			known:       map[string]string{"src/util/fmt.js": "fmt"},
			want:        "src/util/fmt.js",
			found:       true,
		},
		{
			name:        "directory index",
			source:      "./c",
			currentFile: "src/a/b.ts",
			known:       map[string]string{"src/a/c/index.ts": "c"},
			want:        "src/a/c/index.ts",
			found:       true,
		},
		{
			name:        "file beats directory index",
			source:      "./c",
			currentFile: "src/main.ts",
			known: map[string]string{
				"src/c.js":       "c",
				"src/c/index.ts": "c",
			},
			want:  "src/c.js",
			found: true,
		},
		{
			name:        "package init",
			source:      ".",
			currentFile: "pkg/mod.py",
			known:       map[string]string{"pkg/__init__.py": "pkg"},
			want:        "pkg/__init__.py",
			found:       true,
		},
		{
			name:        "bare specifier rejected",
			source:      "react",
			currentFile: "src/app.ts",
			known:       map[string]string{"src/react.ts": "react"},
			found:       false,
		},
		{
			name:        "no candidate",
			source:      "./missing",
			currentFile: "src/app.ts",
			known:       map[string]string{"src/helper.ts": "helper"},
			found:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ResolveRelativeImport(tt.source, tt.currentFile, tt.known)
			if found != tt.found || got != tt.want {
				t.Errorf("got (%q, %v), want (%q, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}

func TestResolveRelativeImportDeterministic(t *testing.T) {
	known := map[string]string{
		"src/c.ts": "c",
		"src/c.js": "c",
	}
	for i := 0; i < 20; i++ {
		got, found := ResolveRelativeImport("./c", "src/main.ts", known)
		if !found || got != "src/c.js" {
			t.Fatalf("iteration %d: got (%q, %v), want the sorted-first key", i, got, found)
		}
	}
}

func TestResolveModuleToFile(t *testing.T) {
	known := map[string]string{
		"src/auth/utils.py": "src.auth.utils",
		"lib/os.py":         "os",
		"demos.py":          "demos",
	}

	if got, ok := ResolveModuleToFile("auth.utils", known, ""); !ok || got != "src/auth/utils.py" {
		t.Errorf("auth.utils -> (%q, %v)", got, ok)
	}
	if got, ok := ResolveModuleToFile("os", known, ""); !ok || got != "lib/os.py" {
		t.Errorf("os -> (%q, %v)", got, ok)
	}
	if _, ok := ResolveModuleToFile("mos", known, ""); ok {
		t.Error("suffix match must stop at path component boundaries")
	}
	if _, ok := ResolveModuleToFile("missing.mod", known, ""); ok {
		t.Error("unknown module should not resolve")
	}
}

func TestResolveModuleToFileRelativeDelegation(t *testing.T) {
	known := map[string]string{"pkg/__init__.py": "pkg"}

	if _, ok := ResolveModuleToFile(".", known, ""); ok {
		t.Error("relative specifier without a current file cannot resolve")
	}
	if got, ok := ResolveModuleToFile(".", known, "pkg/mod.py"); !ok || got != "pkg/__init__.py" {
		t.Errorf("got (%q, %v)", got, ok)
	}
}

func TestModuleNameForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/auth/utils.py", "src.auth.utils"},
		{"pkg/__init__.py", "pkg"},
		{"web/components/index.ts", "web.components"},
		{"main.py", "main"},
		{"a\\b\\c.js", "a.b.c"},
	}
	for _, tt := range tests {
		if got := ModuleNameForPath(tt.path); got != tt.want {
			t.Errorf("ModuleNameForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsStdlibModule(t *testing.T) {
	tests := []struct {
		language string
		module   string
		want     bool
	}{
		{"python", "os", true},
		{"python", "os.path", true},
		{"python", "urllib.request", true},
		{"python", "requests", false},
		{"javascript", "fs", true},
		{"javascript", "node:fs", true},
		{"javascript", "fs/promises", true},
		{"javascript", "lodash", false},
		{"typescript", "path", true},
		{"unknown", "os", false},
	}
	for _, tt := range tests {
		if got := IsStdlibModule(tt.language, tt.module); got != tt.want {
			t.Errorf("IsStdlibModule(%s, %s) = %v, want %v", tt.language, tt.module, got, tt.want)
		}
	}
}
