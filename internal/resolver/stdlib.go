package resolver

import (
	_ "embed"
	"strings"

	"symscan/internal/parser"
)

//go:embed stdlib/python.txt
var pythonStdlibData string

//go:embed stdlib/javascript.txt
var javascriptStdlibData string

var pythonStdlib = map[string]bool{}
var javascriptStdlib = map[string]bool{}

func init() {
	for _, line := range strings.Split(pythonStdlibData, "\n") {
		registerStdlibLine(pythonStdlib, line)
	}
	for _, line := range strings.Split(javascriptStdlibData, "\n") {
		registerStdlibLine(javascriptStdlib, line)
	}
}

// registerStdlibLine records the module plus each separated part, so
// urllib.request also answers to urllib and node:fs answers to fs.
func registerStdlibLine(dst map[string]bool, line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	dst[line] = true
	for _, part := range strings.FieldsFunc(line, func(r rune) bool {
		return r == '/' || r == '.' || r == ':'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			dst[part] = true
		}
	}
}

// IsStdlibModule reports whether a module specifier names something shipped
// with the language runtime rather than a repository file or an installed
// package. Runtime modules are classified as stdlib instead of external.
func IsStdlibModule(language, module string) bool {
	switch language {
	case parser.LangPython:
		if pythonStdlib[module] {
			return true
		}
		base, _, _ := strings.Cut(module, ".")
		return pythonStdlib[base]
	case parser.LangJavaScript, parser.LangTypeScript:
		m := strings.TrimPrefix(module, "node:")
		if javascriptStdlib[m] {
			return true
		}
		base, _, _ := strings.Cut(m, "/")
		return javascriptStdlib[base]
	}
	return false
}
