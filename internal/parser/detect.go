package parser

import (
	"path/filepath"
	"strings"
)

// Language tags produced by the detector and carried in ParseResult.
const (
	LangPython     = "python"
	LangTypeScript = "typescript"
	LangJavaScript = "javascript"
	LangUnknown    = "unknown"
)

// languageByExtension is authoritative whenever a filename is available.
var languageByExtension = map[string]string{
	".py":  LangPython,
	".ts":  LangTypeScript,
	".tsx": LangTypeScript,
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
}

// parserRegistry maps language tags to their parsers. JavaScript and
// TypeScript share one parser; entries are stateless so the registry is safe
// for concurrent use.
var parserRegistry = map[string]LanguageParser{
	LangPython:     NewPythonParser(),
	LangTypeScript: NewJavaScriptParser(),
	LangJavaScript: NewJavaScriptParser(),
}

// DetectLanguage names the language of a source snippet. The filename's
// extension decides when present; otherwise weighted content markers vote.
// Content nobody recognizes is tagged unknown rather than guessed.
func DetectLanguage(content, filename string) string {
	if filename != "" {
		if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(filename))]; ok {
			return lang
		}
	}
	return detectByContent(content)
}

func detectByContent(content string) string {
	python := 0
	if strings.Contains(content, "def ") {
		python += 2
	}
	if strings.Contains(content, "class ") && strings.Contains(content, ":") {
		python += 2
	}
	if strings.Contains(content, "import ") || strings.Contains(content, "from ") {
		python += 2
	}
	if strings.Contains(content, ":") && strings.Contains(content, "#") {
		python++
	}
	if strings.Contains(content, "self.") {
		python++
	}

	javascript := 0
	if strings.Contains(content, "function ") || strings.Contains(content, "=>") {
		javascript += 2
	}
	if strings.Contains(content, "const ") || strings.Contains(content, "let ") ||
		strings.Contains(content, "var ") {
		javascript += 2
	}
	if strings.Contains(content, "require(") {
		javascript += 2
	}
	if strings.Contains(content, "{") && strings.Contains(content, "}") {
		javascript++
	}

	typescript := 0
	if strings.Contains(content, ": string") || strings.Contains(content, ": number") ||
		strings.Contains(content, ": boolean") {
		typescript += 3
	}
	if strings.Contains(content, "interface ") {
		typescript += 3
	}
	if strings.Contains(content, "type ") && strings.Contains(content, "=") {
		typescript += 2
	}
	// typescript is a superset: everything that looks like javascript
	// supports the typescript guess too
	typescript += javascript

	if python == 0 && typescript == 0 && javascript == 0 {
		return LangUnknown
	}
	switch {
	case python >= typescript && python >= javascript:
		return LangPython
	case typescript >= javascript:
		return LangTypeScript
	default:
		return LangJavaScript
	}
}

// IsSupportedPath reports whether the file extension belongs to a language
// the registry can parse.
func IsSupportedPath(path string) bool {
	_, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ParseFile detects the language and routes to the matching parser. Content
// in an unrecognized language yields an empty result tagged unknown; the
// call never fails.
func ParseFile(content, filename string) ParseResult {
	lang := DetectLanguage(content, filename)
	p, ok := parserRegistry[lang]
	if !ok {
		return *newParseResult(lang, content)
	}
	return p.Parse(content, filename)
}
