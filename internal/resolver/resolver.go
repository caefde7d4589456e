package resolver

import (
	"path"
	"strings"

	"symscan/internal/shared/util"
)

// sourceExtensions are tried, in order, when a relative specifier omits the
// file extension.
var sourceExtensions = []string{".py", ".js", ".ts", ".jsx", ".tsx", ".mjs", ".cjs"}

// indexFiles resolve a specifier that names a directory.
var indexFiles = []string{"index.js", "index.ts", "index.tsx", "__init__.py"}

// ResolveRelativeImport resolves a relative specifier against the known
// repository paths. currentFile and the map keys are slash-separated
// repo-relative paths; the winning key is returned exactly as stored in the
// map. Candidates are tried in three passes: exact or extension-stripped
// match, then each source extension, then each directory index file. Keys
// are visited in sorted order so the outcome is deterministic.
func ResolveRelativeImport(source, currentFile string, knownPaths map[string]string) (string, bool) {
	if !strings.HasPrefix(source, ".") {
		return "", false
	}
	resolved := path.Join(path.Dir(currentFile), source)
	keys := util.SortedStringKeys(knownPaths)

	for _, known := range keys {
		norm := path.Clean(known)
		if norm == resolved || stripExt(norm) == resolved || norm == stripExt(resolved) {
			return known, true
		}
	}

	for _, ext := range sourceExtensions {
		candidate := resolved + ext
		for _, known := range keys {
			if path.Clean(known) == candidate {
				return known, true
			}
		}
	}

	for _, index := range indexFiles {
		candidate := path.Join(resolved, index)
		for _, known := range keys {
			if path.Clean(known) == candidate {
				return known, true
			}
		}
	}

	return "", false
}

// ResolveModuleToFile maps a bare dotted specifier ("auth.utils") to a known
// repository path. Dots become path separators and the match is a suffix
// match on extension-stripped paths, anchored at a path component so "os"
// cannot match "demos". Specifiers starting with a dot delegate to the
// relative resolver and need a current file for that.
func ResolveModuleToFile(module string, knownPaths map[string]string, currentFile string) (string, bool) {
	if strings.HasPrefix(module, ".") {
		if currentFile == "" {
			return "", false
		}
		return ResolveRelativeImport(module, currentFile, knownPaths)
	}

	modulePath := strings.ReplaceAll(module, ".", "/")
	for _, known := range util.SortedStringKeys(knownPaths) {
		stripped := stripExt(path.Clean(known))
		if stripped == modulePath || strings.HasSuffix(stripped, "/"+modulePath) {
			return known, true
		}
	}
	return "", false
}

// ModuleNameForPath derives the dotted module name a repository file answers
// to: extension stripped, separators become dots, and a package entry file
// (__init__.py, index.*) names its directory.
func ModuleNameForPath(relPath string) string {
	p := stripExt(path.Clean(strings.ReplaceAll(relPath, "\\", "/")))
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "__init__" || last == "index" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 || (len(parts) == 1 && parts[0] == ".") {
		return ""
	}
	return strings.Join(parts, ".")
}

func stripExt(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}
