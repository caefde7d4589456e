package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"symscan/internal/config"
	"symscan/internal/core/errors"
	"symscan/internal/parser"
	"symscan/internal/resolver"
	"symscan/internal/shared/observability"
	"symscan/internal/shared/util"
)

// Service runs repository scans: it walks the configured roots, parses every
// supported source file, resolves imports against the repository and reports
// unused symbols.
type Service struct {
	cfg         *config.Config
	dirGlobs    []glob.Glob
	fileGlobs   []glob.Glob
	stdlibExtra map[string]bool
}

func NewService(cfg *config.Config) (*Service, error) {
	dirGlobs, err := compileGlobs(cfg.Exclude.Dirs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, "exclude dir patterns")
	}
	fileGlobs, err := compileGlobs(cfg.Exclude.Files)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, "exclude file patterns")
	}

	extra := make(map[string]bool, len(cfg.Unused.StdlibModules))
	for _, m := range cfg.Unused.StdlibModules {
		extra[m] = true
	}

	return &Service{
		cfg:         cfg,
		dirGlobs:    dirGlobs,
		fileGlobs:   fileGlobs,
		stdlibExtra: extra,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Run performs one full scan. Unreadable files are logged and skipped; the
// run itself fails only on bad configuration or a failed walk.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	ctx, span := observability.Tracer.Start(ctx, "scan.Run", trace.WithAttributes(
		attribute.Int("roots", len(s.cfg.Roots)),
	))
	defer span.End()

	start := time.Now()

	files, err := s.collectFiles()
	if err != nil {
		return nil, err
	}

	parsed := s.parseAll(ctx, files)

	knownPaths := make(map[string]string, len(parsed))
	for _, p := range parsed {
		if p.err != nil {
			continue
		}
		knownPaths[p.file.relPath] = resolver.ModuleNameForPath(p.file.relPath)
	}

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: start,
	}
	for _, p := range parsed {
		if p.err != nil {
			slog.Warn("failed to process file", "path", p.file.absPath, "error", p.err)
			continue
		}
		report.Files = append(report.Files, s.analyze(p.file.relPath, p.res, knownPaths))
	}
	sort.Slice(report.Files, func(i, j int) bool {
		return report.Files[i].Path < report.Files[j].Path
	})

	report.Duration = time.Since(start)
	report.Totals = tally(report.Files)

	observability.ScanDuration.Observe(report.Duration.Seconds())
	observability.UnusedImports.Set(float64(report.Totals.UnusedImports))
	observability.UnusedDeclarations.Set(float64(report.Totals.UnusedDeclarations))
	observability.UnresolvedImports.Set(float64(report.Totals.Unresolved))
	span.SetAttributes(attribute.Int("files", report.Totals.Files))

	return report, nil
}

type sourceFile struct {
	absPath string
	relPath string
}

type parsedFile struct {
	file sourceFile
	res  parser.ParseResult
	err  error
}

func (s *Service) collectFiles() ([]sourceFile, error) {
	var files []sourceFile
	seen := make(map[string]bool)

	for _, root := range dedupeRoots(s.cfg.Roots) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range s.dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !parser.IsSupportedPath(path) {
				return nil
			}

			for _, g := range s.fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			rel := util.RepoRelPath(root, path)
			if seen[rel] {
				return nil
			}
			seen[rel] = true
			files = append(files, sourceFile{absPath: path, relPath: rel})
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeIO, "walk scan root"), errors.CtxRoot, root)
		}
	}

	return files, nil
}

// dedupeRoots sorts the configured roots and drops every root contained in
// an earlier one. A nested root would be walked twice, with its files
// reported under two different relative paths.
func dedupeRoots(configured []string) []string {
	sorted := append([]string(nil), configured...)
	sort.Strings(sorted)

	var roots []string
	for _, root := range sorted {
		contained := false
		for _, kept := range roots {
			if util.HasPathPrefix(root, kept) {
				contained = true
				break
			}
		}
		if !contained {
			roots = append(roots, root)
		}
	}
	return roots
}

func (s *Service) parseAll(ctx context.Context, files []sourceFile) []parsedFile {
	results := make([]parsedFile, len(files))

	limit := s.cfg.Workers
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = parsedFile{file: f, err: err}
				return nil
			}
			results[i] = parseOne(f)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func parseOne(f sourceFile) parsedFile {
	content, err := os.ReadFile(f.absPath)
	if err != nil {
		return parsedFile{file: f, err: err}
	}

	begin := time.Now()
	res := parser.ParseFile(string(content), f.relPath)
	observability.ParsingDuration.WithLabelValues(res.Language).Observe(time.Since(begin).Seconds())
	observability.FilesScanned.WithLabelValues(res.Language).Inc()

	return parsedFile{file: f, res: res}
}

func (s *Service) analyze(relPath string, res parser.ParseResult, knownPaths map[string]string) FileReport {
	fr := FileReport{
		Path:        relPath,
		Language:    res.Language,
		SyntaxValid: res.SyntaxValid,
	}

	for _, imp := range res.Imports {
		fr.Imports = append(fr.Imports, s.resolveImport(imp, relPath, res.Language, knownPaths))
	}

	fr.UnusedImports = resolver.UnusedImports(res)

	var opts []resolver.DeclarationOption
	if s.cfg.Unused.SkipExported {
		lang := res.Language
		opts = append(opts, resolver.WithExportedSkipped(func(name string) bool {
			return exportedName(lang, name)
		}))
	}
	for _, name := range resolver.UnusedDeclarations(res, opts...) {
		fr.UnusedDeclarations = append(fr.UnusedDeclarations, res.Declarations[name])
	}

	return fr
}

func (s *Service) resolveImport(imp parser.Import, currentFile, language string, knownPaths map[string]string) ImportResolution {
	ir := ImportResolution{Import: imp}

	if imp.IsRelative {
		if target, ok := resolver.ResolveRelativeImport(imp.Source, currentFile, knownPaths); ok {
			ir.Status, ir.Target = StatusLocal, target
		} else {
			ir.Status = StatusUnresolved
		}
		return ir
	}

	if resolver.IsStdlibModule(language, imp.Source) || s.stdlibExtra[moduleBase(imp.Source)] {
		ir.Status = StatusStdlib
		return ir
	}

	if target, ok := resolver.ResolveModuleToFile(imp.Source, knownPaths, currentFile); ok {
		ir.Status, ir.Target = StatusLocal, target
		return ir
	}

	ir.Status = StatusExternal
	return ir
}

func moduleBase(module string) string {
	base, _, _ := strings.Cut(strings.TrimPrefix(module, "node:"), "/")
	base, _, _ = strings.Cut(base, ".")
	return base
}

// exportedName applies the language's naming convention for public API:
// underscore-prefixed names are private in python modules, capitalized names
// are the conventional public surface elsewhere.
func exportedName(language, name string) bool {
	if name == "" {
		return false
	}
	if language == parser.LangPython {
		return !strings.HasPrefix(name, "_")
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}
