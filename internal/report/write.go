package report

import (
	"encoding/json"

	"symscan/internal/config"
	"symscan/internal/core/errors"
	"symscan/internal/scan"
	"symscan/internal/shared/util"
)

// GenerateJSON renders the full report, indented for direct reading.
func GenerateJSON(rep *scan.Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// WriteArtifacts writes the configured report files. Empty paths are skipped.
func WriteArtifacts(rep *scan.Report, out config.Output) error {
	if out.TSV != "" {
		tsv, err := NewTSVGenerator(rep).Generate()
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "render tsv report")
		}
		if err := util.WriteFileWithDirs(out.TSV, []byte(tsv), 0o644); err != nil {
			return errors.Wrap(err, errors.CodeIO, "write tsv report")
		}
	}

	if out.JSON != "" {
		data, err := GenerateJSON(rep)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "render json report")
		}
		if err := util.WriteFileWithDirs(out.JSON, data, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeIO, "write json report")
		}
	}

	if out.Markdown != "" {
		md, err := NewMarkdownGenerator().Generate(rep, MarkdownOptions{
			TableOfContents:     true,
			CollapsibleSections: true,
		})
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "render markdown report")
		}
		if err := util.WriteFileWithDirs(out.Markdown, []byte(md), 0o644); err != nil {
			return errors.Wrap(err, errors.CodeIO, "write markdown report")
		}
	}

	if out.SARIF != "" {
		data, err := GenerateSARIF(rep)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "render sarif report")
		}
		if err := util.WriteFileWithDirs(out.SARIF, data, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeIO, "write sarif report")
		}
	}

	return nil
}
