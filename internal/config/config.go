package config

import (
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"symscan/internal/core/errors"
)

type Config struct {
	Roots   []string `toml:"roots"`
	Workers int      `toml:"workers"`
	Exclude Exclude  `toml:"exclude"`
	Unused  Unused   `toml:"unused"`
	Watch   Watch    `toml:"watch"`
	Output  Output   `toml:"output"`
	Tracing Tracing  `toml:"tracing"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Unused struct {
	SkipExported bool `toml:"skip_exported"`
	// StdlibModules are treated as standard library on top of the built-in
	// lists, so imports of them are classified stdlib rather than external.
	StdlibModules []string `toml:"stdlib_modules"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	TSV      string `toml:"tsv"`
	JSON     string `toml:"json"`
	Markdown string `toml:"markdown"`
	SARIF    string `toml:"sarif"`
}

type Tracing struct {
	Endpoint string `toml:"endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "read config file")
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, "parse config file")
	}

	// Default debounce if not set
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return &cfg, nil
}
