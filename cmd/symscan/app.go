// # cmd/symscan/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"

	"symscan/internal/config"
	"symscan/internal/core/errors"
	"symscan/internal/report"
	"symscan/internal/scan"
	"symscan/internal/watcher"
)

type App struct {
	Config  *config.Config
	Scanner *scan.Service
}

func NewApp(cfg *config.Config) (*App, error) {
	svc, err := scan.NewService(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Scanner: svc,
	}, nil
}

// RunScan performs one full scan, writes the configured artifacts and prints
// the terminal summary.
func (a *App) RunScan(ctx context.Context) error {
	rep, err := a.Scanner.Run(ctx)
	if err != nil {
		return errors.AddContext(err, errors.CtxOperation, "scan")
	}

	if err := report.WriteArtifacts(rep, a.Config.Output); err != nil {
		slog.Error("failed to write report artifacts", "error", err)
	}

	fmt.Print(report.Summary(rep))
	return nil
}

// HandleChanges rescans the whole repository: import resolution is global, so
// a changed file can flip findings in files that did not change.
func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))
	if err := a.RunScan(context.Background()); err != nil {
		slog.Error("rescan failed", "error", err)
	}
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Note: We don't close here, it should run forever
	return w.Watch(a.Config.Roots)
}
