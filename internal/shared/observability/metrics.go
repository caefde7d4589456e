package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "symscan_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symscan_files_scanned_total",
		Help: "Total number of source files parsed during scans.",
	}, []string{"language"})

	UnusedImports = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "symscan_unused_imports",
		Help: "Unused imports found by the most recent scan.",
	})

	UnusedDeclarations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "symscan_unused_declarations",
		Help: "Unused top-level declarations found by the most recent scan.",
	})

	UnresolvedImports = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "symscan_unresolved_imports",
		Help: "Imports the most recent scan could not resolve to a repository file.",
	})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "symscan_scan_seconds",
		Help:    "End-to-end duration of a repository scan.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symscan_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherRescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symscan_watcher_rescans_total",
		Help: "Total number of rescans triggered by file system events.",
	})
)
