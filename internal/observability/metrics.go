package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "driftwatch_extraction_seconds",
		Help:    "Time spent extracting signatures from a single file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_files_extracted_total",
		Help: "Total number of source files read and extracted.",
	}, []string{"language"})

	DocFilesExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_doc_files_extracted_total",
		Help: "Total number of documentation files read and extracted.",
	}, []string{"format"})

	CompareDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "driftwatch_compare_seconds",
		Help:    "Time spent comparing code signatures against documentation.",
		Buckets: prometheus.DefBuckets,
	})

	DriftIssues = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "driftwatch_drift_issues",
		Help: "Drift issues found by the most recent comparison, by severity.",
	}, []string{"severity"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	EmbeddingCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_embedding_cache_hits_total",
		Help: "Embedding lookups served from the persistent cache.",
	})

	EmbeddingCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_embedding_cache_misses_total",
		Help: "Embedding lookups that required a provider call.",
	})
)
