package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var Tracer trace.Tracer = otel.Tracer("implicit")

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "implicit_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	IndexEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "implicit_index_entries_total",
		Help: "Number of namespace entries in the directory index.",
	})

	GraphFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "implicit_graph_files_total",
		Help: "Number of analyzed files in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "implicit_graph_edges_total",
		Help: "Number of reference edges in the dependency graph.",
	})

	ReferencesResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "implicit_references_resolved_total",
		Help: "Constant references resolved to a project file.",
	})

	ReferencesUnresolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "implicit_references_unresolved_total",
		Help: "Constant references left unresolved (external or dynamic).",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "implicit_watcher_events_total",
		Help: "File system events received by the watcher.",
	})

	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "implicit_scan_seconds",
		Help:    "Time spent on full and incremental scans.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)
