// Package metrics holds the Prometheus instrumentation surface for the
// graph/reasoning core, grounded on the teacher's own metrics Collector:
// one struct of pre-registered counters/histograms built against a
// private registry, so tests can build a fresh Collector instead of
// fighting the global default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds every metric this module's components report.
type Collector struct {
	registry *prometheus.Registry

	MaintainerWrites    *prometheus.CounterVec
	ScannerItemsEmitted *prometheus.CounterVec
	TraverserBatches    prometheus.Counter
	TraverserNodesVisited prometheus.Counter

	SatisfiabilityChecks *prometheus.CounterVec
	ReasonerCacheHits    prometheus.Counter
	ExpansionDuration    prometheus.Histogram

	IncrementalInserts prometheus.Counter
	IncrementalDeletes prometheus.Counter
	CascadeSize        prometheus.Histogram
}

// NewCollector builds a Collector registered against a fresh private
// registry scoped to namespace — never the global default registry, so
// multiple Collectors (e.g. one per test) never collide.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	maintainerWrites := prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "maintainer_writes_total", Help: "Rows written by the Graph Index Maintainer, by ordering."},
		[]string{"ordering"},
	)
	scannerItems := prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "scanner_items_emitted_total", Help: "Items emitted by a scan, by scan kind."},
		[]string{"kind"},
	)
	traverserBatches := prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "traverser_batches_total", Help: "Traversal frontier batches processed."},
	)
	traverserNodes := prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "traverser_nodes_visited_total", Help: "Nodes visited across all traversals."},
	)

	satChecks := prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "satisfiability_checks_total", Help: "CheckSatisfiability calls, by result."},
		[]string{"result"},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "reasoner_cache_hits_total", Help: "Reasoner cache hits across sat/subsumption/instance caches."},
	)
	expansionDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: namespace, Name: "expansion_duration_seconds", Help: "Wall-clock time of one tableaux expansion loop.", Buckets: prometheus.DefBuckets},
	)

	incInserts := prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "incremental_inserts_total", Help: "addTriple calls."},
	)
	incDeletes := prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "incremental_deletes_total", Help: "deleteTriple calls."},
	)
	cascadeSize := prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: namespace, Name: "incremental_cascade_size", Help: "Number of inferences touched by one deleteTriple cascade.", Buckets: prometheus.ExponentialBuckets(1, 2, 10)},
	)

	registry.MustRegister(
		maintainerWrites, scannerItems, traverserBatches, traverserNodes,
		satChecks, cacheHits, expansionDuration,
		incInserts, incDeletes, cascadeSize,
	)

	return &Collector{
		registry:              registry,
		MaintainerWrites:      maintainerWrites,
		ScannerItemsEmitted:   scannerItems,
		TraverserBatches:      traverserBatches,
		TraverserNodesVisited: traverserNodes,
		SatisfiabilityChecks:  satChecks,
		ReasonerCacheHits:     cacheHits,
		ExpansionDuration:     expansionDuration,
		IncrementalInserts:    incInserts,
		IncrementalDeletes:    incDeletes,
		CascadeSize:           cascadeSize,
	}
}

// Registry returns the private registry backing this Collector, for a
// caller that wants to expose it via an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveExpansion records one tableaux expansion loop's wall-clock cost.
func (c *Collector) ObserveExpansion(d time.Duration) {
	c.ExpansionDuration.Observe(d.Seconds())
}
