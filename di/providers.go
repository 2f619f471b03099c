// Package di assembles Config, Store, and observability into the Graph
// Index Maintainer/Scanner/Traverser and the Tableaux/Incremental
// reasoners, grounded on the teacher's own google/wire provider-set
// pattern (ProvideX functions plus a wire.Build-driven Container).
package di

import (
	"go.uber.org/zap"

	"graphreason/config"
	"graphreason/graph"
	"graphreason/incremental"
	"graphreason/kv"
	"graphreason/kv/resilient"
	"graphreason/observability/logging"
	"graphreason/observability/metrics"
	"graphreason/owl"
	"graphreason/tableaux"
)

// ProvideLogger builds the process-wide zap.Logger.
func ProvideLogger(opts logging.Options) (*zap.Logger, error) {
	return logging.New(opts)
}

// ProvideMetricsCollector builds the Prometheus metrics Collector.
func ProvideMetricsCollector() *metrics.Collector {
	return metrics.NewCollector("graphreason")
}

// ProvideResilientStore wraps inner with a circuit breaker, named after
// the process, using logger for state-change notifications.
func ProvideResilientStore(inner kv.Store, logger *zap.Logger) kv.Store {
	return resilient.New(inner, resilient.Settings{Name: "graphreason-store"}, logger)
}

// ProvideIndexBase derives the root Subspace every indexed component's
// child subspace hangs off of.
func ProvideIndexBase() kv.Subspace {
	return kv.NewSubspace([]byte("graphreason"))
}

// ProvideMaintainer builds the Graph Index Maintainer for the hexastore
// strategy under base, bounded by cfg's key-size limit.
func ProvideMaintainer(base kv.Subspace, cfg *config.Config) *graph.Maintainer {
	return graph.NewMaintainer(base, graph.Hexastore, nil, cfg.Maintainer.KeySizeLimit)
}

// ProvideOntology builds an empty Ontology; callers load axioms into it
// before handing it to ProvideReasoner.
func ProvideOntology() *owl.Ontology {
	return owl.New()
}

// ProvideReasonerConfig maps config.ReasonerConfig onto tableaux.Config.
func ProvideReasonerConfig(cfg *config.Config) tableaux.Config {
	return tableaux.Config{
		MaxExpansionSteps: cfg.Reasoner.MaxExpansionSteps,
		Timeout:           cfg.Reasoner.Timeout,
		RegularityCheck:   cfg.Reasoner.EnableRegularityCheck,
	}
}

// ProvideReasoner builds the Tableaux Reasoner over o.
func ProvideReasoner(o *owl.Ontology, rc tableaux.Config, logger *zap.Logger) *tableaux.Reasoner {
	return tableaux.NewReasoner(o, rc, logger)
}

// ProvideIncrementalMaintainer builds the DRed Incremental Reasoner
// (C10) over the same ontology used by ProvideReasoner, bounded by
// cfg's cascade depth.
func ProvideIncrementalMaintainer(base kv.Subspace, o *owl.Ontology, cfg *config.Config, logger *zap.Logger) (*incremental.Maintainer, error) {
	incBase, err := base.Sub("incremental")
	if err != nil {
		return nil, err
	}
	materializer := incremental.ClassHierarchyMaterializer{Ontology: o}
	return incremental.NewMaintainer(incBase, materializer, nil, cfg.Incremental.MaxCascadeDepth, logger)
}
