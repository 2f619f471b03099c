//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"graphreason/config"
	"graphreason/graph"
	"graphreason/incremental"
	"graphreason/kv"
	"graphreason/observability/logging"
	"graphreason/observability/metrics"
	"graphreason/owl"
	"graphreason/tableaux"
)

// Container holds every component a process built on this module needs.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	Store       kv.Store
	Maintainer  *graph.Maintainer
	Ontology    *owl.Ontology
	Reasoner    *tableaux.Reasoner
	Incremental *incremental.Maintainer
}

// SuperSet is the provider set wire.Build walks to assemble a Container.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetricsCollector,
	ProvideResilientStore,
	ProvideIndexBase,
	ProvideMaintainer,
	ProvideOntology,
	ProvideReasonerConfig,
	ProvideReasoner,
	ProvideIncrementalMaintainer,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer wires a Container from cfg, logging options, and
// the caller's underlying Store implementation.
func InitializeContainer(cfg *config.Config, logOpts logging.Options, inner kv.Store) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // wire replaces this body with generated code
}
