package tableaux

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"graphreason/owl"
)

// Satisfiability is the tri-valued result every Tableaux decision
// procedure returns (§9 "Tri-valued reasoning"): a two-valued Bool is a
// lossy projection applied only at the public subsumes/equivalent/
// disjoint boundary.
type Satisfiability int

const (
	Satisfiable Satisfiability = iota
	Unsatisfiable
	Unknown
)

func (s Satisfiability) String() string {
	switch s {
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	default:
		return "unknown"
	}
}

// Config tunes one Reasoner's resource bounds.
type Config struct {
	MaxExpansionSteps int
	Timeout           time.Duration
	RegularityCheck   bool
}

// DefaultConfig matches the bounds a single ad-hoc satisfiability check
// should use absent an explicit override.
func DefaultConfig() Config {
	return Config{MaxExpansionSteps: 10000, Timeout: 5 * time.Second, RegularityCheck: true}
}

// Reasoner answers satisfiability, subsumption, equivalence,
// disjointness, classification, and instance-check queries over one
// owl.Ontology. Safe for concurrent callers: mutable state (caches,
// statistics) is behind a single lock; each call builds its own
// thread-local CompletionGraph (§4.7 "Concurrency").
type Reasoner struct {
	mu       sync.Mutex
	ontology *owl.Ontology
	config   Config
	logger   *zap.Logger

	cache *reasonerCache

	stats Stats
}

// Stats accumulates lightweight operational counters; useful for
// diagnostics and tests, never consulted by the decision algorithms
// themselves.
type Stats struct {
	SatisfiabilityChecks int
	CacheHits            int
	ExpansionSteps       int
}

// NewReasoner returns a reasoner over o using config.
func NewReasoner(o *owl.Ontology, config Config, logger *zap.Logger) *Reasoner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reasoner{
		ontology: o,
		config:   config,
		logger:   logger,
		cache:    newReasonerCache(),
	}
}

// InvalidateCaches drops every cached result; call after any ontology
// mutation (§4.7 "Caching... invalidated together with classification
// on any ontology mutation").
func (r *Reasoner) InvalidateCaches() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = newReasonerCache()
}

// CheckSatisfiability decides whether C has a model under the ontology's
// axioms, per §4.7.
func (r *Reasoner) CheckSatisfiability(ctx context.Context, c *owl.ClassExpr) Satisfiability {
	key := owl.Canonicalize(c)

	r.mu.Lock()
	if cached, ok := r.cache.sat[key]; ok {
		r.stats.CacheHits++
		r.mu.Unlock()
		return cached
	}
	r.stats.SatisfiabilityChecks++
	r.mu.Unlock()

	if r.config.RegularityCheck {
		if violations := owl.CheckOWLDLRegularity(r.ontology); len(violations) > 0 {
			r.logger.Debug("regularity violations force unknown result", zap.Int("count", len(violations)))
			return r.storeSat(key, Unknown)
		}
	}

	deadline := time.Now().Add(r.config.Timeout)
	result := r.runExpansion(ctx, c, deadline)
	return r.storeSat(key, result)
}

func (r *Reasoner) storeSat(key string, result Satisfiability) Satisfiability {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.sat[key] = result
	return result
}

// runExpansion is the tableaux decision procedure's expansion loop,
// §4.7 step 4.
func (r *Reasoner) runExpansion(ctx context.Context, c *owl.ClassExpr, deadline time.Time) Satisfiability {
	g := NewCompletionGraph(r.ontology)
	g.addConcept(g.Root(), owl.NNF(c))
	addTBoxConstraints(g, g.Root())

	steps := 0
	defer func() {
		r.mu.Lock()
		r.stats.ExpansionSteps += steps
		r.mu.Unlock()
	}()
	for {
		if ctx.Err() != nil {
			return Unknown
		}
		if time.Now().After(deadline) {
			return Unknown
		}
		if steps >= r.config.MaxExpansionSteps {
			return Unknown
		}
		steps++

		g.updateBlocking()

		if clash, found := detectClash(g); found {
			r.logger.Debug("clash detected", zap.String("detail", clash.Detail), zap.String("node_uuid", g.Node(clash.Node).UUID()))
			choicePointUUID := g.topChoicePointUUID()
			if _, ok := g.backtrack(); !ok {
				return Unsatisfiable
			}
			r.logger.Debug("backtracked", zap.String("choice_point_uuid", choicePointUUID))
			continue
		}

		detFired := saturateDeterministic(g)

		if clash, found := detectClash(g); found {
			r.logger.Debug("clash detected post-saturation", zap.String("detail", clash.Detail), zap.String("node_uuid", g.Node(clash.Node).UUID()))
			choicePointUUID := g.topChoicePointUUID()
			if _, ok := g.backtrack(); !ok {
				return Unsatisfiable
			}
			r.logger.Debug("backtracked", zap.String("choice_point_uuid", choicePointUUID))
			continue
		}

		genFired := applyGenerating(g)
		nondetFired := applyOneNonDeterministic(g)

		chainFired := false
		for role, chains := range r.propertyChainsByImplied() {
			for _, chain := range chains {
				if g.applyPropertyChain(chain, role) {
					chainFired = true
				}
			}
		}

		transFired := false
		for _, role := range r.ontology.ObjectProperties() {
			if p, ok := r.ontology.ObjectProperty(role); ok && p.Has(owl.Transitive) {
				if g.expandTransitiveRole(role) {
					transFired = true
				}
			}
		}

		if !detFired && !genFired && !nondetFired && !chainFired && !transFired {
			return Satisfiable
		}
	}
}

func (r *Reasoner) propertyChainsByImplied() map[string][][]string {
	out := make(map[string][][]string)
	for _, role := range r.ontology.ObjectProperties() {
		if chains := r.ontology.RoleHierarchy().Chains(role); len(chains) > 0 {
			out[role] = chains
		}
	}
	return out
}

// Subsumes reports whether C ⊑ D: only a definite Unsatisfiable result
// for C ⊓ ¬D counts as true; Unknown conservatively maps to false
// (§4.7 "Subsumption", §8 invariant 10).
func (r *Reasoner) Subsumes(ctx context.Context, c, d *owl.ClassExpr) bool {
	key := fmt.Sprintf("%s⊑%s", owl.Canonicalize(c), owl.Canonicalize(d))
	r.mu.Lock()
	if cached, ok := r.cache.subsumption[key]; ok {
		r.stats.CacheHits++
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	result := r.CheckSatisfiability(ctx, owl.And(c, owl.Not(d))) == Unsatisfiable

	r.mu.Lock()
	r.cache.subsumption[key] = result
	r.mu.Unlock()
	return result
}

// Equivalent reports C ≡ D via two subsumption tests.
func (r *Reasoner) Equivalent(ctx context.Context, c, d *owl.ClassExpr) bool {
	return r.Subsumes(ctx, c, d) && r.Subsumes(ctx, d, c)
}

// Disjoint reports whether C ⊓ D is unsatisfiable.
func (r *Reasoner) Disjoint(ctx context.Context, c, d *owl.ClassExpr) bool {
	return r.CheckSatisfiability(ctx, owl.And(c, d)) == Unsatisfiable
}

// Classify computes subsumes(A, B) for every ordered pair of named
// classes and records B ⊑ A into the ontology's class hierarchy,
// returning the updated hierarchy (§4.7 "Classification").
func (r *Reasoner) Classify(ctx context.Context) *owl.ClassHierarchy {
	classes := r.ontology.Classes()
	for _, a := range classes {
		for _, b := range classes {
			if a == b {
				continue
			}
			// b ⊑ a: a is the (candidate) superclass.
			if r.Subsumes(ctx, owl.Atomic(b), owl.Atomic(a)) {
				_ = r.ontology.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic(b), Super: owl.Atomic(a)})
			}
		}
	}
	return r.ontology.ClassHierarchy()
}

// IsInstanceOf answers §4.7 "Instance check": build individualType as
// the intersection of every ABox fact on individual, then test
// subsumes(individualType, C) — individual is an instance of C iff
// individualType ⊑ C.
func (r *Reasoner) IsInstanceOf(ctx context.Context, individual string, c *owl.ClassExpr) bool {
	facts := r.individualType(individual)
	return r.Subsumes(ctx, facts, c)
}

func (r *Reasoner) individualType(individual string) *owl.ClassExpr {
	expr := r.buildIndividualType(individual)
	r.mu.Lock()
	r.cache.individualType[individual] = owl.Canonicalize(expr)
	r.mu.Unlock()
	return expr
}

func (r *Reasoner) buildIndividualType(individual string) *owl.ClassExpr {
	ix := r.ontology.Index()
	var conjuncts []*owl.ClassExpr

	for _, cls := range ix.ClassAssertions(individual) {
		conjuncts = append(conjuncts, cls)
	}
	for _, fact := range ix.ObjectAssertions(individual) {
		conjuncts = append(conjuncts, owl.HasValue(fact.Property, fact.Target))
	}
	for _, fact := range ix.DataAssertions(individual) {
		conjuncts = append(conjuncts, owl.DataSome(fact.Property, owl.DataRange{Datatype: "enumeration", Enumeration: []string{fact.Value}}))
	}

	if len(conjuncts) == 0 {
		return owl.Top()
	}
	if len(conjuncts) == 1 {
		return conjuncts[0]
	}
	return owl.And(conjuncts...)
}

// Statistics returns a snapshot of the reasoner's operational counters.
func (r *Reasoner) Statistics() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
