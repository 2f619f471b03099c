package incremental

import (
	"context"

	"go.uber.org/zap"

	"graphreason/kv"
)

// defaultMaxCascadeDepth bounds the delete cascade's breadth-first walk
// when the caller passes zero, mirroring the teacher's pattern of a
// generous built-in default rather than an unbounded walk.
const defaultMaxCascadeDepth = 1000

// FactStore answers whether a directly asserted (non-inferred) triple
// currently exists in a base ABox fact store that lives outside this
// package (e.g. a graph.Maintainer-backed lookup). It is optional: every
// triple passed to AddTriple is already self-recorded as a valid,
// antecedent-free inference (see AddTriple), so tripleExists can confirm
// an asserted antecedent's survival from that record alone when facts is
// nil. Supplying a FactStore lets callers that maintain their own
// independent ABox store recognize facts this Maintainer never saw
// inserted through AddTriple.
type FactStore interface {
	Exists(ctx context.Context, tx kv.Reader, t Triple) (bool, error)
}

// Maintainer is the Incremental Reasoner (C10): it forward-chains new
// triples through a Materializer and repairs the materialization on
// delete via DRed, entirely inside the caller's transaction — it never
// opens one itself (§5 "Concurrency... All state changes occur inside
// the caller's transaction").
type Maintainer struct {
	materializer    Materializer
	facts           FactStore
	maxCascadeDepth int
	prov            provenanceStore
	logger          *zap.Logger
}

// NewMaintainer builds a Maintainer rooted at base. facts may be nil, in
// which case tripleExists only ever consults triples this Maintainer has
// itself recorded via AddTriple or derived — fine when every asserted
// triple in scope is inserted through this Maintainer, but a real
// deployment with an independent ABox store should supply facts so
// monotonicity (invariant 8) also holds for triples asserted elsewhere.
// logger may be nil, in which case revision transitions go unlogged.
func NewMaintainer(base kv.Subspace, materializer Materializer, facts FactStore, maxCascadeDepth int, logger *zap.Logger) (*Maintainer, error) {
	if maxCascadeDepth <= 0 {
		maxCascadeDepth = defaultMaxCascadeDepth
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	prov, err := newProvenanceStore(base)
	if err != nil {
		return nil, err
	}
	return &Maintainer{
		materializer:    materializer,
		facts:           facts,
		maxCascadeDepth: maxCascadeDepth,
		prov:            prov,
		logger:          logger,
	}, nil
}

// AddTriple is §4.8 "Insert": record t itself as a valid, antecedent-free
// fact — so a later cascade's re-derivation check (step 3) can confirm
// t's existence without depending on an external FactStore — then
// forward-chain t through the materializer and record every derived
// conclusion as valid, with provenance linking it back to its
// antecedents.
func (m *Maintainer) AddTriple(ctx context.Context, tx kv.Transaction, t Triple) error {
	assertedRevisionID, err := m.prov.setInferred(ctx, tx, t, true)
	if err != nil {
		return err
	}
	m.logger.Debug("asserted triple recorded", zap.String("revision_id", assertedRevisionID))

	for _, d := range m.materializer.Derive([]Triple{t}) {
		revisionID, err := m.prov.setInferred(ctx, tx, d.Conclusion, true)
		if err != nil {
			return err
		}
		m.logger.Debug("inferred triple recorded", zap.String("revision_id", revisionID))
		for _, a := range d.Antecedents {
			if err := m.prov.addDependency(ctx, tx, d.Conclusion, a); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteTriple is §4.8 "Delete": cascade through dependents, tentatively
// invalidate, attempt re-derivation for each tentative inference in
// cascade order (nearest to t first, so a later check can already see
// whether a nearer dependency survived), purge what cannot be
// re-derived, then clear t's own provenance.
func (m *Maintainer) DeleteTriple(ctx context.Context, tx kv.Transaction, t Triple) error {
	order, err := m.cascade(ctx, tx, t)
	if err != nil {
		return err
	}

	for _, d := range order {
		revisionID, err := m.prov.setInferred(ctx, tx, d, false)
		if err != nil {
			return err
		}
		m.logger.Debug("inference tentatively invalidated", zap.String("revision_id", revisionID))
	}

	resolved := make(map[string]bool, len(order))
	for _, d := range order {
		deps, err := m.prov.listDependencies(ctx, tx, d)
		if err != nil {
			return err
		}

		survives := false
		for _, a := range deps {
			if a == t {
				continue
			}
			exists, ok := resolved[a.Key()]
			if !ok {
				exists, err = m.tripleExists(ctx, tx, a)
				if err != nil {
					return err
				}
			}
			if exists {
				survives = true
				break
			}
		}

		if survives {
			revisionID, err := m.prov.setInferred(ctx, tx, d, true)
			if err != nil {
				return err
			}
			m.logger.Debug("inference re-derived", zap.String("revision_id", revisionID))
			resolved[d.Key()] = true
			continue
		}

		if err := m.purge(ctx, tx, d); err != nil {
			return err
		}
		resolved[d.Key()] = false
	}

	return m.purge(ctx, tx, t)
}

// cascade walks dependents[t] breadth-first, bounded by maxCascadeDepth
// levels, returning every reachable inference in discovery order (so
// every antecedent of a later entry was itself discovered, and
// resolved, earlier).
func (m *Maintainer) cascade(ctx context.Context, tx kv.Transaction, t Triple) ([]Triple, error) {
	visited := map[string]bool{}
	var order []Triple
	frontier := []Triple{t}

	for depth := 0; len(frontier) > 0 && depth < m.maxCascadeDepth; depth++ {
		var next []Triple
		for _, cur := range frontier {
			dependents, err := m.prov.listDependents(ctx, tx, cur)
			if err != nil {
				return nil, err
			}
			for _, d := range dependents {
				if visited[d.Key()] {
					continue
				}
				visited[d.Key()] = true
				order = append(order, d)
				next = append(next, d)
			}
		}
		frontier = next
	}
	return order, nil
}

// Valid reports whether t currently holds: directly asserted, or
// recorded as a valid inference. Exported for callers (and tests) that
// need to inspect materialization state without reaching into
// provenance internals.
func (m *Maintainer) Valid(ctx context.Context, tx kv.Transaction, t Triple) (bool, error) {
	return m.tripleExists(ctx, tx, t)
}

// tripleExists is the "isValid=true or asserted" test from §4.8 step 3.
func (m *Maintainer) tripleExists(ctx context.Context, tx kv.Transaction, t Triple) (bool, error) {
	if m.facts != nil {
		asserted, err := m.facts.Exists(ctx, tx, t)
		if err != nil {
			return false, err
		}
		if asserted {
			return true, nil
		}
	}
	valid, found, _, err := m.prov.isInferredValid(ctx, tx, t)
	if err != nil {
		return false, err
	}
	return found && valid, nil
}

// purge clears t's provenance in both directions: every link where t is
// the conclusion, and every link where t is an antecedent of something
// else, plus t's own inferred-validity record.
func (m *Maintainer) purge(ctx context.Context, tx kv.Transaction, t Triple) error {
	antecedents, err := m.prov.listDependencies(ctx, tx, t)
	if err != nil {
		return err
	}
	for _, a := range antecedents {
		if err := m.prov.removeDependency(ctx, tx, t, a); err != nil {
			return err
		}
	}

	dependents, err := m.prov.listDependents(ctx, tx, t)
	if err != nil {
		return err
	}
	for _, c := range dependents {
		if err := m.prov.removeDependency(ctx, tx, c, t); err != nil {
			return err
		}
	}

	return m.prov.clearInferred(ctx, tx, t)
}
