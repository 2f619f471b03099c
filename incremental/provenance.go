package incremental

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"graphreason/kv"
)

// provenance keys the three sub-prefixes (§4.8 "Persistence layout")
// under one reasoner/ontology subspace:
//
//	0: dependents[s,p,o][cs,cp,co]  = ''
//	1: dependencies[cs,cp,co][s,p,o] = ''
//	2: inferred[s,p,o]              = encoded(isValid, revisionID)
//
// revisionID is a fresh uuid minted on every validity transition, so
// callers can correlate a single setInferred call across logs and
// traces without reconstructing it from the triple and a timestamp.
type provenanceStore struct {
	dependents   kv.Subspace
	dependencies kv.Subspace
	inferred     kv.Subspace
}

func newProvenanceStore(base kv.Subspace) (provenanceStore, error) {
	dependents, err := base.Sub(int64(0))
	if err != nil {
		return provenanceStore{}, err
	}
	dependencies, err := base.Sub(int64(1))
	if err != nil {
		return provenanceStore{}, err
	}
	inferred, err := base.Sub(int64(2))
	if err != nil {
		return provenanceStore{}, err
	}
	return provenanceStore{dependents: dependents, dependencies: dependencies, inferred: inferred}, nil
}

func tripleElements(t Triple) []kv.Element {
	return []kv.Element{t.S, t.P, t.O}
}

func pairElements(a, b Triple) []kv.Element {
	return append(tripleElements(a), tripleElements(b)...)
}

// addDependency records that conclusion depends on antecedent, writing
// both the forward (dependents) and reverse (dependencies) index
// entries.
func (p provenanceStore) addDependency(ctx context.Context, tx kv.Transaction, conclusion, antecedent Triple) error {
	depKey, err := p.dependents.Pack(pairElements(antecedent, conclusion))
	if err != nil {
		return fmt.Errorf("incremental: pack dependents key: %w", err)
	}
	tx.SetValue(depKey, []byte{})

	revKey, err := p.dependencies.Pack(pairElements(conclusion, antecedent))
	if err != nil {
		return fmt.Errorf("incremental: pack dependencies key: %w", err)
	}
	tx.SetValue(revKey, []byte{})
	return nil
}

// removeDependency deletes both directions of one antecedent/conclusion
// link.
func (p provenanceStore) removeDependency(ctx context.Context, tx kv.Transaction, conclusion, antecedent Triple) error {
	depKey, err := p.dependents.Pack(pairElements(antecedent, conclusion))
	if err != nil {
		return err
	}
	tx.Clear(depKey)

	revKey, err := p.dependencies.Pack(pairElements(conclusion, antecedent))
	if err != nil {
		return err
	}
	tx.Clear(revKey)
	return nil
}

// dependents returns every triple whose derivation used t as a direct
// antecedent.
func (p provenanceStore) listDependents(ctx context.Context, tx kv.Reader, t Triple) ([]Triple, error) {
	sub, err := p.dependents.Sub(tripleElements(t)...)
	if err != nil {
		return nil, err
	}
	return scanTriples(ctx, tx, sub)
}

// dependencies returns every direct antecedent that supports t's
// current derivation.
func (p provenanceStore) listDependencies(ctx context.Context, tx kv.Reader, t Triple) ([]Triple, error) {
	sub, err := p.dependencies.Sub(tripleElements(t)...)
	if err != nil {
		return nil, err
	}
	return scanTriples(ctx, tx, sub)
}

func scanTriples(ctx context.Context, tx kv.Reader, sub kv.Subspace) ([]Triple, error) {
	begin, end := sub.Range()
	kvCh, errCh := tx.GetRange(ctx, begin, end, false)
	var out []Triple
	for item := range kvCh {
		elems, err := sub.Unpack(item.Key)
		if err != nil {
			return nil, fmt.Errorf("incremental: unpack provenance key: %w", err)
		}
		if len(elems) != 3 {
			return nil, fmt.Errorf("incremental: expected 3-element triple key, got %d", len(elems))
		}
		s, _ := elems[0].(string)
		p2, _ := elems[1].(string)
		o, _ := elems[2].(string)
		out = append(out, Triple{S: s, P: p2, O: o})
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return out, nil
}

// setInferred records t as a derived fact with the given validity,
// minting a fresh revision id for this transition. Returns the minted
// revision id for callers that want to log it alongside the change.
func (p provenanceStore) setInferred(ctx context.Context, tx kv.Transaction, t Triple, valid bool) (string, error) {
	key, err := p.inferred.Pack(tripleElements(t))
	if err != nil {
		return "", err
	}
	v := int64(0)
	if valid {
		v = int64(1)
	}
	revisionID := uuid.New().String()
	encoded, err := kv.Pack([]kv.Element{v, revisionID})
	if err != nil {
		return "", err
	}
	tx.SetValue(key, encoded)
	return revisionID, nil
}

// isInferredValid reports whether t has an inferred record, its
// validity, and the revision id of the transition that produced the
// current value.
func (p provenanceStore) isInferredValid(ctx context.Context, tx kv.Reader, t Triple) (valid bool, found bool, revisionID string, err error) {
	key, err := p.inferred.Pack(tripleElements(t))
	if err != nil {
		return false, false, "", err
	}
	val, err := tx.GetValue(ctx, key, false)
	if err != nil {
		return false, false, "", err
	}
	if val == nil {
		return false, false, "", nil
	}
	elems, err := kv.Unpack(val)
	if err != nil || len(elems) != 2 {
		return false, true, "", fmt.Errorf("incremental: malformed inferred value")
	}
	flag, _ := elems[0].(int64)
	revisionID, _ = elems[1].(string)
	return flag == 1, true, revisionID, nil
}

func (p provenanceStore) clearInferred(ctx context.Context, tx kv.Transaction, t Triple) error {
	key, err := p.inferred.Pack(tripleElements(t))
	if err != nil {
		return err
	}
	tx.Clear(key)
	return nil
}
