package graph

import (
	"context"

	"graphreason/kv"
	"graphreason/pkgerrors"
	"graphreason/schema"
)

// Field names a triple-shaped schema.Record is expected to declare.
// FieldGraph is optional and only consulted when quad support is wired in
// by the Property Scanner (§4.3 "named graph").
const (
	FieldFrom  schema.FieldName = "from"
	FieldEdge  schema.FieldName = "edge"
	FieldTo    schema.FieldName = "to"
	FieldGraph schema.FieldName = "graph"
)

// emptyLabel is the canonical sentinel used in place of an absent edge
// field — an unlabeled graph's edge slot is an exact, matchable empty
// string, never a wildcard (§3 "Triple / Edge").
const emptyLabel = ""

// Maintainer is the Graph Index Maintainer (C2): on edge insert/update/
// delete it writes every ordering's row of the configured strategy into
// the caller's transaction. It never opens a transaction itself (§5
// "Transactions").
type Maintainer struct {
	base         kv.Subspace
	strategy     IndexStrategy
	covering     *CoveringSpec
	keySizeLimit int
	// quad, when true, appends FieldGraph as a fixed fifth key element
	// after every ordering's three fields, for the Property Scanner's
	// optional named-graph dimension (§4.3 "Named graph (quad)").
	quad bool
}

// NewMaintainer builds a Maintainer rooted at base. covering may be nil
// for an index-only strategy (empty row values).
func NewMaintainer(base kv.Subspace, strategy IndexStrategy, covering *CoveringSpec, keySizeLimit int) *Maintainer {
	return &Maintainer{base: base, strategy: strategy, covering: covering, keySizeLimit: keySizeLimit}
}

// WithQuad returns a copy of m that also indexes FieldGraph as a fourth
// triple slot.
func (m Maintainer) WithQuad() *Maintainer {
	m.quad = true
	return &m
}

func extractSlots(item schema.Record) (slots, error) {
	from, ok := item.Get(FieldFrom)
	if !ok {
		return slots{}, pkgerrors.NewFieldNotFound(item.Name(), string(FieldFrom))
	}
	to, ok := item.Get(FieldTo)
	if !ok {
		return slots{}, pkgerrors.NewFieldNotFound(item.Name(), string(FieldTo))
	}
	edge, ok := item.Get(FieldEdge)
	if !ok {
		edge = emptyLabel
	}
	return slots{from: from, edge: edge, to: to}, nil
}

func (m *Maintainer) orderingKey(itemName string, o Ordering, s slots, graph kv.Element, hasGraph bool) ([]byte, error) {
	elems := append([]kv.Element{int64(o)}, o.pack(s)...)
	if m.quad && hasGraph {
		elems = append(elems, graph)
	}
	key, err := m.base.Pack(elems)
	if err != nil {
		return nil, pkgerrors.NewInvalidFieldType(itemName, o.String(), err)
	}
	if len(key) > m.keySizeLimit {
		return nil, pkgerrors.NewKeyTooLarge(key, m.keySizeLimit)
	}
	return key, nil
}

// computeKeysFor returns the deterministic, ordered key set this
// Maintainer writes for item — the same set computeKeys(item, id) must
// reproduce for scrubber verification (§4.1).
func (m *Maintainer) computeKeysFor(item schema.Record) ([][]byte, error) {
	s, err := extractSlots(item)
	if err != nil {
		return nil, err
	}
	var graph kv.Element
	var hasGraph bool
	if m.quad {
		graph, hasGraph = item.Get(FieldGraph)
		if !hasGraph {
			graph, hasGraph = emptyLabel, true
		}
	}

	orderings := m.strategy.Orderings()
	keys := make([][]byte, 0, len(orderings))
	for _, o := range orderings {
		key, err := m.orderingKey(item.Name(), o, s, graph, hasGraph)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ComputeKeys is the public scrubber-verification surface: the exact key
// set a live edge's item is expected to occupy.
func (m *Maintainer) ComputeKeys(item schema.Record) ([][]byte, error) {
	return m.computeKeysFor(item)
}

// encodedValue produces the row value: empty for an index-only strategy,
// or the covering-encoded stored fields when covering is configured.
func (m *Maintainer) encodedValue(item schema.Record) ([]byte, error) {
	if m.covering == nil {
		return nil, nil
	}
	values := make(map[string]fieldValue, len(m.covering.Fields))
	for _, f := range m.covering.Fields {
		v, ok := item.Get(schema.FieldName(f))
		values[f] = fieldValue{value: v, present: ok}
	}
	return m.covering.EncodeCovering(values)
}

// Update clears old's rows (if old is non-nil) and writes new's rows (if
// new is non-nil) into tx, in one deterministic ordering pass so replay
// of the same Update is idempotent (§4.1 "Algorithm").
func (m *Maintainer) Update(ctx context.Context, tx kv.Transaction, old, newItem schema.Record) error {
	if old != nil {
		keys, err := m.computeKeysFor(old)
		if err != nil {
			return err
		}
		for _, k := range keys {
			tx.Clear(k)
		}
	}

	if newItem != nil {
		keys, err := m.computeKeysFor(newItem)
		if err != nil {
			return err
		}
		value, err := m.encodedValue(newItem)
		if err != nil {
			return err
		}
		for _, k := range keys {
			tx.SetValue(k, value)
		}
	}

	return nil
}
