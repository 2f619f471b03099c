// Package schema declares the persistence contract the Graph Index
// Maintainer consumes: the shape of an item worth indexing, without the
// Maintainer needing to know anything about triples, edges, or OWL axioms
// specifically. Any indexable item type that satisfies this contract is
// served by the same Maintainer/Scanner machinery under every index
// strategy.
package schema

import "graphreason/kv"

// FieldName identifies one field of a Record, e.g. "from", "edge", "to",
// "graph".
type FieldName string

// Record is one item the Maintainer can index: a fixed set of named
// fields, each either present with a tuple-packable value or absent
// (distinct from present-but-null, per the covering-value contract).
type Record interface {
	// Name identifies the record's kind, e.g. "triple". The Maintainer
	// reports it in error diagnostics; it is not part of any index key.
	Name() string

	// Fields lists every field this record type declares, in a stable
	// order. The Maintainer does not consult it: it calls Get with the
	// field names its strategy and covering spec need.
	Fields() []FieldName

	// Get returns field's value and whether it is present at all.
	// A present value of nil is the field's explicit null, distinct
	// from absent (ok == false).
	Get(field FieldName) (value kv.Element, ok bool)

	// PrimaryKey returns the field subset (in a fixed order) that
	// uniquely identifies the record within its Name(). The Maintainer
	// does not consult it; Update takes the replaced record explicitly.
	PrimaryKey() []FieldName
}

// Indexed is a Record that also declares which field combinations
// (orderings) it wants indexed. The Maintainer does not consult
// Indexes(): the orderings it writes come from its fixed
// graph.IndexStrategy.
type Indexed interface {
	Record
	Indexes() [][]FieldName
}
