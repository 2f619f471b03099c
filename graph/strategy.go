// Package graph implements the Graph Index Maintainer, Edge Scanner,
// Property Scanner, and Traverser: the three interchangeable index
// layouts an edge can be stored under, and the read paths that pick the
// right ordering for a query pattern (SPEC_FULL §2, components C2-C5).
package graph

import "graphreason/kv"

// IndexStrategy fixes how many and which orderings of an edge get written.
type IndexStrategy int

const (
	// Adjacency writes OUT and IN only: cheap to maintain, cannot serve
	// an efficient (from, *, to) or (*, edge, *) query.
	Adjacency IndexStrategy = iota
	// TripleStore writes SPO, POS, OSP: every single-bound-slot pattern
	// gets an efficient ordering.
	TripleStore
	// Hexastore writes all six permutations: every pattern shape gets an
	// efficient ordering at the cost of 6x write amplification.
	Hexastore
)

func (s IndexStrategy) String() string {
	switch s {
	case Adjacency:
		return "adjacency"
	case TripleStore:
		return "tripleStore"
	case Hexastore:
		return "hexastore"
	default:
		return "unknown"
	}
}

// Ordering is one of the eight named field permutations an edge's index
// row can be packed under. The small integer value is the on-disk prefix
// byte distinguishing rows of different orderings sharing a base prefix.
type Ordering int

const (
	OUT Ordering = iota
	IN
	SPO
	POS
	OSP
	SOP
	PSO
	OPS
)

func (o Ordering) String() string {
	switch o {
	case OUT:
		return "OUT"
	case IN:
		return "IN"
	case SPO:
		return "SPO"
	case POS:
		return "POS"
	case OSP:
		return "OSP"
	case SOP:
		return "SOP"
	case PSO:
		return "PSO"
	case OPS:
		return "OPS"
	default:
		return "unknown"
	}
}

// orderingsByStrategy lists, for each strategy, every ordering written for
// a single edge (the "rows written per edge" table).
var orderingsByStrategy = map[IndexStrategy][]Ordering{
	Adjacency:   {OUT, IN},
	TripleStore: {SPO, POS, OSP},
	Hexastore:   {SPO, POS, OSP, SOP, PSO, OPS},
}

// Orderings returns every ordering this strategy maintains, in a stable
// deterministic order — the order writes are issued in for a single edge.
func (s IndexStrategy) Orderings() []Ordering {
	return orderingsByStrategy[s]
}

// slots identifies a triple's three tuple-packable positions.
type slots struct {
	from, edge, to kv.Element
}

// pack projects the triple's three fields into the element order this
// ordering stores them under.
func (o Ordering) pack(s slots) []kv.Element {
	switch o {
	case OUT:
		return []kv.Element{s.from, s.edge, s.to}
	case IN:
		return []kv.Element{s.to, s.edge, s.from}
	case SPO:
		return []kv.Element{s.from, s.edge, s.to}
	case POS:
		return []kv.Element{s.edge, s.to, s.from}
	case OSP:
		return []kv.Element{s.to, s.from, s.edge}
	case SOP:
		return []kv.Element{s.from, s.to, s.edge}
	case PSO:
		return []kv.Element{s.edge, s.from, s.to}
	case OPS:
		return []kv.Element{s.to, s.edge, s.from}
	default:
		return nil
	}
}

// project reverses pack: given the ordering's packed element order, it
// recovers (from, edge, to).
func (o Ordering) project(elems []kv.Element) (slots, bool) {
	if len(elems) < 3 {
		return slots{}, false
	}
	a, b, c := elems[0], elems[1], elems[2]
	switch o {
	case OUT, SPO:
		return slots{from: a, edge: b, to: c}, true
	case IN:
		return slots{to: a, edge: b, from: c}, true
	case POS:
		return slots{edge: a, to: b, from: c}, true
	case OSP:
		return slots{to: a, from: b, edge: c}, true
	case SOP:
		return slots{from: a, to: b, edge: c}, true
	case PSO:
		return slots{edge: a, from: b, to: c}, true
	case OPS:
		return slots{to: a, edge: b, from: c}, true
	default:
		return slots{}, false
	}
}

// pattern mirrors slots but with optional (wildcard) fields, used to pick
// the scan ordering for a query.
type pattern struct {
	from, edge, to *kv.Element
}

// chooseOrdering implements the fixed ordering-selection table (§4.2): it
// returns the ordering to scan and whether that ordering can serve the
// pattern with an efficient bound prefix (false means a full subspace
// scan with a post-filter is required — the adjacency "inherently
// inefficient" shapes).
func chooseOrdering(strategy IndexStrategy, p pattern) (Ordering, bool) {
	boundFrom, boundEdge, boundTo := p.from != nil, p.edge != nil, p.to != nil

	switch strategy {
	case Adjacency:
		switch {
		case boundFrom && !boundEdge && boundTo:
			// (•,_,•): OUT's bound prefix cannot skip the unbound
			// `edge` slot, so this falls back to a full OUT subspace
			// scan with a post-filter on `from` and `to`.
			return OUT, false
		case boundFrom:
			// (•,•,•), (•,•,_), (•,_,_): OUT's prefix covers every
			// bound slot here.
			return OUT, true
		case boundEdge && boundTo:
			// (_,•,•): IN's prefix is `to` then `edge`.
			return IN, true
		case boundEdge:
			// (_,•,_): adjacency has no edge-prefixed ordering; fall
			// back to a full OUT subspace scan with a post-filter.
			return OUT, false
		case boundTo:
			// (_,_,•): IN's prefix is `to` alone.
			return IN, true
		default:
			// (_,_,_): full scan, either ordering works.
			return OUT, true
		}

	case TripleStore:
		switch {
		case boundFrom && boundEdge:
			return SPO, true
		case boundFrom && !boundEdge && boundTo:
			return OSP, true
		case boundFrom:
			return SPO, true
		case boundEdge && boundTo:
			return POS, true
		case boundEdge:
			return POS, true
		case boundTo:
			return OSP, true
		default:
			return SPO, true
		}

	case Hexastore:
		switch {
		case boundFrom && boundEdge:
			return SPO, true
		case boundFrom && !boundEdge && boundTo:
			return SOP, true
		case boundFrom:
			return SPO, true
		case boundEdge && boundTo:
			return POS, true
		case boundEdge:
			return PSO, true
		case boundTo:
			return OSP, true
		default:
			return SPO, true
		}
	}
	return SPO, true
}
