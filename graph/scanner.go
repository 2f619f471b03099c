package graph

import (
	"context"

	"graphreason/kv"
	"graphreason/pkgerrors"
)

// Edge is a decoded triple, the unit the Scanner streams. Graph is only
// populated when the Scanner is configured for the quad dimension.
type Edge struct {
	From, EdgeLabel, To kv.Element
	Graph               kv.Element
	HasGraph            bool
}

// ScanResult is one item delivered by a Scanner stream: either an Edge or
// a terminal error, matching the stream-ends-with-error contract of §4.2.
// Value carries the row's raw stored bytes (empty for an index-only
// strategy), letting the Property Scanner decode a covering value without
// re-scanning.
type ScanResult struct {
	Edge  Edge
	Value []byte
	Err   error
}

// Scanner is the Edge Scanner (C3): given a partial pattern it picks the
// ordering the selection table names, builds the matching key range, and
// streams decoded edges.
type Scanner struct {
	base         kv.Subspace
	strategy     IndexStrategy
	keySizeLimit int
	// batchThreshold is the constant K from §4.2's batch-scan rule: at or
	// above this many ids with a wildcard label, a single full subspace
	// scan with a hash-set filter replaces N separate prefix scans.
	batchThreshold int
	quad           bool
}

// NewScanner builds a Scanner over the same base subspace and strategy a
// Maintainer writes into.
func NewScanner(base kv.Subspace, strategy IndexStrategy, keySizeLimit, batchThreshold int) *Scanner {
	if batchThreshold <= 0 {
		batchThreshold = 8
	}
	return &Scanner{base: base, strategy: strategy, keySizeLimit: keySizeLimit, batchThreshold: batchThreshold}
}

// WithQuad returns a copy of s that decodes and matches a fourth,
// always-last named-graph slot (§4.3 "Named graph (quad)").
func (s Scanner) WithQuad() *Scanner {
	s.quad = true
	return &s
}

// Pattern is a partial triple query: a nil slot is a wildcard, a non-nil
// slot (including a pointer to an empty string) is an exact match.
type Pattern struct {
	From, EdgeLabel, To *kv.Element
	// Graph only participates in range construction when From, EdgeLabel
	// and To are all bound (§4.3); otherwise it is applied as a
	// post-filter alongside the property filters.
	Graph *kv.Element
}

func (p Pattern) toInternal() pattern {
	return pattern{from: p.From, edge: p.EdgeLabel, to: p.To}
}

// Scan streams every edge matching pattern. The returned channel is
// closed when the scan completes or the context is cancelled; a non-nil
// terminal ScanResult.Err, if any, is the last item sent before close.
func (s *Scanner) Scan(ctx context.Context, tx kv.Reader, p Pattern, snapshot bool) <-chan ScanResult {
	out := make(chan ScanResult)
	ordering, efficient := chooseOrdering(s.strategy, p.toInternal())

	go func() {
		defer close(out)

		begin, end, err := s.rangeFor(ordering, p, efficient)
		if err != nil {
			out <- ScanResult{Err: err}
			return
		}

		kvCh, errCh := tx.GetRange(ctx, begin, end, snapshot)
		for item := range kvCh {
			edge, ok, err := s.decode(ordering, item.Key)
			if err != nil {
				out <- ScanResult{Err: err}
				return
			}
			if !ok {
				continue
			}
			if !matchesPattern(p, edge) {
				continue
			}
			select {
			case out <- ScanResult{Edge: edge, Value: item.Value}:
			case <-ctx.Done():
				out <- ScanResult{Err: ctx.Err()}
				return
			}
		}
		if err := <-errCh; err != nil {
			out <- ScanResult{Err: pkgerrors.NewStoreFatal("Scanner.Scan", err)}
		}
	}()

	return out
}

// rangeFor builds [begin, end) for ordering given the pattern's bound
// prefix. When efficient is false, the range is the ordering's entire
// subspace and a post-filter (applied by the caller) is mandatory.
func (s *Scanner) rangeFor(ordering Ordering, p Pattern, efficient bool) (begin, end []byte, err error) {
	sub, err := s.base.Sub(int64(ordering))
	if err != nil {
		return nil, nil, err
	}
	if !efficient {
		b, e := sub.Range()
		return b, e, nil
	}

	prefixElems := boundPrefix(ordering, p)
	if len(prefixElems) == 0 {
		b, e := sub.Range()
		return b, e, nil
	}
	// The graph slot only extends the prefix when all three triple slots
	// are bound (§4.3); otherwise it stays a post-filter.
	if s.quad && len(prefixElems) == 3 && p.Graph != nil {
		prefixElems = append(prefixElems, *p.Graph)
	}
	prefixKey, err := sub.Pack(prefixElems)
	if err != nil {
		return nil, nil, err
	}
	if len(prefixKey) > s.keySizeLimit {
		return nil, nil, pkgerrors.NewKeyTooLarge(prefixKey, s.keySizeLimit)
	}
	return prefixKey, kv.Strinc(prefixKey), nil
}

// boundPrefix returns the longest run of leading bound elements in
// ordering's packed field order — the "longest bound prefix consistent
// with the ordering" (§4.2 "Range construction").
func boundPrefix(ordering Ordering, p Pattern) []kv.Element {
	fields := ordering.fieldOrder()
	var out []kv.Element
	for _, f := range fields {
		var bound *kv.Element
		switch f {
		case fieldFrom:
			bound = p.From
		case fieldEdge:
			bound = p.EdgeLabel
		case fieldTo:
			bound = p.To
		}
		if bound == nil {
			break
		}
		out = append(out, *bound)
	}
	return out
}

type tripleField int

const (
	fieldFrom tripleField = iota
	fieldEdge
	fieldTo
)

// fieldOrder reports which logical field occupies each packed position
// for this ordering, mirroring pack()/project().
func (o Ordering) fieldOrder() [3]tripleField {
	switch o {
	case OUT, SPO:
		return [3]tripleField{fieldFrom, fieldEdge, fieldTo}
	case IN:
		return [3]tripleField{fieldTo, fieldEdge, fieldFrom}
	case POS:
		return [3]tripleField{fieldEdge, fieldTo, fieldFrom}
	case OSP:
		return [3]tripleField{fieldTo, fieldFrom, fieldEdge}
	case SOP:
		return [3]tripleField{fieldFrom, fieldTo, fieldEdge}
	case PSO:
		return [3]tripleField{fieldEdge, fieldFrom, fieldTo}
	case OPS:
		return [3]tripleField{fieldTo, fieldEdge, fieldFrom}
	default:
		return [3]tripleField{}
	}
}

// decode unpacks key (which includes the ordering prefix byte) back into
// an Edge, rejecting keys whose arity is not exactly 4 (ordering id plus
// three triple slots), or 5 in quad mode (plus the graph slot).
func (s *Scanner) decode(ordering Ordering, key []byte) (Edge, bool, error) {
	elems, ok := s.base.Strip(key)
	if !ok {
		return Edge{}, false, nil
	}
	decoded, err := kv.Unpack(elems)
	if err != nil {
		return Edge{}, false, pkgerrors.NewStoreFatal("Scanner.decode", err)
	}
	wantArity := 4
	if s.quad {
		wantArity = 5
	}
	if len(decoded) != wantArity {
		return Edge{}, false, pkgerrors.NewUnexpectedArity(ordering.String(), len(decoded), wantArity)
	}
	id, ok := decoded[0].(int64)
	if !ok || Ordering(id) != ordering {
		return Edge{}, false, nil
	}
	sl, ok := ordering.project(decoded[1:4])
	if !ok {
		return Edge{}, false, pkgerrors.NewUnknownOrdering(int(id))
	}
	edge := Edge{From: sl.from, EdgeLabel: sl.edge, To: sl.to}
	if s.quad {
		edge.Graph, edge.HasGraph = decoded[4], true
	}
	return edge, true, nil
}

func matchesPattern(p Pattern, e Edge) bool {
	if p.From != nil && !elementsEqual(*p.From, e.From) {
		return false
	}
	if p.EdgeLabel != nil && !elementsEqual(*p.EdgeLabel, e.EdgeLabel) {
		return false
	}
	if p.To != nil && !elementsEqual(*p.To, e.To) {
		return false
	}
	if p.Graph != nil {
		if !e.HasGraph || !elementsEqual(*p.Graph, e.Graph) {
			return false
		}
	}
	return true
}

func elementsEqual(a, b kv.Element) bool {
	cmp, ok := compare(a, b)
	return ok && cmp == 0
}

// BatchScan issues one scan per id when bound label narrows each
// individual scan, or a single full-subspace scan with a hash-set filter
// when the label is wildcard and len(ids) is at or above the configured
// threshold — the cheaper of the two per §4.2 "Batch scan". On the per-id
// path results are the concatenation of per-id outputs in ids' input
// order; on the single-scan path they arrive in key order.
func (s *Scanner) BatchScan(ctx context.Context, tx kv.Reader, ids []kv.Element, label *kv.Element, direction Direction, snapshot bool) <-chan ScanResult {
	out := make(chan ScanResult)

	go func() {
		defer close(out)

		if label == nil && len(ids) >= s.batchThreshold {
			s.batchScanBySubspace(ctx, tx, ids, direction, snapshot, out)
			return
		}

		for _, id := range ids {
			p := patternForDirection(direction, id, label)
			for r := range s.Scan(ctx, tx, p, snapshot) {
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
				if r.Err != nil {
					return
				}
			}
		}
	}()

	return out
}

// Direction picks which slot of the triple a one-hop/batch lookup binds.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

func patternForDirection(direction Direction, id kv.Element, label *kv.Element) Pattern {
	switch direction {
	case Outgoing:
		return Pattern{From: &id, EdgeLabel: label}
	default:
		return Pattern{To: &id, EdgeLabel: label}
	}
}

func (s *Scanner) batchScanBySubspace(ctx context.Context, tx kv.Reader, ids []kv.Element, direction Direction, snapshot bool, out chan<- ScanResult) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		packed, err := kv.Pack([]kv.Element{id})
		if err != nil {
			out <- ScanResult{Err: err}
			return
		}
		wanted[string(packed)] = true
	}

	p := Pattern{}
	for r := range s.Scan(ctx, tx, p, snapshot) {
		if r.Err != nil {
			out <- r
			return
		}
		var key kv.Element
		if direction == Outgoing {
			key = r.Edge.From
		} else {
			key = r.Edge.To
		}
		packed, err := kv.Pack([]kv.Element{key})
		if err != nil {
			out <- ScanResult{Err: err}
			return
		}
		if !wanted[string(packed)] {
			continue
		}
		select {
		case out <- r:
		case <-ctx.Done():
			return
		}
	}
}
