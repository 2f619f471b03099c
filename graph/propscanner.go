package graph

import (
	"context"

	"graphreason/kv"
)

// PropertyResult is one item the Property Scanner yields: a matching edge
// plus its decoded stored fields.
type PropertyResult struct {
	Edge       Edge
	Properties Row
	Err        error
}

// PropertyScanner extends a Scanner with covering-value decode and
// property-filter early rejection (§4.3).
type PropertyScanner struct {
	scanner  *Scanner
	covering CoveringSpec
}

// NewPropertyScanner builds a PropertyScanner over scanner, decoding rows
// per the given covering spec. scanner must be configured with the same
// covering layout the Maintainer used to write the index.
func NewPropertyScanner(scanner *Scanner, covering CoveringSpec) *PropertyScanner {
	return &PropertyScanner{scanner: scanner, covering: covering}
}

// Scan streams every edge matching pattern and satisfying every filter in
// filters (a conjunction; an empty slice matches every row). Filters are
// applied after key matching but before yielding, per §4.3.
func (ps *PropertyScanner) Scan(ctx context.Context, tx kv.Reader, p Pattern, filters []PropertyFilter, snapshot bool) <-chan PropertyResult {
	out := make(chan PropertyResult)

	for _, f := range filters {
		if err := validateFilter(f); err != nil {
			go func() {
				defer close(out)
				out <- PropertyResult{Err: err}
			}()
			return out
		}
	}

	spec := And(filters)

	go func() {
		defer close(out)

		for r := range ps.scanner.Scan(ctx, tx, p, snapshot) {
			if r.Err != nil {
				out <- PropertyResult{Err: r.Err}
				return
			}

			row, err := ps.decodeRow(r.Value)
			if err != nil {
				out <- PropertyResult{Err: err}
				return
			}

			if !spec.IsSatisfiedBy(row) {
				continue
			}

			select {
			case out <- PropertyResult{Edge: r.Edge, Properties: row}:
			case <-ctx.Done():
				out <- PropertyResult{Err: ctx.Err()}
				return
			}
		}
	}()

	return out
}

func (ps *PropertyScanner) decodeRow(value []byte) (Row, error) {
	if len(value) == 0 && len(ps.covering.Fields) == 0 {
		return Row{}, nil
	}
	decoded, err := ps.covering.DecodeCovering(value)
	if err != nil {
		return nil, err
	}
	return Row(decoded), nil
}
