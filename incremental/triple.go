// Package incremental implements the DRed (Delete-and-Rederive)
// incremental materializer: forward-chaining derivation plus the
// provenance bookkeeping that lets a triple deletion invalidate only
// the inferences it actually supports, reconfirming any that have an
// independent derivation (§4.8).
package incremental

import "fmt"

// TypePredicate is the predicate used for class-membership triples,
// the only shape the default Materializer understands.
const TypePredicate = "rdf:type"

// Triple is a single ABox fact (s, p, o), each component a plain IRI or
// literal string — the incremental layer never needs the tuple codec's
// ordering guarantees, only equality and hashing.
type Triple struct {
	S, P, O string
}

func (t Triple) String() string { return fmt.Sprintf("(%s %s %s)", t.S, t.P, t.O) }

// Key returns a string suitable for map-keying a triple.
func (t Triple) Key() string { return t.S + "\x00" + t.P + "\x00" + t.O }
