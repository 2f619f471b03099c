package tableaux

// reasonerCache holds the three canonicalized-expression caches §4.7
// names: satisfiability, subsumption pairs, and per-individual types.
// All three live behind Reasoner.mu; nothing here is safe for
// independent concurrent access.
type reasonerCache struct {
	sat            map[string]Satisfiability
	subsumption    map[string]bool
	individualType map[string]string // individual -> canonicalized type expr
}

func newReasonerCache() *reasonerCache {
	return &reasonerCache{
		sat:            make(map[string]Satisfiability),
		subsumption:    make(map[string]bool),
		individualType: make(map[string]string),
	}
}
