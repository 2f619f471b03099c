package owl

import "sync"

// ClassHierarchy is the transitive closure of subClassOf over named
// classes, recomputed lazily (by repeated fixed-point folding) the
// first time a query runs after an ontology mutation invalidates it.
// Only atomic-to-atomic subsumption edges participate in the closure;
// complex superclass expressions are consulted directly by the Tableaux
// reasoner's subsumption algorithm instead of being flattened in here.
type ClassHierarchy struct {
	mu      sync.Mutex
	owner   *Ontology
	built   bool
	super   map[string]map[string]bool // transitive closure: class -> ancestors
	sub     map[string]map[string]bool // transitive closure: class -> descendants
}

func newClassHierarchy(o *Ontology) *ClassHierarchy {
	return &ClassHierarchy{owner: o}
}

func (ch *ClassHierarchy) invalidate() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.built = false
}

func (ch *ClassHierarchy) ensureBuilt() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.built {
		return
	}

	direct := make(map[string]map[string]bool)
	addAll := func(set map[string]bool) map[string]bool {
		if set == nil {
			set = make(map[string]bool)
		}
		return set
	}

	for c := range ch.owner.classes {
		direct[c] = make(map[string]bool)
	}
	for _, a := range ch.owner.axioms {
		if a.Kind != AxSubClassOf {
			continue
		}
		if a.Sub.Kind == ExprAtomic && a.Super.Kind == ExprAtomic {
			direct[a.Sub.Class] = addAll(direct[a.Sub.Class])
			direct[a.Sub.Class][a.Super.Class] = true
		}
	}
	for _, a := range ch.owner.axioms {
		if a.Kind == AxDisjointUnion {
			for _, part := range a.Classes[1:] {
				if part.Kind == ExprAtomic && a.Classes[0].Kind == ExprAtomic {
					direct[part.Class] = addAll(direct[part.Class])
					direct[part.Class][a.Classes[0].Class] = true
				}
			}
		}
		if a.Kind == AxEquivalentClasses {
			names := atomicNames(a.Classes)
			for _, n1 := range names {
				for _, n2 := range names {
					if n1 != n2 {
						direct[n1] = addAll(direct[n1])
						direct[n1][n2] = true
					}
				}
			}
		}
	}

	// Fixed-point closure over the direct-edge graph: repeatedly fold each
	// node's parents' already-known ancestors into its own set until
	// nothing changes. Bounded by class count, cheap at ontology scale;
	// the Kahn-style topological order only matters for picking a
	// termination-free traversal order, which the fixed point sidesteps.
	closure := make(map[string]map[string]bool)
	for c := range direct {
		closure[c] = make(map[string]bool)
	}
	changed := true
	for changed {
		changed = false
		for c, parents := range direct {
			for p := range parents {
				if !closure[c][p] {
					closure[c][p] = true
					changed = true
				}
				for gp := range closure[p] {
					if !closure[c][gp] {
						closure[c][gp] = true
						changed = true
					}
				}
			}
		}
	}

	descendants := make(map[string]map[string]bool)
	for c := range closure {
		descendants[c] = make(map[string]bool)
	}
	for c, ancestors := range closure {
		for a := range ancestors {
			descendants[a] = addAll(descendants[a])
			descendants[a][c] = true
		}
	}

	ch.super = closure
	ch.sub = descendants
	ch.built = true
}

// IsSubclassOf reports whether sub is a transitive (or direct, or
// equivalent) subclass of super.
func (ch *ClassHierarchy) IsSubclassOf(sub, super string) bool {
	if sub == super {
		return true
	}
	ch.ensureBuilt()
	return ch.super[sub] != nil && ch.super[sub][super]
}

// Ancestors returns every class transitively subsuming class.
func (ch *ClassHierarchy) Ancestors(class string) []string {
	ch.ensureBuilt()
	out := make([]string, 0, len(ch.super[class]))
	for a := range ch.super[class] {
		out = append(out, a)
	}
	return out
}

// Descendants returns every class transitively subsumed by class.
func (ch *ClassHierarchy) Descendants(class string) []string {
	ch.ensureBuilt()
	out := make([]string, 0, len(ch.sub[class]))
	for d := range ch.sub[class] {
		out = append(out, d)
	}
	return out
}

// DirectChildren returns the classes whose closure says super is an
// ancestor but no intermediate class sits strictly between them —
// parent/child edges in the classification tree the reasoner reports.
func (ch *ClassHierarchy) DirectChildren(super string) []string {
	ch.ensureBuilt()
	var out []string
	for d := range ch.sub[super] {
		minimal := true
		for other := range ch.sub[super] {
			if other != d && ch.super[d] != nil && ch.super[d][other] {
				minimal = false
				break
			}
		}
		if minimal {
			out = append(out, d)
		}
	}
	return out
}
