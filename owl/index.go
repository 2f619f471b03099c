package owl

import "sync"

// Index provides O(1) lookups over an ontology's axiom set, grouped by
// the dimension each reasoning step needs (direct superclasses of a
// class, disjointness pairs, property assertions by subject, ...). It is
// rebuilt lazily from Ontology.Axioms() on first access after an
// invalidation and cached until the next mutation.
type Index struct {
	mu    sync.Mutex
	owner *Ontology
	built bool

	directSuper      map[string][]*ClassExpr
	equivalents      map[string][]string
	disjoint         map[string]map[string]bool
	classAssertions  map[string][]*ClassExpr
	objectAssertions map[string][]ObjectFact
	dataAssertions   map[string][]DataFact
}

type ObjectFact struct {
	Property string
	Target   string
}

type DataFact struct {
	Property string
	Value    string
}

func newIndex(o *Ontology) *Index {
	return &Index{owner: o}
}

func (ix *Index) invalidate() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.built = false
}

func (ix *Index) ensureBuilt() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.built {
		return
	}
	ix.directSuper = make(map[string][]*ClassExpr)
	ix.equivalents = make(map[string][]string)
	ix.disjoint = make(map[string]map[string]bool)
	ix.classAssertions = make(map[string][]*ClassExpr)
	ix.objectAssertions = make(map[string][]ObjectFact)
	ix.dataAssertions = make(map[string][]DataFact)

	for _, a := range ix.owner.axioms {
		switch a.Kind {
		case AxSubClassOf:
			if a.Sub.Kind == ExprAtomic {
				ix.directSuper[a.Sub.Class] = append(ix.directSuper[a.Sub.Class], a.Super)
			}
		case AxEquivalentClasses:
			names := atomicNames(a.Classes)
			for _, n := range names {
				ix.equivalents[n] = append(ix.equivalents[n], namesExcept(names, n)...)
			}
		case AxDisjointClasses:
			ix.addDisjointSet(atomicNames(a.Classes))
		case AxDisjointUnion:
			// Classes[0] is the union class; the remainder are its
			// pairwise-disjoint, jointly-exhaustive parts.
			parts := atomicNames(a.Classes[1:])
			ix.addDisjointSet(parts)
			for _, p := range parts {
				ix.directSuper[p] = append(ix.directSuper[p], a.Classes[0])
			}
		case AxClassAssertion:
			ix.classAssertions[a.Individual] = append(ix.classAssertions[a.Individual], a.Class)
		case AxObjectPropertyAssertion:
			ix.objectAssertions[a.Individual] = append(ix.objectAssertions[a.Individual], ObjectFact{a.Property, a.Target})
		case AxDataPropertyAssertion:
			ix.dataAssertions[a.Individual] = append(ix.dataAssertions[a.Individual], DataFact{a.Property, a.Value})
		}
	}
	ix.built = true
}

func (ix *Index) addDisjointSet(names []string) {
	for _, a := range names {
		if ix.disjoint[a] == nil {
			ix.disjoint[a] = make(map[string]bool)
		}
		for _, b := range names {
			if a != b {
				ix.disjoint[a][b] = true
			}
		}
	}
}

func atomicNames(cs []*ClassExpr) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.Kind == ExprAtomic {
			out = append(out, c.Class)
		}
	}
	return out
}

func namesExcept(names []string, except string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != except {
			out = append(out, n)
		}
	}
	return out
}

// DirectSuperclasses returns the immediate (asserted, not transitive)
// superclass expressions of the named class.
func (ix *Index) DirectSuperclasses(class string) []*ClassExpr {
	ix.ensureBuilt()
	return ix.directSuper[class]
}

// EquivalentTo returns the classes asserted equivalent to the named
// class.
func (ix *Index) EquivalentTo(class string) []string {
	ix.ensureBuilt()
	return ix.equivalents[class]
}

// AreDisjoint reports whether a and b are asserted pairwise-disjoint.
func (ix *Index) AreDisjoint(a, b string) bool {
	ix.ensureBuilt()
	return ix.disjoint[a] != nil && ix.disjoint[a][b]
}

// ClassAssertions returns the class expressions asserted of the named
// individual via classAssertion axioms.
func (ix *Index) ClassAssertions(individual string) []*ClassExpr {
	ix.ensureBuilt()
	return ix.classAssertions[individual]
}

// ObjectAssertions returns the (property, target) facts asserted of the
// named individual.
func (ix *Index) ObjectAssertions(individual string) []ObjectFact {
	ix.ensureBuilt()
	return ix.objectAssertions[individual]
}

// DataAssertions returns the (property, value) facts asserted of the
// named individual.
func (ix *Index) DataAssertions(individual string) []DataFact {
	ix.ensureBuilt()
	return ix.dataAssertions[individual]
}
