package incremental

import "graphreason/owl"

// Derivation is one forward-chaining step: Conclusion follows from
// Antecedents under the ontology's axioms. A conclusion may have
// several independent Derivations — DRed deletion re-derivation (§4.8
// step 3) relies on that multiplicity.
type Derivation struct {
	Conclusion  Triple
	Antecedents []Triple
}

// Materializer computes the forward-chaining closure of a set of facts:
// Derive returns every new fact each input triple implies, one
// Derivation per (conclusion, antecedent-set) pair.
type Materializer interface {
	Derive(facts []Triple) []Derivation
}

// ClassHierarchyMaterializer derives (s, rdf:type, Ancestor) from every
// asserted (s, rdf:type, C) for each class Ancestor transitively
// subsuming C, per the ontology's ClassHierarchy. This is deliberately
// the single rule the spec's DRed scenario (S5) exercises; a richer
// reasoner-backed materializer can be substituted by implementing the
// same interface.
type ClassHierarchyMaterializer struct {
	Ontology *owl.Ontology
}

func (m ClassHierarchyMaterializer) Derive(facts []Triple) []Derivation {
	var out []Derivation
	ch := m.Ontology.ClassHierarchy()
	for _, f := range facts {
		if f.P != TypePredicate {
			continue
		}
		for _, ancestor := range ch.Ancestors(f.O) {
			if ancestor == f.O {
				continue
			}
			out = append(out, Derivation{
				Conclusion:  Triple{S: f.S, P: TypePredicate, O: ancestor},
				Antecedents: []Triple{f},
			})
		}
	}
	return out
}
