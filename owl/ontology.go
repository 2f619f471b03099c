package owl

import (
	"fmt"
	"sync"
)

// PropertyCharacteristic names one of the SHOIN(D) role characteristics
// an object property may carry.
type PropertyCharacteristic int

const (
	Transitive PropertyCharacteristic = iota
	Symmetric
	Asymmetric
	Reflexive
	Irreflexive
	Functional
	InverseFunctional
)

// ObjectProperty is a named role: an edge label admitted into the
// completion graph's role hierarchy.
type ObjectProperty struct {
	Name            string
	Inverse         string // "" if none declared
	Characteristics map[PropertyCharacteristic]bool
	Domain          *ClassExpr
	Range           *ClassExpr
	SubPropertyOf   []string
	EquivalentTo    []string
	chainOf         [][]string // property-chain axioms this role is implied by
}

func newObjectProperty(name string) *ObjectProperty {
	return &ObjectProperty{Name: name, Characteristics: make(map[PropertyCharacteristic]bool)}
}

// Has reports whether the property carries characteristic c.
func (p *ObjectProperty) Has(c PropertyCharacteristic) bool { return p.Characteristics[c] }

// DataProperty is a named datatype-valued role.
type DataProperty struct {
	Name     string
	Domain   *ClassExpr
	Range    DataRange
	Functional bool
}

// AxiomKind tags an axiom's shape for provenance and DRed bookkeeping.
type AxiomKind int

const (
	AxSubClassOf AxiomKind = iota
	AxEquivalentClasses
	AxDisjointClasses
	AxDisjointUnion
	AxClassAssertion
	AxObjectPropertyAssertion
	AxDataPropertyAssertion
	AxSubObjectProperty
	AxEquivalentObjectProperties
	AxInverseObjectProperties
	AxPropertyChain
	AxObjectPropertyCharacteristic
)

// Axiom is one ontology assertion. Only the fields relevant to Kind are
// populated.
type Axiom struct {
	Kind AxiomKind

	Sub, Super *ClassExpr // SubClassOf
	Classes    []*ClassExpr // EquivalentClasses, DisjointClasses, DisjointUnion (Classes[0] is the union class for DisjointUnion)

	Individual string     // ClassAssertion, propertyAssertion subject
	Class      *ClassExpr // ClassAssertion

	Property string // object/data-propertyAssertion, sub/equivalent/inverse property
	Target   string // object-propertyAssertion object / inverse-property target
	Value    string // data-propertyAssertion literal

	SubProperty, SuperProperty string // SubObjectProperty
	Chain                      []string // PropertyChain: chain of roles implying Property

	Characteristic PropertyCharacteristic
}

// Ontology holds the full set of classes, properties, individuals, and
// axioms that ground a reasoning session. All mutation goes through its
// methods so the Ontology Index (index.go) and hierarchies
// (classhierarchy.go, rolehierarchy.go) stay consistent; callers never
// write the underlying maps directly.
type Ontology struct {
	mu sync.RWMutex

	classes      map[string]bool
	objectProps  map[string]*ObjectProperty
	dataProps    map[string]*DataProperty
	individuals  map[string]bool
	axioms       []Axiom

	index *Index
	ch    *ClassHierarchy
	rh    *RoleHierarchy
}

// New returns an empty ontology.
func New() *Ontology {
	o := &Ontology{
		classes:     make(map[string]bool),
		objectProps: make(map[string]*ObjectProperty),
		dataProps:   make(map[string]*DataProperty),
		individuals: make(map[string]bool),
	}
	o.index = newIndex(o)
	o.ch = newClassHierarchy(o)
	o.rh = newRoleHierarchy(o)
	return o
}

// Index returns the ontology's lookup index.
func (o *Ontology) Index() *Index { return o.index }

// ClassHierarchy returns the ontology's (lazily recomputed) subsumption
// closure.
func (o *Ontology) ClassHierarchy() *ClassHierarchy { return o.ch }

// RoleHierarchy returns the ontology's (lazily recomputed) role
// subsumption closure.
func (o *Ontology) RoleHierarchy() *RoleHierarchy { return o.rh }

// DeclareClass registers a named class.
func (o *Ontology) DeclareClass(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.classes[name] = true
	o.invalidate()
}

// DeclareObjectProperty registers an object property, returning its
// mutable descriptor for characteristic/domain/range assignment.
func (o *Ontology) DeclareObjectProperty(name string) *ObjectProperty {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.objectProps[name]
	if !ok {
		p = newObjectProperty(name)
		o.objectProps[name] = p
	}
	o.invalidate()
	return p
}

// DeclareDataProperty registers a data property.
func (o *Ontology) DeclareDataProperty(name string, r DataRange) *DataProperty {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.dataProps[name]
	if !ok {
		p = &DataProperty{Name: name, Range: r}
		o.dataProps[name] = p
	}
	o.invalidate()
	return p
}

// DeclareIndividual registers a named individual.
func (o *Ontology) DeclareIndividual(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.individuals[name] = true
}

// AddAxiom appends an axiom and invalidates the class/role hierarchy
// caches (§9: "any ontology mutation invalidates cached classification
// results").
func (o *Ontology) AddAxiom(a Axiom) error {
	if err := validateAxiom(a); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.axioms = append(o.axioms, a)
	o.invalidate()
	return nil
}

// RemoveAxiomAt removes the axiom at index i and invalidates the cached
// hierarchies and index.
func (o *Ontology) RemoveAxiomAt(i int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i < 0 || i >= len(o.axioms) {
		return fmt.Errorf("owl: axiom index %d out of range", i)
	}
	o.axioms = append(o.axioms[:i], o.axioms[i+1:]...)
	o.invalidate()
	return nil
}

// Axioms returns a snapshot copy of the current axiom set.
func (o *Ontology) Axioms() []Axiom {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Axiom, len(o.axioms))
	copy(out, o.axioms)
	return out
}

// Classes returns the set of declared class names.
func (o *Ontology) Classes() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.classes))
	for c := range o.classes {
		out = append(out, c)
	}
	return out
}

// ObjectProperty looks up a declared object property by name.
func (o *Ontology) ObjectProperty(name string) (*ObjectProperty, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.objectProps[name]
	return p, ok
}

// ObjectProperties returns the names of every declared object property.
func (o *Ontology) ObjectProperties() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.objectProps))
	for name := range o.objectProps {
		out = append(out, name)
	}
	return out
}

// DataProperty looks up a declared data property by name.
func (o *Ontology) DataProperty(name string) (*DataProperty, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.dataProps[name]
	return p, ok
}

// invalidate drops the cached hierarchy closures; callers must hold o.mu.
func (o *Ontology) invalidate() {
	o.ch.invalidate()
	o.rh.invalidate()
	o.index.invalidate()
}

func validateAxiom(a Axiom) error {
	switch a.Kind {
	case AxSubClassOf:
		if a.Sub == nil || a.Super == nil {
			return fmt.Errorf("owl: subClassOf axiom missing sub or super expression")
		}
	case AxEquivalentClasses, AxDisjointClasses, AxDisjointUnion:
		if len(a.Classes) < 2 {
			return fmt.Errorf("owl: %v axiom requires at least two classes", a.Kind)
		}
	case AxClassAssertion:
		if a.Individual == "" || a.Class == nil {
			return fmt.Errorf("owl: classAssertion axiom missing individual or class")
		}
	case AxObjectPropertyAssertion:
		if a.Individual == "" || a.Property == "" || a.Target == "" {
			return fmt.Errorf("owl: objectPropertyAssertion axiom incomplete")
		}
	case AxDataPropertyAssertion:
		if a.Individual == "" || a.Property == "" {
			return fmt.Errorf("owl: dataPropertyAssertion axiom incomplete")
		}
	case AxSubObjectProperty:
		if a.SubProperty == "" || a.SuperProperty == "" {
			return fmt.Errorf("owl: subObjectProperty axiom incomplete")
		}
	case AxEquivalentObjectProperties, AxInverseObjectProperties:
		if a.Property == "" || a.Target == "" {
			return fmt.Errorf("owl: property-pair axiom incomplete")
		}
	case AxPropertyChain:
		if a.Property == "" || len(a.Chain) == 0 {
			return fmt.Errorf("owl: propertyChain axiom incomplete")
		}
	case AxObjectPropertyCharacteristic:
		if a.Property == "" {
			return fmt.Errorf("owl: property characteristic axiom missing property")
		}
	}
	return nil
}
