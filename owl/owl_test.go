package owl_test

import (
	"testing"

	"graphreason/owl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNNFPushesNegationToAtoms(t *testing.T) {
	c := owl.Not(owl.And(owl.Atomic("A"), owl.Some("R", owl.Atomic("B"))))
	n := owl.NNF(c)

	assert.Equal(t, owl.ExprOr, n.Kind)
	assert.Len(t, n.Operands, 2)
	assert.Equal(t, owl.ExprNot, n.Operands[0].Kind)
	assert.Equal(t, owl.ExprAll, n.Operands[1].Kind)
	assert.Equal(t, owl.ExprNot, n.Operands[1].Sub.Kind)
}

func TestCanonicalizeIgnoresOperandOrder(t *testing.T) {
	a := owl.And(owl.Atomic("X"), owl.Atomic("Y"))
	b := owl.And(owl.Atomic("Y"), owl.Atomic("X"))
	assert.Equal(t, owl.Canonicalize(a), owl.Canonicalize(b))
}

func TestClassHierarchyTransitiveClosure(t *testing.T) {
	o := owl.New()
	o.DeclareClass("Cat")
	o.DeclareClass("Mammal")
	o.DeclareClass("Animal")
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("Cat"), Super: owl.Atomic("Mammal")}))
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("Mammal"), Super: owl.Atomic("Animal")}))

	ch := o.ClassHierarchy()
	assert.True(t, ch.IsSubclassOf("Cat", "Animal"))
	assert.True(t, ch.IsSubclassOf("Cat", "Mammal"))
	assert.False(t, ch.IsSubclassOf("Animal", "Cat"))
}

func TestClassHierarchyInvalidatesOnMutation(t *testing.T) {
	o := owl.New()
	o.DeclareClass("A")
	o.DeclareClass("B")
	o.DeclareClass("C")
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("A"), Super: owl.Atomic("B")}))

	ch := o.ClassHierarchy()
	assert.True(t, ch.IsSubclassOf("A", "B"))
	assert.False(t, ch.IsSubclassOf("A", "C"))

	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("B"), Super: owl.Atomic("C")}))
	assert.True(t, o.ClassHierarchy().IsSubclassOf("A", "C"))
}

func TestRoleHierarchyAndInverse(t *testing.T) {
	o := owl.New()
	o.DeclareObjectProperty("hasParent")
	o.DeclareObjectProperty("hasAncestor")
	o.DeclareObjectProperty("hasChild")
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubObjectProperty, SubProperty: "hasParent", SuperProperty: "hasAncestor"}))
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxInverseObjectProperties, Property: "hasParent", Target: "hasChild"}))

	rh := o.RoleHierarchy()
	assert.True(t, rh.IsSubRoleOf("hasParent", "hasAncestor"))
	inv, ok := rh.Inverse("hasParent")
	assert.True(t, ok)
	assert.Equal(t, "hasChild", inv)
}

func TestRegularityDetectsTransitiveInCardinality(t *testing.T) {
	o := owl.New()
	p := o.DeclareObjectProperty("partOf")
	p.Characteristics[owl.Transitive] = true
	require.NoError(t, o.AddAxiom(owl.Axiom{
		Kind: owl.AxSubClassOf,
		Sub:  owl.Atomic("Engine"),
		Super: owl.MaxCard(1, "partOf", owl.Atomic("Car")),
	}))

	violations := owl.CheckOWLDLRegularity(o)
	require.NotEmpty(t, violations)
	assert.Equal(t, owl.ReasonTransitiveInCardinality, violations[0].Reason)
}

func TestRegularityDetectsIncompatibleCharacteristics(t *testing.T) {
	o := owl.New()
	p := o.DeclareObjectProperty("marriedTo")
	p.Characteristics[owl.Symmetric] = true
	p.Characteristics[owl.Asymmetric] = true

	violations := owl.CheckOWLDLRegularity(o)
	found := false
	for _, v := range violations {
		if v.Reason == owl.ReasonIncompatibleCharacteristics && v.Role == "marriedTo" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRegularityCleanOntologyHasNoViolations(t *testing.T) {
	o := owl.New()
	o.DeclareClass("Person")
	o.DeclareObjectProperty("knows")
	require.NoError(t, o.AddAxiom(owl.Axiom{Kind: owl.AxSubClassOf, Sub: owl.Atomic("Person"), Super: owl.Top()}))

	assert.Empty(t, owl.CheckOWLDLRegularity(o))
}
