// Package owl implements the SHOIN(D) domain model: class expressions,
// ontology axioms, role/class hierarchies, and the O(1) Ontology Index the
// Tableaux reasoner (package tableaux) queries.
package owl

import (
	"fmt"
	"sort"
	"strings"
)

// ExprKind tags a ClassExpr's shape.
type ExprKind int

const (
	ExprTop ExprKind = iota
	ExprBottom
	ExprAtomic        // named class
	ExprNot           // ¬C
	ExprAnd           // C ⊓ D ⊓ ...
	ExprOr            // C ⊔ D ⊔ ...
	ExprAll           // ∀R.C
	ExprSome          // ∃R.C
	ExprSelf          // ∃R.Self
	ExprHasValue      // ∃R.{a}  (object hasValue)
	ExprMinCard       // ≥n R.C
	ExprMaxCard       // ≤n R.C
	ExprOneOf         // {a1..an}
	ExprDataSome      // ∃P.D  (data property existential)
	ExprDataAll       // ∀P.D
)

// DataRange describes the value space of a data-∃/∀ restriction, enough
// to pick a witness value for the Data-∃ expansion rule (§4.6).
type DataRange struct {
	// Datatype names the range: "string", "integer", or "enumeration".
	Datatype string
	// Enumeration lists the permitted literal values when Datatype is
	// "enumeration"; the witness is its first element.
	Enumeration []string
}

// Witness returns a concrete value within the range, per §4.6 "Data-∃":
// "" for string, 0 for integer, .first for an enumerated range.
func (d DataRange) Witness() string {
	switch d.Datatype {
	case "integer":
		return "0"
	case "enumeration":
		if len(d.Enumeration) > 0 {
			return d.Enumeration[0]
		}
		return ""
	default:
		return ""
	}
}

// ClassExpr is a node of the class-expression algebra. Only the fields
// relevant to Kind are populated; the rest are zero.
type ClassExpr struct {
	Kind ExprKind

	Class string // ExprAtomic

	Operands []*ClassExpr // ExprAnd, ExprOr
	Sub      *ClassExpr   // ExprNot, ExprAll, ExprSome, ExprDataSome, ExprDataAll

	Role string // ExprAll, ExprSome, ExprSelf, ExprHasValue, ExprMinCard, ExprMaxCard
	Prop string // ExprDataSome, ExprDataAll

	Individual string // ExprHasValue
	Card       int    // ExprMinCard, ExprMaxCard
	Range      DataRange

	Individuals []string // ExprOneOf
}

// Convenience constructors.

func Top() *ClassExpr    { return &ClassExpr{Kind: ExprTop} }
func Bottom() *ClassExpr { return &ClassExpr{Kind: ExprBottom} }
func Atomic(name string) *ClassExpr {
	switch name {
	case "owl:Thing":
		return Top()
	case "owl:Nothing":
		return Bottom()
	default:
		return &ClassExpr{Kind: ExprAtomic, Class: name}
	}
}
func Not(c *ClassExpr) *ClassExpr { return &ClassExpr{Kind: ExprNot, Sub: c} }
func And(cs ...*ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprAnd, Operands: cs}
}
func Or(cs ...*ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprOr, Operands: cs}
}
func All(role string, c *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprAll, Role: role, Sub: c}
}
func Some(role string, c *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprSome, Role: role, Sub: c}
}
func Self(role string) *ClassExpr {
	return &ClassExpr{Kind: ExprSelf, Role: role}
}
func HasValue(role, individual string) *ClassExpr {
	return &ClassExpr{Kind: ExprHasValue, Role: role, Individual: individual}
}
func MinCard(n int, role string, c *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprMinCard, Card: n, Role: role, Sub: c}
}
func MaxCard(n int, role string, c *ClassExpr) *ClassExpr {
	return &ClassExpr{Kind: ExprMaxCard, Card: n, Role: role, Sub: c}
}
func OneOf(individuals ...string) *ClassExpr {
	return &ClassExpr{Kind: ExprOneOf, Individuals: individuals}
}
func DataSome(prop string, r DataRange) *ClassExpr {
	return &ClassExpr{Kind: ExprDataSome, Prop: prop, Range: r}
}
func DataAll(prop string, r DataRange) *ClassExpr {
	return &ClassExpr{Kind: ExprDataAll, Prop: prop, Range: r}
}

// NNF returns the Negation Normal Form of c: negation pushed down to
// atomic subformulas only.
func NNF(c *ClassExpr) *ClassExpr {
	return nnf(c, false)
}

func nnf(c *ClassExpr, negate bool) *ClassExpr {
	switch c.Kind {
	case ExprTop:
		if negate {
			return Bottom()
		}
		return Top()
	case ExprBottom:
		if negate {
			return Top()
		}
		return Bottom()
	case ExprAtomic:
		if negate {
			return Not(c)
		}
		return c
	case ExprNot:
		return nnf(c.Sub, !negate)
	case ExprAnd:
		ops := mapNNF(c.Operands, negate)
		if negate {
			return &ClassExpr{Kind: ExprOr, Operands: ops}
		}
		return &ClassExpr{Kind: ExprAnd, Operands: ops}
	case ExprOr:
		ops := mapNNF(c.Operands, negate)
		if negate {
			return &ClassExpr{Kind: ExprAnd, Operands: ops}
		}
		return &ClassExpr{Kind: ExprOr, Operands: ops}
	case ExprAll:
		if negate {
			return &ClassExpr{Kind: ExprSome, Role: c.Role, Sub: nnf(c.Sub, true)}
		}
		return &ClassExpr{Kind: ExprAll, Role: c.Role, Sub: nnf(c.Sub, false)}
	case ExprSome:
		if negate {
			return &ClassExpr{Kind: ExprAll, Role: c.Role, Sub: nnf(c.Sub, true)}
		}
		return &ClassExpr{Kind: ExprSome, Role: c.Role, Sub: nnf(c.Sub, false)}
	case ExprDataAll:
		if negate {
			return &ClassExpr{Kind: ExprDataSome, Prop: c.Prop, Range: c.Range}
		}
		return c
	case ExprDataSome:
		if negate {
			return &ClassExpr{Kind: ExprDataAll, Prop: c.Prop, Range: c.Range}
		}
		return c
	default:
		// Self, HasValue, MinCard, MaxCard, OneOf: negation is kept as an
		// explicit Not wrapper; the Tableaux clash rules recognize the
		// complement pair directly rather than needing a pushed form.
		if negate {
			return Not(c)
		}
		return c
	}
}

func mapNNF(cs []*ClassExpr, negate bool) []*ClassExpr {
	out := make([]*ClassExpr, len(cs))
	for i, c := range cs {
		out[i] = nnf(c, negate)
	}
	return out
}

// Canonicalize returns a normalized string form of c suitable as a cache
// key: operand lists are sorted so that logically-identical conjunctions/
// disjunctions built in a different operand order canonicalize equal.
func Canonicalize(c *ClassExpr) string {
	return canon(c)
}

func canon(c *ClassExpr) string {
	if c == nil {
		return "⊤"
	}
	switch c.Kind {
	case ExprTop:
		return "⊤"
	case ExprBottom:
		return "⊥"
	case ExprAtomic:
		return c.Class
	case ExprNot:
		return "¬" + canon(c.Sub)
	case ExprAnd:
		return joinSorted("⊓", c.Operands)
	case ExprOr:
		return joinSorted("⊔", c.Operands)
	case ExprAll:
		return fmt.Sprintf("∀%s.%s", c.Role, canon(c.Sub))
	case ExprSome:
		return fmt.Sprintf("∃%s.%s", c.Role, canon(c.Sub))
	case ExprSelf:
		return fmt.Sprintf("∃%s.Self", c.Role)
	case ExprHasValue:
		return fmt.Sprintf("∃%s.{%s}", c.Role, c.Individual)
	case ExprMinCard:
		return fmt.Sprintf("≥%d%s.%s", c.Card, c.Role, canon(c.Sub))
	case ExprMaxCard:
		return fmt.Sprintf("≤%d%s.%s", c.Card, c.Role, canon(c.Sub))
	case ExprOneOf:
		ids := append([]string{}, c.Individuals...)
		sort.Strings(ids)
		return "{" + strings.Join(ids, ",") + "}"
	case ExprDataSome:
		return fmt.Sprintf("∃%s.%s", c.Prop, c.Range.Datatype)
	case ExprDataAll:
		return fmt.Sprintf("∀%s.%s", c.Prop, c.Range.Datatype)
	default:
		return "?"
	}
}

func joinSorted(op string, cs []*ClassExpr) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = canon(c)
	}
	sort.Strings(parts)
	return "(" + strings.Join(parts, op) + ")"
}

// Conjuncts flattens an And-kind expression's immediate operands; for any
// other kind it returns a single-element slice containing c.
func Conjuncts(c *ClassExpr) []*ClassExpr {
	if c.Kind == ExprAnd {
		return c.Operands
	}
	return []*ClassExpr{c}
}

// Disjuncts flattens an Or-kind expression's immediate operands.
func Disjuncts(c *ClassExpr) []*ClassExpr {
	if c.Kind == ExprOr {
		return c.Operands
	}
	return []*ClassExpr{c}
}
