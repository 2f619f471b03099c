package graph

import (
	"fmt"
	"strings"

	"graphreason/kv"
)

// Specification is the generic composite-predicate pattern property
// filters are built from: simple comparisons compose into conjunctions
// without the Property Scanner needing to know about filter internals.
type Specification[T any] interface {
	IsSatisfiedBy(candidate T) bool
	And(other Specification[T]) Specification[T]
	Or(other Specification[T]) Specification[T]
	Not() Specification[T]
}

// BaseSpecification wraps a plain evaluator function as a Specification.
type BaseSpecification[T any] struct {
	evaluator func(T) bool
}

// NewBaseSpecification builds a Specification from an evaluator.
func NewBaseSpecification[T any](evaluator func(T) bool) *BaseSpecification[T] {
	return &BaseSpecification[T]{evaluator: evaluator}
}

func (s *BaseSpecification[T]) IsSatisfiedBy(candidate T) bool { return s.evaluator(candidate) }

func (s *BaseSpecification[T]) And(other Specification[T]) Specification[T] {
	return &AndSpecification[T]{left: s, right: other}
}

func (s *BaseSpecification[T]) Or(other Specification[T]) Specification[T] {
	return &OrSpecification[T]{left: s, right: other}
}

func (s *BaseSpecification[T]) Not() Specification[T] {
	return &NotSpecification[T]{spec: s}
}

// AndSpecification satisfies only when both operands do.
type AndSpecification[T any] struct {
	left, right Specification[T]
}

func (s *AndSpecification[T]) IsSatisfiedBy(c T) bool {
	return s.left.IsSatisfiedBy(c) && s.right.IsSatisfiedBy(c)
}
func (s *AndSpecification[T]) And(other Specification[T]) Specification[T] {
	return &AndSpecification[T]{left: s, right: other}
}
func (s *AndSpecification[T]) Or(other Specification[T]) Specification[T] {
	return &OrSpecification[T]{left: s, right: other}
}
func (s *AndSpecification[T]) Not() Specification[T] { return &NotSpecification[T]{spec: s} }

// OrSpecification satisfies when either operand does.
type OrSpecification[T any] struct {
	left, right Specification[T]
}

func (s *OrSpecification[T]) IsSatisfiedBy(c T) bool {
	return s.left.IsSatisfiedBy(c) || s.right.IsSatisfiedBy(c)
}
func (s *OrSpecification[T]) And(other Specification[T]) Specification[T] {
	return &AndSpecification[T]{left: s, right: other}
}
func (s *OrSpecification[T]) Or(other Specification[T]) Specification[T] {
	return &OrSpecification[T]{left: s, right: other}
}
func (s *OrSpecification[T]) Not() Specification[T] { return &NotSpecification[T]{spec: s} }

// NotSpecification inverts its operand.
type NotSpecification[T any] struct {
	spec Specification[T]
}

func (s *NotSpecification[T]) IsSatisfiedBy(c T) bool { return !s.spec.IsSatisfiedBy(c) }
func (s *NotSpecification[T]) And(other Specification[T]) Specification[T] {
	return &AndSpecification[T]{left: s, right: other}
}
func (s *NotSpecification[T]) Or(other Specification[T]) Specification[T] {
	return &OrSpecification[T]{left: s, right: other}
}
func (s *NotSpecification[T]) Not() Specification[T] { return s.spec }

// FilterOp is one of the comparison operators a PropertyFilter supports.
type FilterOp int

const (
	OpEq FilterOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpHasPrefix
	OpHasSuffix
	OpContains
	OpIn
	OpIsNil
	OpIsNotNil
)

// Row is the decoded covering-value row a PropertyFilter is evaluated
// against: field name to value, with comma-ok presence per §4.3 — a
// missing key means the field is absent, distinct from a present nil.
type Row map[string]kv.Element

// PropertyFilter is one (field, op, value) predicate from the conjunction
// applied by the Property Scanner after key matching but before yielding.
type PropertyFilter struct {
	Field string
	Op    FilterOp
	Value kv.Element
	// Values backs OpIn: the row's field value must equal one of these.
	Values []kv.Element
}

// ToSpecification compiles f into a Specification[Row] the Property
// Scanner can combine with And for the conjunction described in §4.3.
func (f PropertyFilter) ToSpecification() Specification[Row] {
	return NewBaseSpecification(func(row Row) bool {
		value, present := row[f.Field]
		isNil := !present || value == nil

		switch f.Op {
		case OpIsNil:
			return isNil
		case OpIsNotNil:
			return !isNil
		}

		// "all non-nil ops fail on null" (§4.3).
		if isNil {
			return false
		}

		switch f.Op {
		case OpEq:
			cmp, ok := compare(value, f.Value)
			return ok && cmp == 0
		case OpNe:
			cmp, ok := compare(value, f.Value)
			return ok && cmp != 0
		case OpLt:
			cmp, ok := compare(value, f.Value)
			return ok && cmp < 0
		case OpLe:
			cmp, ok := compare(value, f.Value)
			return ok && cmp <= 0
		case OpGt:
			cmp, ok := compare(value, f.Value)
			return ok && cmp > 0
		case OpGe:
			cmp, ok := compare(value, f.Value)
			return ok && cmp >= 0
		case OpHasPrefix:
			s, svOK := asString(value)
			p, pvOK := asString(f.Value)
			return svOK && pvOK && strings.HasPrefix(s, p)
		case OpHasSuffix:
			s, svOK := asString(value)
			p, pvOK := asString(f.Value)
			return svOK && pvOK && strings.HasSuffix(s, p)
		case OpContains:
			s, svOK := asString(value)
			p, pvOK := asString(f.Value)
			return svOK && pvOK && strings.Contains(s, p)
		case OpIn:
			for _, candidate := range f.Values {
				if cmp, ok := compare(value, candidate); ok && cmp == 0 {
					return true
				}
			}
			return false
		default:
			return false
		}
	})
}

// And composes filters into the conjunction the Property Scanner applies;
// an empty filter list yields a specification satisfied by every row.
func And(filters []PropertyFilter) Specification[Row] {
	spec := NewBaseSpecification(func(Row) bool { return true })
	var composed Specification[Row] = spec
	for _, f := range filters {
		composed = composed.And(f.ToSpecification())
	}
	return composed
}

// compare orders two tuple elements of the same underlying kind, failing
// (ok=false) when the kinds are incomparable — e.g. a string compared
// against an int64.
func compare(a, b kv.Element) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case int64:
		bv, ok := b.(int64)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case []byte:
		bv, ok := b.([]byte)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(av), string(bv)), true
	default:
		return 0, false
	}
}

func asString(e kv.Element) (string, bool) {
	switch v := e.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

// validateFilter reports an error for an isIn filter with an empty value
// set, surfaced to callers rather than silently evaluating false for
// every row. Other filters are accepted as given.
func validateFilter(f PropertyFilter) error {
	if f.Op == OpIn && len(f.Values) == 0 {
		return fmt.Errorf("property filter %q: op isIn requires a non-empty value set", f.Field)
	}
	return nil
}
