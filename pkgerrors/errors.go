// Package pkgerrors provides the typed error system used across every
// component of the graph/reasoning core. It consolidates the maintainer's
// input-validation failures, the scanner's stream-terminal errors and the
// scanner's decode-invariant violations into one structure so callers
// get the item type, field name and contextual identifiers the spec
// requires instead of an opaque code.
package pkgerrors

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Kind classifies an error into one of four categories.
type Kind string

const (
	KindValidation Kind = "VALIDATION" // caller's fault: bad input
	KindResource   Kind = "RESOURCE"   // key too large, store conflict/fatal
	KindLimit      Kind = "LIMIT"      // not strictly an error: budget/limit reached
	KindInternal   Kind = "INTERNAL"   // programmer error / invariant violation
)

// GraphError is the error type returned by package graph's Maintainer and
// Scanner; the other packages report errors with fmt.Errorf. It always
// carries enough context to render a
// library-grade message: item type, field name, and identifiers.
type GraphError struct {
	Kind      Kind
	Code      string // short machine-readable code, e.g. "fieldNotFound"
	Message   string
	Operation string // the operation that failed, e.g. "Maintainer.update"
	Item      string // record/item type name
	Field     string // field name, when applicable
	KeyHex    string // hex-encoded key/range endpoint, when applicable
	Cause     error
}

func (e *GraphError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.Kind, e.Code, e.Message)
	if e.Operation != "" {
		msg += fmt.Sprintf(" (op=%s)", e.Operation)
	}
	if e.Item != "" {
		msg += fmt.Sprintf(" (item=%s)", e.Item)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.KeyHex != "" {
		msg += fmt.Sprintf(" (key=%s)", e.KeyHex)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *GraphError) Unwrap() error { return e.Cause }

// builder mirrors the teacher's fluent ErrorBuilder.
type builder struct{ err *GraphError }

func newBuilder(kind Kind, code, message string) *builder {
	return &builder{err: &GraphError{Kind: kind, Code: code, Message: message}}
}

func (b *builder) WithOperation(op string) *builder { b.err.Operation = op; return b }
func (b *builder) WithItem(item string) *builder    { b.err.Item = item; return b }
func (b *builder) WithField(field string) *builder  { b.err.Field = field; return b }
func (b *builder) WithKey(key []byte) *builder {
	b.err.KeyHex = hex.EncodeToString(key)
	return b
}
func (b *builder) WithCause(cause error) *builder { b.err.Cause = cause; return b }
func (b *builder) Build() *GraphError             { return b.err }

// Input-error constructors (§7 "Input errors").

// NewFieldNotFound reports a record missing a field the index requires.
func NewFieldNotFound(item, field string) *GraphError {
	return newBuilder(KindValidation, "fieldNotFound", "required field not found").
		WithItem(item).WithField(field).Build()
}

// NewInvalidFieldType reports a field value that cannot be tuple-packed.
func NewInvalidFieldType(item, field string, value interface{}) *GraphError {
	return newBuilder(KindValidation, "invalidFieldType", fmt.Sprintf("value %v is not tuple-packable", value)).
		WithItem(item).WithField(field).Build()
}

// NewMalformedExpression reports an ill-formed class expression.
func NewMalformedExpression(detail string) *GraphError {
	return newBuilder(KindValidation, "malformedExpression", detail).Build()
}

// NewOntologyViolation reports that strict-mode OWL DL regularity failed.
func NewOntologyViolation(detail string) *GraphError {
	return newBuilder(KindValidation, "ontologyViolation", detail).Build()
}

// Resource-error constructors (§7 "Resource errors").

// NewKeyTooLarge reports a packed key exceeding the Store's limit.
func NewKeyTooLarge(key []byte, limit int) *GraphError {
	return newBuilder(KindResource, "keyTooLarge", fmt.Sprintf("packed key is %d bytes, limit is %d", len(key), limit)).
		WithKey(key).Build()
}

// NewStoreConflict wraps a retryable Store commit conflict.
func NewStoreConflict(cause error) *GraphError {
	return newBuilder(KindResource, "storeConflict", "transaction commit conflict, retry per store protocol").
		WithCause(cause).Build()
}

// NewStoreFatal wraps a non-retryable Store error.
func NewStoreFatal(op string, cause error) *GraphError {
	return newBuilder(KindResource, "storeFatal", "store operation failed fatally").
		WithOperation(op).WithCause(cause).Build()
}

// Internal-invariant constructors (§7 "Internal invariant violations").

// NewUnexpectedArity reports a decoded key with the wrong tuple arity.
func NewUnexpectedArity(ordering string, got, want int) *GraphError {
	return newBuilder(KindInternal, "unexpectedArity", fmt.Sprintf("ordering %s decoded %d elements, want %d", ordering, got, want)).Build()
}

// NewUnknownOrdering reports an ordering id the maintainer does not recognize.
func NewUnknownOrdering(id int) *GraphError {
	return newBuilder(KindInternal, "unknownOrdering", fmt.Sprintf("ordering id %d is not known", id)).Build()
}

// Classification helpers.

func Is(err error, kind Kind) bool {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Kind == kind
	}
	return false
}

func IsValidation(err error) bool { return Is(err, KindValidation) }
func IsResource(err error) bool   { return Is(err, KindResource) }
func IsInternal(err error) bool   { return Is(err, KindInternal) }
