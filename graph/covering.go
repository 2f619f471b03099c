package graph

import (
	"fmt"

	"graphreason/kv"
)

// CoveringSpec declares which record fields an index row carries alongside
// its key, in a fixed declaration order — the "stored fields" of §6.
type CoveringSpec struct {
	Fields []string
}

// presenceBytes returns how many bytes the presence bitmap occupies for n
// declared fields, rounded up to a whole byte.
func presenceBytes(n int) int {
	return (n + 7) / 8
}

// EncodeCovering packs values into the PRESENCE‖F₁‖F₂‖…‖Fₙ format (§6): one
// presence bit per declared field (LSB-first within each byte), followed
// by the tuple-encoded bytes of every present field in declaration order.
// values maps field name to (element, present); an absent entry or a
// missing key both mean "absent" for that field.
func (spec CoveringSpec) EncodeCovering(values map[string]fieldValue) ([]byte, error) {
	n := len(spec.Fields)
	presence := make([]byte, presenceBytes(n))
	var payload []byte

	for i, f := range spec.Fields {
		fv, ok := values[f]
		if !ok || !fv.present {
			continue
		}
		presence[i/8] |= 1 << uint(i%8)
		packed, err := kv.Pack([]kv.Element{fv.value})
		if err != nil {
			return nil, fmt.Errorf("covering field %q: %w", f, err)
		}
		payload = append(payload, packed...)
	}

	out := make([]byte, 0, len(presence)+len(payload))
	out = append(out, presence...)
	out = append(out, payload...)
	return out, nil
}

// fieldValue is a field's value together with whether it is present at
// all (distinct from present-with-nil).
type fieldValue struct {
	value   kv.Element
	present bool
}

// DecodeCovering reverses EncodeCovering, returning every declared field's
// value keyed by name; fields whose presence bit is clear are omitted
// from the result entirely so callers can distinguish absent from null by
// a plain map lookup (comma-ok).
func (spec CoveringSpec) DecodeCovering(raw []byte) (map[string]kv.Element, error) {
	n := len(spec.Fields)
	pb := presenceBytes(n)
	if len(raw) < pb {
		return nil, fmt.Errorf("covering value shorter than presence bitmap: got %d bytes, want at least %d", len(raw), pb)
	}
	presence := raw[:pb]
	rest := raw[pb:]

	out := make(map[string]kv.Element, n)
	offset := 0
	for i, f := range spec.Fields {
		if presence[i/8]&(1<<uint(i%8)) == 0 {
			continue
		}
		elems, consumed, err := unpackOne(rest[offset:])
		if err != nil {
			return nil, fmt.Errorf("covering field %q: %w", f, err)
		}
		out[f] = elems
		offset += consumed
	}
	return out, nil
}

// unpackOne decodes exactly one tuple element from the front of b and
// reports how many bytes it consumed, so covering decode can walk a
// concatenation of self-delimited single-element tuples.
func unpackOne(b []byte) (kv.Element, int, error) {
	elems, err := kv.Unpack(b)
	if err != nil {
		return nil, 0, err
	}
	if len(elems) == 0 {
		return nil, 0, fmt.Errorf("expected at least one element, got none")
	}
	// kv.Unpack decodes the whole buffer; re-pack the first element to
	// learn its exact byte length so the remaining fields can be walked.
	packed, err := kv.Pack(elems[:1])
	if err != nil {
		return nil, 0, err
	}
	return elems[0], len(packed), nil
}
