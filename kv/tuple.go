package kv

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Element is anything Tuple can pack: string, int64, or []byte, per the
// Tuple contract's minimum element set (§6).
type Element interface{}

const (
	typeNull   byte = 0x00
	typeBytes  byte = 0x01
	typeString byte = 0x02
	typeInt64  byte = 0x03
)

// Pack encodes elements into an order-preserving byte string: the packed
// bytes of tuple A sort before tuple B's iff A is lexicographically
// smaller, matching the ordering the Store imposes on raw keys.
func Pack(elements []Element) ([]byte, error) {
	var buf bytes.Buffer
	for i, e := range elements {
		if err := packOne(&buf, e); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func packOne(buf *bytes.Buffer, e Element) error {
	switch v := e.(type) {
	case nil:
		buf.WriteByte(typeNull)
	case string:
		buf.WriteByte(typeString)
		writeEscaped(buf, []byte(v))
	case []byte:
		buf.WriteByte(typeBytes)
		writeEscaped(buf, v)
	case int64:
		buf.WriteByte(typeInt64)
		var b [8]byte
		// XOR the sign bit so two's-complement int64 values sort the
		// same way as their unsigned big-endian byte representation.
		binary.BigEndian.PutUint64(b[:], uint64(v)^(1<<63))
		buf.Write(b[:])
	case int:
		return packOne(buf, int64(v))
	default:
		return fmt.Errorf("value %v of type %T is not tuple-packable", e, e)
	}
	return nil
}

// writeEscaped writes v terminated by 0x00 0x00, escaping any literal
// 0x00 byte as 0x00 0xFF so the terminator is unambiguous and the
// encoding stays order-preserving byte-for-byte.
func writeEscaped(buf *bytes.Buffer, v []byte) {
	for _, b := range v {
		if b == 0x00 {
			buf.WriteByte(0x00)
			buf.WriteByte(0xFF)
		} else {
			buf.WriteByte(b)
		}
	}
	buf.WriteByte(0x00)
	buf.WriteByte(0x00)
}

// Unpack reverses Pack, returning every element in encoding order.
func Unpack(packed []byte) ([]Element, error) {
	var out []Element
	i := 0
	for i < len(packed) {
		code := packed[i]
		i++
		switch code {
		case typeNull:
			out = append(out, nil)
		case typeString, typeBytes:
			raw, n, err := readEscaped(packed[i:])
			if err != nil {
				return nil, err
			}
			i += n
			if code == typeString {
				out = append(out, string(raw))
			} else {
				out = append(out, raw)
			}
		case typeInt64:
			if i+8 > len(packed) {
				return nil, fmt.Errorf("truncated int64 at offset %d", i)
			}
			u := binary.BigEndian.Uint64(packed[i : i+8])
			out = append(out, int64(u^(1<<63)))
			i += 8
		default:
			return nil, fmt.Errorf("unknown tuple type code 0x%02x at offset %d", code, i-1)
		}
	}
	return out, nil
}

func readEscaped(b []byte) ([]byte, int, error) {
	var out []byte
	i := 0
	for i < len(b) {
		if b[i] == 0x00 {
			if i+1 >= len(b) {
				return nil, 0, fmt.Errorf("truncated escaped string at offset %d", i)
			}
			if b[i+1] == 0x00 {
				return out, i + 2, nil
			}
			if b[i+1] == 0xFF {
				out = append(out, 0x00)
				i += 2
				continue
			}
			return nil, 0, fmt.Errorf("invalid escape sequence at offset %d", i)
		}
		out = append(out, b[i])
		i++
	}
	return nil, 0, fmt.Errorf("unterminated escaped string")
}

// Arity reports how many elements a packed tuple decodes to. It fully
// decodes the tuple via Unpack and returns the element count, for
// readers that reject unexpected arity (§4.2 "Reject keys with
// unexpected arity").
func Arity(packed []byte) (int, error) {
	elems, err := Unpack(packed)
	if err != nil {
		return 0, err
	}
	return len(elems), nil
}
