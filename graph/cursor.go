package graph

import (
	"encoding/base64"
	"fmt"

	"graphreason/kv"
)

// Cursor is the opaque resumption token traverseBounded hands back when a
// call stops short of completing the traversal. Encoded, it carries at
// least the depth and visited count the spec requires (§4.4); this
// implementation also carries the full frontier, visited set, and any
// already-discovered-but-not-yet-emitted nodes from the in-progress
// level, so a resumed call reproduces the exact BFS state rather than
// approximating it.
type Cursor struct {
	Depth        int
	VisitedCount int
	PendingDepth int
	frontier     []kv.Element
	visited      []kv.Element
	pending      []kv.Element
}

// Encode serializes the cursor to an opaque string safe to hand back to
// callers and round-trip through DecodeCursor.
func (c Cursor) Encode() (string, error) {
	elems := make([]kv.Element, 0, len(c.frontier)+len(c.visited)+len(c.pending)+5)
	elems = append(elems,
		int64(c.Depth), int64(c.PendingDepth),
		int64(len(c.frontier)), int64(len(c.visited)), int64(len(c.pending)),
	)
	elems = append(elems, c.frontier...)
	elems = append(elems, c.visited...)
	elems = append(elems, c.pending...)

	packed, err := kv.Pack(elems)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// DecodeCursor reverses Encode.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w", err)
	}
	elems, err := kv.Unpack(raw)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w", err)
	}
	if len(elems) < 5 {
		return Cursor{}, fmt.Errorf("decode cursor: truncated header")
	}
	depth, ok1 := elems[0].(int64)
	pendingDepth, ok2 := elems[1].(int64)
	nFrontier, ok3 := elems[2].(int64)
	nVisited, ok4 := elems[3].(int64)
	nPending, ok5 := elems[4].(int64)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return Cursor{}, fmt.Errorf("decode cursor: malformed header")
	}
	rest := elems[5:]
	if int64(len(rest)) < nFrontier+nVisited+nPending {
		return Cursor{}, fmt.Errorf("decode cursor: truncated body")
	}

	c := Cursor{
		Depth:        int(depth),
		PendingDepth: int(pendingDepth),
		VisitedCount: int(nVisited),
		frontier:     append([]kv.Element{}, rest[:nFrontier]...),
		visited:      append([]kv.Element{}, rest[nFrontier:nFrontier+nVisited]...),
		pending:      append([]kv.Element{}, rest[nFrontier+nVisited:nFrontier+nVisited+nPending]...),
	}
	return c, nil
}
