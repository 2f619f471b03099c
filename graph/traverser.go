package graph

import (
	"context"

	"graphreason/kv"
)

// LeveledNode is one node the Traverser emits, tagged with its BFS depth
// from the start node.
type LeveledNode struct {
	Depth int
	Node  kv.Element
}

// TraverseResult is one item of a BFS stream: a LeveledNode or a terminal
// error.
type TraverseResult struct {
	Node LeveledNode
	Err  error
}

// Traverser is C5: one-hop neighbor lookup plus batched, multi-transaction
// BFS with bounded results and deterministic resumption tokens.
type Traverser struct {
	store     kv.Store
	scanner   *Scanner
	batchSize int
}

// NewTraverser builds a Traverser. scanner supplies one-hop neighbor
// lookups via the same index the Edge Scanner reads.
func NewTraverser(store kv.Store, scanner *Scanner, batchSize int) *Traverser {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &Traverser{store: store, scanner: scanner, batchSize: batchSize}
}

func keyOf(e kv.Element) (string, error) {
	packed, err := kv.Pack([]kv.Element{e})
	if err != nil {
		return "", err
	}
	return string(packed), nil
}

// OneHop yields node's neighbors in the given direction through tx,
// optionally restricted to a bound edge label.
func (t *Traverser) OneHop(ctx context.Context, tx kv.Reader, node kv.Element, label *kv.Element, direction Direction, snapshot bool) ([]kv.Element, error) {
	p := patternForDirection(direction, node, label)
	var out []kv.Element
	for r := range t.scanner.Scan(ctx, tx, p, snapshot) {
		if r.Err != nil {
			return nil, r.Err
		}
		if direction == Outgoing {
			out = append(out, r.Edge.To)
		} else {
			out = append(out, r.Edge.From)
		}
	}
	return out, nil
}

// expandFrontier runs one outer BFS step: it opens one Store transaction
// per batch of B frontier nodes (§4.4 "Why batch within a transaction and
// fold outside"), accumulating every neighbor not already visited and not
// already accumulated this round, and returns them deduplicated. The
// snapshot read mode is used unless the caller asked for read-your-writes.
func (t *Traverser) expandFrontier(ctx context.Context, frontier []kv.Element, label *kv.Element, direction Direction, visited map[string]bool, readYourWrites bool) ([]kv.Element, error) {
	newNodes := make(map[string]kv.Element)

	for i := 0; i < len(frontier); i += t.batchSize {
		end := i + t.batchSize
		if end > len(frontier) {
			end = len(frontier)
		}
		batch := frontier[i:end]

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := t.store.WithTransaction(ctx, kv.TxConfig{ReadYourWrites: readYourWrites}, func(ctx context.Context, tx kv.Transaction) error {
			for _, node := range batch {
				neighbors, err := t.OneHop(ctx, tx, node, label, direction, !readYourWrites)
				if err != nil {
					return err
				}
				for _, nb := range neighbors {
					k, err := keyOf(nb)
					if err != nil {
						return err
					}
					if visited[k] {
						continue
					}
					if _, ok := newNodes[k]; ok {
						continue
					}
					newNodes[k] = nb
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]kv.Element, 0, len(newNodes))
	for _, nb := range newNodes {
		out = append(out, nb)
	}
	return out, nil
}

// BFS streams every node reachable from start within maxDepth hops,
// capped at maxNodes total, emitting `(0, start)` first and then each new
// node as soon as its level is folded (§4.4 "BFS"). Intra-level emission
// order is unspecified; callers must not rely on it.
func (t *Traverser) BFS(ctx context.Context, start kv.Element, maxDepth int, label *kv.Element, direction Direction, maxNodes int, readYourWrites bool) <-chan TraverseResult {
	out := make(chan TraverseResult)

	go func() {
		defer close(out)

		startKey, err := keyOf(start)
		if err != nil {
			out <- TraverseResult{Err: err}
			return
		}
		visited := map[string]bool{startKey: true}
		frontier := []kv.Element{start}
		depth := 0

		out <- TraverseResult{Node: LeveledNode{Depth: 0, Node: start}}

		for depth < maxDepth && len(frontier) > 0 && len(visited) < maxNodes {
			newNodes, err := t.expandFrontier(ctx, frontier, label, direction, visited, readYourWrites)
			if err != nil {
				out <- TraverseResult{Err: err}
				return
			}

			var nextFrontier []kv.Element
			for _, nb := range newNodes {
				if len(visited) >= maxNodes {
					break
				}
				k, err := keyOf(nb)
				if err != nil {
					out <- TraverseResult{Err: err}
					return
				}
				visited[k] = true
				nextFrontier = append(nextFrontier, nb)

				select {
				case out <- TraverseResult{Node: LeveledNode{Depth: depth + 1, Node: nb}}:
				case <-ctx.Done():
					out <- TraverseResult{Err: ctx.Err()}
					return
				}
			}

			frontier = nextFrontier
			depth++
		}
	}()

	return out
}

// TraverseBounded runs a single page of BFS, resuming from cursor if
// given, and returns at most limit newly discovered nodes plus a cursor
// to continue from, or a nil cursor and complete=true once the traversal
// has naturally finished (§4.4 "Bounded/resumable traversal").
func (t *Traverser) TraverseBounded(ctx context.Context, start kv.Element, maxDepth int, label *kv.Element, direction Direction, limit int, cursor *Cursor, readYourWrites bool) ([]LeveledNode, *Cursor, bool, error) {
	var visited map[string]bool
	var visitedElems []kv.Element
	var frontier []kv.Element
	var pending []kv.Element
	depth := 0
	pendingDepth := 0
	var results []LeveledNode

	if cursor == nil {
		startKey, err := keyOf(start)
		if err != nil {
			return nil, nil, false, err
		}
		visited = map[string]bool{startKey: true}
		visitedElems = []kv.Element{start}
		frontier = []kv.Element{start}
		results = append(results, LeveledNode{Depth: 0, Node: start})
	} else {
		visited = make(map[string]bool, len(cursor.visited))
		for _, v := range cursor.visited {
			k, err := keyOf(v)
			if err != nil {
				return nil, nil, false, err
			}
			visited[k] = true
		}
		visitedElems = append([]kv.Element{}, cursor.visited...)
		frontier = append([]kv.Element{}, cursor.frontier...)
		pending = append([]kv.Element{}, cursor.pending...)
		depth = cursor.Depth
		pendingDepth = cursor.PendingDepth
	}

	flushPending := func() bool {
		for len(pending) > 0 && len(results) < limit {
			nb := pending[0]
			pending = pending[1:]
			results = append(results, LeveledNode{Depth: pendingDepth, Node: nb})
		}
		return len(results) >= limit
	}

	if flushPending() {
		return results, &Cursor{Depth: depth, VisitedCount: len(visitedElems), frontier: frontier, visited: visitedElems, PendingDepth: pendingDepth, pending: pending}, false, nil
	}

	for depth < maxDepth && len(frontier) > 0 {
		newNodes, err := t.expandFrontier(ctx, frontier, label, direction, visited, readYourWrites)
		if err != nil {
			return results, nil, false, err
		}

		var nextFrontier []kv.Element
		for _, nb := range newNodes {
			k, err := keyOf(nb)
			if err != nil {
				return results, nil, false, err
			}
			visited[k] = true
			visitedElems = append(visitedElems, nb)
			nextFrontier = append(nextFrontier, nb)
		}

		depth++
		frontier = nextFrontier
		pending = nextFrontier
		pendingDepth = depth

		if flushPending() {
			return results, &Cursor{Depth: depth, VisitedCount: len(visitedElems), frontier: frontier, visited: visitedElems, PendingDepth: pendingDepth, pending: pending}, false, nil
		}
	}

	return results, nil, true, nil
}
