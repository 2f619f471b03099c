// Package tableaux implements the completion graph and the SHOIN(D)
// expansion-rule engine that decides satisfiability, subsumption, and
// classification over an owl.Ontology (package owl).
package tableaux

import (
	"github.com/google/uuid"

	"graphreason/owl"
)

// NodeID identifies a completion-graph node. The graph is an arena: ids
// are never reused as pointers, only as map keys, so backtracking can
// recreate a removed node's id without dangling references anywhere
// else in the graph (§9 "arena of nodes").
type NodeID int

// DataValue is a data property value recorded at a node.
type DataValue struct {
	Property string
	Value    string
}

// node is the arena's per-id record. CompletionGraph exclusively owns
// it; nothing outside package tableaux ever holds a *node.
type node struct {
	id       NodeID
	uuid     string // log-correlation id, stable across the node's lifetime
	nominal  string // "" if not a nominal
	parent   NodeID // -1 for the root
	depth    int
	blocked  bool
	blockedBy NodeID // valid only when blocked

	concepts map[string]*owl.ClassExpr // canonicalized-string -> expr
	edges    map[string]map[NodeID]bool // role -> successor set
	preds    map[string]map[NodeID]bool // role -> predecessor set
	data     []DataValue

	processedAnd  map[string]bool
	processedOr   map[string]bool
	processedSome map[string]bool
	processedMax  map[string]bool
}

func newNode(id NodeID, parent NodeID, depth int) *node {
	return &node{
		id:            id,
		uuid:          uuid.New().String(),
		parent:        parent,
		depth:         depth,
		blockedBy:     -1,
		concepts:      make(map[string]*owl.ClassExpr),
		edges:         make(map[string]map[NodeID]bool),
		preds:         make(map[string]map[NodeID]bool),
		processedAnd:  make(map[string]bool),
		processedOr:   make(map[string]bool),
		processedSome: make(map[string]bool),
		processedMax:  make(map[string]bool),
	}
}

// UUID returns the node's log-correlation id.
func (n *node) UUID() string { return n.uuid }

func (n *node) hasConcept(key string) bool {
	_, ok := n.concepts[key]
	return ok
}

func (n *node) successors(role string) []NodeID {
	set := n.edges[role]
	out := make([]NodeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func (n *node) predecessors(role string) []NodeID {
	set := n.preds[role]
	out := make([]NodeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func (n *node) clearProcessedFlags() {
	n.processedAnd = make(map[string]bool)
	n.processedOr = make(map[string]bool)
	n.processedSome = make(map[string]bool)
	n.processedMax = make(map[string]bool)
}
