package tableaux

import (
	"github.com/google/uuid"

	"graphreason/owl"
)

type choiceKind int

const (
	choiceDisjunction choiceKind = iota
	choiceOneOf
)

// choicePoint is one non-deterministic branch point: a disjunction's
// disjuncts, or a oneOf's candidate individuals. index is the
// alternative currently applied (0-based); backtrack() advances it.
type choicePoint struct {
	kind    choiceKind
	uuid    string // log-correlation id, stable across backtracking
	node    NodeID
	trailPos int // trail length immediately before the first alternative was applied

	disjuncts []*owl.ClassExpr // choiceDisjunction
	individuals []string       // choiceOneOf
	index     int
}

// topChoicePointUUID returns the log-correlation id of the choice point
// backtrack() will act on next, or "" if the stack is empty.
func (g *CompletionGraph) topChoicePointUUID() string {
	if len(g.choicePoints) == 0 {
		return ""
	}
	return g.choicePoints[len(g.choicePoints)-1].uuid
}

func (cp *choicePoint) alternativeCount() int {
	if cp.kind == choiceDisjunction {
		return len(cp.disjuncts)
	}
	return len(cp.individuals)
}

// CreateChoicePoint pushes a new disjunction choice point at node n,
// applying alternative 0 immediately, and records it in the trail.
func (g *CompletionGraph) createChoicePoint(n NodeID, disjuncts []*owl.ClassExpr) {
	cp := &choicePoint{kind: choiceDisjunction, uuid: uuid.New().String(), node: n, trailPos: g.trail.mark(), disjuncts: disjuncts}
	g.choicePoints = append(g.choicePoints, cp)
	g.trail.push(trailEntry{kind: entryChoicePointMarker})
	g.addConcept(n, disjuncts[0])
}

// createOneOfChoicePoint pushes a oneOf choice point at node n, merging
// n into the nominal for individuals[0] immediately.
func (g *CompletionGraph) createOneOfChoicePoint(n NodeID, individuals []string) {
	cp := &choicePoint{kind: choiceOneOf, uuid: uuid.New().String(), node: n, trailPos: g.trail.mark(), individuals: individuals}
	g.choicePoints = append(g.choicePoints, cp)
	g.trail.push(trailEntry{kind: entryChoicePointMarker})
	target := g.getOrCreateNominal(individuals[0])
	if target != n {
		g.mergeNodes(target, n)
	}
}

// backtrack pops choice points until one has an untried alternative,
// undoing trail actions back to that choice point's position and
// applying the next alternative. Returns (node, true) if a replacement
// choice was applied, or (0, false) if the choice-point stack is
// exhausted.
func (g *CompletionGraph) backtrack() (NodeID, bool) {
	for len(g.choicePoints) > 0 {
		top := g.choicePoints[len(g.choicePoints)-1]
		if top.index+1 < top.alternativeCount() {
			g.trail.truncateTo(g, top.trailPos)
			top.index++
			if top.kind == choiceDisjunction {
				g.addConcept(top.node, top.disjuncts[top.index])
			} else {
				target := g.getOrCreateNominal(top.individuals[top.index])
				if target != top.node {
					g.mergeNodes(target, top.node)
				}
			}
			g.trail.push(trailEntry{kind: entryChoicePointMarker})
			return top.node, true
		}
		// Exhausted: undo back past this choice point's first
		// alternative and discard it.
		g.trail.truncateTo(g, top.trailPos)
		g.choicePoints = g.choicePoints[:len(g.choicePoints)-1]
	}
	return 0, false
}
