package tableaux

import (
	"fmt"

	"graphreason/owl"
)

// ClashReason names one of the seven contradiction categories §4.6
// requires the reasoner to detect, at every node, before and after rule
// application.
type ClashReason int

const (
	ClashBottom ClashReason = iota
	ClashComplement
	ClashDisjoint
	ClashCardinality
	ClashFunctional
	ClashIrreflexive
	ClashAsymmetric
)

// Clash is one detected contradiction; Node identifies where it was
// found (for diagnostics only — detection always halts the whole
// expansion attempt regardless of which node clashed).
type Clash struct {
	Reason ClashReason
	Node   NodeID
	Detail string
}

func (c Clash) String() string { return fmt.Sprintf("clash(%d) at node %d: %s", c.Reason, c.Node, c.Detail) }

// detectClash scans every live node for the first contradiction it can
// find, in the order listed by §4.6.
func detectClash(g *CompletionGraph) (*Clash, bool) {
	for _, id := range g.Nodes() {
		if c := clashAt(g, id); c != nil {
			return c, true
		}
	}
	return nil, false
}

func clashAt(g *CompletionGraph, id NodeID) *Clash {
	nd := g.nodes[id]

	for key, c := range nd.concepts {
		if c.Kind == owl.ExprBottom {
			return &Clash{Reason: ClashBottom, Node: id, Detail: "owl:Nothing in label"}
		}
		if c.Kind == owl.ExprOneOf && len(c.Individuals) == 0 {
			return &Clash{Reason: ClashBottom, Node: id, Detail: "empty oneOf"}
		}
		if comp := complementKey(c); comp != "" {
			if nd.hasConcept(comp) {
				return &Clash{Reason: ClashComplement, Node: id, Detail: fmt.Sprintf("%s and its complement both present", key)}
			}
		}
	}

	if clash := disjointClashAt(g, nd, id); clash != nil {
		return clash
	}
	if clash := cardinalityClashAt(g, nd, id); clash != nil {
		return clash
	}
	if clash := functionalClashAt(g, nd, id); clash != nil {
		return clash
	}
	if clash := irreflexiveClashAt(g, nd, id); clash != nil {
		return clash
	}
	if clash := asymmetricClashAt(g, nd, id); clash != nil {
		return clash
	}
	return nil
}

// complementKey returns the canonicalized key of c's complement when c
// is an atomic class or its negation, else "".
func complementKey(c *owl.ClassExpr) string {
	switch c.Kind {
	case owl.ExprAtomic:
		return owl.Canonicalize(owl.Not(c))
	case owl.ExprNot:
		if c.Sub.Kind == owl.ExprAtomic {
			return owl.Canonicalize(c.Sub)
		}
	}
	return ""
}

func disjointClashAt(g *CompletionGraph, nd *node, id NodeID) *Clash {
	var named []string
	for _, c := range nd.concepts {
		if c.Kind == owl.ExprAtomic {
			named = append(named, c.Class)
		}
	}
	for i := range named {
		for j := range named {
			if i != j && g.ontology.Index().AreDisjoint(named[i], named[j]) {
				return &Clash{Reason: ClashDisjoint, Node: id, Detail: fmt.Sprintf("%s and %s are disjoint", named[i], named[j])}
			}
		}
	}
	return nil
}

func cardinalityClashAt(g *CompletionGraph, nd *node, id NodeID) *Clash {
	type minEntry struct {
		role string
		n    int
		c    *owl.ClassExpr
	}
	var mins []minEntry
	var maxs []minEntry
	for _, c := range nd.concepts {
		if c.Kind == owl.ExprMinCard {
			mins = append(mins, minEntry{c.Role, c.Card, c.Sub})
		}
		if c.Kind == owl.ExprMaxCard {
			maxs = append(maxs, minEntry{c.Role, c.Card, c.Sub})
		}
	}
	for _, mn := range mins {
		for _, mx := range maxs {
			if mn.role == mx.role && fillerCompatible(mn.c, mx.c) && mn.n > mx.n {
				return &Clash{
					Reason: ClashCardinality, Node: id,
					Detail: fmt.Sprintf("≥%d %s.%s and ≤%d %s.%s", mn.n, mn.role, owl.Canonicalize(mn.c), mx.n, mx.role, owl.Canonicalize(mx.c)),
				}
			}
		}
	}
	return nil
}

// fillerCompatible treats two fillers as compatible when they
// canonicalize identically, or either is owl:Thing (⊤ always compatible
// with anything, matching an unqualified cardinality restriction).
func fillerCompatible(a, b *owl.ClassExpr) bool {
	if a == nil || b == nil {
		return true
	}
	if a.Kind == owl.ExprTop || b.Kind == owl.ExprTop {
		return true
	}
	return owl.Canonicalize(a) == owl.Canonicalize(b)
}

func functionalClashAt(g *CompletionGraph, nd *node, id NodeID) *Clash {
	for role, tos := range nd.edges {
		p, ok := g.ontology.ObjectProperty(role)
		if ok && p.Has(owl.Functional) && len(tos) > 1 {
			return &Clash{Reason: ClashFunctional, Node: id, Detail: fmt.Sprintf("functional role %s has %d successors", role, len(tos))}
		}
	}
	return nil
}

func irreflexiveClashAt(g *CompletionGraph, nd *node, id NodeID) *Clash {
	for role, tos := range nd.edges {
		p, ok := g.ontology.ObjectProperty(role)
		if ok && p.Has(owl.Irreflexive) && tos[id] {
			return &Clash{Reason: ClashIrreflexive, Node: id, Detail: fmt.Sprintf("irreflexive role %s has self-edge", role)}
		}
	}
	return nil
}

func asymmetricClashAt(g *CompletionGraph, nd *node, id NodeID) *Clash {
	for role, tos := range nd.edges {
		p, ok := g.ontology.ObjectProperty(role)
		if !ok || !p.Has(owl.Asymmetric) {
			continue
		}
		for to := range tos {
			if other, ok := g.nodes[to]; ok && other.edges[role] != nil && other.edges[role][id] {
				return &Clash{Reason: ClashAsymmetric, Node: id, Detail: fmt.Sprintf("asymmetric role %s has bidirectional edge with %d", role, to)}
			}
		}
	}
	return nil
}
