package tableaux

import "sort"

// updateBlocking recomputes pairwise blocking across the whole graph:
// unblock everyone, then for each non-nominal node in decreasing depth,
// search its ancestors for one that blocks it (§4.5 "Blocking"). Returns
// the ids that ended up blocked, for logging by the caller.
func (g *CompletionGraph) updateBlocking() []NodeID {
	ids := g.Nodes()
	for _, id := range ids {
		g.setBlocked(id, false, -1)
	}

	sort.Slice(ids, func(i, j int) bool { return g.nodes[ids[i]].depth > g.nodes[ids[j]].depth })

	var blocked []NodeID
	for _, id := range ids {
		nd := g.nodes[id]
		if nd.nominal != "" {
			continue
		}
		for _, anc := range g.ancestors(id) {
			if g.labelSubset(id, anc) && g.rolesSubset(id, anc) {
				g.setBlocked(id, true, anc)
				blocked = append(blocked, id)
				break
			}
		}
	}
	return blocked
}

func (g *CompletionGraph) setBlocked(id NodeID, blocked bool, by NodeID) {
	nd := g.nodes[id]
	if nd.blocked == blocked && nd.blockedBy == by {
		return
	}
	g.trail.push(trailEntry{kind: entryBlockChanged, node: id, wasBlocked: nd.blocked, blockedBy: nd.blockedBy})
	nd.blocked = blocked
	nd.blockedBy = by
}

func (g *CompletionGraph) ancestors(id NodeID) []NodeID {
	var out []NodeID
	cur := g.nodes[id].parent
	for cur >= 0 {
		out = append(out, cur)
		cur = g.nodes[cur].parent
	}
	return out
}

// labelSubset reports whether L(x) ⊆ L(y).
func (g *CompletionGraph) labelSubset(x, y NodeID) bool {
	xn, yn := g.nodes[x], g.nodes[y]
	for key := range xn.concepts {
		if !yn.hasConcept(key) {
			return false
		}
	}
	return true
}

// rolesSubset reports whether every outgoing role present at x is also
// present at y (pairwise blocking's role-matching requirement).
func (g *CompletionGraph) rolesSubset(x, y NodeID) bool {
	xn, yn := g.nodes[x], g.nodes[y]
	for role, tos := range xn.edges {
		if len(tos) == 0 {
			continue
		}
		if len(yn.edges[role]) == 0 {
			return false
		}
	}
	return true
}

func (g *CompletionGraph) isBlocked(id NodeID) bool { return g.nodes[id].blocked }
