package tableaux

import "graphreason/owl"

// saturateDeterministic fires every side-effect-free rule (⊓, ∀, domain,
// range, self, ≤n, data-∃) to a fixed point, skipping blocked nodes, per
// §4.7 step 4(iii). Returns whether anything fired.
func saturateDeterministic(g *CompletionGraph) bool {
	any := false
	for {
		fired := false
		for _, id := range g.Nodes() {
			if g.isBlocked(id) {
				continue
			}
			if applyAnd(g, id) {
				fired = true
			}
			if applyAll(g, id) {
				fired = true
			}
			if applyDomainRange(g, id) {
				fired = true
			}
			if applySelf(g, id) {
				fired = true
			}
			if applyHasValue(g, id) {
				fired = true
			}
			if applyMaxCard(g, id) {
				fired = true
			}
			if applyDataSome(g, id) {
				fired = true
			}
		}
		if !fired {
			break
		}
		any = true
	}
	return any
}

// applyGenerating fires the model-growing rules (∃, ≥n) once across the
// graph, per §4.7 step 4(iv).
func applyGenerating(g *CompletionGraph) bool {
	any := false
	for _, id := range g.Nodes() {
		if g.isBlocked(id) {
			continue
		}
		if applySome(g, id) {
			any = true
		}
		if applyMinCard(g, id) {
			any = true
		}
	}
	return any
}

// applyOneNonDeterministic fires exactly one ⊔ or oneOf rule, creating a
// choice point, per §4.7 step 4(v). Returns whether one fired.
func applyOneNonDeterministic(g *CompletionGraph) bool {
	for _, id := range g.Nodes() {
		if g.isBlocked(id) {
			continue
		}
		if applyOr(g, id) {
			return true
		}
	}
	for _, id := range g.Nodes() {
		if g.isBlocked(id) {
			continue
		}
		if applyOneOf(g, id) {
			return true
		}
	}
	return false
}

func applyAnd(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for key, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprAnd {
			continue
		}
		if g.isProcessed(id, processedSetAnd, key) {
			continue
		}
		for _, conj := range c.Operands {
			if g.addConcept(id, conj) {
				fired = true
			}
		}
		g.markProcessed(id, processedSetAnd, key)
	}
	return fired
}

func applyOr(g *CompletionGraph, id NodeID) bool {
	nd := g.nodes[id]
	for key, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprOr {
			continue
		}
		if g.isProcessed(id, processedSetOr, key) {
			continue
		}
		if anyDisjunctPresent(nd, c.Operands) {
			g.markProcessed(id, processedSetOr, key)
			continue
		}
		g.markProcessed(id, processedSetOr, key)
		g.createChoicePoint(id, c.Operands)
		return true
	}
	return false
}

func anyDisjunctPresent(nd *node, disjuncts []*owl.ClassExpr) bool {
	for _, d := range disjuncts {
		if nd.hasConcept(owl.Canonicalize(d)) {
			return true
		}
	}
	return false
}

func applyAll(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for _, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprAll {
			continue
		}
		for _, succ := range allRoleSuccessors(g, id, c.Role) {
			if g.addConcept(succ, c.Sub) {
				fired = true
			}
		}
	}
	return fired
}

// allRoleSuccessors returns every node reachable from id as an R-filler:
// direct R-successors, successors via a sub-role of R, and nodes linked
// via the inverse of R acting as a predecessor edge (§4.6 "∀").
func allRoleSuccessors(g *CompletionGraph, id NodeID, role string) []NodeID {
	seen := make(map[NodeID]bool)
	var out []NodeID
	add := func(n NodeID) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, s := range g.successors(id, role) {
		add(s)
	}
	for sub := range subRolesOf(g, role) {
		for _, s := range g.successors(id, sub) {
			add(s)
		}
	}
	if inv, ok := g.ontology.RoleHierarchy().Inverse(role); ok {
		for _, p := range g.predecessors(id, inv) {
			add(p)
		}
	}
	return out
}

func subRolesOf(g *CompletionGraph, role string) map[string]bool {
	out := make(map[string]bool)
	for _, name := range g.ontology.ObjectProperties() {
		if name != role && g.ontology.RoleHierarchy().IsSubRoleOf(name, role) {
			out[name] = true
		}
	}
	return out
}

func applySome(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for key, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprSome {
			continue
		}
		if hasQualifyingSuccessor(g, id, c.Role, c.Sub) {
			continue
		}
		succ := g.createNode(id)
		g.addEdge(id, c.Role, succ)
		g.addConcept(succ, c.Sub)
		addTBoxConstraints(g, succ)
		g.markProcessed(id, processedSetSome, key)
		fired = true
	}
	return fired
}

func hasQualifyingSuccessor(g *CompletionGraph, id NodeID, role string, filler *owl.ClassExpr) bool {
	for _, s := range allRoleSuccessors(g, id, role) {
		if g.nodes[s].hasConcept(owl.Canonicalize(filler)) {
			return true
		}
	}
	return false
}

func applySelf(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for _, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprSelf {
			continue
		}
		if g.addEdgeRaw(id, c.Role, id) {
			fired = true
		}
	}
	return fired
}

func applyHasValue(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for _, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprHasValue {
			continue
		}
		target := g.getOrCreateNominal(c.Individual)
		if !g.nodes[id].edges[c.Role][target] {
			g.addEdge(id, c.Role, target)
			fired = true
		}
	}
	return fired
}

func applyMinCard(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for _, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprMinCard {
			continue
		}
		count := countQualifying(g, id, c.Role, c.Sub)
		for count < c.Card {
			succ := g.createNode(id)
			g.addEdge(id, c.Role, succ)
			g.addConcept(succ, c.Sub)
			addTBoxConstraints(g, succ)
			count++
			fired = true
		}
	}
	return fired
}

func countQualifying(g *CompletionGraph, id NodeID, role string, filler *owl.ClassExpr) int {
	n := 0
	for _, s := range allRoleSuccessors(g, id, role) {
		if g.nodes[s].hasConcept(owl.Canonicalize(filler)) {
			n++
		}
	}
	return n
}

func applyMaxCard(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for key, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprMaxCard {
			continue
		}
		qualifying := qualifyingSuccessors(g, id, c.Role, c.Sub)
		for len(qualifying) > c.Card {
			survivor, merged := pickMergePairNominalLast(g, qualifying)
			g.mergeNodes(survivor, merged)
			qualifying = qualifyingSuccessors(g, id, c.Role, c.Sub)
			fired = true
		}
		g.markProcessed(id, processedSetMax, key)
	}
	return fired
}

func qualifyingSuccessors(g *CompletionGraph, id NodeID, role string, filler *owl.ClassExpr) []NodeID {
	var out []NodeID
	for _, s := range allRoleSuccessors(g, id, role) {
		if g.nodes[s].hasConcept(owl.Canonicalize(filler)) {
			out = append(out, s)
		}
	}
	return out
}

// pickMergePairNominalLast picks which two qualifying successors to fold
// together for the ≤n rule, preferring to keep any nominal among them as
// the surviving node (nominals are last to be merged away, per §4.6).
func pickMergePairNominalLast(g *CompletionGraph, qualifying []NodeID) (survivor, merged NodeID) {
	survivor = qualifying[0]
	for _, id := range qualifying {
		if g.nodes[id].nominal != "" {
			survivor = id
			break
		}
	}
	for _, id := range qualifying {
		if id != survivor {
			return survivor, id
		}
	}
	return survivor, qualifying[0]
}

func applyDomainRange(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for role, tos := range nd.edges {
		p, ok := g.ontology.ObjectProperty(role)
		if !ok {
			continue
		}
		if p.Domain != nil {
			if g.addConcept(id, p.Domain) {
				fired = true
			}
		}
		if p.Range != nil {
			for to := range tos {
				if g.addConcept(to, p.Range) {
					fired = true
				}
			}
		}
	}
	return fired
}

func applyDataSome(g *CompletionGraph, id NodeID) bool {
	fired := false
	nd := g.nodes[id]
	for _, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprDataSome {
			continue
		}
		if hasDataValue(nd, c.Prop) {
			continue
		}
		g.addDataValue(id, c.Prop, c.Range.Witness())
		fired = true
	}
	return fired
}

func hasDataValue(nd *node, property string) bool {
	for _, dv := range nd.data {
		if dv.Property == property {
			return true
		}
	}
	return false
}

func applyOneOf(g *CompletionGraph, id NodeID) bool {
	nd := g.nodes[id]
	if nd.nominal != "" {
		return false
	}
	for _, c := range snapshotConcepts(nd) {
		if c.Kind != owl.ExprOneOf || len(c.Individuals) == 0 {
			continue
		}
		g.createOneOfChoicePoint(id, c.Individuals)
		return true
	}
	return false
}

// snapshotConcepts copies a node's concept map so rule loops may mutate
// the live map (via addConcept) while iterating a stable view.
func snapshotConcepts(nd *node) map[string]*owl.ClassExpr {
	out := make(map[string]*owl.ClassExpr, len(nd.concepts))
	for k, v := range nd.concepts {
		out[k] = v
	}
	return out
}

// addTBoxConstraints adds every unconditional TBox axiom (lowered to
// NNF disjunctions) to a freshly created node, matching the root's
// initialization in Reasoner.runExpansion (step 3).
func addTBoxConstraints(g *CompletionGraph, n NodeID) {
	for _, c := range tboxConstraints(g.ontology) {
		g.addConcept(n, c)
	}
}

// tboxConstraints lowers every subClassOf/equivalentClasses axiom to its
// NNF disjunction form, per §4.7 step 3.
func tboxConstraints(o *owl.Ontology) []*owl.ClassExpr {
	var out []*owl.ClassExpr
	for _, a := range o.Axioms() {
		switch a.Kind {
		case owl.AxSubClassOf:
			out = append(out, owl.NNF(owl.Or(owl.Not(a.Sub), a.Super)))
		case owl.AxEquivalentClasses:
			for i := range a.Classes {
				for j := range a.Classes {
					if i != j {
						out = append(out, owl.NNF(owl.Or(owl.Not(a.Classes[i]), a.Classes[j])))
					}
				}
			}
		case owl.AxDisjointClasses:
			for i := range a.Classes {
				for j := range a.Classes {
					if i != j {
						out = append(out, owl.NNF(owl.Or(owl.Not(a.Classes[i]), owl.Not(a.Classes[j]))))
					}
				}
			}
		}
	}
	return out
}
