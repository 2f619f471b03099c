package owl

import "sync"

// RoleHierarchy is the transitive closure of subObjectPropertyOf over
// named object properties, plus the equivalence and inverse pairings,
// recomputed lazily on the same fixed-point schedule as ClassHierarchy.
type RoleHierarchy struct {
	mu    sync.Mutex
	owner *Ontology
	built bool

	super       map[string]map[string]bool // role -> transitively implied super-roles
	equivalents map[string]map[string]bool
	inverses    map[string]string
	chains      map[string][][]string // role -> property chains implying it
}

func newRoleHierarchy(o *Ontology) *RoleHierarchy {
	return &RoleHierarchy{owner: o}
}

func (rh *RoleHierarchy) invalidate() {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	rh.built = false
}

func (rh *RoleHierarchy) ensureBuilt() {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	if rh.built {
		return
	}

	direct := make(map[string]map[string]bool)
	for name := range rh.owner.objectProps {
		direct[name] = make(map[string]bool)
	}
	rh.equivalents = make(map[string]map[string]bool)
	rh.inverses = make(map[string]string)
	rh.chains = make(map[string][][]string)

	for _, a := range rh.owner.axioms {
		switch a.Kind {
		case AxSubObjectProperty:
			if direct[a.SubProperty] == nil {
				direct[a.SubProperty] = make(map[string]bool)
			}
			direct[a.SubProperty][a.SuperProperty] = true
		case AxEquivalentObjectProperties:
			rh.addEquivalent(a.Property, a.Target)
		case AxInverseObjectProperties:
			rh.inverses[a.Property] = a.Target
			rh.inverses[a.Target] = a.Property
		case AxPropertyChain:
			rh.chains[a.Property] = append(rh.chains[a.Property], a.Chain)
		}
	}
	for name, p := range rh.owner.objectProps {
		if p.Inverse != "" {
			rh.inverses[name] = p.Inverse
			rh.inverses[p.Inverse] = name
		}
		for _, s := range p.SubPropertyOf {
			if direct[name] == nil {
				direct[name] = make(map[string]bool)
			}
			direct[name][s] = true
		}
		for _, e := range p.EquivalentTo {
			rh.addEquivalent(name, e)
		}
	}

	for a, eqs := range rh.equivalents {
		for b := range eqs {
			if direct[a] == nil {
				direct[a] = make(map[string]bool)
			}
			direct[a][b] = true
		}
	}

	closure := make(map[string]map[string]bool)
	for c := range direct {
		closure[c] = make(map[string]bool)
	}
	changed := true
	for changed {
		changed = false
		for c, parents := range direct {
			for p := range parents {
				if !closure[c][p] {
					closure[c][p] = true
					changed = true
				}
				for gp := range closure[p] {
					if !closure[c][gp] {
						closure[c][gp] = true
						changed = true
					}
				}
			}
		}
	}

	rh.super = closure
	rh.built = true
}

func (rh *RoleHierarchy) addEquivalent(a, b string) {
	if rh.equivalents[a] == nil {
		rh.equivalents[a] = make(map[string]bool)
	}
	if rh.equivalents[b] == nil {
		rh.equivalents[b] = make(map[string]bool)
	}
	rh.equivalents[a][b] = true
	rh.equivalents[b][a] = true
}

// IsSubRoleOf reports whether sub is a transitive (or direct, or
// equivalent) sub-property of super.
func (rh *RoleHierarchy) IsSubRoleOf(sub, super string) bool {
	if sub == super {
		return true
	}
	rh.ensureBuilt()
	return rh.super[sub] != nil && rh.super[sub][super]
}

// SuperRoles returns every role transitively implied by role.
func (rh *RoleHierarchy) SuperRoles(role string) []string {
	rh.ensureBuilt()
	out := make([]string, 0, len(rh.super[role]))
	for s := range rh.super[role] {
		out = append(out, s)
	}
	return out
}

// Inverse returns the declared inverse of role, if any.
func (rh *RoleHierarchy) Inverse(role string) (string, bool) {
	rh.ensureBuilt()
	inv, ok := rh.inverses[role]
	return inv, ok
}

// Chains returns the property-chain axioms whose composition implies
// role, per §3's sub-property-chain axiom support.
func (rh *RoleHierarchy) Chains(role string) [][]string {
	rh.ensureBuilt()
	return rh.chains[role]
}
