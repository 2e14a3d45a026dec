package solver

import (
	"errors"
	"fmt"

	"github.com/arcs-solver/arcs/constraint"
)

// ErrInconsistent reports that a reduction rule emptied a domain: the state
// admits no solution. Solve recovers from it by backtracking; it only
// reaches callers using Reduce directly.
var ErrInconsistent = errors.New("inconsistent state")

// Rule is a reduction rule: it prunes candidate values from the state
// without discarding any solution, and reports whether it changed anything.
// A rule returns an error wrapping ErrInconsistent when a domain empties.
type Rule func(sys *constraint.System, st *constraint.State) (bool, error)

// DefaultRules returns the standard rule list: Eliminate then OnlyChoice.
func DefaultRules() []Rule {
	return []Rule{Eliminate, OnlyChoice}
}

// Eliminate prunes the peers of every bound variable. For a variable bound
// to v, any peer candidate w with no support against v (Holds(i, v, j, w) is
// false) is removed. On all-different constraints this is the textbook "a
// placed value leaves its peers": the bound value itself disappears from
// every peer's domain.
func Eliminate(sys *constraint.System, st *constraint.State) (bool, error) {
	changed := false
	for i := 0; i < sys.NumVariables(); i++ {
		v, ok := st.Singleton(i)
		if !ok {
			continue
		}
		for _, j := range sys.Peers(i) {
			for _, w := range st.Candidates(j) {
				if sys.Holds(i, v, j, w) {
					continue
				}
				if st.Eliminate(j, w) {
					changed = true
				}
			}
			if st.Count(j) == 0 {
				return changed, fmt.Errorf("%w: variable %q has no candidates left", ErrInconsistent, sys.VariableName(j))
			}
		}
	}
	return changed, nil
}

// OnlyChoice scans every all-different group for a value that fits in
// exactly one member's domain and binds that member to it. The rule is
// scoped to individual groups, not to the global peer set, and only applies
// to groups as large as the value table: those must use every value exactly
// once (a Sudoku row, a 3-colored triangle), so a value with a single
// possible home is forced there. In smaller groups a value may legally go
// unused and no such inference is sound.
func OnlyChoice(sys *constraint.System, st *constraint.State) (bool, error) {
	changed := false
	for g := 0; g < sys.NumGroups(); g++ {
		group := sys.Group(g)
		if len(group) != sys.NumValues() {
			continue
		}
		for v := 0; v < sys.NumValues(); v++ {
			place, count := -1, 0
			for _, i := range group {
				if st.Has(i, v) {
					place = i
					if count++; count > 1 {
						break
					}
				}
			}
			if count != 1 || st.Count(place) == 1 {
				continue
			}
			if err := st.Assign(place, v); err != nil {
				return changed, err
			}
			changed = true
		}
	}
	return changed, nil
}

// NakedTwins removes the values of a "naked twin" from the rest of its
// group: when exactly two members of a group share the same two-candidate
// domain, those two values are spoken for and can be pruned everywhere else
// in the group. Recovered from the Sudoku folklore; enable with
// WithNakedTwins.
func NakedTwins(sys *constraint.System, st *constraint.State) (bool, error) {
	changed := false
	for g := 0; g < sys.NumGroups(); g++ {
		group := sys.Group(g)
		pairs := make(map[[2]int][]int)
		for _, i := range group {
			if st.Count(i) != 2 {
				continue
			}
			c := st.Candidates(i)
			key := [2]int{c[0], c[1]}
			pairs[key] = append(pairs[key], i)
		}
		for pair, members := range pairs {
			if len(members) != 2 {
				continue
			}
			for _, j := range group {
				if j == members[0] || j == members[1] {
					continue
				}
				for _, v := range pair {
					if st.Eliminate(j, v) {
						changed = true
					}
				}
				if st.Count(j) == 0 {
					return changed, fmt.Errorf("%w: variable %q has no candidates left", ErrInconsistent, sys.VariableName(j))
				}
			}
		}
	}
	return changed, nil
}

// Reduce applies the rules in order, repeatedly, until none makes progress
// (the fixpoint) or a domain empties (ErrInconsistent). The state is reduced
// in place. With no rules given it uses DefaultRules.
func Reduce(sys *constraint.System, st *constraint.State, rules ...Rule) (bool, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	changed := false
	for {
		progress := false
		for _, rule := range rules {
			c, err := rule(sys, st)
			changed = changed || c
			if err != nil {
				return changed, err
			}
			progress = progress || c
		}
		if !progress {
			return changed, nil
		}
	}
}
