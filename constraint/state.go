package constraint

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// State maps every variable of a System to its current domain, stored as a
// bitset over the value table. Domains shrink monotonically while solving;
// an empty domain marks the state as locally inconsistent.
//
// A State is not safe for concurrent use. The solver isolates search
// branches by cloning the state before every tentative assignment, so
// sibling branches never observe each other's mutations.
type State struct {
	sys     *System
	domains []*bitset.BitSet
}

// NewState returns a state where every variable may still take every value
// of the table. Unary constraints are applied by restricting the fresh state
// before solving. Creating a state freezes the system.
func (s *System) NewState() *State {
	s.finalize()
	st := &State{
		sys:     s,
		domains: make([]*bitset.BitSet, len(s.names)),
	}
	for i := range st.domains {
		st.domains[i] = bitset.New(uint(len(s.values)))
		st.domains[i].SetAll()
	}
	return st
}

// System returns the system this state belongs to.
func (st *State) System() *System { return st.sys }

// Assign replaces the domain of variable i with the singleton {v}. It fails
// with ErrInvalidAssignment if v was already eliminated.
func (st *State) Assign(i, v int) error {
	d := st.domains[i]
	if !d.Test(uint(v)) {
		return fmt.Errorf("%w: variable %q, value %q", ErrInvalidAssignment, st.sys.names[i], st.sys.values[v])
	}
	d.ClearAll()
	d.Set(uint(v))
	return nil
}

// AssignValue is the name-based form of Assign, for problem adapters.
func (st *State) AssignValue(name, value string) error {
	i, ok := st.sys.nameIdx[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	v, ok := st.sys.valueIdx[value]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownValue, value)
	}
	return st.Assign(i, v)
}

// Restrict intersects the domain of the named variable with the given value
// set. It is how adapters pre-apply unary constraints before solving.
func (st *State) Restrict(name string, values ...string) error {
	i, ok := st.sys.nameIdx[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	keep := bitset.New(uint(len(st.sys.values)))
	for _, value := range values {
		v, ok := st.sys.valueIdx[value]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownValue, value)
		}
		keep.Set(uint(v))
	}
	st.domains[i].InPlaceIntersection(keep)
	return nil
}

// Eliminate removes value v from the domain of variable i and reports
// whether a removal occurred. Reduction rules drive their fixpoint loops off
// the returned flag.
func (st *State) Eliminate(i, v int) bool {
	d := st.domains[i]
	if !d.Test(uint(v)) {
		return false
	}
	d.Clear(uint(v))
	return true
}

// Has reports whether value v is still a candidate for variable i.
func (st *State) Has(i, v int) bool {
	return st.domains[i].Test(uint(v))
}

// Count returns the size of variable i's domain.
func (st *State) Count(i int) int {
	return int(st.domains[i].Count())
}

// Singleton returns variable i's value when its domain has been narrowed to
// exactly one candidate.
func (st *State) Singleton(i int) (int, bool) {
	d := st.domains[i]
	if d.Count() != 1 {
		return 0, false
	}
	v, _ := d.NextSet(0)
	return int(v), true
}

// Candidates returns the remaining value indices of variable i in ascending
// order.
func (st *State) Candidates(i int) []int {
	d := st.domains[i]
	out := make([]int, 0, d.Count())
	for v, ok := d.NextSet(0); ok; v, ok = d.NextSet(v + 1) {
		out = append(out, int(v))
	}
	return out
}

// Clone returns an independent deep copy; mutating the copy never affects
// the receiver.
func (st *State) Clone() *State {
	domains := make([]*bitset.BitSet, len(st.domains))
	for i, d := range st.domains {
		domains[i] = d.Clone()
	}
	return &State{sys: st.sys, domains: domains}
}

// Equal reports whether both states hold exactly the same domains.
func (st *State) Equal(other *State) bool {
	if st.sys != other.sys || len(st.domains) != len(other.domains) {
		return false
	}
	for i, d := range st.domains {
		if !d.Equal(other.domains[i]) {
			return false
		}
	}
	return true
}

// Solved reports whether every domain is a singleton and every constraint
// holds on the singleton values. The constraint re-check is a sanity net
// against representation bugs; the solver otherwise maintains consistency
// through domain pruning alone.
func (st *State) Solved() bool {
	vals := make([]int, len(st.domains))
	for i := range st.domains {
		v, ok := st.Singleton(i)
		if !ok {
			return false
		}
		vals[i] = v
	}
	for _, g := range st.sys.groups {
		for x := 0; x < len(g); x++ {
			for y := x + 1; y < len(g); y++ {
				if vals[g[x]] == vals[g[y]] {
					return false
				}
			}
		}
	}
	for _, bc := range st.sys.binaries {
		if !bc.pred(st.sys.values[vals[bc.A]], st.sys.values[vals[bc.B]]) {
			return false
		}
	}
	return true
}

// Model returns the name-to-value mapping of all bound variables. Unbound
// variables (domain size != 1) are omitted; on a solved state the model is
// total.
func (st *State) Model() map[string]string {
	m := make(map[string]string, len(st.domains))
	for i := range st.domains {
		if v, ok := st.Singleton(i); ok {
			m[st.sys.names[i]] = st.sys.values[v]
		}
	}
	return m
}

// String renders each variable with its remaining candidates, one per line,
// in declaration order.
func (st *State) String() string {
	var sb strings.Builder
	for i, name := range st.sys.names {
		sb.WriteString(name)
		sb.WriteString(": ")
		for k, v := range st.Candidates(i) {
			if k > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(st.sys.values[v])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
