package constraint

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/slices"
)

// System describes a constraint satisfaction problem: the value table shared
// by all variables, the variables themselves, and the constraints between
// them. A System is built once by a problem adapter and is read-only for the
// remainder of solving; creating a State freezes it.
//
// Variables and values are referenced by name at the API boundary and by
// dense index internally. Indices follow declaration order, which also fixes
// the deterministic tie-break and value ordering used by the solver.
type System struct {
	values   []string
	valueIdx map[string]int
	names    []string
	nameIdx  map[string]int

	groups   [][]int
	binaries []BinaryConstraint

	// built by finalize
	peers      [][]int
	groupPeers []*bitset.BitSet
	frozen     bool
}

// BinaryConstraint ties two variables to a named predicate from the registry.
type BinaryConstraint struct {
	A, B      int
	Predicate string

	pred BinaryPredicate
}

// NewSystem returns a system whose variables all draw their values from the
// given table. The table order fixes the order in which the solver tries
// candidate values.
func NewSystem(values ...string) (*System, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("system needs at least one value")
	}
	s := &System{
		values:   make([]string, 0, len(values)),
		valueIdx: make(map[string]int, len(values)),
		nameIdx:  make(map[string]int),
	}
	for _, v := range values {
		if v == "" {
			return nil, fmt.Errorf("empty value name")
		}
		if _, ok := s.valueIdx[v]; ok {
			return nil, fmt.Errorf("duplicate value %q", v)
		}
		s.valueIdx[v] = len(s.values)
		s.values = append(s.values, v)
	}
	return s, nil
}

// AddVariable declares a new variable.
func (s *System) AddVariable(name string) error {
	if s.frozen {
		return ErrSystemFrozen
	}
	if name == "" {
		return fmt.Errorf("empty variable name")
	}
	if _, ok := s.nameIdx[name]; ok {
		return fmt.Errorf("duplicate variable %q", name)
	}
	s.nameIdx[name] = len(s.names)
	s.names = append(s.names, name)
	return nil
}

// AddVariables declares several variables at once.
func (s *System) AddVariables(names ...string) error {
	for _, n := range names {
		if err := s.AddVariable(n); err != nil {
			return err
		}
	}
	return nil
}

// AddAllDifferent constrains the named variables to take pairwise distinct
// values. The group is also the scope of the only-choice reduction rule: a
// value possible in exactly one member of the group is forced there.
func (s *System) AddAllDifferent(names ...string) error {
	if s.frozen {
		return ErrSystemFrozen
	}
	if len(names) < 2 {
		return fmt.Errorf("all-different group needs at least two variables, got %d", len(names))
	}
	group := make([]int, len(names))
	for i, n := range names {
		idx, ok := s.nameIdx[n]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownVariable, n)
		}
		if slices.Contains(group[:i], idx) {
			return fmt.Errorf("variable %q appears twice in group", n)
		}
		group[i] = idx
	}
	s.groups = append(s.groups, group)
	return nil
}

// AddBinary constrains the pair (a, b) with the named predicate from the
// registry; the predicate receives the candidate values in (a, b) order.
func (s *System) AddBinary(a, b, predicate string) error {
	if s.frozen {
		return ErrSystemFrozen
	}
	ia, ok := s.nameIdx[a]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, a)
	}
	ib, ok := s.nameIdx[b]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, b)
	}
	if ia == ib {
		return fmt.Errorf("binary constraint needs two distinct variables, got %q twice", a)
	}
	pred := GetRegisteredPredicate(predicate)
	if pred == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPredicate, predicate)
	}
	s.binaries = append(s.binaries, BinaryConstraint{A: ia, B: ib, Predicate: predicate, pred: pred})
	return nil
}

// finalize precomputes the adjacency structure. Called once; afterwards the
// system rejects further Add* calls.
func (s *System) finalize() {
	if s.frozen {
		return
	}
	s.frozen = true

	n := len(s.names)
	s.groupPeers = make([]*bitset.BitSet, n)
	for i := range s.groupPeers {
		s.groupPeers[i] = bitset.New(uint(n))
	}
	for _, g := range s.groups {
		for _, i := range g {
			for _, j := range g {
				if i != j {
					s.groupPeers[i].Set(uint(j))
				}
			}
		}
	}

	s.peers = make([][]int, n)
	for i := 0; i < n; i++ {
		var p []int
		for j, ok := s.groupPeers[i].NextSet(0); ok; j, ok = s.groupPeers[i].NextSet(j + 1) {
			p = append(p, int(j))
		}
		for _, bc := range s.binaries {
			if bc.A == i {
				p = append(p, bc.B)
			} else if bc.B == i {
				p = append(p, bc.A)
			}
		}
		slices.Sort(p)
		s.peers[i] = slices.Compact(p)
	}
}

// NumVariables returns the number of declared variables.
func (s *System) NumVariables() int { return len(s.names) }

// NumValues returns the size of the value table.
func (s *System) NumValues() int { return len(s.values) }

// VariableName returns the name of variable i.
func (s *System) VariableName(i int) string { return s.names[i] }

// VariableIndex returns the index of the named variable.
func (s *System) VariableIndex(name string) (int, bool) {
	i, ok := s.nameIdx[name]
	return i, ok
}

// ValueName returns the value at index v in the value table.
func (s *System) ValueName(v int) string { return s.values[v] }

// ValueIndex returns the index of a value in the value table.
func (s *System) ValueIndex(value string) (int, bool) {
	v, ok := s.valueIdx[value]
	return v, ok
}

// Variables returns the variable names in declaration order.
func (s *System) Variables() []string {
	return slices.Clone(s.names)
}

// Values returns the value table in declaration order.
func (s *System) Values() []string {
	return slices.Clone(s.values)
}

// Peers returns the indices of the variables sharing at least one constraint
// with variable i, in ascending order. The returned slice is owned by the
// system and must not be modified. Like NewState, the first call freezes the
// system: no further variables or constraints can be added.
func (s *System) Peers(i int) []int {
	s.finalize()
	return s.peers[i]
}

// NumGroups returns the number of all-different groups.
func (s *System) NumGroups() int { return len(s.groups) }

// Group returns the variable indices of group g. The returned slice is owned
// by the system and must not be modified.
func (s *System) Group(g int) []int { return s.groups[g] }

// Holds reports whether assigning value va to variable a and vb to variable b
// violates no constraint between the pair. Variables that share no constraint
// always hold. Like NewState, the first call freezes the system.
func (s *System) Holds(a, va, b, vb int) bool {
	s.finalize()
	if s.groupPeers[a].Test(uint(b)) && va == vb {
		return false
	}
	for _, bc := range s.binaries {
		switch {
		case bc.A == a && bc.B == b:
			if !bc.pred(s.values[va], s.values[vb]) {
				return false
			}
		case bc.A == b && bc.B == a:
			if !bc.pred(s.values[vb], s.values[va]) {
				return false
			}
		}
	}
	return true
}
