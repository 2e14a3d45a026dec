package solver_test

import (
	"testing"

	"github.com/arcs-solver/arcs/constraint"
	"github.com/arcs-solver/arcs/solver"
	"github.com/stretchr/testify/require"
)

func TestEliminate(t *testing.T) {
	assert := require.New(t)

	sys := newTriangle(t, "1", "2", "3")
	st := sys.NewState()
	assert.NoError(st.AssignValue("x", "1"))

	changed, err := solver.Eliminate(sys, st)
	assert.NoError(err)
	assert.True(changed)

	y, _ := sys.VariableIndex("y")
	z, _ := sys.VariableIndex("z")
	v1, _ := sys.ValueIndex("1")
	assert.False(st.Has(y, v1))
	assert.False(st.Has(z, v1))

	changed, err = solver.Eliminate(sys, st)
	assert.NoError(err)
	assert.False(changed, "stable state, nothing left to prune")
}

func TestEliminateInconsistent(t *testing.T) {
	assert := require.New(t)

	sys := newTriangle(t, "1", "2", "3")
	st := sys.NewState()
	assert.NoError(st.AssignValue("x", "1"))
	assert.NoError(st.AssignValue("y", "1"))

	_, err := solver.Eliminate(sys, st)
	assert.ErrorIs(err, solver.ErrInconsistent)
}

func TestOnlyChoice(t *testing.T) {
	assert := require.New(t)

	sys := newTriangle(t, "1", "2", "3")
	st := sys.NewState()
	// remove 2 everywhere but from z: only z can take it
	x, _ := sys.VariableIndex("x")
	y, _ := sys.VariableIndex("y")
	z, _ := sys.VariableIndex("z")
	v2, _ := sys.ValueIndex("2")
	st.Eliminate(x, v2)
	st.Eliminate(y, v2)

	changed, err := solver.OnlyChoice(sys, st)
	assert.NoError(err)
	assert.True(changed)
	v, ok := st.Singleton(z)
	assert.True(ok)
	assert.Equal(v2, v)
}

func TestNakedTwins(t *testing.T) {
	assert := require.New(t)

	sys, err := constraint.NewSystem("1", "2", "3", "4")
	assert.NoError(err)
	assert.NoError(sys.AddVariables("a", "b", "c", "d"))
	assert.NoError(sys.AddAllDifferent("a", "b", "c", "d"))

	st := sys.NewState()
	// a and b are twins on {1,2}; c and d must not take 1 or 2
	assert.NoError(st.Restrict("a", "1", "2"))
	assert.NoError(st.Restrict("b", "1", "2"))

	changed, err := solver.NakedTwins(sys, st)
	assert.NoError(err)
	assert.True(changed)

	c, _ := sys.VariableIndex("c")
	d, _ := sys.VariableIndex("d")
	v1, _ := sys.ValueIndex("1")
	v2, _ := sys.ValueIndex("2")
	for _, i := range []int{c, d} {
		assert.False(st.Has(i, v1))
		assert.False(st.Has(i, v2))
		assert.Equal(2, st.Count(i))
	}
}

func TestReduceFixpoint(t *testing.T) {
	assert := require.New(t)

	sys := newTriangle(t, "1", "2", "3")
	st := sys.NewState()
	assert.NoError(st.AssignValue("x", "1"))
	assert.NoError(st.Restrict("y", "1", "2"))

	changed, err := solver.Reduce(sys, st)
	assert.NoError(err)
	assert.True(changed)
	assert.True(st.Solved(), "x=1 forces y=2 forces z=3")

	// a second application of the rules at the fixpoint is a no-op
	changed, err = solver.Reduce(sys, st)
	assert.NoError(err)
	assert.False(changed)
}
