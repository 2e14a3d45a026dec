package constraint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestStateAssign(t *testing.T) {
	assert := require.New(t)
	sys := buildSystem(t)
	st := sys.NewState()

	a, _ := sys.VariableIndex("a")
	v2, _ := sys.ValueIndex("2")

	assert.Equal(3, st.Count(a))
	assert.NoError(st.Assign(a, v2))
	assert.Equal(1, st.Count(a))
	v, ok := st.Singleton(a)
	assert.True(ok)
	assert.Equal(v2, v)

	// the value is gone, assigning it again must fail
	v1, _ := sys.ValueIndex("1")
	assert.ErrorIs(st.Assign(a, v1), ErrInvalidAssignment)

	assert.ErrorIs(st.AssignValue("z", "1"), ErrUnknownVariable)
	assert.ErrorIs(st.AssignValue("b", "9"), ErrUnknownValue)
	assert.NoError(st.AssignValue("b", "1"))
}

func TestStateRestrict(t *testing.T) {
	assert := require.New(t)
	sys := buildSystem(t)
	st := sys.NewState()

	assert.NoError(st.Restrict("a", "1", "3"))
	a, _ := sys.VariableIndex("a")
	v1, _ := sys.ValueIndex("1")
	v2, _ := sys.ValueIndex("2")
	v3, _ := sys.ValueIndex("3")
	assert.Equal([]int{v1, v3}, st.Candidates(a))
	assert.False(st.Has(a, v2))

	assert.ErrorIs(st.Restrict("z", "1"), ErrUnknownVariable)
	assert.ErrorIs(st.Restrict("a", "9"), ErrUnknownValue)

	// restricting to nothing empties the domain
	assert.NoError(st.Restrict("b", []string{}...))
	b, _ := sys.VariableIndex("b")
	assert.Equal(0, st.Count(b))
}

func TestStateEliminate(t *testing.T) {
	assert := require.New(t)
	sys := buildSystem(t)
	st := sys.NewState()

	a, _ := sys.VariableIndex("a")
	v1, _ := sys.ValueIndex("1")

	assert.True(st.Eliminate(a, v1))
	assert.False(st.Eliminate(a, v1), "second removal is a no-op")
	assert.Equal(2, st.Count(a))
}

func TestStateSolved(t *testing.T) {
	assert := require.New(t)
	sys := buildSystem(t)

	st := sys.NewState()
	assert.False(st.Solved(), "unbound variables")

	// a=1 b=2 c=2 violates the a,b,c group
	bad := sys.NewState()
	assert.NoError(bad.AssignValue("a", "1"))
	assert.NoError(bad.AssignValue("b", "2"))
	assert.NoError(bad.AssignValue("c", "2"))
	assert.NoError(bad.AssignValue("d", "3"))
	assert.False(bad.Solved())

	// c=3 d=1 violates c<d
	bad2 := sys.NewState()
	assert.NoError(bad2.AssignValue("a", "1"))
	assert.NoError(bad2.AssignValue("b", "2"))
	assert.NoError(bad2.AssignValue("c", "3"))
	assert.NoError(bad2.AssignValue("d", "1"))
	assert.False(bad2.Solved())

	good := sys.NewState()
	assert.NoError(good.AssignValue("a", "1"))
	assert.NoError(good.AssignValue("b", "2"))
	assert.NoError(good.AssignValue("c", "3"))
	assert.NoError(good.AssignValue("d", "3"))
	assert.False(good.Solved(), "3 < 3 does not hold")

	good2 := sys.NewState()
	assert.NoError(good2.AssignValue("a", "2"))
	assert.NoError(good2.AssignValue("b", "3"))
	assert.NoError(good2.AssignValue("c", "1"))
	assert.NoError(good2.AssignValue("d", "2"))
	assert.True(good2.Solved())

	model := good2.Model()
	assert.Empty(cmp.Diff(map[string]string{"a": "2", "b": "3", "c": "1", "d": "2"}, model))
}

func TestStateCloneIsolation(t *testing.T) {
	sys := buildSystem(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("mutating a clone never touches the original", prop.ForAll(
		func(i, v int) bool {
			st := sys.NewState()
			clone := st.Clone()
			clone.Eliminate(i, v)
			return st.Has(i, v) && !clone.Has(i, v)
		},
		gen.IntRange(0, sys.NumVariables()-1),
		gen.IntRange(0, sys.NumValues()-1),
	))

	properties.Property("clones compare equal until mutated", prop.ForAll(
		func(i, v int) bool {
			st := sys.NewState()
			clone := st.Clone()
			if !st.Equal(clone) {
				return false
			}
			clone.Eliminate(i, v)
			return !st.Equal(clone)
		},
		gen.IntRange(0, sys.NumVariables()-1),
		gen.IntRange(0, sys.NumValues()-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
