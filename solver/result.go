package solver

import "github.com/arcs-solver/arcs/constraint"

// Status is the outcome of a solving run.
type Status uint8

const (
	// Indet means the run stopped before reaching a verdict, because the
	// supplied context was cancelled or the search-node budget ran out.
	Indet Status = iota
	// Sat means a satisfying assignment was found.
	Sat
	// Unsat means the search space was exhausted without finding one.
	Unsat
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "INDET"
	}
}

// Stats counts the work performed by a solving run.
type Stats struct {
	// Reductions is the number of reduce-to-fixpoint invocations.
	Reductions int
	// SearchNodes is the number of tentative assignments tried.
	SearchNodes int
	// Backtracks is the number of tentative assignments undone.
	Backtracks int
}

// Result is the outcome of Solve. Model and State are populated only when
// Status is Sat; the model then binds every variable to exactly one value.
type Result struct {
	Status Status
	Model  map[string]string
	State  *constraint.State
	Stats  Stats
}
