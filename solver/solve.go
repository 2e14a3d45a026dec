package solver

import (
	"errors"
	"fmt"
	"time"

	"github.com/arcs-solver/arcs/constraint"
	"github.com/arcs-solver/arcs/debug"
)

// errBudget aborts the search when the context is done or the node budget is
// spent; Solve maps it to an Indet result.
var errBudget = errors.New("search budget exhausted")

// Solve runs reduction and backtracking search over the state until it finds
// a satisfying assignment (Sat), proves there is none (Unsat), or hits a
// bound set via options (Indet). The state is consumed: sibling branches
// work on clones, but the root state is reduced in place.
//
// An error is returned only for malformed input (nil arguments, a state
// built from a different system, bad options); "no solution" is an ordinary
// Unsat result.
func Solve(sys *constraint.System, st *constraint.State, opts ...Option) (res Result, err error) {
	// user-supplied rules and predicates run inside the search; surface their
	// panics as errors with a readable stack
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
		}
	}()

	if sys == nil || st == nil {
		return Result{}, fmt.Errorf("nil system or state")
	}
	if st.System() != sys {
		return Result{}, fmt.Errorf("state belongs to a different system")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return Result{}, fmt.Errorf("apply options: %w", err)
	}

	log := cfg.Logger
	log.Debug().Int("nbVariables", sys.NumVariables()).Int("nbValues", sys.NumValues()).Msg("solving constraint system")
	start := time.Now()

	s := &searcher{sys: sys, cfg: &cfg}
	solved, serr := s.search(st)

	res = Result{Status: Unsat, Stats: s.stats}
	switch {
	case serr != nil && errors.Is(serr, errBudget):
		res.Status = Indet
	case serr != nil:
		return Result{}, serr
	case solved != nil:
		res.Status = Sat
		res.State = solved
		res.Model = solved.Model()
	}

	log.Info().
		Stringer("status", res.Status).
		Int("nodes", s.stats.SearchNodes).
		Int("backtracks", s.stats.Backtracks).
		Dur("took", time.Since(start)).
		Msg("solver done")
	return res, nil
}

type searcher struct {
	sys   *constraint.System
	cfg   *Config
	stats Stats
}

// search is the {Reducing, Branching, Solved, Failed} state machine, one
// recursion level per tentative assignment. It returns (nil, nil) for a
// failed branch; errBudget aborts the whole search.
func (s *searcher) search(st *constraint.State) (*constraint.State, error) {
	for i := 0; i < s.sys.NumVariables(); i++ {
		if st.Count(i) == 0 {
			// only reachable with an over-restricted initial state; the
			// rules catch domains they empty themselves
			return nil, nil
		}
	}

	s.stats.Reductions++
	if _, err := Reduce(s.sys, st, s.cfg.Rules...); err != nil {
		if errors.Is(err, ErrInconsistent) {
			return nil, nil
		}
		return nil, err
	}
	if st.Solved() {
		return st, nil
	}

	i := s.pick(st)
	if i < 0 {
		// every domain is a singleton, yet the constraint check failed
		return nil, nil
	}

	select {
	case <-s.cfg.Ctx.Done():
		return nil, fmt.Errorf("%w: %w", errBudget, s.cfg.Ctx.Err())
	default:
	}

	for _, v := range st.Candidates(i) {
		if s.cfg.MaxNodes > 0 && s.stats.SearchNodes >= s.cfg.MaxNodes {
			return nil, errBudget
		}
		s.stats.SearchNodes++
		s.cfg.Logger.Debug().
			Str("variable", s.sys.VariableName(i)).
			Str("value", s.sys.ValueName(v)).
			Int("domain", st.Count(i)).
			Msg("branching")

		child := st.Clone()
		if err := child.Assign(i, v); err != nil {
			return nil, err
		}
		solved, err := s.search(child)
		if err != nil || solved != nil {
			return solved, err
		}
		s.stats.Backtracks++
	}
	return nil, nil
}

// pick returns the unresolved variable with the fewest remaining candidates
// (minimum-remaining-values); ties go to the lowest index so runs are
// reproducible. Returns -1 when every variable is bound.
func (s *searcher) pick(st *constraint.State) int {
	best, bestSize := -1, s.sys.NumValues()+1
	for i := 0; i < s.sys.NumVariables(); i++ {
		if c := st.Count(i); c > 1 && c < bestSize {
			best, bestSize = i, c
		}
	}
	return best
}
