// Package arcs provides a generic engine for discrete finite-domain
// constraint satisfaction problems (CSP) and a high level API to describe
// them.
//
// A problem is a set of variables, a finite domain of candidate values per
// variable, and constraints restricting which value combinations are legal
// (see the constraint package). The solver (see the solver package) prunes
// domains with the elimination and only-choice rules until a fixpoint, runs
// a depth-first backtracking search over the remaining choices, and returns
// either a complete assignment or the verdict that none exists.
//
// The examples directory contains two problem adapters: classic 9x9 Sudoku
// (examples/sudoku) and coloring the map of Australia (examples/mapcolor).
package arcs

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.1.0")
