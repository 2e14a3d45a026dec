// Package solver finds satisfying assignments for finite-domain constraint
// systems built with the constraint package.
//
// Solving interleaves two mechanisms:
//   - reduction: inference rules (elimination, only-choice, optionally
//     naked-twins) prune candidate values until a fixpoint is reached
//   - search: when reduction stalls, the solver branches on the unresolved
//     variable with the fewest remaining candidates, cloning the state per
//     tentative assignment and backtracking chronologically on failure
package solver
