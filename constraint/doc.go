// Package constraint provides constructs needed to build and solve a
// finite-domain constraint satisfaction problem;
//   - a System is the read-only description of the problem: variables,
//     the value table, all-different groups and binary constraints
//   - a State maps every variable to its current domain (the candidate
//     values not yet ruled out) and is the unit of work of the solver
package constraint
