// Package oracle implements the decision procedure the search driver
// treats as an out-of-scope external collaborator: add clauses, solve
// under assumptions, get a model or a conflicting subset of the
// assumptions back. Everything above this package only ever depends on
// the Oracle interface, never on Solver directly, so an alternative
// backend can be substituted without touching the optimisation loop.
package oracle
