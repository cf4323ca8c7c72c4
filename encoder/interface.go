// Package encoder builds and tightens pseudo-boolean / cardinality
// encodings of a MaxSAT objective on top of an oracle.Oracle, following
// the interface the search driver expects from spec.md §4.3.
package encoder

import "github.com/crillab/pmres/oracle"

// Encoder builds a CNF encoding of "Σ coeffs[i]·lits[i] ≤ K" (or, when
// all coefficients are 1, "Σ lits[i] ≤ K") over an oracle, and lets the
// caller tighten K without rebuilding the whole encoding.
type Encoder interface {
	// EncodePB adds an encoding of the weighted objective to o.
	EncodePB(o oracle.Oracle, lits []oracle.Lit, coeffs []int64, k int64)
	// EncodeCardinality adds a uniform-weight encoding of the objective to o.
	EncodeCardinality(o oracle.Oracle, lits []oracle.Lit, k int64)
	// UpdatePB tightens a previously encoded weighted objective to k' < previous k.
	UpdatePB(o oracle.Oracle, k int64)
	// UpdateCardinality tightens a previously encoded uniform objective to k' < previous k.
	UpdateCardinality(o oracle.Oracle, k int64)
	// UpdatePBAssumptions returns the assumption literals that enforce
	// "objective ≤ k" for this call only, without mutating the oracle's
	// permanent clause set.
	UpdatePBAssumptions(k int64) []oracle.Lit
	// HasPBEncoding reports whether a weighted encoding is currently installed.
	HasPBEncoding() bool
	// HasCardEncoding reports whether a uniform-weight encoding is currently installed.
	HasCardEncoding() bool
	// Destroy discards the current encoding so a fresh one can be built.
	Destroy()
}
