package encoder

import "github.com/crillab/pmres/oracle"

// SeqCounterEncoder is a Sinz-style sequential-counter encoding of
// "Σ coeffs[i]·lits[i] ≤ K", generalised to weighted coefficients by a
// saturating running-sum DP: register (i, j) is a fresh variable forced
// true whenever the weighted sum of the first i+1 literals can reach at
// least j. Only the forward implications are encoded (never the
// converse), which is enough for soundness of the ≤K bound: any
// assignment whose true sum exceeds K forces the "≥K+1" register true by
// unit propagation, and a single unit clause on that register then
// yields the conflict. Tightening the bound later is a single new unit
// clause on an already-existing register, with nothing to rebuild.
type SeqCounterEncoder struct {
	lits   []oracle.Lit
	coeffs []int64
	cap    int64 // number of "≥ j" rows encoded, j = 1..cap
	regs   [][]oracle.Var
	k      int64

	hasPB   bool
	hasCard bool
}

// NewSeqCounterEncoder returns an empty encoder; call EncodePB or
// EncodeCardinality before using it.
func NewSeqCounterEncoder() *SeqCounterEncoder { return &SeqCounterEncoder{} }

func (e *SeqCounterEncoder) Destroy() {
	e.lits = nil
	e.coeffs = nil
	e.regs = nil
	e.cap = 0
	e.k = 0
	e.hasPB = false
	e.hasCard = false
}

func (e *SeqCounterEncoder) HasPBEncoding() bool   { return e.hasPB }
func (e *SeqCounterEncoder) HasCardEncoding() bool { return e.hasCard }

func (e *SeqCounterEncoder) EncodeCardinality(o oracle.Oracle, lits []oracle.Lit, k int64) {
	coeffs := make([]int64, len(lits))
	for i := range coeffs {
		coeffs[i] = 1
	}
	e.build(o, lits, coeffs, k)
	e.hasCard = true
	e.hasPB = false
}

func (e *SeqCounterEncoder) EncodePB(o oracle.Oracle, lits []oracle.Lit, coeffs []int64, k int64) {
	e.build(o, lits, coeffs, k)
	e.hasPB = true
	e.hasCard = false
}

func (e *SeqCounterEncoder) build(o oracle.Oracle, lits []oracle.Lit, coeffs []int64, k int64) {
	e.Destroy()
	e.lits = append([]oracle.Lit(nil), lits...)
	e.coeffs = append([]int64(nil), coeffs...)
	e.k = k

	var total int64
	for _, w := range coeffs {
		total += w
	}
	cap64 := k + 1
	if cap64 > total {
		cap64 = total
	}
	e.cap = cap64
	if len(lits) == 0 || e.cap < 1 {
		return // objective is trivially bounded; nothing to encode
	}

	n := len(lits)
	e.regs = make([][]oracle.Var, n)
	for i := 0; i < n; i++ {
		e.regs[i] = make([]oracle.Var, e.cap)
		for j := int64(0); j < e.cap; j++ {
			e.regs[i][j] = o.NewVar()
		}
	}

	for i := 0; i < n; i++ {
		x := lits[i]
		w := coeffs[i]
		for j := int64(1); j <= e.cap; j++ {
			sij := e.regs[i][j-1].Lit()
			if j-w <= 0 {
				o.AddClause([]oracle.Lit{x.Negation(), sij})
			} else if i > 0 && j-w <= e.cap {
				prev := e.regs[i-1][j-w-1].Lit()
				o.AddClause([]oracle.Lit{x.Negation(), prev.Negation(), sij})
			}
			if i > 0 {
				carry := e.regs[i-1][j-1].Lit()
				o.AddClause([]oracle.Lit{carry.Negation(), sij})
			}
		}
	}
	e.assertBound(o, k)
}

// assertBound adds the single unit clause forbidding the sum from
// reaching k+1, if that register was built.
func (e *SeqCounterEncoder) assertBound(o oracle.Oracle, k int64) {
	if len(e.regs) == 0 {
		return
	}
	idx := k + 1
	if idx < 1 || idx > e.cap {
		return // bound already vacuously true (or out of the encoded range)
	}
	last := e.regs[len(e.regs)-1][idx-1].Lit()
	o.AddClause([]oracle.Lit{last.Negation()})
}

func (e *SeqCounterEncoder) UpdatePB(o oracle.Oracle, k int64) {
	e.assertBound(o, k)
	e.k = k
}

func (e *SeqCounterEncoder) UpdateCardinality(o oracle.Oracle, k int64) {
	e.assertBound(o, k)
	e.k = k
}

// UpdatePBAssumptions returns the assumption literal(s) that enforce
// "objective ≤ k" only for the next Solve call, leaving the permanent
// clause set untouched.
func (e *SeqCounterEncoder) UpdatePBAssumptions(k int64) []oracle.Lit {
	if len(e.regs) == 0 {
		return nil
	}
	idx := k + 1
	if idx < 1 || idx > e.cap {
		return nil
	}
	last := e.regs[len(e.regs)-1][idx-1].Lit()
	return []oracle.Lit{last.Negation()}
}

var _ Encoder = (*SeqCounterEncoder)(nil)
