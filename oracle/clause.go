package oracle

// A clause is an ordered disjunction of literals. The first two literals
// are the watched pair; propagate keeps that invariant as assignments
// change.
type clause struct {
	lits     []Lit
	learned  bool
	activity float64
}

func newClause(lits []Lit, learned bool) *clause {
	return &clause{lits: lits, learned: learned}
}

func (c *clause) Len() int      { return len(c.lits) }
func (c *clause) swap(i, j int) { c.lits[i], c.lits[j] = c.lits[j], c.lits[i] }
