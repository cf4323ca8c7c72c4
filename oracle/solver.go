package oracle

import (
	"time"

	"github.com/rhartert/yagh"
)

const (
	lubyConstant       = 100
	defaultVarDecay    = 0.95
	defaultClauseDecay = 0.999
	budgetCheckEvery   = 5000
)

// Stats are counters about the search, reported for diagnostics only.
type Stats struct {
	NbRestarts  int
	NbConflicts int
	NbDecisions int
}

// Oracle is the capability set the rest of the module needs from a CDCL
// decision procedure. Solver implements it; a test double or another
// backend could too.
type Oracle interface {
	NVars() int
	ReserveVars(n int)
	NewVar() Var
	AddClause(lits []Lit) bool
	Solve(assumptions []Lit) Status
	Model() []bool
	Conflict() []Lit
	SetTimeBudget(seconds float64)
	BudgetOff()
	SetPolarity(v Var, value bool)
	SetSolutionBasedPhaseSaving(on bool)
	SetUserPhase(phase []bool)
	ResetFixes()
	Stats() Stats
}

// Solver is a CDCL SAT solver with two-watched-literal propagation,
// first-UIP clause learning, Luby restarts and an activity-ordered
// decision heap. It solves under assumptions and, on UNSAT, reports the
// negations of the passed assumptions that are jointly responsible.
type Solver struct {
	nVars   int
	clauses []*clause
	learnts []*clause
	watches [][]*clause // indexed by Lit; watches[l] holds clauses to recheck when l becomes true

	assigns []LBool
	level   []int
	reason  []*clause
	trail   []Lit
	trailLim []int
	qhead   int

	activity []float64
	varInc   float64
	varDecay float64
	claInc   float64
	claDecay float64
	heap     *yagh.IntMap[float64]

	polarity            []bool
	userPhase           []bool
	solutionPhaseSaving bool

	model    []bool
	conflict []Lit
	unsat    bool

	numAssumptions int

	budgetOn   bool
	budgetSecs float64
	ticks      int64
	lastCheck  int64

	stats Stats
}

// NewSolver returns a Solver with room for nVars variables.
func NewSolver(nVars int) *Solver {
	s := &Solver{
		varInc:   1,
		varDecay: defaultVarDecay,
		claInc:   1,
		claDecay: defaultClauseDecay,
		heap:     yagh.New[float64](nVars),
	}
	s.growTo(nVars)
	return s
}

// NVars returns the number of variables currently known to the solver.
func (s *Solver) NVars() int { return s.nVars }

func (s *Solver) growTo(n int) {
	for s.nVars < n {
		s.assigns = append(s.assigns, LUnknown)
		s.level = append(s.level, -1)
		s.reason = append(s.reason, nil)
		s.activity = append(s.activity, 0)
		s.polarity = append(s.polarity, false)
		s.watches = append(s.watches, nil, nil) // two watch lists per var (pos, neg)
		s.heap.Put(s.nVars, 0)
		s.nVars++
	}
}

// ReserveVars grows the solver's variable capacity to at least n.
func (s *Solver) ReserveVars(n int) { s.growTo(n) }

// NewVar allocates and returns a fresh variable.
func (s *Solver) NewVar() Var {
	v := Var(s.nVars)
	s.growTo(s.nVars + 1)
	return v
}

func (s *Solver) value(l Lit) LBool {
	a := s.assigns[l.Var()]
	if a == LUnknown {
		return LUnknown
	}
	if l.IsPositive() {
		return a
	}
	if a == LTrue {
		return LFalse
	}
	return LTrue
}

func (s *Solver) assignedLit(v Var) Lit {
	if s.assigns[v] == LTrue {
		return v.Lit()
	}
	return v.Lit().Negation()
}

func (s *Solver) decisionLevel() int { return len(s.trailLim) }

func (s *Solver) newDecisionLevel() { s.trailLim = append(s.trailLim, len(s.trail)) }

func (s *Solver) uncheckedEnqueue(l Lit, reason *clause) {
	v := l.Var()
	if l.IsPositive() {
		s.assigns[v] = LTrue
	} else {
		s.assigns[v] = LFalse
	}
	s.level[v] = s.decisionLevel()
	s.reason[v] = reason
	s.trail = append(s.trail, l)
}

func (s *Solver) cancelUntil(lvl int) {
	for s.decisionLevel() > lvl {
		start := s.trailLim[len(s.trailLim)-1]
		for i := len(s.trail) - 1; i >= start; i-- {
			v := s.trail[i].Var()
			if s.solutionPhaseSaving {
				s.polarity[v] = s.assigns[v] == LTrue
			}
			s.assigns[v] = LUnknown
			s.reason[v] = nil
			s.level[v] = -1
			s.heap.Put(int(v), -s.activity[v])
		}
		s.trail = s.trail[:start]
		s.trailLim = s.trailLim[:len(s.trailLim)-1]
	}
	s.qhead = len(s.trail)
}

// attach registers c on its two watched literals, or enqueues it directly
// if it is a unit clause.
func (s *Solver) attach(c *clause) {
	if len(c.lits) == 1 {
		s.uncheckedEnqueue(c.lits[0], c)
		return
	}
	w0 := c.lits[0].Negation()
	w1 := c.lits[1].Negation()
	s.watches[w0] = append(s.watches[w0], c)
	s.watches[w1] = append(s.watches[w1], c)
}

// AddClause adds a hard clause. It returns false iff the clause set is now
// trivially unsatisfiable (i.e. this was an empty or fully-falsified
// clause at decision level 0).
func (s *Solver) AddClause(lits []Lit) bool {
	if s.unsat {
		return false
	}
	s.cancelUntil(0)
	ls := make([]Lit, len(lits))
	copy(ls, lits)
	seen := make(map[Lit]bool, len(ls))
	out := ls[:0]
	for _, l := range ls {
		if seen[l.Negation()] {
			return true // tautology
		}
		if seen[l] {
			continue
		}
		switch s.value(l) {
		case LTrue:
			return true // already satisfied at level 0
		case LFalse:
			continue // drop, falsified at level 0
		}
		seen[l] = true
		out = append(out, l)
	}
	switch len(out) {
	case 0:
		s.unsat = true
		return false
	case 1:
		s.uncheckedEnqueue(out[0], nil)
		if confl := s.propagate(); confl != nil {
			s.unsat = true
			return false
		}
		return true
	default:
		c := newClause(out, false)
		s.clauses = append(s.clauses, c)
		s.attach(c)
		return true
	}
}

// propagate runs BCP until fixpoint or a conflicting clause is found.
func (s *Solver) propagate() *clause {
	for s.qhead < len(s.trail) {
		p := s.trail[s.qhead]
		s.qhead++
		s.ticks++
		ws := s.watches[p]
		s.watches[p] = ws[:0]
		keep := s.watches[p]
		for i := 0; i < len(ws); i++ {
			c := ws[i]
			if c.lits[0].Negation() == p {
				c.swap(0, 1)
			}
			other := c.lits[0]
			if s.value(other) == LTrue {
				keep = append(keep, c)
				continue
			}
			found := false
			for k := 2; k < len(c.lits); k++ {
				if s.value(c.lits[k]) != LFalse {
					c.swap(1, k)
					w := c.lits[1].Negation()
					s.watches[w] = append(s.watches[w], c)
					found = true
					break
				}
			}
			if found {
				continue
			}
			keep = append(keep, c)
			if s.value(other) == LFalse {
				// conflict: restore remaining, unprocessed watchers.
				keep = append(keep, ws[i+1:]...)
				s.watches[p] = keep
				return c
			}
			s.uncheckedEnqueue(other, c)
		}
		s.watches[p] = keep
	}
	return nil
}

// analyze performs first-UIP conflict analysis, returning the learnt
// clause (asserting literal first) and the backtrack level.
func (s *Solver) analyze(confl *clause) ([]Lit, int) {
	seen := make([]bool, s.nVars)
	counter := 0
	learnt := make([]Lit, 1, 8)
	trailIdx := len(s.trail) - 1
	c := confl
	p := Lit(-1)
	for {
		s.bumpClause(c)
		for _, q := range c.lits {
			v := q.Var()
			if seen[v] || (p != -1 && v == p.Var()) {
				continue
			}
			seen[v] = true
			s.bumpVar(v)
			if s.level[v] == s.decisionLevel() {
				counter++
			} else if s.level[v] > 0 {
				learnt = append(learnt, q)
			}
		}
		for !seen[s.trail[trailIdx].Var()] {
			trailIdx--
		}
		p = s.trail[trailIdx]
		seen[p.Var()] = false
		counter--
		trailIdx--
		if counter <= 0 {
			break
		}
		c = s.reason[p.Var()]
	}
	learnt[0] = p.Negation()
	backLevel := 0
	for _, l := range learnt[1:] {
		if lvl := s.level[l.Var()]; lvl > backLevel {
			backLevel = lvl
		}
	}
	return learnt, backLevel
}

// resolveToDecisions walks the implication graph backward from lits (all
// currently false) and returns the NEGATION of each decision literal at
// level <= maxLevel that the conflict traces back to. Within the
// assumption-only prefix of the search (decision levels 1..maxLevel),
// those decisions are exactly the caller's assumption literals, and the
// negation matches the conventional meaning of a returned conflict: a
// clause "at least one of these must be false", i.e. it is the passed
// assumption literals themselves that appear negated, mirroring the
// convention MiniSat-family solvers use for a failed-assumption vector.
func (s *Solver) resolveToDecisions(lits []Lit, maxLevel int) []Lit {
	seen := make([]bool, s.nVars)
	frontier := append([]Lit(nil), lits...)
	var core []Lit
	for len(frontier) > 0 {
		l := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		v := l.Var()
		if seen[v] {
			continue
		}
		seen[v] = true
		if r := s.reason[v]; r != nil {
			for _, rl := range r.lits {
				if rl.Var() != v {
					frontier = append(frontier, rl)
				}
			}
			continue
		}
		if lvl := s.level[v]; lvl > 0 && lvl <= maxLevel {
			core = append(core, s.assignedLit(v).Negation())
		}
	}
	return core
}

func (s *Solver) bumpVar(v Var) {
	s.activity[v] += s.varInc
	if s.activity[v] > 1e100 {
		for i := range s.activity {
			s.activity[i] *= 1e-100
		}
		s.varInc *= 1e-100
	}
	if s.assigns[v] == LUnknown {
		s.heap.Put(int(v), -s.activity[v])
	}
}

func (s *Solver) bumpClause(c *clause) {
	if !c.learned {
		return
	}
	c.activity += s.claInc
}

func (s *Solver) decayActivities() {
	s.varInc /= s.varDecay
	s.claInc /= s.claDecay
}

func (s *Solver) pickBranchVar() (Var, bool) {
	for {
		elem, ok := s.heap.Pop()
		if !ok {
			return 0, false
		}
		v := Var(elem.Elem)
		if s.assigns[v] == LUnknown {
			return v, true
		}
	}
}

func (s *Solver) decidePolarity(v Var) bool {
	if s.userPhase != nil && int(v) < len(s.userPhase) {
		return s.userPhase[v]
	}
	return s.polarity[v]
}

func (s *Solver) buildModel() {
	m := make([]bool, s.nVars)
	for v := 0; v < s.nVars; v++ {
		m[v] = s.assigns[Var(v)] == LTrue
	}
	s.model = m
	if s.solutionPhaseSaving {
		copy(s.polarity, m)
	}
}

// Solve solves the clause set under the given assumptions. On StatusSat,
// Model() holds a full assignment; on StatusUnsat, Conflict() holds the
// negations of the assumptions responsible; on StatusUnknown, the time budget
// expired before either could be established.
func (s *Solver) Solve(assumptions []Lit) Status {
	s.conflict = nil
	s.model = nil
	s.cancelUntil(0)
	if s.unsat {
		return StatusUnsat
	}
	s.numAssumptions = len(assumptions)

	var deadline time.Time
	if s.budgetOn {
		deadline = time.Now().Add(time.Duration(s.budgetSecs * float64(time.Second)))
		s.lastCheck = s.ticks
	}

	for _, p := range assumptions {
		if s.value(p) == LFalse {
			s.conflict = append(s.resolveToDecisions([]Lit{p}, s.numAssumptions), p.Negation())
			s.cancelUntil(0)
			return StatusUnsat
		}
		s.newDecisionLevel()
		if s.value(p) == LUnknown {
			s.uncheckedEnqueue(p, nil)
			if confl := s.propagate(); confl != nil {
				core := s.resolveToDecisions(confl.lits, s.numAssumptions)
				s.cancelUntil(0)
				s.conflict = core
				return StatusUnsat
			}
		}
	}

	conflictsSinceRestart := 0
	var restarts uint = 1
	restartBound := luby(restarts) * lubyConstant

	for {
		if s.budgetOn && s.ticks-s.lastCheck >= budgetCheckEvery {
			s.lastCheck = s.ticks
			if time.Now().After(deadline) {
				return StatusUnknown
			}
		}
		confl := s.propagate()
		if confl != nil {
			s.stats.NbConflicts++
			if s.decisionLevel() == 0 {
				s.unsat = true
				return StatusUnsat
			}
			if s.decisionLevel() <= s.numAssumptions {
				core := s.resolveToDecisions(confl.lits, s.numAssumptions)
				s.cancelUntil(0)
				s.conflict = core
				return StatusUnsat
			}
			learnt, backLevel := s.analyze(confl)
			if backLevel < s.numAssumptions {
				backLevel = s.numAssumptions // keep every assumption level in place
			}
			s.cancelUntil(backLevel)
			if len(learnt) == 1 && backLevel == 0 {
				s.uncheckedEnqueue(learnt[0], nil)
			} else {
				lc := newClause(learnt, true)
				s.learnts = append(s.learnts, lc)
				s.attach(lc)
				if len(learnt) > 1 {
					s.uncheckedEnqueue(learnt[0], lc)
				}
			}
			s.decayActivities()
			conflictsSinceRestart++
			continue
		}
		if conflictsSinceRestart >= int(restartBound) {
			s.cancelUntil(s.numAssumptions)
			restarts++
			restartBound = luby(restarts) * lubyConstant
			conflictsSinceRestart = 0
			s.stats.NbRestarts++
			continue
		}
		v, ok := s.pickBranchVar()
		if !ok {
			s.buildModel()
			return StatusSat
		}
		s.stats.NbDecisions++
		s.newDecisionLevel()
		s.uncheckedEnqueue(v.SignedLit(!s.decidePolarity(v)), nil)
	}
}

// Model returns the last satisfying assignment, valid after a StatusSat result.
func (s *Solver) Model() []bool { return s.model }

// Conflict returns the negations of the assumptions responsible for the
// last StatusUnsat result.
func (s *Solver) Conflict() []Lit { return s.conflict }

// SetTimeBudget bounds each subsequent Solve call to roughly the given
// number of seconds, checked cooperatively during propagation.
func (s *Solver) SetTimeBudget(seconds float64) {
	s.budgetOn = true
	s.budgetSecs = seconds
}

// BudgetOff removes any time budget.
func (s *Solver) BudgetOff() { s.budgetOn = false }

// SetPolarity hints the initial decision phase for v.
func (s *Solver) SetPolarity(v Var, value bool) {
	if int(v) < len(s.polarity) {
		s.polarity[v] = value
	}
}

// SetSolutionBasedPhaseSaving turns phase saving from found models on or off.
func (s *Solver) SetSolutionBasedPhaseSaving(on bool) { s.solutionPhaseSaving = on }

// SetUserPhase installs a fixed phase vector, e.g. the current best MaxSAT
// model during the linear-search phase. It decides the polarity of every
// variable it covers on every decision, ahead of saved phases; it is not
// reloaded into the saved phases at restarts.
func (s *Solver) SetUserPhase(phase []bool) { s.userPhase = phase }

// ResetFixes backtracks to decision level 0, dropping every binding made
// above it. Bindings fixed at level 0 (unit clauses and what they
// propagate) are kept.
func (s *Solver) ResetFixes() {
	s.cancelUntil(0)
}

// Stats reports search counters, for diagnostics only.
func (s *Solver) Stats() Stats { return s.stats }

var _ Oracle = (*Solver)(nil)
