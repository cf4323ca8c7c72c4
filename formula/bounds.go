package formula

// Bounds tracks the driver's lower/upper bound on the optimum cost and
// the derived gap. LBCost is monotonically non-decreasing, UBCost
// monotonically non-increasing, and KnownGap therefore monotonically
// non-increasing; violating this is a solver bug (spec §7.2).
type Bounds struct {
	LBCost uint64
	UBCost uint64
	// HasUB is false until the first satisfying model is found.
	HasUB bool
}

// RaiseLB advances the lower bound by delta, as the core manager does
// after absorbing a core's cost. Panics if the result would exceed the
// current upper bound while one is known (spec §7.2 invariant violation).
func (b *Bounds) RaiseLB(delta uint64) {
	b.LBCost += delta
	if b.HasUB && b.LBCost > b.UBCost {
		panic("formula: lb_cost exceeded ub_cost")
	}
}

// LowerUB records an improved upper bound found by a model. No-op if the
// candidate does not improve on the current bound.
func (b *Bounds) LowerUB(cost uint64) bool {
	if b.HasUB && cost >= b.UBCost {
		return false
	}
	b.UBCost = cost
	b.HasUB = true
	return true
}

// Gap returns ub_cost - lb_cost, or 0 if no upper bound is known yet.
func (b *Bounds) Gap() uint64 {
	if !b.HasUB || b.UBCost < b.LBCost {
		return 0
	}
	return b.UBCost - b.LBCost
}

func (b *Bounds) Optimum() bool { return b.HasUB && b.LBCost == b.UBCost }
