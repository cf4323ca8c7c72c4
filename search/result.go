package search

// Status is one of the terminal or interrupted outcomes of a search
// call (spec §7: "enumerated status codes {SAT, UNSAT, OPTIMUM, UNKNOWN,
// ERROR}"; SAT is internal to the core-guided loop, and UNSAT leaves
// Search as StatusUnsatisfiable alongside the other three).
type Status int

const (
	StatusUnsatisfiable Status = iota
	StatusOptimum
	StatusUnknown
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUnsatisfiable:
		return "UNSATISFIABLE"
	case StatusOptimum:
		return "OPTIMUM FOUND"
	case StatusUnknown:
		return "UNKNOWN"
	default:
		return "ERROR"
	}
}

// Result is what a top-level Search call returns.
type Result struct {
	Status Status
	Cost   uint64
	Model  []bool
	Err    error
}
