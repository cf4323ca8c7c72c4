// Package wcnf parses the WCNF format (weighted partial CNF: hard
// clauses plus soft clauses each carrying a positive weight) into a
// formula.Formula. Pseudo-boolean and cardinality problem lines are
// rejected, matching the formula store's Non-goal (spec §6).
package wcnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
)

// Parse reads a WCNF stream: a header line "p wcnf <nVars> <nClauses>
// [<topWeight>]" followed by one clause per line, each prefixed by its
// weight. A clause whose weight equals topWeight is hard; all others are
// soft. A header without a topWeight field is accepted, but the first
// clause line after it is rejected with an error.
func Parse(r io.Reader) (*formula.Formula, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var f *formula.Formula
	var topWeight uint64
	hasTopWeight := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		switch line[0] {
		case 'c':
			continue
		case 'p':
			fields := strings.Fields(line)
			if len(fields) < 4 || fields[1] != "wcnf" {
				if len(fields) >= 2 && (fields[1] == "cnf+" || fields[1] == "pb" || fields[1] == "wbo") {
					return nil, fmt.Errorf("wcnf: problem type %q carries pseudo-boolean or cardinality constraints, which are rejected", fields[1])
				}
				return nil, fmt.Errorf("wcnf: invalid header line %q", line)
			}
			nVars, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("wcnf: nbvars not an int: %q", fields[2])
			}
			f = formula.New(nVars)
			if len(fields) >= 5 {
				topWeight, err = strconv.ParseUint(fields[4], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("wcnf: top weight not an int: %q", fields[4])
				}
				hasTopWeight = true
			}
		default:
			if f == nil {
				return nil, fmt.Errorf("wcnf: clause line before header: %q", line)
			}
			weight, lits, err := parseClauseLine(line)
			if err != nil {
				return nil, err
			}
			if hasTopWeight && weight == topWeight {
				f.AddHardClause(lits)
			} else if !hasTopWeight {
				return nil, fmt.Errorf("wcnf: header carries no top weight, cannot distinguish hard from soft clauses")
			} else {
				f.AddSoftClause(weight, lits)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wcnf: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("wcnf: empty input, no problem line found")
	}
	return f, nil
}

func parseClauseLine(line string) (weight uint64, lits []oracle.Lit, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, nil, fmt.Errorf("wcnf: malformed clause line %q", line)
	}
	weight, err = strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("wcnf: weight not an int in %q: %w", line, err)
	}
	body := fields[1:]
	if len(body) == 0 || body[len(body)-1] != "0" {
		return 0, nil, fmt.Errorf("wcnf: clause not terminated by 0: %q", line)
	}
	body = body[:len(body)-1]
	lits = make([]oracle.Lit, len(body))
	for i, tok := range body {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, nil, fmt.Errorf("wcnf: invalid literal %q in %q: %w", tok, line, err)
		}
		lits[i] = oracle.IntToLit(v)
	}
	return weight, lits, nil
}
