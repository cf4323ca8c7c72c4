package cnf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLoadsHardClauses(t *testing.T) {
	input := "c comment\np cnf 2 2\n1 2 0\n-1 -2 0\n"
	f, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, 2, f.NVars())
	assert.Equal(t, 2, f.NHard())
	assert.Equal(t, 0, f.NSoft())
}

func TestParseRejectsNonCNFProblem(t *testing.T) {
	_, err := Parse(strings.NewReader("p wcnf 2 1\n1 0\n"))
	assert.Error(t, err)
}
