// Package diag provides the verbosity-gated "c "-prefixed diagnostic
// output the surrounding competition wire protocol expects (spec §6:
// "Lines prefixed c for comments").
package diag

import (
	"fmt"
	"io"
)

// Logger writes verbosity-gated comment lines to an underlying writer.
type Logger struct {
	w         io.Writer
	verbosity int
}

func New(w io.Writer, verbosity int) *Logger {
	return &Logger{w: w, verbosity: verbosity}
}

// Printf writes a "c "-prefixed line if level is at or below the
// logger's configured verbosity.
func (l *Logger) Printf(level int, format string, args ...interface{}) {
	if l == nil || level > l.verbosity {
		return
	}
	fmt.Fprintf(l.w, "c "+format+"\n", args...)
}

// Comment is Printf at verbosity level 0: it always prints.
func (l *Logger) Comment(format string, args ...interface{}) {
	l.Printf(0, format, args...)
}
