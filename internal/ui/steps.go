package ui

import (
	"fmt"
	"io"
)

// Steps reports progress through a fixed sequence of steps.
type Steps struct {
	out   io.Writer
	total int
	done  int
}

// NewSteps creates a reporter for total steps.
func NewSteps(out io.Writer, total int) *Steps {
	return &Steps{out: out, total: total}
}

// Done marks the next step as completed and prints it.
func (s *Steps) Done(format string, args ...any) {
	s.done++
	_, _ = fmt.Fprintf(s.out, "[%d/%d] %s\n", s.done, s.total, fmt.Sprintf(format, args...))
}

// Log prints an indented detail line under the current step.
func (s *Steps) Log(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, "  "+format+"\n", args...)
}

// Writer returns a writer whose lines are indented like Log.
func (s *Steps) Writer() io.Writer {
	return &indentWriter{out: s.out, start: true}
}

type indentWriter struct {
	out   io.Writer
	start bool
}

func (w *indentWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if w.start {
			if _, err := w.out.Write([]byte("  ")); err != nil {
				return 0, err
			}
			w.start = false
		}
		if _, err := w.out.Write([]byte{b}); err != nil {
			return 0, err
		}
		if b == '\n' {
			w.start = true
		}
	}
	return len(p), nil
}
