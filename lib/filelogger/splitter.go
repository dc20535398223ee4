package filelogger

import (
	"bufio"
	"bytes"
)

var newline = []byte{'\n'}

// splitter puts prefix p in front of every line written through it.
type splitter struct {
	w *bufio.Writer
	p bytes.Buffer
	n bool // at the start of a line
}

func (s *splitter) reset() {
	s.n = true
	s.p.Reset()
}

func (s *splitter) Write(b []byte) (int, error) {
	l := 0
	for i, c := range b {
		if s.n {
			s.w.Write(s.p.Bytes())
			s.n = false
		}
		if c == '\n' {
			s.w.Write(b[l : i+1])
			l = i + 1
			s.n = true
		}
	}
	if l < len(b) {
		s.w.Write(b[l:])
	}
	return len(b), nil
}

// finish terminates the last line and flushes.
func (s *splitter) finish() {
	if !s.n {
		s.w.Write(newline)
	}
	s.w.Flush()
}
