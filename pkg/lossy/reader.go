// Package lossy splits mostly-UTF-8 byte streams into lines, replacing
// invalid UTF-8 with U+FFFD instead of failing.
//
// It is meant for text that should be UTF-8 but may not be: long-lived log
// files, or machine formats (assembly, g-code, dxf, nmea) whose comments use
// an unknown encoding. Input that must be valid UTF-8, such as configuration
// files or API replies, should be rejected rather than read lossily.
package lossy

import (
	"bufio"
	"errors"
	"io"
	"iter"
)

// ByteSource reads up to and including the first occurrence of delim.
// *bufio.Reader implements it.
//
// At end of input ReadBytes returns the bytes read so far together with
// io.EOF, and later calls return no bytes and io.EOF.
type ByteSource interface {
	ReadBytes(delim byte) ([]byte, error)
}

// Line is one decoded line along with what it took to produce it.
type Line struct {
	// Text is the decoded line without its terminator.
	Text string

	// Replacements is the number of U+FFFD characters substituted.
	Replacements int

	// Bytes is the number of bytes consumed from the source, terminator
	// included.
	Bytes int
}

// Repaired reports whether any invalid UTF-8 was replaced.
func (l Line) Repaired() bool {
	return l.Replacements > 0
}

// Reader yields the lines of a ByteSource. A Reader owns its source: nothing
// else may read from it while the Reader is in use. It is not safe for
// concurrent use.
type Reader struct {
	src  ByteSource
	done bool
}

// NewReader returns a Reader consuming src.
func NewReader(src ByteSource) *Reader {
	return &Reader{src: src}
}

// FromReader returns a Reader over r, buffering it unless r already
// implements ByteSource.
func FromReader(r io.Reader) *Reader {
	if src, ok := r.(ByteSource); ok {
		return NewReader(src)
	}
	return NewReader(bufio.NewReader(r))
}

// Next returns the next line with its trailing "\n" or "\r\n" removed.
// A "\r" that is not followed by "\n" is kept.
//
// Next returns io.EOF once the source is exhausted, and keeps returning it
// afterwards. Any other error comes straight from the source; the partial
// line read before it is dropped.
func (r *Reader) Next() (string, error) {
	l, err := r.NextLine()
	return l.Text, err
}

// NextLine is like Next but also reports how the line was decoded.
func (r *Reader) NextLine() (Line, error) {
	if r.done {
		return Line{}, io.EOF
	}

	buf, err := r.src.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Line{}, err
	}
	if len(buf) == 0 {
		r.done = true
		return Line{}, io.EOF
	}

	n := len(buf)
	if buf[len(buf)-1] == '\n' {
		buf = buf[:len(buf)-1]
		if len(buf) > 0 && buf[len(buf)-1] == '\r' {
			buf = buf[:len(buf)-1]
		}
	}

	text, repl := decode(buf)
	return Line{Text: text, Replacements: repl, Bytes: n}, nil
}

// All returns an iterator over the remaining lines. Iteration stops at the
// end of input, or after yielding the first read error.
func (r *Reader) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			line, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}

// Lines reads all remaining lines. It stops at the first read error and
// returns the lines read before it.
func (r *Reader) Lines() ([]string, error) {
	var lines []string
	for line, err := range r.All() {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
