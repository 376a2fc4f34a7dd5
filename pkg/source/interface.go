// Package source reads decoded lines from log files, globs and stdin.
package source

import (
	"context"
)

// Stdin is the source name that reads standard input.
const Stdin = "-"

// Line is one decoded line and where it came from.
type Line struct {
	// Text is the line content with its terminator removed and invalid
	// UTF-8 replaced by U+FFFD.
	Text string

	// Source is the file path (or "-") this line came from.
	Source string

	// Replacements is the number of U+FFFD characters substituted.
	Replacements int

	// Bytes is the raw size of the line, terminator included.
	Bytes int
}

// LineSource provides an iterator over decoded lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}
