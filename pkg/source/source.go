package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ccollicutt/lossylines/pkg/lossy"
)

// FileSource implements LineSource for reading from files in order.
type FileSource struct {
	files []string
	stdin io.Reader

	current       *lossy.Reader
	currentCloser io.Closer
	currentSource string
	fileIndex     int
}

// NewFileSource creates a LineSource that reads the given files one after
// another. A path of "-" reads standard input.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		stdin:     os.Stdin,
		fileIndex: -1,
	}
}

// WithStdin replaces the reader used for "-".
func (s *FileSource) WithStdin(r io.Reader) *FileSource {
	s.stdin = r
	return s
}

// Next returns the next decoded line.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.current == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		l, err := s.current.NextLine()
		if err == nil {
			return &Line{
				Text:         l.Text,
				Source:       s.currentSource,
				Replacements: l.Replacements,
				Bytes:        l.Bytes,
			}, nil
		}
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	if path == Stdin {
		s.current = lossy.FromReader(s.stdin)
		s.currentSource = Stdin
		return nil
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	s.current = lossy.FromReader(f)
	s.currentCloser = f
	s.currentSource = path

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	s.current = nil
	if s.currentCloser != nil {
		err := s.currentCloser.Close()
		s.currentCloser = nil
		return err
	}
	return nil
}

// ReaderSource implements LineSource over a single named reader.
type ReaderSource struct {
	name   string
	reader *lossy.Reader
	closer io.Closer
}

// NewReaderSource creates a LineSource reading r. If r is an io.Closer it is
// closed by Close.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	s := &ReaderSource{name: name, reader: lossy.FromReader(r)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next returns the next decoded line, or io.EOF.
func (s *ReaderSource) Next(ctx context.Context) (*Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, err := s.reader.NextLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}
	return &Line{
		Text:         l.Text,
		Source:       s.name,
		Replacements: l.Replacements,
		Bytes:        l.Bytes,
	}, nil
}

// Close closes the underlying reader if it is closable.
func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
