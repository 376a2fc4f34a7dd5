package source

import (
	"context"
	"regexp"
)

// FilterSource passes through lines matching include and not matching
// exclude. Either pattern may be nil.
type FilterSource struct {
	src     LineSource
	include *regexp.Regexp
	exclude *regexp.Regexp
}

// NewFilterSource wraps src with the given patterns.
func NewFilterSource(src LineSource, include, exclude *regexp.Regexp) *FilterSource {
	return &FilterSource{src: src, include: include, exclude: exclude}
}

// Next returns the next line that passes the filter.
func (f *FilterSource) Next(ctx context.Context) (*Line, error) {
	for {
		line, err := f.src.Next(ctx)
		if err != nil {
			return nil, err
		}
		if f.include != nil && !f.include.MatchString(line.Text) {
			continue
		}
		if f.exclude != nil && f.exclude.MatchString(line.Text) {
			continue
		}
		return line, nil
	}
}

// Close closes the wrapped source.
func (f *FilterSource) Close() error {
	return f.src.Close()
}
