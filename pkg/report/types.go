// Package report collects per-source decoding statistics and renders them.
package report

import (
	"time"

	"github.com/ccollicutt/lossylines/pkg/source"
)

// Report is the complete scan output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Files holds statistics per source, in the order sources were read.
	Files []*FileStats `json:"files"`

	// Metadata provides context about the scan.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Files         int   `json:"files"`
	Lines         int   `json:"lines"`
	RepairedLines int   `json:"repaired_lines"`
	Replacements  int   `json:"replacements"`
	Bytes         int64 `json:"bytes"`
}

// FileStats describes how one source decoded.
type FileStats struct {
	Source string `json:"source"`

	// Lines is the number of lines read.
	Lines int `json:"lines"`

	// RepairedLines is the number of lines containing invalid UTF-8.
	RepairedLines int `json:"repaired_lines"`

	// Replacements is the number of U+FFFD characters substituted.
	Replacements int `json:"replacements"`

	// Bytes is the raw size read, terminators included.
	Bytes int64 `json:"bytes"`
}

// Metadata provides context about the scan run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty"`

	// ScannedAt is when the scan finished.
	ScannedAt time.Time `json:"scanned_at"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration"`
}

// HasRepairs returns true if any line needed repair.
func (r *Report) HasRepairs() bool {
	return r.Summary.RepairedLines > 0
}

// Collector accumulates FileStats from decoded lines.
type Collector struct {
	files   []*FileStats
	bySrc   map[string]*FileStats
	started time.Time
	now     func() time.Time
}

// NewCollector creates an empty Collector. Sources registered with Track are
// reported even if they yield no lines.
func NewCollector() *Collector {
	c := &Collector{
		bySrc: make(map[string]*FileStats),
		now:   time.Now,
	}
	c.started = c.now()
	return c
}

// Track registers a source so it appears in the report.
func (c *Collector) Track(name string) *FileStats {
	if fs, ok := c.bySrc[name]; ok {
		return fs
	}
	fs := &FileStats{Source: name}
	c.bySrc[name] = fs
	c.files = append(c.files, fs)
	return fs
}

// Add records one line.
func (c *Collector) Add(line *source.Line) {
	fs := c.Track(line.Source)
	fs.Lines++
	fs.Bytes += int64(line.Bytes)
	if line.Replacements > 0 {
		fs.RepairedLines++
		fs.Replacements += line.Replacements
	}
}

// Report builds the report for everything collected so far.
func (c *Collector) Report(configFile string) *Report {
	end := c.now()
	r := &Report{
		Files: c.files,
		Metadata: Metadata{
			ConfigFile: configFile,
			ScannedAt:  end,
			Duration:   end.Sub(c.started),
		},
	}
	if r.Files == nil {
		r.Files = []*FileStats{}
	}
	for _, fs := range c.files {
		r.Summary.Files++
		r.Summary.Lines += fs.Lines
		r.Summary.RepairedLines += fs.RepairedLines
		r.Summary.Replacements += fs.Replacements
		r.Summary.Bytes += fs.Bytes
	}
	return r
}
