package report

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TextFormatter formats reports as a human-readable table.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "lossylines: %d files, %d lines, %d repaired, %d replacements\n",
		report.Summary.Files,
		report.Summary.Lines,
		report.Summary.RepairedLines,
		report.Summary.Replacements)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Source", "Lines", "Repaired", "Replacements", "Bytes"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, fs := range report.Files {
		tw.AppendRow(table.Row{fs.Source, fs.Lines, fs.RepairedLines, fs.Replacements, fs.Bytes})
	}
	s := report.Summary
	tw.AppendFooter(table.Row{fmt.Sprintf("%d files", s.Files), s.Lines, s.RepairedLines, s.Replacements, s.Bytes})
	tw.Render()

	if f.opts.Verbose {
		if report.Metadata.ConfigFile != "" {
			fmt.Fprintf(w, "Config: %s\n", report.Metadata.ConfigFile)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}
