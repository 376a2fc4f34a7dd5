package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/lossylines/pkg/config"
	"github.com/ccollicutt/lossylines/pkg/source"
)

// CatOptions holds command-line options for the cat command.
type CatOptions struct {
	Config     string
	Output     string
	WithSource bool
	Include    string
	Exclude    string
}

// NewCatCommand creates the cat command.
func NewCatCommand() *cobra.Command {
	opts := &CatOptions{}

	cmd := &cobra.Command{
		Use:   "cat [file...]",
		Short: "Print decoded lines",
		Long: `Print the lines of the given files (or stdin) with invalid UTF-8 replaced
by U+FFFD. Files may be glob patterns; "-" reads stdin.

Line terminators ("\n" and "\r\n") are removed and every line is printed
with "\n". With --output json each line becomes an object with its source,
text and replacement count.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Read sources and filters from a config file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.WithSource, "with-source", "s", false, "Prefix text lines with their source")
	cmd.Flags().StringVar(&opts.Include, "include", "", "Only print lines matching this regex")
	cmd.Flags().StringVar(&opts.Exclude, "exclude", "", "Skip lines matching this regex")

	return cmd
}

// catLine is the JSON shape of one printed line.
type catLine struct {
	Source       string `json:"source"`
	Text         string `json:"text"`
	Replacements int    `json:"replacements"`
}

func runCat(cmd *cobra.Command, args []string, opts *CatOptions) error {
	ctx := commandContext(cmd)
	log := logger()

	patterns := args
	include, exclude := opts.Include, opts.Exclude

	if opts.Config != "" {
		cfg, err := config.Load(ctx, opts.Config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if len(patterns) == 0 {
			patterns = cfg.Sources
		}
		if include == "" {
			include = cfg.Include
		}
		if exclude == "" {
			exclude = cfg.Exclude
		}
	}
	if len(patterns) == 0 {
		patterns = []string{source.Stdin}
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	includeRe, err := compileFlag("include", include)
	if err != nil {
		return err
	}
	excludeRe, err := compileFlag("exclude", exclude)
	if err != nil {
		return err
	}

	files, err := source.ExpandGlobs(patterns)
	if err != nil {
		return fmt.Errorf("expanding sources: %w", err)
	}
	log.Debug("reading sources", "files", files)

	var src source.LineSource = source.NewFileSource(files).WithStdin(cmd.InOrStdin())
	if includeRe != nil || excludeRe != nil {
		src = source.NewFilterSource(src, includeRe, excludeRe)
	}
	defer src.Close()

	w := bufio.NewWriter(cmd.OutOrStdout())
	printed, repaired, err := copyLines(ctx, src, w, opts)
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	log.Info("cat finished", "lines", printed, "repaired", repaired)
	return nil
}

func copyLines(ctx context.Context, src source.LineSource, w io.Writer, opts *CatOptions) (printed, repaired int, err error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return printed, repaired, nil
		}
		if err != nil {
			return printed, repaired, err
		}

		if line.Replacements > 0 {
			repaired++
			logger().Debug("repaired line", "source", line.Source, "replacements", line.Replacements)
		}

		switch {
		case opts.Output == "json":
			err = enc.Encode(catLine{Source: line.Source, Text: line.Text, Replacements: line.Replacements})
		case opts.WithSource:
			_, err = fmt.Fprintf(w, "%s:%s\n", line.Source, line.Text)
		default:
			_, err = fmt.Fprintln(w, line.Text)
		}
		if err != nil {
			return printed, repaired, fmt.Errorf("writing output: %w", err)
		}
		printed++
	}
}

func compileFlag(name, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern: %w", name, err)
	}
	return re, nil
}
