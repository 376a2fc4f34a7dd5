package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/lossylines/pkg/config"
	"github.com/ccollicutt/lossylines/pkg/report"
	"github.com/ccollicutt/lossylines/pkg/source"
	"github.com/ccollicutt/lossylines/pkg/webhook"
)

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	Output  string
	Verbose bool
	Quiet   bool
	Strict  bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <config-file>",
		Short: "Report how many lines contain invalid UTF-8",
		Long: `Read every source in the configuration file and report, per file, how many
lines were read, how many needed repair and how many replacement characters
were inserted. Include/exclude filters are not applied.

Exit codes:
  0 - Scan completed (or no repairs with --strict)
  1 - Repaired lines found and --strict was given
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json), overrides the config file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show config and timing details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no per-file details")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with code 1 when any line needed repair")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnRepairs), "When to fire webhook (on_repairs|always|never)")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *ScanOptions) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	log := logger()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	output := cfg.Output
	if opts.Output != "" {
		output = opts.Output
	}
	formatter, err := report.NewFormatter(output, report.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	files, err := source.ExpandGlobs(cfg.Sources)
	if err != nil {
		return fmt.Errorf("expanding sources: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched sources: %v", cfg.Sources)
	}

	collector := report.NewCollector()
	for _, f := range files {
		collector.Track(f)
	}

	src := source.NewFileSource(files).WithStdin(cmd.InOrStdin())
	defer src.Close()

	for {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		collector.Add(line)
	}

	rep := collector.Report(configPath)
	log.Debug("scan finished", "files", rep.Summary.Files, "lines", rep.Summary.Lines, "repaired", rep.Summary.RepairedLines)

	if err := formatter.Format(ctx, rep, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged and do not fail the scan.
	webhook.NewClient().Notify(ctx, collectWebhooks(cfg, opts), rep, log)

	if opts.Strict && rep.HasRepairs() {
		ExitCode = 1
	}

	return nil
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ScanOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnRepairs
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
