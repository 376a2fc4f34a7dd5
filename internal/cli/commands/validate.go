package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/lossylines/pkg/config"
	"github.com/ccollicutt/lossylines/pkg/source"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a lossylines configuration file without reading any source.

Checks:
  - YAML syntax
  - Required fields and allowed values
  - Include/exclude regex validity
  - Webhook URLs and triggers
  - Source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Sources:  %d pattern(s)\n", len(cfg.Sources))
	fmt.Fprintf(out, "  Output:   %s\n", cfg.Output)
	if cfg.Include != "" {
		fmt.Fprintf(out, "  Include:  %s\n", cfg.Include)
	}
	if cfg.Exclude != "" {
		fmt.Fprintf(out, "  Exclude:  %s\n", cfg.Exclude)
	}
	fmt.Fprintf(out, "  Webhooks: %d\n", len(cfg.Webhooks))
	for _, wh := range cfg.Webhooks {
		fmt.Fprintf(out, "    - %s (%s)\n", wh.DisplayName(), wh.Trigger)
	}

	files, err := source.ExpandGlobs(cfg.Sources)
	switch {
	case err != nil:
		fmt.Fprintf(out, "\nWarning: Error expanding source patterns: %v\n", err)
	case len(files) == 0:
		fmt.Fprintf(out, "\nWarning: No files match source patterns\n")
	default:
		fmt.Fprintf(out, "\nFiles matched: %d\n", len(files))
		for _, f := range files {
			fmt.Fprintf(out, "  - %s\n", f)
		}
	}

	return nil
}
