// Package cli provides the command-line interface for lossylines.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/lossylines/internal/cli/commands"
	"github.com/ccollicutt/lossylines/internal/cli/plugins"
	"github.com/ccollicutt/lossylines/pkg/config"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return execute(os.Args[1:])
}

func execute(args []string) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)

	potentialCommand := pluginCandidate(rootCmd, args)
	if potentialCommand != "" {
		if pluginPath, err := plugins.FindPlugin(potentialCommand); err == nil {
			return plugins.Execute(pluginPath, args[1:])
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if potentialCommand != "" {
			_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(potentialCommand))
			return 2
		}
		// SilenceErrors stops cobra from printing it.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// pluginCandidate returns the first argument when it names no built-in
// command and is not a flag.
func pluginCandidate(rootCmd *cobra.Command, args []string) string {
	if len(args) == 0 {
		return ""
	}
	name := args[0]
	if name == "" || name[0] == '-' || isBuiltinCommand(rootCmd, name) {
		return ""
	}
	return name
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel, envFile string

	rootCmd := &cobra.Command{
		Use:   "lossylines",
		Short: "Read mostly-UTF-8 text line by line without failing on bad bytes",
		Long: `lossylines reads log files and other "probably UTF-8" text line by line.

Bytes that are not valid UTF-8 are replaced with U+FFFD instead of aborting
the read or dropping the line. Lines end at "\n"; a "\r" right before it is
removed too.

Commands:
  cat       print decoded lines
  scan      report how many lines needed repair
  validate  check a configuration file

PLUGINS:
  Unknown commands run a binary named lossylines-<command>, searched for in
  the directory of the lossylines binary, ~/.lossylines/plugins/, and PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			if envFile != "" {
				if err := config.LoadEnvFile(envFile); err != nil {
					return err
				}
				logger.Debug("loaded env file", "path", envFile)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from a dotenv file")

	rootCmd.AddCommand(commands.NewCatCommand())
	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
