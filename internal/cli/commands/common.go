package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// commandContext returns the command's context, or a background one when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func logger() *slog.Logger {
	return slog.Default()
}
