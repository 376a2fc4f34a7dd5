// Package plugins provides exec-based plugin support for lossylines.
// Plugins are separate binaries named lossylines-<command> that are discovered
// and executed when an unknown command is invoked, the way kubectl and git
// find theirs.
package plugins

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "lossylines-"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Finder locates plugin binaries.
type Finder struct {
	// Dirs are searched in order before PATH.
	Dirs []string

	// SearchPath enables the final lookup in PATH.
	SearchPath bool
}

// DefaultFinder searches, in order:
//  1. the directory containing the lossylines binary
//  2. ~/.lossylines/plugins/
//  3. PATH
func DefaultFinder() *Finder {
	f := &Finder{SearchPath: true}
	if execPath, err := os.Executable(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Join(homeDir, ".lossylines", "plugins"))
	}
	return f
}

// FindPlugin searches the default locations for lossylines-<command>.
func FindPlugin(command string) (string, error) {
	return DefaultFinder().Find(command)
}

// Find returns the full path of the plugin binary for command.
func (f *Finder) Find(command string) (string, error) {
	pluginName := Prefix + command

	for _, dir := range f.Dirs {
		candidate := filepath.Join(dir, pluginName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if f.SearchPath {
		if path, err := exec.LookPath(pluginName); err == nil {
			return path, nil
		}
	}

	return "", ErrPluginNotFound
}

// Execute runs a plugin with the given arguments, wired to the process's
// standard streams, and returns the plugin's exit code.
func Execute(pluginPath string, args []string) int {
	return Run(pluginPath, args, os.Stdin, os.Stdout, os.Stderr)
}

// Run is Execute with explicit streams.
func Run(pluginPath string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := exec.Command(pluginPath, args...) // #nosec G204 -- plugin path comes from Find
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing plugin: %v\n", err)
		return 1
	}

	return 0
}

// FormatNotFoundError returns a helpful error message when a plugin is not found.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"lossylines\"\n", command)
	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as lossylines\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.lossylines/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'lossylines --help' for usage.")

	return sb.String()
}

// isExecutable checks if path is a regular file with an execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
