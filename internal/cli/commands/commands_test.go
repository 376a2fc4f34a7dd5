package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/lossylines/pkg/report"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// run executes cmd with args and stdin, returning stdout.
func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewCommands(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewCatCommand(), "cat [file...]", []string{"config", "output", "with-source", "include", "exclude"}},
		{NewScanCommand(), "scan <config-file>", []string{"output", "verbose", "quiet", "strict", "webhook-url", "webhook-token", "webhook-trigger"}},
		{NewValidateCommand(), "validate <config-file>", nil},
		{NewVersionCommand(), "version", nil},
	}

	for _, tt := range tests {
		if tt.cmd.Use != tt.use {
			t.Errorf("Unexpected Use: %s, want %s", tt.cmd.Use, tt.use)
		}
		for _, flag := range tt.flags {
			if tt.cmd.Flags().Lookup(flag) == nil {
				t.Errorf("%s: missing flag %s", tt.use, flag)
			}
		}
	}
}

func TestRunVersion(t *testing.T) {
	out, err := run(t, NewVersionCommand(), "")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "lossylines dev\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestRunCat_Stdin(t *testing.T) {
	out, err := run(t, NewCatCommand(), "what\xaas\r\nup")
	if err != nil {
		t.Fatalf("cat failed: %v", err)
	}
	if out != "what\uFFFDs\nup\n" {
		t.Errorf("cat output = %q", out)
	}
}

func TestRunCat_Files(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "a1\na2\n")
	writeFile(t, dir, "b.log", "\xaa\xbb\xcc\r\n\xee \xff")

	out, err := run(t, NewCatCommand(), "", "--with-source", filepath.Join(dir, "*.log"))
	if err != nil {
		t.Fatalf("cat failed: %v", err)
	}

	a, b := filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")
	want := a + ":a1\n" + a + ":a2\n" + b + ":\uFFFD\uFFFD\uFFFD\n" + b + ":\uFFFD \uFFFD\n"
	if out != want {
		t.Errorf("cat output = %q, want %q", out, want)
	}
}

func TestRunCat_JSON(t *testing.T) {
	out, err := run(t, NewCatCommand(), "ok\nb\xffd <tag>\n", "--output", "json")
	if err != nil {
		t.Fatalf("cat failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d json lines, want 2: %q", len(lines), out)
	}

	var got catLine
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil {
		t.Fatalf("invalid json %q: %v", lines[1], err)
	}
	want := catLine{Source: "-", Text: "b\uFFFDd <tag>", Replacements: 1}
	if got != want {
		t.Errorf("line = %+v, want %+v", got, want)
	}
	if !strings.Contains(lines[1], "<tag>") {
		t.Errorf("html should not be escaped: %s", lines[1])
	}
}

func TestRunCat_Filters(t *testing.T) {
	input := "INFO a\nERROR b\nDEBUG ERROR c\n"
	out, err := run(t, NewCatCommand(), input, "--include", "ERROR", "--exclude", "^DEBUG")
	if err != nil {
		t.Fatalf("cat failed: %v", err)
	}
	if out != "ERROR b\n" {
		t.Errorf("cat output = %q", out)
	}
}

func TestRunCat_Config(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "app.log", "keep me\ndrop me\n")
	configPath := writeFile(t, dir, "config.yaml", "sources:\n  - "+logPath+"\nexclude: '^drop'\n")

	out, err := run(t, NewCatCommand(), "", "--config", configPath)
	if err != nil {
		t.Fatalf("cat failed: %v", err)
	}
	if out != "keep me\n" {
		t.Errorf("cat output = %q", out)
	}
}

func TestRunCat_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad output", []string{"--output", "xml"}, "unknown output format"},
		{"bad include", []string{"--include", "[x"}, "invalid include pattern"},
		{"missing file", []string{"/nonexistent/file.log"}, "/nonexistent/file.log"},
		{"missing config", []string{"--config", "/nonexistent/config.yaml"}, "loading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, NewCatCommand(), "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func scanFixture(t *testing.T, extra string) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, dir, "clean.log", "one\ntwo\n")
	writeFile(t, dir, "dirty.log", "ok\nb\xffd\n\xaa\xbb\n")
	configPath = writeFile(t, dir, "config.yaml", "sources:\n  - "+filepath.Join(dir, "*.log")+"\n"+extra)
	return dir, configPath
}

func TestRunScan_JSON(t *testing.T) {
	ExitCode = 0
	_, configPath := scanFixture(t, "output: json\n")

	out, err := run(t, NewScanCommand(), "", configPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	want := report.Summary{Files: 2, Lines: 5, RepairedLines: 2, Replacements: 3, Bytes: 18}
	if rep.Summary != want {
		t.Errorf("Summary = %+v, want %+v", rep.Summary, want)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0 without --strict", ExitCode)
	}
}

func TestRunScan_Strict(t *testing.T) {
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })
	_, configPath := scanFixture(t, "")

	out, err := run(t, NewScanCommand(), "", "--strict", "--quiet", configPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if out != "lossylines: 2 files, 5 lines, 2 repaired, 3 replacements\n" {
		t.Errorf("scan output = %q", out)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
}

func TestRunScan_TextTable(t *testing.T) {
	dir, configPath := scanFixture(t, "")

	out, err := run(t, NewScanCommand(), "", configPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	for _, want := range []string{filepath.Join(dir, "clean.log"), filepath.Join(dir, "dirty.log")} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestRunScan_Webhook(t *testing.T) {
	var hits atomic.Int32
	var auth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		auth.Store(r.Header.Get("Authorization"))
	}))
	defer server.Close()

	_, configPath := scanFixture(t, "output: json\n")

	_, err := run(t, NewScanCommand(), "",
		"--webhook-url", server.URL, "--webhook-token", "tok", configPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("webhook hits = %d, want 1", hits.Load())
	}
	if got, _ := auth.Load().(string); got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestRunScan_Errors(t *testing.T) {
	dir := t.TempDir()
	missingSource := writeFile(t, dir, "missing.yaml", "sources:\n  - "+filepath.Join(dir, "nope.log")+"\n")
	_, okConfig := scanFixture(t, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing config", []string{"/nonexistent/config.yaml"}, "loading config"},
		{"missing source", []string{missingSource}, "nope.log"},
		{"bad output", []string{"--output", "xml", okConfig}, "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, NewScanCommand(), "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRunValidate_Success(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "test.log", "test log")
	configPath := writeFile(t, dir, "config.yaml", `sources:
  - `+logPath+`
include: 'ERROR'
webhooks:
  - name: ops
    url: https://example.com/hook
`)

	out, err := run(t, NewValidateCommand(), "", configPath)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	for _, want := range []string{"Configuration valid!", "Include:  ERROR", "ops (on_repairs)", "Files matched: 1", logPath} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "invalid.yaml", "invalid: yaml: content")

	if _, err := run(t, NewValidateCommand(), "", configPath); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	if _, err := run(t, NewValidateCommand(), "", "/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
