package source

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"c.log":        "c",
		"a.log":        "a",
		"b.txt":        "b",
		"nested/d.log": "d",
	})
	p := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"empty input", nil, nil},
		{"single file", []string{p("a.log")}, []string{p("a.log")}},
		{"glob sorted", []string{p("*.log")}, []string{p("a.log"), p("c.log")}},
		{"deduplicated", []string{p("a.log"), p("*.log"), p("a.log")}, []string{p("a.log"), p("c.log")}},
		{"multiple patterns", []string{p("*.log"), p("nested/*.log")}, []string{p("a.log"), p("c.log"), p("nested/d.log")}},
		{"no match kept literally", []string{p("*.gz")}, []string{p("*.gz")}},
		{"stdin kept", []string{Stdin, p("b.txt"), Stdin}, []string{Stdin, p("b.txt")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandGlobs(tt.patterns)
			if err != nil {
				t.Fatalf("ExpandGlobs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandGlobs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandGlobs_InvalidPattern(t *testing.T) {
	if _, err := ExpandGlobs([]string{"[invalid"}); err == nil {
		t.Error("ExpandGlobs() expected error for invalid pattern")
	}
}
