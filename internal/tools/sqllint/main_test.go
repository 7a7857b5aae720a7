package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGo(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLint(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name: "valid markers",
			files: map[string]string{
				"a.go": "package q\n\nconst QA = `--sql 0b9f3c1e-6a0d-4d53-9d1e-3f6f1b2a7c10\nselect 1`\n",
				"b.go": "package q\n\nconst QB = `--sql 5c2d8e44-1f7b-4c3a-8e2d-9a6b0c1d2e3f\nselect 2`\n",
			},
		},
		{
			name: "missing marker",
			files: map[string]string{
				"a.go": "package q\n\nconst QA = `select 1`\n",
			},
			want: []string{"missing or invalid"},
		},
		{
			name: "duplicate across files",
			files: map[string]string{
				"a.go": "package q\n\nconst QA = `--sql 0b9f3c1e-6a0d-4d53-9d1e-3f6f1b2a7c10\nselect 1`\n",
				"b.go": "package q\n\nconst QB = `--sql 0b9f3c1e-6a0d-4d53-9d1e-3f6f1b2a7c10\ndelete from t`\n",
			},
			want: []string{"duplicate marker 0b9f3c1e-6a0d-4d53-9d1e-3f6f1b2a7c10, first used by QA"},
		},
		{
			name: "non sql strings ignored",
			files: map[string]string{
				"a.go": "package q\n\nconst Greeting = \"hello there\"\n",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, body := range tc.files {
				writeGo(t, dir, name, body)
			}
			got, err := lint([]string{dir})
			if err != nil {
				t.Fatalf("lint: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d violations %+v, want %d", len(got), got, len(tc.want))
			}
			for i, want := range tc.want {
				if !strings.Contains(got[i].message, want) {
					t.Fatalf("violation %d = %q, want it to contain %q", i, got[i].message, want)
				}
			}
		})
	}
}

func TestRepositoryQueriesPass(t *testing.T) {
	got, err := lint([]string{"../../sqlinline"})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("sqlinline has marker problems: %+v", got)
	}
}
