package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantSQL    string
		wantErr    bool
	}{
		{
			name:       "valid",
			query:      "\n--sql 0b9f3c1e-6a0d-4d53-9d1e-3f6f1b2a7c10\nselect 1\nfrom t",
			wantMarker: "0b9f3c1e-6a0d-4d53-9d1e-3f6f1b2a7c10",
			wantSQL:    "select 1\nfrom t",
		},
		{name: "no marker", query: "select 1", wantErr: true},
		{name: "uppercase uuid", query: "--sql 0B9F3C1E-6A0D-4D53-9D1E-3F6F1B2A7C10\nselect 1", wantErr: true},
		{name: "empty", query: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, sql, err := extractMarker(tc.query)
			if tc.wantErr {
				if !errors.Is(err, ErrMissingMarker) {
					t.Fatalf("err = %v, want ErrMissingMarker", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if marker != tc.wantMarker || sql != tc.wantSQL {
				t.Fatalf("got (%q, %q)", marker, sql)
			}
		})
	}
}

func TestSQLRunnerRejectsUnmarkedStatements(t *testing.T) {
	r := NewSQLRunner(nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := r.Exec(ctx, "delete from issues"); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("Exec err = %v", err)
	}
	if _, err := r.Query(ctx, "select * from issues"); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("Query err = %v", err)
	}
	var n int
	if err := r.QueryRow(ctx, "select 1").Scan(&n); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("QueryRow err = %v", err)
	}
}
