package infra

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLoggerProductionJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	l := newLogger("production", &out, &errOut)
	l.Debug().Msg("hidden")
	l.Info().Str("k", "v").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(out.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", out.String(), err)
	}
	if entry["service"] != "civicfund" || entry["message"] != "hello" || entry["k"] != "v" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if errOut.Len() != 0 {
		t.Fatalf("nothing should reach stderr, got %q", errOut.String())
	}
}

func TestNewLoggerCLIUsesStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	l := newLogger("cli", &out, &errOut)
	l.Info().Msg("chatty")
	l.Warn().Msg("careful")

	if out.Len() != 0 {
		t.Fatalf("cli logger wrote to stdout: %q", out.String())
	}
	if strings.Contains(errOut.String(), "chatty") || !strings.Contains(errOut.String(), "careful") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}
