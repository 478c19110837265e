package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	zlog "github.com/rs/zerolog/log"
)

func TestInitWithWriter_Defaults_ToInfoAndConsole(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "", "")

	if Logger.GetLevel().String() != "info" {
		t.Fatalf("expected level=info, got %s", Logger.GetLevel().String())
	}
	if zlog.Logger.GetLevel().String() != "info" {
		t.Fatalf("expected global level=info, got %s", zlog.Logger.GetLevel().String())
	}

	Logger.Info().Msg("hello")
	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console output, got json-like: %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected message in output, got: %q", out)
	}
}

func TestInitWithWriter_InvalidLevel_FallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "not-a-level", "console")

	if Logger.GetLevel().String() != "info" {
		t.Fatalf("expected level=info, got %s", Logger.GetLevel().String())
	}
}

func TestInitWithWriter_JSON_DebugSuppressedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "warn", "json")

	Logger.Debug().Msg("hidden")
	Logger.Warn().Str("k", "v").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected json line: %v", err)
	}
	if rec["message"] != "shown" || rec["k"] != "v" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "json")

	l := Component("retention")
	l.Info().Msg("x")

	if !strings.Contains(buf.String(), `"component":"retention"`) {
		t.Fatalf("expected component field, got %q", buf.String())
	}
}
