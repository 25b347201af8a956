package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestTextLoggerRespectsLevelAndWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewText(&buf, slog.LevelWarn).With("request_id", "abc")
	l.Info("hidden")
	l.Warn("shown", "file", "x.txt")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "request_id=abc") || !strings.Contains(out, "file=x.txt") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestNewPicksHandlerByFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "JSON", slog.LevelInfo)
	if err != nil {
		t.Fatalf("New(json) error = %v", err)
	}
	l.With("request_id", "abc").Info("shown")

	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"request_id":"abc"`) {
		t.Fatalf("unexpected json output: %q", out)
	}

	buf.Reset()
	l, err = New(&buf, "", slog.LevelInfo)
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	l.Info("plain")
	if !strings.Contains(buf.String(), "msg=plain") {
		t.Fatalf("empty format should be text: %q", buf.String())
	}

	if _, err := New(&buf, "xml", slog.LevelInfo); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
