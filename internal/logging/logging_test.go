package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")
	logger.Info("hello", "k", "v")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %s", buf.String())
	}

	buf.Reset()
	logger = New(&buf, "info", "text")
	logger.Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text output, got %s", buf.String())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "error", "json")
	logger.Info("dropped")

	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at error level, got %s", buf.String())
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"with password", "postgres://app:s3cret@db:5432/app", "postgres://app@db:5432/app"},
		{"no userinfo", "redis://localhost:6379/0", "redis://localhost:6379/0"},
		{"password only", "redis://:s3cret@localhost:6379", "redis://redacted@localhost:6379"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactURL(tt.in); got != tt.want {
				t.Errorf("RedactURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	dsn := "postgres://app:s3cret@db:5432/app"
	err := errors.New("dial " + dsn + " failed: password=hunter2 rejected")

	got := SanitizeError(err, dsn)
	if strings.Contains(got, "s3cret") || strings.Contains(got, "hunter2") {
		t.Errorf("secret leaked: %s", got)
	}
	if !strings.Contains(got, "password=redacted") {
		t.Errorf("expected password pattern to be redacted: %s", got)
	}

	if SanitizeError(nil, dsn) != "" {
		t.Error("expected empty string for nil error")
	}
}
