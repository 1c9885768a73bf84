package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{" INFO ", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"Error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf}).WithComponent(ComponentBudget)

	logger.Debug("hidden")
	logger.Info("Income added", NewFields().WithIncome(7, "Salary", "5000").ToSlice()...)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %s", out)
	}
	for _, want := range []string{"component=budget", "item_kind=income", "item_id=7", "source=Salary"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()).Component(); got != "unknown" {
		t.Errorf("fallback component = %q, want unknown", got)
	}

	logger := Discard().WithComponent(ComponentHTTP)
	if got := FromContext(NewContext(context.Background(), logger)); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestStructuredLoggerLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelDebug, Component: ComponentHTTP, Output: &buf}))

	sl.LogError(context.Background(), "Request failed", errors.New("disk full"), OpSave, nil)

	out := buf.String()
	for _, want := range []string{"level=ERROR", `error="disk full"`, "operation=save", "component=http"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}
