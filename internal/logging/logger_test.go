package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range testCases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

type stubHandler struct {
	records int
	err     error
}

func (h *stubHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *stubHandler) Handle(context.Context, slog.Record) error {
	h.records++
	return h.err
}
func (h *stubHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *stubHandler) WithGroup(string) slog.Handler      { return h }

// One failing sink must not stop delivery to the others.
func TestMultiHandlerDeliversPastFailure(t *testing.T) {
	bad := &stubHandler{err: errors.New("sink down")}
	good := &stubHandler{}
	m := NewMultiHandler(bad, good)

	record := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	err := m.Handle(context.Background(), record)

	if good.records != 1 {
		t.Errorf("healthy sink saw %d records, want 1", good.records)
	}
	if !errors.Is(err, bad.err) {
		t.Errorf("joined error %v does not carry the sink error", err)
	}
}
