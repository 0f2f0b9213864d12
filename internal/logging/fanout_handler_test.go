package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNewFanoutHandlerNilHandlers(t *testing.T) {
	h := newFanoutHandler(nil, nil, nil)
	if _, ok := h.(NoopHandler); !ok {
		t.Errorf("expected NoopHandler for all nil handlers, got %T", h)
	}
}

func TestNewFanoutHandlerFiltersNil(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)

	h := newFanoutHandler(nil, inner, nil)
	if h != inner {
		t.Error("expected single non-nil handler to be returned unwrapped")
	}
}

func TestFanoutHandlerEnabled(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := slog.NewJSONHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	h2 := slog.NewJSONHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := newFanoutHandler(h1, h2)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected fanout to be enabled for debug (h2 accepts it)")
	}
}

func TestFanoutHandlerHandleRespectsLevels(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := slog.NewJSONHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelWarn})
	h2 := slog.NewJSONHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(newFanoutHandler(h1, h2)).With(slog.String("run_id", "r1"))
	logger.Info("info message")

	if buf1.Len() != 0 {
		t.Errorf("warn-level handler should not receive info records, got %q", buf1.String())
	}
	if !bytes.Contains(buf2.Bytes(), []byte(`"run_id":"r1"`)) {
		t.Errorf("expected attrs to propagate to every handler, got %q", buf2.String())
	}
}
