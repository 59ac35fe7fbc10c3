package drawlist

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestLoggerDefaultSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	Logger().Info("hello", "k", 1)
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("log output = %q, want it to contain hello", buf.String())
	}
}

type loggingBackend struct {
	*fakeBackend
	got *slog.Logger
}

func (b *loggingBackend) SetLogger(l *slog.Logger) { b.got = l }

func TestNewPropagatesLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(l)
	defer SetLogger(nil)

	b := &loggingBackend{fakeBackend: newFakeBackend()}
	ctx, err := New(b, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer ctx.Close()
	if b.got != l {
		t.Error("New did not pass the logger to the backend")
	}
}
