package services

import (
	"context"
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "engine", "transcribe", "whisper failed", cause)
	if !errors.Is(err, ErrExternalTool) {
		t.Error("wrapped error should match its marker")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause")
	}
	want := "external tool error: engine: transcribe: whisper failed: exit status 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Error("nil marker should fall back to ErrTransient")
	}
	if err.Error() != "transient failure: service failure" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestContextCarriers(t *testing.T) {
	ctx := context.Background()
	if _, ok := RunIDFromContext(ctx); ok {
		t.Error("empty context should carry no run id")
	}
	ctx = WithRunID(ctx, "run-1")
	ctx = WithJobID(ctx, "job-9")
	if id, ok := RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Errorf("RunIDFromContext = %q, %v", id, ok)
	}
	if id, ok := JobIDFromContext(ctx); !ok || id != "job-9" {
		t.Errorf("JobIDFromContext = %q, %v", id, ok)
	}
}
