package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrTransport, "webdav", "load", "sets/mix.mp3", cause)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected transport marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransport(t *testing.T) {
	err := Wrap(nil, "webdav", "load", "", nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected transport fallback, got %v", err)
	}
}

func TestFatalOnlyForLockContention(t *testing.T) {
	if !Fatal(Wrap(ErrLockContention, "sync", "acquire", "held elsewhere", nil)) {
		t.Fatal("lock contention should be fatal")
	}
	if Fatal(Wrap(ErrSync, "sync", "push", "", errors.New("remote down"))) {
		t.Fatal("sync failure should not be fatal")
	}
}

func TestClass(t *testing.T) {
	cases := []struct {
		marker error
		want   string
	}{
		{ErrTransport, "transport"},
		{ErrFormat, "format"},
		{ErrInference, "inference"},
		{ErrStore, "store"},
		{ErrSync, "sync"},
		{ErrLockContention, "lock"},
	}
	for _, tc := range cases {
		if got := Class(fmt.Errorf("outer: %w", tc.marker)); got != tc.want {
			t.Fatalf("expected class %q, got %q", tc.want, got)
		}
	}
	if got := Class(errors.New("untagged")); got != "unknown" {
		t.Fatalf("expected unknown class, got %q", got)
	}
}
