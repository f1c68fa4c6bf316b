package catalog

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(ErrTransport, "allocine", "search", "Le Voyage", base)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected underlying error preserved, got %v", err)
	}
	want := "transport error: allocine: search: Le Voyage: connection refused"
	if err.Error() != want {
		t.Fatalf("message %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToTransport(t *testing.T) {
	err := Wrap(nil, "tmdb", "details", "", nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("nil marker should default to ErrTransport, got %v", err)
	}
}

func TestFatal(t *testing.T) {
	if Fatal(Wrap(ErrTransport, "tmdb", "search", "", nil)) {
		t.Fatal("transport errors must not be fatal")
	}
	if !Fatal(Wrap(ErrConfiguration, "tmdb", "init", "api key required", nil)) {
		t.Fatal("configuration errors must be fatal")
	}
}
