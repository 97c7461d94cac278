package services_test

import (
	"errors"
	"strings"
	"testing"

	"gameshelf/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransport, "catalog", "search", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"catalog", "search", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "library", "open", "", nil)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected nil marker to default to unavailable, got %v", err)
	}
}

func TestReasonMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{services.Wrap(services.ErrAmbiguousMatch, "resolver", "resolve", "two candidates", nil), "ambiguous_match"},
		{services.Wrap(services.ErrAlreadyResolved, "resolver", "resolve", "", nil), "already_resolved"},
		{services.Wrap(services.ErrTransport, "catalog", "fetch", "", errors.New("timeout")), "transport_failure"},
		{services.Wrap(services.ErrNoPriceData, "pricing", "current", "", nil), "no_price_data"},
		{services.Wrap(services.ErrValidation, "library", "add", "empty title", nil), "invalid_input"},
		{errors.New("mystery"), "error"},
	}
	for _, tc := range cases {
		if got := services.Reason(tc.err); got != tc.want {
			t.Fatalf("Reason(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsFailureTreatsNoOpsAsSuccess(t *testing.T) {
	if services.IsFailure(nil) {
		t.Fatal("nil error must not be a failure")
	}
	if services.IsFailure(services.Wrap(services.ErrAlreadyResolved, "resolver", "resolve", "", nil)) {
		t.Fatal("already-resolved is a no-op, not a failure")
	}
	if services.IsFailure(services.Wrap(services.ErrNoPriceData, "pricing", "current", "", nil)) {
		t.Fatal("no-price-data is a valid state, not a failure")
	}
	if !services.IsFailure(services.Wrap(services.ErrTransport, "catalog", "fetch", "", errors.New("eof"))) {
		t.Fatal("transport failure must count as failure")
	}
}
