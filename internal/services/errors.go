package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or incomplete caller input.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups for records that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransport marks failed calls to the external price catalog:
	// network errors, timeouts, and non-success HTTP statuses.
	ErrTransport = errors.New("catalog transport failure")
	// ErrAmbiguousMatch marks a resolution attempt that found zero or
	// several equally plausible catalog candidates. The resolver never
	// picks one on its own; the caller corrects the title or platform
	// and retries.
	ErrAmbiguousMatch = errors.New("ambiguous catalog match")
	// ErrAlreadyResolved marks a resolve call against an item that is
	// already linked. It is a no-op signal, not a failure.
	ErrAlreadyResolved = errors.New("already resolved")
	// ErrNoPriceData marks the absence of any usable price observation.
	// A successful fetch that returned no prices is a valid state, not
	// a transport failure.
	ErrNoPriceData = errors.New("no price data")
	// ErrUnavailable marks operations rejected because a required
	// collaborator (database, lock, listener) is not running.
	ErrUnavailable = errors.New("service unavailable")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Reason maps an error to the short outcome tag reported in resolve and
// refresh summaries.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAlreadyResolved):
		return "already_resolved"
	case errors.Is(err, ErrAmbiguousMatch):
		return "ambiguous_match"
	case errors.Is(err, ErrNoPriceData):
		return "no_price_data"
	case errors.Is(err, ErrTransport):
		return "transport_failure"
	case errors.Is(err, ErrValidation):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "error"
	}
}

// IsFailure reports whether err represents a genuine failure. Nil errors and
// no-op signals (AlreadyResolved, NoPriceData) do not count.
func IsFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrAlreadyResolved) && !errors.Is(err, ErrNoPriceData)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
