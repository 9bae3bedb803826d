package recommend

import "errors"

var (
	// ErrInvalidRequest is the only error surfaced to callers as a hard
	// failure: negative N or an unknown algorithm tag.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrBackendUnavailable marks a scoring backend timeout or connection
	// failure. Recovered via local fallback, never returned to callers.
	ErrBackendUnavailable = errors.New("scoring backend unavailable")

	// ErrMalformedResponse marks a scoring backend reply that does not parse.
	// Treated exactly like ErrBackendUnavailable.
	ErrMalformedResponse = errors.New("malformed scoring backend response")
)
