package domain

import "errors"

var (
	// ErrNotConfigured signals a missing upstream credential or endpoint.
	// Raised before any network I/O is attempted.
	ErrNotConfigured = errors.New("source not configured")
	// ErrTransport signals a network failure or non-success status from an
	// upstream call.
	ErrTransport = errors.New("upstream request failed")
	// ErrMalformedResponse signals an upstream response that could not be
	// parsed into the expected shape.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrAllSourcesFailed signals that every search source failed. This is
	// the only condition the aggregator surfaces as a hard failure.
	ErrAllSourcesFailed = errors.New("all search sources failed")
	// ErrInvalidQuery signals an unusable search query.
	ErrInvalidQuery = errors.New("invalid search query")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)
