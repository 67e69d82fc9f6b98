package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProviderFailure is returned when an external provider call fails at the transport or auth level
	ErrProviderFailure = errors.New("provider request failed")

	// ErrShapeMismatch is returned when a provider answered but the expected field path is absent
	ErrShapeMismatch = errors.New("provider response missing expected fields")

	// ErrParseFailure is returned when model output is not the JSON we asked for
	ErrParseFailure = errors.New("model output is not valid JSON")

	// ErrModelNotSupported is returned when a requested model has no route
	ErrModelNotSupported = errors.New("model not supported")

	// ErrProviderNotConfigured is returned when the credentials for a provider are missing
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrEmptyAnswer is returned when an answer engine responded without any usable text
	ErrEmptyAnswer = errors.New("no content extracted from response")
)
