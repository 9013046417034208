package domain

import "errors"

var (
	// ErrFetchFailed is returned when the upstream source is unreachable or answers with a non-success status
	ErrFetchFailed = errors.New("product source request failed")

	// ErrDecodeFailed is returned when the upstream payload does not match the catalog schema
	ErrDecodeFailed = errors.New("product source payload is invalid")

	// ErrInvalidCredential marks a credential mismatch. It is reported, never returned as a failure.
	ErrInvalidCredential = errors.New("upstream credentials failed validation")

	// ErrEmptySet is returned when metadata is requested over zero products
	ErrEmptySet = errors.New("no products to summarize")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
