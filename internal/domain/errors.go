package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNoArtFound indicates every provider was exhausted without a
	// loadable artwork URL.
	ErrNoArtFound = errors.New("no artwork found")

	// ErrInsufficientInfo indicates the record's artist/title are too
	// sparse to search external sources.
	ErrInsufficientInfo = errors.New("record lacks artist or title")

	// ErrSourceUnreachable indicates an external metadata source could
	// not be reached.
	ErrSourceUnreachable = errors.New("artwork source is unreachable")

	// ErrBadInput indicates an import payload could not be parsed.
	ErrBadInput = errors.New("malformed import data")
)
