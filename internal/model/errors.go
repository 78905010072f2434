package model

import "errors"

// Fatal error classes. Wrap them with %w so callers can tell a bad setup from bad input data.
var (
	// ErrConfiguration covers missing directories or artifacts and malformed or out-of-range input dates.
	ErrConfiguration = errors.New("configuration error")

	// ErrData covers an empty corpus or a corpus that produced no chunks.
	ErrData = errors.New("data error")
)
