package parser

import "errors"

var (
	// ErrUpstreamUnavailable is returned when the parser service cannot be
	// reached or does not answer with a success status.
	ErrUpstreamUnavailable = errors.New("parser: upstream unavailable")

	// ErrEmptyParse is returned when the parser service reports an empty line.
	ErrEmptyParse = errors.New("parser: empty parse")

	// ErrMalformedResponse is returned when a response cannot be decoded into
	// a valid token sequence.
	ErrMalformedResponse = errors.New("parser: malformed response")
)
