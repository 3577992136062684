package llm

import "errors"

var (
	// ErrRateLimited is returned when the provider answered HTTP 429.
	ErrRateLimited = errors.New("remote model rate limited")

	// ErrEmptyResponse is returned when the provider sent no usable text.
	ErrEmptyResponse = errors.New("remote model returned no content")

	// ErrInvalidResponse is returned when the reply does not match the
	// search-area schema.
	ErrInvalidResponse = errors.New("remote model returned an invalid search-area response")
)
