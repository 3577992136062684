package engine

import (
	"errors"

	"github.com/scrypster/lostpaws/internal/llm"
)

var (
	// ErrMissingLocation is returned when a report has no last-known
	// location. Neither the remote analysis nor the fallback is attempted.
	ErrMissingLocation = errors.New("report has no last-known location")

	// ErrRateLimited is returned when the remote model rejected the call
	// with HTTP 429. It is never masked by fallback generation.
	ErrRateLimited = llm.ErrRateLimited

	// ErrAnalysisFailed wraps every other remote failure. The engine
	// recovers from it by switching to fallback generation.
	ErrAnalysisFailed = errors.New("remote analysis failed")

	// ErrInvalidSighting marks a sighting without a usable coordinate or
	// confidence. Such records are skipped, never fatal.
	ErrInvalidSighting = errors.New("invalid sighting data")
)
