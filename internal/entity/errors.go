package entity

import "errors"

// Domain errors
var (
	// Input errors, surfaced to the caller
	ErrInvalidQuery        = errors.New("invalid query")
	ErrRegionNotFound      = errors.New("region not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// Infrastructure errors, converted to degraded results at component boundaries
	ErrCacheUnavailable       = errors.New("cache unavailable")
	ErrUpstreamUnavailable    = errors.New("upstream data service unavailable")
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	ErrProviderFailure        = errors.New("response provider failed")
	ErrProviderUnavailable    = errors.New("response provider not configured")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
