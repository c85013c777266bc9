// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/session layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument indicates input rejected before any remote call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCategoryNotEmpty indicates a category delete blocked by words still referencing it.
	ErrCategoryNotEmpty = errors.New("category not empty")

	// ErrNoCategorySelected indicates a word save attempted without a selected category.
	ErrNoCategorySelected = errors.New("no category selected")

	// ErrNoProviders indicates the registry has no available translation provider.
	ErrNoProviders = errors.New("no providers available")

	// ErrInvalidProvider indicates a provider selection outside the available list.
	ErrInvalidProvider = errors.New("invalid provider selection")

	// ErrTranslationFailed wraps any failure of the selected provider.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrQuotaExceeded indicates a provider's daily limit is used up.
	ErrQuotaExceeded = errors.New("daily limit reached")

	// ErrStaleResult indicates a translation result superseded by a newer request.
	ErrStaleResult = errors.New("stale result")
)
