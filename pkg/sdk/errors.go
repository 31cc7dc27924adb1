package catalog

import "github.com/abhichtrvd/1goli-sub001/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput           = domain.ErrInvalidInput
	ErrInvalidCursor          = domain.ErrInvalidCursor
	ErrStoreUnavailable       = domain.ErrStoreUnavailable
	ErrTextSearchNotSupported = domain.ErrTextSearchNotSupported
)

// FieldError names the request field an ErrInvalidInput refers to.
// Use errors.As() to extract it.
type FieldError = domain.FieldError
