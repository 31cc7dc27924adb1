package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a malformed request (page size, filters, sort).
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCursor signals a cursor that cannot be parsed for any strategy.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrCursorMismatch signals a well-formed index cursor minted for another index or direction.
	ErrCursorMismatch = errors.New("cursor does not belong to this scan")
	// ErrStoreUnavailable signals a record store failure. Always fatal to the request.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrTextSearchNotSupported signals a record store without a free-text index.
	ErrTextSearchNotSupported = errors.New("text search not supported by record store")
	// ErrMediaNotFound signals a media reference the resolver does not know.
	ErrMediaNotFound = errors.New("media not found")
	// ErrMediaUnavailable signals a media resolver failure. Never fatal to a page.
	ErrMediaUnavailable = errors.New("media resolver unavailable")
)

// FieldError wraps ErrInvalidInput with the offending request field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// NewFieldError creates an invalid input error for a single field.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// StoreError wraps ErrStoreUnavailable with the failing store operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable.Error(), e.Op, e.Err)
}

// Is lets errors.Is match both the sentinel and the underlying cause.
func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError marks err as a record store failure unless it already carries a domain meaning.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCursorMismatch) || errors.Is(err, ErrInvalidCursor) ||
		errors.Is(err, ErrTextSearchNotSupported) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
