package market

import (
	"errors"
	"fmt"

	"github.com/carmarket/carmarket-go/internal/repository"
)

// Error kinds. Every error returned by this package matches exactly one of
// them under errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrTransport    = errors.New("remote store failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

// Error records the failed operation, its kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unauthorized(op, msg string) error {
	return &Error{Op: op, Kind: ErrUnauthorized, Err: errors.New(msg)}
}

func invalid(op, msg string) error {
	return &Error{Op: op, Kind: ErrValidation, Err: errors.New(msg)}
}

// storeError classifies a remote store failure.
func storeError(op string, err error) error {
	if errors.Is(err, repository.ErrListingNotFound) || errors.Is(err, repository.ErrProfileNotFound) {
		return &Error{Op: op, Kind: ErrNotFound, Err: err}
	}
	return &Error{Op: op, Kind: ErrTransport, Err: err}
}
