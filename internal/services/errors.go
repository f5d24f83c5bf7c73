package services

import (
	"errors"

	"shabu_pos/internal/repositories"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrEmptyOrder = errors.New("table has no order lines")
)

// ErrorKind classifies a failure so presentation code can word its message.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindDuplicateKey      ErrorKind = "duplicate_key"
	KindNotFound          ErrorKind = "not_found"
	KindResolutionFailure ErrorKind = "resolution_failure"
	KindConflict          ErrorKind = "conflict"
	KindValidation        ErrorKind = "validation"
	KindStorage           ErrorKind = "storage_unavailable"
)

// KindOf maps any error returned by this package to its ErrorKind.
// Errors it does not recognise are treated as storage faults.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, repositories.ErrDuplicateKey):
		return KindDuplicateKey
	case errors.Is(err, repositories.ErrUnresolved):
		return KindResolutionFailure
	case errors.Is(err, repositories.ErrNotFound):
		return KindNotFound
	case errors.Is(err, repositories.ErrConflict):
		return KindConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrEmptyOrder):
		return KindValidation
	default:
		return KindStorage
	}
}
