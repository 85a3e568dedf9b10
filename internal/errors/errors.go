package errors

import (
	"github.com/cockroachdb/errors"
)

// Marks for the error taxonomy. Errors produced by this package carry exactly one of
// these so callers and the HTTP layer can branch without string matching.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrDatabase         = errors.New("database error")
	ErrInternal         = errors.New("internal error")
	ErrPermissionDenied = errors.New("permission denied")
)

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
