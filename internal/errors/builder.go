package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError is the error type produced by this package's builders. It keeps a
// user-safe hint and structured details alongside the wrapped cause.
type InternalError struct {
	err               error
	hint              string
	reportableDetails map[string]interface{}
}

func (e *InternalError) Error() string {
	return e.err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.err
}

// Hint returns the user-safe hint attached to the error, if any
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns the structured details attached to the error, if any
func (e *InternalError) ReportableDetails() map[string]interface{} {
	return e.reportableDetails
}

// ErrorBuilder provides the fluent construction API:
//
//	ierr.NewError("window_count must be >= 1").
//		WithHint("window_count must be a positive integer").
//		WithReportableDetails(map[string]interface{}{"window_count": v}).
//		Mark(ierr.ErrValidation)
type ErrorBuilder struct {
	base *InternalError
}

// NewError starts building an error from a message
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{base: &InternalError{err: errors.New(message)}}
}

// NewErrorf starts building an error from a formatted message
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{base: &InternalError{err: errors.Newf(format, args...)}}
}

// WithError starts building an error that wraps an existing cause
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{base: &InternalError{err: err}}
}

// WithMessage prefixes the underlying error with a message
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	b.base.err = errors.WithMessage(b.base.err, message)
	return b
}

// WithHint attaches a user-safe hint
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.base.hint = hint
	return b
}

// WithHintf attaches a formatted user-safe hint
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.base.hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches structured details safe to surface in API responses
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.base.reportableDetails = details
	return b
}

// Mark finalizes the error, tagging it with one of the package marks so that
// errors.Is checks against the mark succeed anywhere up the call stack.
func (b *ErrorBuilder) Mark(mark error) error {
	return errors.Mark(b.base, mark)
}
