package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorDetail is the wire shape of a single error
type ErrorDetail struct {
	Message  string                 `json:"message"`
	Internal string                 `json:"internal_error,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the wire shape of an error returned by the HTTP layer
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse converts any error into the wire shape. For InternalError the
// hint becomes the public message; the raw error text is only exposed for
// validation errors.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message: "An unexpected error occurred",
		},
	}

	var ie *InternalError
	if errors.As(err, &ie) {
		if ie.Hint() != "" {
			resp.Error.Message = ie.Hint()
		}
		resp.Error.Details = ie.ReportableDetails()
	}

	if IsValidation(err) {
		resp.Error.Internal = err.Error()
	}

	return resp
}

// HTTPStatusFromErr maps the error marks to HTTP status codes
func HTTPStatusFromErr(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsPermissionDenied(err):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
