package httperrors

import (
	"fmt"

	"github/gather/report-gateway/internal/types"
)

// HTTPError is the JSON error payload the API returns. It implements
// error so handlers can return it directly.
type HTTPError struct {
	Code             int                                `json:"status"`
	Type             types.PublicHTTPErrorType          `json:"type"`
	Title            string                             `json:"title"`
	ValidationErrors []*types.HTTPValidationErrorDetail `json:"validationErrors,omitempty"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

// NewHTTPError creates a plain HTTP error payload.
func NewHTTPError(code int, errorType types.PublicHTTPErrorType, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

// NewHTTPValidationError creates an HTTP error payload with per-field
// validation details.
func NewHTTPValidationError(code int, errorType types.PublicHTTPErrorType, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPError {
	return &HTTPError{
		Code:             code,
		Type:             errorType,
		Title:            title,
		ValidationErrors: validationErrors,
	}
}
