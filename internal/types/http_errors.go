package types

// PublicHTTPErrorType is the machine-readable error discriminator exposed
// to API clients.
type PublicHTTPErrorType string

const (
	PublicHTTPErrorTypeGeneric           PublicHTTPErrorType = "generic"
	PublicHTTPErrorTypeInvalidReport     PublicHTTPErrorType = "INVALID_REPORT"
	PublicHTTPErrorTypeSubmissionUnknown PublicHTTPErrorType = "SUBMISSION_NOT_FOUND"
)

// HTTPValidationErrorDetail points at the offending request field.
type HTTPValidationErrorDetail struct {
	Key   string `json:"key"`
	In    string `json:"in"`
	Error string `json:"error"`
}
