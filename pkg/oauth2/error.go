package oauth2

import "fmt"

// Error codes from RFC 6749 section 5.2.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeUnauthorizedClient   = "unauthorized_client"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeInvalidScope         = "invalid_scope"
	ErrorCodeServerError          = "server_error"
)

// Error is an OAuth 2.0 error response body.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
	URI         string `json:"error_uri,omitempty"`
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches errors by code so callers can use errors.Is against the
// package-level values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ErrInvalidClient is reported for every client authentication failure.
// It carries no detail about which check failed.
var ErrInvalidClient = &Error{
	Code:        ErrorCodeInvalidClient,
	Description: "client authentication failed",
}

// NewError returns an Error with the given code and description.
func NewError(code, description string) *Error {
	return &Error{Code: code, Description: description}
}
