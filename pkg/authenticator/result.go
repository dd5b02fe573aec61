package authenticator

import (
	"fmt"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/oauth2"
)

// ErrorKind classifies a rejected authentication attempt.
type ErrorKind int

const (
	// ErrorKindNone is the reason reported for authenticated results.
	ErrorKindNone ErrorKind = iota
	// ErrorKindInvalidClient covers unknown clients, wrong secrets and any
	// other failed check alike.
	ErrorKindInvalidClient
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "none"
	case ErrorKindInvalidClient:
		return oauth2.ErrorCodeInvalidClient
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Result is the outcome of one authentication attempt: either
// authenticated, carrying the principal and registered client, or
// rejected, carrying only an ErrorKind.
type Result struct {
	authenticated bool
	principal     string
	client        *model.RegisteredClient
	reason        ErrorKind
}

// NewAuthenticated returns a successful result for client.
func NewAuthenticated(client *model.RegisteredClient) Result {
	return Result{
		authenticated: true,
		principal:     client.ClientID,
		client:        client,
	}
}

// NewRejected returns a failed result of the given kind.
func NewRejected(kind ErrorKind) Result {
	return Result{reason: kind}
}

// IsAuthenticated reports whether the client was authenticated.
func (r Result) IsAuthenticated() bool {
	return r.authenticated
}

// Principal returns the authenticated client id, or "" if rejected.
func (r Result) Principal() string {
	return r.principal
}

// Client returns the registered client, or nil if rejected.
func (r Result) Client() *model.RegisteredClient {
	return r.client
}

// Reason returns the rejection kind, or ErrorKindNone if authenticated.
func (r Result) Reason() ErrorKind {
	return r.reason
}

// Err converts a rejection into its protocol error. It returns nil for an
// authenticated result.
func (r Result) Err() error {
	if r.authenticated {
		return nil
	}
	switch r.reason {
	case ErrorKindInvalidClient:
		return oauth2.ErrInvalidClient
	default:
		return oauth2.NewError(oauth2.ErrorCodeServerError, "authentication was not attempted")
	}
}

// ConfigurationError reports a missing collaborator at construction time.
// It is a programming error, never an authentication outcome.
type ConfigurationError struct {
	Component    string
	Collaborator string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s cannot be nil", e.Component, e.Collaborator)
}
