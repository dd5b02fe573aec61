// Package clientsecret authenticates OAuth2 clients by client id and
// shared secret (client_secret_basic and client_secret_post).
package clientsecret

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store"
)

// Name is the registry name of the client secret authenticator.
const Name = "client-secret"

// DefaultMethods are the request methods handled when WithMethods is not given.
var DefaultMethods = []model.AuthenticationMethod{
	model.MethodClientSecretBasic,
	model.MethodClientSecretPost,
}

// Ensure Authenticator implements authenticator.Authenticator
var _ authenticator.Authenticator = (*Authenticator)(nil)

// Authenticator verifies client credentials against a client directory.
// It holds no mutable state and is safe for concurrent use.
type Authenticator struct {
	directory store.ClientDirectory
	methods   []model.AuthenticationMethod
	now       func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithMethods restricts the request methods the authenticator accepts.
// Only secret based methods are meaningful here.
func WithMethods(methods ...model.AuthenticationMethod) Option {
	return func(a *Authenticator) {
		a.methods = slices.DeleteFunc(slices.Clone(methods), func(m model.AuthenticationMethod) bool {
			return m == model.MethodNone
		})
	}
}

// WithClock sets the time source used for secret expiry.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

// New creates a client secret authenticator reading from directory.
func New(directory store.ClientDirectory, opts ...Option) (*Authenticator, error) {
	if isNil(directory) {
		return nil, &authenticator.ConfigurationError{Component: Name, Collaborator: "client directory"}
	}
	a := &Authenticator{
		directory: directory,
		methods:   DefaultMethods,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// isNil also catches a nil pointer stored in the interface.
func isNil(directory store.ClientDirectory) bool {
	if directory == nil {
		return true
	}
	v := reflect.ValueOf(directory)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// MustNew is like New but panics on a configuration error.
func MustNew(directory store.ClientDirectory, opts ...Option) *Authenticator {
	a, err := New(directory, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return Name
}

// Supports reports whether method is one of the configured secret methods.
func (a *Authenticator) Supports(method model.AuthenticationMethod) bool {
	return slices.Contains(a.methods, method)
}

// Authenticate checks the claimed client id and secret. Every failed check
// yields the same invalid_client rejection. A directory failure other than
// not-found is returned as an error. A request without a method is treated
// as client_secret_basic.
func (a *Authenticator) Authenticate(ctx context.Context, req authenticator.Request) (authenticator.Result, error) {
	if req.Method == "" {
		req.Method = model.DefaultAuthenticationMethod
	}
	if req.ClientID == "" {
		return authenticator.NewRejected(authenticator.ErrorKindInvalidClient), nil
	}

	client, err := a.directory.FindByClientID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			return authenticator.NewRejected(authenticator.ErrorKindInvalidClient), nil
		}
		return authenticator.Result{}, fmt.Errorf("client directory lookup failed: %w", err)
	}

	if !client.PermitsMethod(req.Method) ||
		client.ClientSecret == "" ||
		client.SecretExpired(a.now()) ||
		!MatchSecret(client.ClientSecret, req.ClientSecret) {
		return authenticator.NewRejected(authenticator.ErrorKindInvalidClient), nil
	}

	return authenticator.NewAuthenticated(client), nil
}
