package authenticator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
)

// ErrUnsupportedMethod is returned by the registry when no enabled
// authenticator accepts the request's authentication method.
var ErrUnsupportedMethod = errors.New("unsupported client authentication method")

// Authenticator defines the interface for all client authenticators
type Authenticator interface {
	// Name returns the authenticator name (e.g., "client-secret")
	Name() string

	// Supports reports whether requests using method are handled by this authenticator
	Supports(method model.AuthenticationMethod) bool

	// Authenticate verifies the request. A rejected Result is an expected
	// outcome; the error is reserved for infrastructure failures.
	Authenticate(ctx context.Context, req Request) (Result, error)
}

// Request carries the credentials claimed by a client for one attempt.
type Request struct {
	Method       model.AuthenticationMethod
	ClientID     string
	ClientSecret string
	ClientIP     string
}

// EventSink consumes completed authentication decisions.
type EventSink interface {
	Record(ctx context.Context, req Request, res Result)
}

// Registry holds all registered authenticators
type Registry struct {
	mu             sync.RWMutex
	order          []string
	authenticators map[string]Authenticator
	enabled        map[string]bool
	sink           EventSink
}

// NewRegistry creates a new authenticator registry
func NewRegistry() *Registry {
	return &Registry{
		authenticators: make(map[string]Authenticator),
		enabled:        make(map[string]bool),
	}
}

// Register adds an authenticator to the registry
func (r *Registry) Register(auth Authenticator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authenticators[auth.Name()]; !ok {
		r.order = append(r.order, auth.Name())
	}
	r.authenticators[auth.Name()] = auth
}

// Enable enables an authenticator by name
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authenticators[name]; !ok {
		return fmt.Errorf("authenticator %q not found", name)
	}
	r.enabled[name] = true
	return nil
}

// Disable disables an authenticator by name
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, name)
}

// Get returns an authenticator by name
func (r *Registry) Get(name string) (Authenticator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	auth, ok := r.authenticators[name]
	return auth, ok
}

// IsEnabled checks if an authenticator is enabled
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// Installed returns all installed authenticator names in registration order
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Enabled returns all enabled authenticator names in registration order
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enabled))
	for _, name := range r.order {
		if r.enabled[name] {
			names = append(names, name)
		}
	}
	return names
}

// SetSink sets the sink that receives every completed decision.
func (r *Registry) SetSink(sink EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = sink
}

// Lookup returns the first enabled authenticator that supports method.
func (r *Registry) Lookup(method model.AuthenticationMethod) (Authenticator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		auth := r.authenticators[name]
		if r.enabled[name] && auth.Supports(method) {
			return auth, true
		}
	}
	return nil, false
}

// Authenticate dispatches req to the authenticator selected by req.Method.
// An empty method selects client_secret_basic.
func (r *Registry) Authenticate(ctx context.Context, req Request) (Result, error) {
	if req.Method == "" {
		req.Method = model.DefaultAuthenticationMethod
	}
	auth, ok := r.Lookup(req.Method)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}

	res, err := auth.Authenticate(ctx, req)
	if err != nil {
		return Result{}, err
	}

	r.mu.RLock()
	sink := r.sink
	r.mu.RUnlock()
	if sink != nil {
		sink.Record(ctx, req, res)
	}
	return res, nil
}
