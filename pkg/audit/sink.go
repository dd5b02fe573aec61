package audit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator"
)

// Ensure Sink implements authenticator.EventSink
var _ authenticator.EventSink = (*Sink)(nil)

// Sink records client authentication decisions to the audit log and,
// when a store is configured, to the audit database.
type Sink struct {
	logger *Logger
	store  *Store
	errOut io.Writer
}

// NewSink creates a sink. store may be nil.
func NewSink(logger *Logger, store *Store) *Sink {
	if logger == nil {
		logger = DefaultLogger
	}
	return &Sink{logger: logger, store: store, errOut: os.Stderr}
}

// Record writes one event per decision. Audit failures never affect the
// authentication outcome.
func (s *Sink) Record(_ context.Context, req authenticator.Request, res authenticator.Result) {
	if !IsEnabled() {
		return
	}
	event := NewClientAuthenticationEvent(req, res)
	s.logger.Log(event)

	if s.store != nil {
		if err := s.store.Save(event); err != nil {
			fmt.Fprintf(s.errOut, "audit: failed to save event: %v\n", err)
		}
	}
}
