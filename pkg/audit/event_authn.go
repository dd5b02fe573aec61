package audit

import (
	"fmt"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator"
)

// ClientAuthenticationEvent represents a client authentication audit event.
// A failed event carries only the protocol error code, so unknown clients
// and wrong secrets produce the same record.
type ClientAuthenticationEvent struct {
	ClientID  string
	ClientIP  string
	Method    string
	Success   bool
	ErrorCode string
}

// NewClientAuthenticationEvent builds the event for a completed decision.
func NewClientAuthenticationEvent(req authenticator.Request, res authenticator.Result) ClientAuthenticationEvent {
	e := ClientAuthenticationEvent{
		ClientID: req.ClientID,
		ClientIP: req.ClientIP,
		Method:   string(req.Method),
		Success:  res.IsAuthenticated(),
	}
	if !e.Success {
		e.ErrorCode = res.Reason().String()
	}
	return e
}

func (e ClientAuthenticationEvent) MessageID() string {
	return "client-authn"
}

func (e ClientAuthenticationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with %s", e.ClientID, e.Method)
	}
	msg := fmt.Sprintf("%s failed to authenticate with %s", e.ClientID, e.Method)
	if e.ErrorCode != "" {
		msg += ": " + e.ErrorCode
	}
	return msg
}

func (e ClientAuthenticationEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ClientAuthenticationEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ClientAuthenticationEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"method": e.Method,
			"client": e.ClientID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.ErrorCode != "" {
		sd[SDIDAuth]["error"] = e.ErrorCode
	}
	return sd
}
