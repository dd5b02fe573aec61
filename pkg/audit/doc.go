// Package audit records client authentication decisions.
//
// Events are written in RFC5424 syslog format and, when AUDIT_DATABASE_URL
// is set, persisted to the messages table.
//
// # Usage
//
//	registry.SetSink(audit.NewSink(audit.DefaultLogger, store))
//
// Failed attempts are recorded with the invalid_client code only, so the
// audit trail does not tell an unknown client from a wrong secret either.
package audit
