package audit

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
)

func fixedLogger(buf *bytes.Buffer) *Logger {
	logger := NewLogger()
	logger.SetWriter(buf)
	logger.hostname = "authz-01"
	logger.pid = 4242
	logger.now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }
	return logger
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := fixedLogger(&buf)

	logger.Log(ClientAuthenticationEvent{
		ClientID: "web-client",
		ClientIP: "192.168.1.1",
		Method:   "client_secret_basic",
		Success:  true,
	})

	want := `<86>1 2026-10-15T09:30:00.000Z authz-01 clientauthn 4242 client-authn ` +
		`[auth@32473 client="web-client" method="client_secret_basic"][client@32473 ip="192.168.1.1"] ` +
		"web-client successfully authenticated with client_secret_basic\n"
	if got := buf.String(); got != want {
		t.Errorf("Log() =\n%q\nwant\n%q", got, want)
	}
}

func TestLoggerFormat_NoHostname(t *testing.T) {
	var buf bytes.Buffer
	logger := fixedLogger(&buf)
	logger.hostname = ""

	logger.Log(ClientAuthenticationEvent{ClientID: "web-client", Method: "client_secret_basic"})

	if !strings.Contains(buf.String(), "2026-10-15T09:30:00.000Z - clientauthn") {
		t.Errorf("expected nil hostname, got %q", buf.String())
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := map[string]string{
		`plain`:      `"plain"`,
		`quo"te`:     `"quo\"te"`,
		`back\slash`: `"back\\slash"`,
		`br]acket`:   `"br\]acket"`,
	}
	for in, want := range tests {
		if got := escapeSDValue(in); got != want {
			t.Errorf("escapeSDValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientAuthenticationEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     ClientAuthenticationEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful authentication",
			event: ClientAuthenticationEvent{
				ClientID: "web-client",
				ClientIP: "10.0.0.1",
				Method:   "client_secret_basic",
				Success:  true,
			},
			wantMsg:   "successfully authenticated",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "client-authn",
		},
		{
			name: "failed authentication",
			event: ClientAuthenticationEvent{
				ClientID:  "web-client",
				ClientIP:  "10.0.0.1",
				Method:    "client_secret_post",
				ErrorCode: "invalid_client",
			},
			wantMsg:   "failed to authenticate with client_secret_post: invalid_client",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "client-authn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestNewClientAuthenticationEvent(t *testing.T) {
	req := authenticator.Request{
		Method:       model.MethodClientSecretBasic,
		ClientID:     "web-client",
		ClientSecret: "s3cr3t-value",
		ClientIP:     "10.0.0.1",
	}

	ok := NewClientAuthenticationEvent(req, authenticator.NewAuthenticated(&model.RegisteredClient{ClientID: "web-client"}))
	if !ok.Success || ok.ErrorCode != "" {
		t.Errorf("unexpected success event: %+v", ok)
	}

	failed := NewClientAuthenticationEvent(req, authenticator.NewRejected(authenticator.ErrorKindInvalidClient))
	if failed.Success || failed.ErrorCode != "invalid_client" {
		t.Errorf("unexpected failure event: %+v", failed)
	}
	for _, e := range []ClientAuthenticationEvent{ok, failed} {
		if strings.Contains(e.Message(), req.ClientSecret) || strings.Contains(formatStructuredData(e.StructuredData()), req.ClientSecret) {
			t.Errorf("event leaks the claimed secret: %+v", e)
		}
	}
}

func TestClientAuthenticationEvent_SameRecordForAnyRejection(t *testing.T) {
	rejected := authenticator.NewRejected(authenticator.ErrorKindInvalidClient)
	unknown := NewClientAuthenticationEvent(authenticator.Request{Method: model.MethodClientSecretBasic, ClientID: "web-client", ClientSecret: "secret"}, rejected)
	wrong := NewClientAuthenticationEvent(authenticator.Request{Method: model.MethodClientSecretBasic, ClientID: "web-client", ClientSecret: "secret-invalid"}, rejected)

	if unknown != wrong {
		t.Errorf("events differ: %+v vs %+v", unknown, wrong)
	}
}

func TestSink_Record(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(fixedLogger(&buf), nil)

	req := authenticator.Request{Method: model.MethodClientSecretBasic, ClientID: "web-client", ClientIP: "10.0.0.1"}
	sink.Record(context.Background(), req, authenticator.NewRejected(authenticator.ErrorKindInvalidClient))

	out := buf.String()
	if !strings.HasPrefix(out, "<84>1 ") {
		t.Errorf("expected authpriv.warning priority, got %q", out)
	}
	if !strings.Contains(out, `error="invalid_client"`) {
		t.Errorf("expected error code in structured data, got %q", out)
	}
}

func TestSink_RecordDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	var buf bytes.Buffer
	sink := NewSink(fixedLogger(&buf), nil)
	sink.Record(context.Background(), authenticator.Request{ClientID: "web-client"}, authenticator.NewRejected(authenticator.ErrorKindInvalidClient))

	if buf.Len() != 0 {
		t.Errorf("expected no output when audit is disabled, got %q", buf.String())
	}
}

func TestSetEnabled_Concurrent(t *testing.T) {
	defer SetEnabled(true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(enabled bool) {
			defer wg.Done()
			SetEnabled(enabled)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			_ = IsEnabled()
		}()
	}
	wg.Wait()

	SetEnabled(false)
	if IsEnabled() {
		t.Fatal("expected audit to be disabled")
	}
	SetEnabled(true)
	if !IsEnabled() {
		t.Fatal("expected audit to be enabled")
	}
}
