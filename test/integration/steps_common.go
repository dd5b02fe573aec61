package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/audit"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator/clientsecret"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/oauth2"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc        *TestContext
	registry  *authenticator.Registry
	auditLog  bytes.Buffer
	result    authenticator.Result
	err       error
	lastError error
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^a client directory backed by PostgreSQL$`, s.aClientDirectoryBackedByPostgreSQL)

	// Client registration steps
	sc.Step(`^a registered client "([^"]*)" with secret "([^"]*)"$`, s.aRegisteredClientWithSecret)
	sc.Step(`^a registered client "([^"]*)" with hashed secret "([^"]*)"$`, s.aRegisteredClientWithHashedSecret)
	sc.Step(`^a registered client "([^"]*)" with secret "([^"]*)" that expired (\d+) hours? ago$`, s.aRegisteredClientWithExpiredSecret)
	sc.Step(`^a registered client "([^"]*)" with secret "([^"]*)" permitting only "([^"]*)"$`, s.aRegisteredClientPermittingOnly)
	sc.Step(`^a public client "([^"]*)"$`, s.aPublicClient)

	// Authentication steps
	sc.Step(`^client "([^"]*)" authenticates with secret "([^"]*)"$`, s.clientAuthenticatesWithSecret)
	sc.Step(`^client "([^"]*)" authenticates with secret "([^"]*)" using "([^"]*)"$`, s.clientAuthenticatesUsing)
	sc.Step(`^I create a client secret authenticator without a client directory$`, s.iCreateAnAuthenticatorWithoutADirectory)

	// Outcome steps
	sc.Step(`^the client should be authenticated as "([^"]*)"$`, s.theClientShouldBeAuthenticatedAs)
	sc.Step(`^the authentication should be rejected with "([^"]*)"$`, s.theAuthenticationShouldBeRejectedWith)
	sc.Step(`^the authentication should fail with an unsupported method error$`, s.theAuthenticationShouldFailWithUnsupportedMethod)
	sc.Step(`^construction should fail with a configuration error$`, s.constructionShouldFailWithAConfigurationError)
	sc.Step(`^(\d+) audit events? should be stored for client "([^"]*)"$`, s.auditEventsShouldBeStored)
	sc.Step(`^the audit log should not contain "([^"]*)"$`, s.theAuditLogShouldNotContain)
}

// Background steps

func (s *StepsContext) aClientDirectoryBackedByPostgreSQL() error {
	auth, err := clientsecret.New(s.tc.Directory)
	if err != nil {
		return err
	}

	logger := audit.NewLogger()
	logger.SetWriter(&s.auditLog)
	audit.SetEnabled(true)

	s.registry = authenticator.NewRegistry()
	s.registry.Register(auth)
	if err := s.registry.Enable(auth.Name()); err != nil {
		return err
	}
	s.registry.SetSink(audit.NewSink(logger, audit.NewStoreWithDB(s.tc.RawDB)))
	return nil
}

// Client registration steps

func (s *StepsContext) saveClient(client *model.RegisteredClient) error {
	client.ClientIDIssuedAt = time.Now().UTC()
	return s.tc.Directory.Save(context.Background(), client)
}

func (s *StepsContext) aRegisteredClientWithSecret(clientID, secret string) error {
	return s.saveClient(&model.RegisteredClient{
		ClientID:     clientID,
		ClientSecret: secret,
	})
}

func (s *StepsContext) aRegisteredClientWithHashedSecret(clientID, secret string) error {
	hashed, err := clientsecret.HashSecret(secret)
	if err != nil {
		return err
	}
	return s.saveClient(&model.RegisteredClient{
		ClientID:     clientID,
		ClientSecret: hashed,
	})
}

func (s *StepsContext) aRegisteredClientWithExpiredSecret(clientID, secret string, hours int) error {
	expiredAt := time.Now().Add(-time.Duration(hours) * time.Hour).UTC()
	return s.saveClient(&model.RegisteredClient{
		ClientID:              clientID,
		ClientSecret:          secret,
		ClientSecretExpiresAt: &expiredAt,
	})
}

func (s *StepsContext) aRegisteredClientPermittingOnly(clientID, secret, methodName string) error {
	method, err := model.ParseAuthenticationMethod(methodName)
	if err != nil {
		return err
	}
	return s.saveClient(&model.RegisteredClient{
		ClientID:              clientID,
		ClientSecret:          secret,
		AuthenticationMethods: []model.AuthenticationMethod{method},
	})
}

func (s *StepsContext) aPublicClient(clientID string) error {
	return s.saveClient(&model.RegisteredClient{
		ClientID:              clientID,
		AuthenticationMethods: []model.AuthenticationMethod{model.MethodNone},
	})
}

// Authentication steps

func (s *StepsContext) clientAuthenticatesWithSecret(clientID, secret string) error {
	return s.clientAuthenticatesUsing(clientID, secret, string(model.MethodClientSecretBasic))
}

func (s *StepsContext) clientAuthenticatesUsing(clientID, secret, methodName string) error {
	method, err := model.ParseAuthenticationMethod(methodName)
	if err != nil {
		return err
	}
	s.result, s.err = s.registry.Authenticate(context.Background(), authenticator.Request{
		Method:       method,
		ClientID:     clientID,
		ClientSecret: secret,
		ClientIP:     "127.0.0.1",
	})
	return nil
}

func (s *StepsContext) iCreateAnAuthenticatorWithoutADirectory() error {
	_, s.lastError = clientsecret.New(nil)
	return nil
}

// Outcome steps

func (s *StepsContext) theClientShouldBeAuthenticatedAs(clientID string) error {
	if s.err != nil {
		return fmt.Errorf("unexpected error: %w", s.err)
	}
	if !s.result.IsAuthenticated() {
		return fmt.Errorf("expected client to be authenticated, got %s", s.result.Reason())
	}
	if s.result.Principal() != clientID {
		return fmt.Errorf("expected principal %q, got %q", clientID, s.result.Principal())
	}
	if s.result.Client() == nil || s.result.Client().ClientID != clientID {
		return fmt.Errorf("expected registered client %q to be attached", clientID)
	}
	return nil
}

func (s *StepsContext) theAuthenticationShouldBeRejectedWith(code string) error {
	if s.err != nil {
		return fmt.Errorf("unexpected error: %w", s.err)
	}
	if s.result.IsAuthenticated() {
		return fmt.Errorf("expected rejection, got principal %q", s.result.Principal())
	}
	if s.result.Client() != nil {
		return fmt.Errorf("rejected result carries a client")
	}

	var oauthErr *oauth2.Error
	if !errors.As(s.result.Err(), &oauthErr) {
		return fmt.Errorf("expected an OAuth2 error, got %v", s.result.Err())
	}
	if oauthErr.Code != code {
		return fmt.Errorf("expected error code %q, got %q", code, oauthErr.Code)
	}
	return nil
}

func (s *StepsContext) theAuthenticationShouldFailWithUnsupportedMethod() error {
	if !errors.Is(s.err, authenticator.ErrUnsupportedMethod) {
		return fmt.Errorf("expected unsupported method error, got %v", s.err)
	}
	return nil
}

func (s *StepsContext) constructionShouldFailWithAConfigurationError() error {
	var cfgErr *authenticator.ConfigurationError
	if !errors.As(s.lastError, &cfgErr) {
		return fmt.Errorf("expected a configuration error, got %v", s.lastError)
	}
	return nil
}

func (s *StepsContext) auditEventsShouldBeStored(count int, clientID string) error {
	var stored int
	err := s.tc.RawDB.QueryRow(`
		SELECT count(*) FROM messages
		WHERE msgid = 'client-authn' AND sdata->$1->>'client' = $2
	`, audit.SDIDAuth, clientID).Scan(&stored)
	if err != nil {
		return err
	}
	if stored != count {
		return fmt.Errorf("expected %d audit event(s) for %q, got %d", count, clientID, stored)
	}
	return nil
}

func (s *StepsContext) theAuditLogShouldNotContain(text string) error {
	if strings.Contains(s.auditLog.String(), text) {
		return fmt.Errorf("audit log contains %q", text)
	}
	return nil
}
