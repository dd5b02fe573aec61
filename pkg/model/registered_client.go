package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// AuthenticationMethod names the way a client proves its identity to the
// authorization server.
type AuthenticationMethod string

const (
	MethodClientSecretBasic AuthenticationMethod = "client_secret_basic"
	MethodClientSecretPost  AuthenticationMethod = "client_secret_post"
	MethodNone              AuthenticationMethod = "none"
)

// DefaultAuthenticationMethod applies when a request or a client names no method.
const DefaultAuthenticationMethod = MethodClientSecretBasic

// AuthenticationMethods lists every method name the server understands.
var AuthenticationMethods = []AuthenticationMethod{
	MethodClientSecretBasic,
	MethodClientSecretPost,
	MethodNone,
}

// ParseAuthenticationMethod converts a method name into an AuthenticationMethod.
func ParseAuthenticationMethod(s string) (AuthenticationMethod, error) {
	m := AuthenticationMethod(strings.TrimSpace(s))
	if slices.Contains(AuthenticationMethods, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown authentication method %q", s)
}

func (m AuthenticationMethod) String() string {
	return string(m)
}

// RegisteredClient is a client known to the authorization server.
// Values handed out by a directory are read-only; use Clone before changing one.
type RegisteredClient struct {
	ClientID     string
	ClientSecret string
	ClientName   string

	// AuthenticationMethods lists the methods the client may use.
	// Empty means client_secret_basic only.
	AuthenticationMethods []AuthenticationMethod

	ClientIDIssuedAt      time.Time
	ClientSecretExpiresAt *time.Time
}

// PermitsMethod reports whether the client is registered for method.
func (c *RegisteredClient) PermitsMethod(method AuthenticationMethod) bool {
	if len(c.AuthenticationMethods) == 0 {
		return method == DefaultAuthenticationMethod
	}
	return slices.Contains(c.AuthenticationMethods, method)
}

// SecretExpired reports whether the client secret has expired at now.
func (c *RegisteredClient) SecretExpired(now time.Time) bool {
	return c.ClientSecretExpiresAt != nil && !c.ClientSecretExpiresAt.After(now)
}

// Clone returns a deep copy of the client.
func (c *RegisteredClient) Clone() *RegisteredClient {
	out := *c
	out.AuthenticationMethods = slices.Clone(c.AuthenticationMethods)
	if c.ClientSecretExpiresAt != nil {
		t := *c.ClientSecretExpiresAt
		out.ClientSecretExpiresAt = &t
	}
	return &out
}

// RegisteredClientRecord is the database row of a registered client.
// ClientSecret is stored encrypted.
type RegisteredClientRecord struct {
	ClientID              string     `gorm:"column:client_id;primaryKey"`
	ClientSecret          []byte     `gorm:"column:client_secret"`
	ClientName            string     `gorm:"column:client_name"`
	AuthenticationMethods string     `gorm:"column:authentication_methods"`
	ClientIDIssuedAt      time.Time  `gorm:"column:client_id_issued_at"`
	ClientSecretExpiresAt *time.Time `gorm:"column:client_secret_expires_at"`
}

func (RegisteredClientRecord) TableName() string {
	return "oauth2_registered_clients"
}

// JoinMethods renders methods the way the authentication_methods column stores them.
func JoinMethods(methods []AuthenticationMethod) string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}

// SplitMethods parses the authentication_methods column.
func SplitMethods(s string) ([]AuthenticationMethod, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var methods []AuthenticationMethod
	for _, part := range strings.Split(s, ",") {
		m, err := ParseAuthenticationMethod(part)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}
